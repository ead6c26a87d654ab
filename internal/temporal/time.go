// Copyright 2024 The dmntk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package temporal

import "fmt"

const nanosPerSecond = 1_000_000_000
const nanosPerMinute = 60 * nanosPerSecond
const nanosPerHour = 60 * nanosPerMinute
const nanosPerDay = 24 * nanosPerHour

// Time is h:m:s.frac, with at most one of a numeric UTC offset or a
// named IANA zone set (spec.md §3 "optional offset or named zone").
type Time struct {
	Hour, Minute, Second int
	Nanosecond           int

	HasOffset  bool
	OffsetSecs int // seconds east of UTC

	Zone string // IANA zone name, e.g. "Europe/Paris"; mutually exclusive with HasOffset
}

// NewTime validates and constructs a Time.
func NewTime(hour, minute, second, nanosecond int) (Time, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 || nanosecond < 0 || nanosecond >= nanosPerSecond {
		return Time{}, false
	}
	return Time{Hour: hour, Minute: minute, Second: second, Nanosecond: nanosecond}, true
}

func (t Time) nanosOfDay() int64 {
	return int64(t.Hour)*nanosPerHour + int64(t.Minute)*nanosPerMinute + int64(t.Second)*nanosPerSecond + int64(t.Nanosecond)
}

func fromNanosOfDay(n int64) Time {
	n = ((n % nanosPerDay) + nanosPerDay) % nanosPerDay
	h := n / nanosPerHour
	n -= h * nanosPerHour
	m := n / nanosPerMinute
	n -= m * nanosPerMinute
	s := n / nanosPerSecond
	n -= s * nanosPerSecond
	return Time{Hour: int(h), Minute: int(m), Second: int(s), Nanosecond: int(n)}
}

// AddDuration adds a DaysTime duration, wrapping the time-of-day and
// returning the day carry (which callers combining with a Date must
// apply). It does not modify offset/zone.
func (t Time) AddDuration(dur DaysTime) (Time, int64) {
	total := t.nanosOfDay() + dur.Nanos
	dayCarry := total / nanosPerDay
	if total < 0 && total%nanosPerDay != 0 {
		dayCarry--
	}
	nt := fromNanosOfDay(total)
	nt.HasOffset, nt.OffsetSecs, nt.Zone = t.HasOffset, t.OffsetSecs, t.Zone
	return nt, dayCarry
}

// Sub returns t - o as a DaysTime, ignoring calendar date (pure
// time-of-day difference); each side's offset (zero when none is set) is
// subtracted first, normalizing both to UTC nanos.
func (t Time) Sub(o Time) DaysTime {
	a := t.nanosOfDay() - int64(t.OffsetSecs)*nanosPerSecond
	b := o.nanosOfDay() - int64(o.OffsetSecs)*nanosPerSecond
	return DaysTime{Nanos: a - b}
}

// Equal is structural and timezone-aware: differing offsets are not
// normalized away (spec.md §3 "equality is structural and
// timezone-aware").
func (t Time) Equal(o Time) bool { return t == o }

func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		s += trimFrac(t.Nanosecond)
	}
	if t.Zone != "" {
		s += "@" + t.Zone
	} else if t.HasOffset {
		s += formatOffset(t.OffsetSecs)
	}
	return s
}

func trimFrac(nanos int) string {
	s := fmt.Sprintf(".%09d", nanos)
	for len(s) > 2 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}

func formatOffset(secs int) string {
	if secs == 0 {
		return "Z"
	}
	sign := "+"
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("%s%02d:%02d", sign, secs/3600, (secs%3600)/60)
}

// DateTime is the pairing of a Date and a Time.
type DateTime struct {
	Date Date
	Time Time
}

func (dt DateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

// AddDays shifts the date component only.
func (dt DateTime) AddDays(n int64) DateTime {
	return DateTime{Date: dt.Date.AddDays(n), Time: dt.Time}
}

// AddMonths shifts the date component only, clamping per Date.AddMonths.
func (dt DateTime) AddMonths(n int64) DateTime {
	return DateTime{Date: dt.Date.AddMonths(n), Time: dt.Time}
}

// AddDuration adds a DaysTime duration, carrying day overflow into Date.
func (dt DateTime) AddDuration(dur DaysTime) DateTime {
	nt, carry := dt.Time.AddDuration(dur)
	return DateTime{Date: dt.Date.AddDays(carry), Time: nt}
}

// Sub returns dt - o as a DaysTime duration spanning both date and time.
func (dt DateTime) Sub(o DateTime) DaysTime {
	days := dt.Date.SubDate(o.Date)
	return DaysTime{Nanos: days*nanosPerDay + dt.Time.Sub(o.Time).Nanos}
}

func (dt DateTime) Equal(o DateTime) bool { return dt == o }

func (dt DateTime) Compare(o DateTime) int {
	d := dt.Sub(o)
	switch {
	case d.Nanos < 0:
		return -1
	case d.Nanos > 0:
		return 1
	default:
		return 0
	}
}
