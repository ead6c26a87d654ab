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

// YearsMonths is a duration of whole months (spec.md §3: "integer
// months").
type YearsMonths struct {
	Months int64
}

func (y YearsMonths) Years() int64  { return y.Months / 12 }
func (y YearsMonths) MonthsOnly() int64 { return y.Months % 12 }

func (y YearsMonths) Add(o YearsMonths) YearsMonths { return YearsMonths{Months: y.Months + o.Months} }
func (y YearsMonths) Sub(o YearsMonths) YearsMonths { return YearsMonths{Months: y.Months - o.Months} }
func (y YearsMonths) Neg() YearsMonths              { return YearsMonths{Months: -y.Months} }
func (y YearsMonths) MulInt(n int64) YearsMonths    { return YearsMonths{Months: y.Months * n} }

// DivYearsMonths divides two YearsMonths durations, returning a plain
// ratio. ok is false on division by zero.
func DivYearsMonths(a, b YearsMonths) (float64, bool) {
	if b.Months == 0 {
		return 0, false
	}
	return float64(a.Months) / float64(b.Months), true
}

func (y YearsMonths) String() string {
	if y.Months == 0 {
		return "P0M"
	}
	sign := ""
	m := y.Months
	if m < 0 {
		sign = "-"
		m = -m
	}
	years, months := m/12, m%12
	s := sign + "P"
	if years != 0 {
		s += fmt.Sprintf("%dY", years)
	}
	if months != 0 || years == 0 {
		s += fmt.Sprintf("%dM", months)
	}
	return s
}

// DaysTime is a duration measured in nanoseconds (spec.md §3).
type DaysTime struct {
	Nanos int64
}

func (d DaysTime) Days() int64    { return d.Nanos / nanosPerDay }
func (d DaysTime) Hours() int64   { return (d.Nanos % nanosPerDay) / nanosPerHour }
func (d DaysTime) Minutes() int64 { return (d.Nanos % nanosPerHour) / nanosPerMinute }
func (d DaysTime) Seconds() int64 { return (d.Nanos % nanosPerMinute) / nanosPerSecond }

func (d DaysTime) Add(o DaysTime) DaysTime { return DaysTime{Nanos: d.Nanos + o.Nanos} }
func (d DaysTime) Sub(o DaysTime) DaysTime { return DaysTime{Nanos: d.Nanos - o.Nanos} }
func (d DaysTime) Neg() DaysTime           { return DaysTime{Nanos: -d.Nanos} }

// DivDaysTime divides two DaysTime durations, returning a plain ratio.
// ok is false on division by zero.
func DivDaysTime(a, b DaysTime) (float64, bool) {
	if b.Nanos == 0 {
		return 0, false
	}
	return float64(a.Nanos) / float64(b.Nanos), true
}

func (d DaysTime) Compare(o DaysTime) int {
	switch {
	case d.Nanos < o.Nanos:
		return -1
	case d.Nanos > o.Nanos:
		return 1
	default:
		return 0
	}
}

func (d DaysTime) String() string {
	if d.Nanos == 0 {
		return "PT0S"
	}
	sign := ""
	n := d.Nanos
	if n < 0 {
		sign = "-"
		n = -n
	}
	days := n / nanosPerDay
	n -= days * nanosPerDay
	hours := n / nanosPerHour
	n -= hours * nanosPerHour
	mins := n / nanosPerMinute
	n -= mins * nanosPerMinute
	secs := n / nanosPerSecond
	n -= secs * nanosPerSecond

	s := sign + "P"
	if days != 0 {
		s += fmt.Sprintf("%dD", days)
	}
	needTime := hours != 0 || mins != 0 || secs != 0 || n != 0 || days == 0
	if needTime {
		s += "T"
		if hours != 0 {
			s += fmt.Sprintf("%dH", hours)
		}
		if mins != 0 {
			s += fmt.Sprintf("%dM", mins)
		}
		if secs != 0 || n != 0 || (days == 0 && hours == 0 && mins == 0) {
			if n != 0 {
				secStr := fmt.Sprintf("%d", secs) + trimFrac(int(n))
				s += secStr + "S"
			} else {
				s += fmt.Sprintf("%dS", secs)
			}
		}
	}
	return s
}
