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

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var dateRe = regexp.MustCompile(`^(-?\d{4,10})-(\d{2})-(\d{2})$`)
var timeRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(\.\d+)?(Z|[+-]\d{2}:\d{2})?(@[A-Za-z_/]+)?$`)
var dateTimeRe = regexp.MustCompile(`^(-?\d{4,10})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(\.\d+)?(Z|[+-]\d{2}:\d{2})?(@[A-Za-z_/]+)?$`)
var durationRe = regexp.MustCompile(`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseDate parses an xsd:date-restricted string "[-]YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Date{}, fmt.Errorf("temporal: invalid date %q", s)
	}
	year, _ := strconv.ParseInt(m[1], 10, 64)
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	d, ok := NewDate(year, month, day)
	if !ok {
		return Date{}, fmt.Errorf("temporal: invalid date %q", s)
	}
	return d, nil
}

// ParseTime parses an xsd:time-restricted string, with an optional
// fractional second and an optional offset ("Z"/"+hh:mm") or named zone
// ("@Europe/Paris"), but never both.
func ParseTime(s string) (Time, error) {
	m := timeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Time{}, fmt.Errorf("temporal: invalid time %q", s)
	}
	return buildTime(m[1], m[2], m[3], m[4], m[5], m[6])
}

func buildTime(hh, mm, ss, frac, offset, zone string) (Time, error) {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	sec, _ := strconv.Atoi(ss)
	nanos := 0
	if frac != "" {
		f := frac[1:]
		for len(f) < 9 {
			f += "0"
		}
		n, _ := strconv.Atoi(f[:9])
		nanos = n
	}
	t, ok := NewTime(h, m, sec, nanos)
	if !ok {
		return Time{}, fmt.Errorf("temporal: time out of range %02d:%02d:%02d", h, m, sec)
	}
	if zone != "" {
		t.Zone = strings.TrimPrefix(zone, "@")
	} else if offset != "" {
		t.HasOffset = true
		t.OffsetSecs = parseOffset(offset)
	}
	return t, nil
}

func parseOffset(s string) int {
	if s == "Z" {
		return 0
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	h, _ := strconv.Atoi(s[1:3])
	m, _ := strconv.Atoi(s[4:6])
	return sign * (h*3600 + m*60)
}

// ParseDateTime parses an xsd:dateTime-restricted string.
func ParseDateTime(s string) (DateTime, error) {
	m := dateTimeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DateTime{}, fmt.Errorf("temporal: invalid date-and-time %q", s)
	}
	year, _ := strconv.ParseInt(m[1], 10, 64)
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	d, ok := NewDate(year, month, day)
	if !ok {
		return DateTime{}, fmt.Errorf("temporal: invalid date-and-time %q", s)
	}
	t, err := buildTime(m[4], m[5], m[6], m[7], m[8], m[9])
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Date: d, Time: t}, nil
}

// ParseDuration parses an xsd:duration string into either a YearsMonths
// or a DaysTime, mutually exclusive per spec.md §3 (a duration literal
// names one semantic kind). isYearsMonths reports which union member is
// populated.
func ParseDuration(s string) (ym YearsMonths, dt DaysTime, isYearsMonths bool, err error) {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return YearsMonths{}, DaysTime{}, false, fmt.Errorf("temporal: invalid duration %q", s)
	}
	neg := m[1] == "-"
	years, months, days := m[2], m[3], m[4]
	hours, mins, secs := m[5], m[6], m[7]

	hasYM := years != "" || months != ""
	hasDT := days != "" || hours != "" || mins != "" || secs != ""
	if hasYM && hasDT {
		return YearsMonths{}, DaysTime{}, false, fmt.Errorf("temporal: mixed years-months/days-time duration %q not representable as a single FEEL duration", s)
	}
	if !hasYM && !hasDT {
		return YearsMonths{}, DaysTime{}, false, fmt.Errorf("temporal: empty duration %q", s)
	}

	if hasYM {
		y, _ := strconv.ParseInt(orZero(years), 10, 64)
		mo, _ := strconv.ParseInt(orZero(months), 10, 64)
		total := y*12 + mo
		if neg {
			total = -total
		}
		return YearsMonths{Months: total}, DaysTime{}, true, nil
	}

	d, _ := strconv.ParseInt(orZero(days), 10, 64)
	h, _ := strconv.ParseInt(orZero(hours), 10, 64)
	mi, _ := strconv.ParseInt(orZero(mins), 10, 64)
	var secNanos int64
	if secs != "" {
		parts := strings.SplitN(secs, ".", 2)
		s, _ := strconv.ParseInt(parts[0], 10, 64)
		secNanos = s * nanosPerSecond
		if len(parts) == 2 {
			f := parts[1]
			for len(f) < 9 {
				f += "0"
			}
			n, _ := strconv.ParseInt(f[:9], 10, 64)
			secNanos += n
		}
	}
	total := d*nanosPerDay + h*nanosPerHour + mi*nanosPerMinute + secNanos
	if neg {
		total = -total
	}
	return YearsMonths{}, DaysTime{Nanos: total}, false, nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
