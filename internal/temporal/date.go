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

// Package temporal implements FEEL's four temporal kinds (spec.md §3,
// §4.2): Date, Time, DateTime, YearsMonths duration and DaysTime
// duration. Dates are represented as plain proleptic-Gregorian
// (year, month, day) triples rather than time.Time, because FEEL's year
// range (at least -999999999..999999999) and exact calendar arithmetic
// (month clamping) don't map cleanly onto time.Time's Duration-based
// Add. Day counts, weekdays and day arithmetic use a day-ordinal
// conversion written here (see toOrdinal); the package does not use
// time.Time at all.
package temporal

import "fmt"

// Date is a calendar date with an optionally negative year.
type Date struct {
	Year  int64
	Month int // 1..12
	Day   int // 1..daysIn(Month, Year)
}

func isLeap(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysInMonthTable = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month of year.
func DaysInMonth(year int64, month int) int {
	if month == 2 && isLeap(year) {
		return 29
	}
	return daysInMonthTable[month-1]
}

// NewDate validates and constructs a Date; ok is false if month/day are
// out of range.
func NewDate(year int64, month, day int) (Date, bool) {
	if month < 1 || month > 12 {
		return Date{}, false
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// toOrdinal converts a Date to a day count relative to an arbitrary fixed
// epoch (proleptic Gregorian), usable for differencing and weekday
// calculation regardless of how far the year is from 1970.
func (d Date) toOrdinal() int64 {
	// Rata Die algorithm (Howard Hinnant's days_from_civil), which is
	// exact and well-defined for the full int64 year range.
	y := d.Year
	m := int64(d.Month)
	dd := int64(d.Day)
	if m <= 2 {
		y--
	}
	era := y
	if y < 0 {
		era = y - 399
	}
	era /= 400
	yoe := y - era*400
	var mp int64
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + dd - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func fromOrdinal(z int64) Date {
	z += 719468
	era := z
	if z < 0 {
		era = z - 146096
	}
	era /= 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return Date{Year: y, Month: int(m), Day: int(d)}
}

// Weekday returns 1=Monday..7=Sunday.
func (d Date) Weekday() int {
	z := d.toOrdinal()
	// 1970-01-01 (z=0) was a Thursday (4).
	wd := (z%7 + 7 + 3) % 7 // 0=Monday
	return int(wd) + 1
}

// AddDays returns d + n days.
func (d Date) AddDays(n int64) Date {
	return fromOrdinal(d.toOrdinal() + n)
}

// SubDate returns the number of days from o to d (d - o).
func (d Date) SubDate(o Date) int64 {
	return d.toOrdinal() - o.toOrdinal()
}

// AddMonths adds whole months, clamping the resulting day to the target
// month's length (spec.md §3 "adding a month-granular duration to a date
// clamps day within target month").
func (d Date) AddMonths(n int64) Date {
	total := int64(d.Month-1) + n
	y := d.Year + total/12
	m := total % 12
	if m < 0 {
		m += 12
		y--
	}
	month := int(m) + 1
	day := d.Day
	if max := DaysInMonth(y, month); day > max {
		day = max
	}
	return Date{Year: y, Month: month, Day: day}
}

// Equal reports structural (and therefore timezone-irrelevant) equality.
func (d Date) Equal(o Date) bool { return d == o }

// Compare returns -1, 0, 1.
func (d Date) Compare(o Date) int {
	switch {
	case d.toOrdinal() < o.toOrdinal():
		return -1
	case d.toOrdinal() > o.toOrdinal():
		return 1
	default:
		return 0
	}
}

// String renders YYYY-MM-DD, expanding the year to at least 4 digits and
// prefixing a sign for years outside 0..9999, matching xsd:date textual
// conventions.
func (d Date) String() string {
	if d.Year >= 0 && d.Year <= 9999 {
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%+05d-%02d-%02d", d.Year, d.Month, d.Day)
}
