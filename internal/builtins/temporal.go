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

package builtins

import (
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/temporal"
	"github.com/dmntk-go/dmntk/internal/value"
)

func init() {
	register("date", []string{"from"}, biDate)
	register("time", []string{"from"}, biTime)
	register("date and time", []string{"date", "time"}, biDateAndTime)
	register("duration", []string{"from"}, biDuration)
	register("years and months duration", []string{"from", "to"}, biYearsMonthsDuration)
	register("day of week", []string{"date"}, biDayOfWeek)
	register("month of year", []string{"date"}, biMonthOfYear)
	register("week of year", []string{"date"}, biWeekOfYear)
	register("day of year", []string{"date"}, biDayOfYear)
}

func dateOf(v value.Value) (temporal.Date, bool) {
	switch x := v.(type) {
	case value.DateVal:
		return x.D, true
	case value.DateTimeVal:
		return x.DT.Date, true
	}
	return temporal.Date{}, false
}

// biDate implements the three date() overloads (spec.md §4.4): a single
// string argument parses an xsd:date text, a single date/date-time
// argument extracts its date component, and three numeric arguments
// construct year/month/day directly.
func biDate(args []value.Value) value.Value {
	switch len(args) {
	case 1:
		switch x := arg(args, 0).(type) {
		case value.Str:
			d, err := temporal.ParseDate(string(x))
			if err != nil {
				return value.NullTrace("date: %v", err)
			}
			return value.DateVal{D: d}
		case value.DateVal:
			return x
		case value.DateTimeVal:
			return value.DateVal{D: x.DT.Date}
		}
		return value.NullTrace("date: unsupported argument")
	case 3:
		y, ok1 := asNum(arg(args, 0))
		m, ok2 := asNum(arg(args, 1))
		d, ok3 := asNum(arg(args, 2))
		if !ok1 || !ok2 || !ok3 {
			return value.NullTrace("date: expected three numbers")
		}
		yi, _ := y.N.Int64()
		mi, _ := m.N.Int64()
		di, _ := d.N.Int64()
		dt, ok := temporal.NewDate(yi, int(mi), int(di))
		if !ok {
			return value.NullTrace("date: invalid year/month/day")
		}
		return value.DateVal{D: dt}
	}
	return value.NullTrace("date: expected 1 or 3 arguments")
}

func biTime(args []value.Value) value.Value {
	switch len(args) {
	case 1:
		switch x := arg(args, 0).(type) {
		case value.Str:
			t, err := temporal.ParseTime(string(x))
			if err != nil {
				return value.NullTrace("time: %v", err)
			}
			return value.TimeVal{T: t}
		case value.TimeVal:
			return x
		case value.DateTimeVal:
			return value.TimeVal{T: x.DT.Time}
		}
		return value.NullTrace("time: unsupported argument")
	case 3, 4:
		h, ok1 := asNum(arg(args, 0))
		m, ok2 := asNum(arg(args, 1))
		s, ok3 := asNum(arg(args, 2))
		if !ok1 || !ok2 || !ok3 {
			return value.NullTrace("time: expected numeric hour/minute/second")
		}
		hi, _ := h.N.Int64()
		mi, _ := m.N.Int64()
		st, _ := number.Truncate(s.N)
		si, _ := st.Int64()
		t, ok := temporal.NewTime(int(hi), int(mi), int(si), 0)
		if !ok {
			return value.NullTrace("time: invalid hour/minute/second")
		}
		return value.TimeVal{T: t}
	}
	return value.NullTrace("time: unsupported argument count")
}

func biDateAndTime(args []value.Value) value.Value {
	if len(args) == 1 {
		if s, ok := asStr(arg(args, 0)); ok {
			dt, err := temporal.ParseDateTime(string(s))
			if err != nil {
				return value.NullTrace("date and time: %v", err)
			}
			return value.DateTimeVal{DT: dt}
		}
		return value.NullTrace("date and time: unsupported single argument")
	}
	d, ok1 := dateOf(arg(args, 0))
	tv, ok2 := arg(args, 1).(value.TimeVal)
	if !ok1 || !ok2 {
		return value.NullTrace("date and time: expected a date and a time")
	}
	return value.DateTimeVal{DT: temporal.DateTime{Date: d, Time: tv.T}}
}

func biDuration(args []value.Value) value.Value {
	s, ok := asStr(arg(args, 0))
	if !ok {
		return value.NullTrace("duration: expected a string")
	}
	ym, dt, isYM, err := temporal.ParseDuration(string(s))
	if err != nil {
		return value.NullTrace("duration: %v", err)
	}
	if isYM {
		return value.YearsMonthsVal{Y: ym}
	}
	return value.DaysTimeVal{D: dt}
}

func biYearsMonthsDuration(args []value.Value) value.Value {
	from, ok1 := dateOf(arg(args, 0))
	to, ok2 := dateOf(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("years and months duration: expected two dates")
	}
	totalMonths := (to.Year-from.Year)*12 + int64(to.Month-from.Month)
	if to.Day < from.Day && totalMonths > 0 {
		totalMonths--
	} else if to.Day > from.Day && totalMonths < 0 {
		totalMonths++
	}
	return value.YearsMonthsVal{Y: temporal.YearsMonths{Months: totalMonths}}
}

func biDayOfWeek(args []value.Value) value.Value {
	d, ok := dateOf(arg(args, 0))
	if !ok {
		return value.NullTrace("day of week: expected a date")
	}
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	return value.Str(names[d.Weekday()-1])
}

func biMonthOfYear(args []value.Value) value.Value {
	d, ok := dateOf(arg(args, 0))
	if !ok {
		return value.NullTrace("month of year: expected a date")
	}
	names := [...]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	return value.Str(names[d.Month-1])
}

func biWeekOfYear(args []value.Value) value.Value {
	d, ok := dateOf(arg(args, 0))
	if !ok {
		return value.NullTrace("week of year: expected a date")
	}
	jan1, _ := temporal.NewDate(d.Year, 1, 1)
	days := d.SubDate(jan1)
	week := days/7 + 1
	return value.NewNum(number.FromInt64(week))
}

func biDayOfYear(args []value.Value) value.Value {
	d, ok := dateOf(arg(args, 0))
	if !ok {
		return value.NullTrace("day of year: expected a date")
	}
	jan1, _ := temporal.NewDate(d.Year, 1, 1)
	return value.NewNum(number.FromInt64(d.SubDate(jan1) + 1))
}
