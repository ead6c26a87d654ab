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

// This file collects the cross-kind arithmetic table of spec.md §4.2.
// Each function here implements exactly one row of that table; the
// evaluator (package eval) dispatches to these from its generic
// arithmetic closure rather than duplicating the rules.

// AddDateDaysTime: Date + DaysTime -> Date.
func AddDateDaysTime(d Date, dur DaysTime) Date {
	return d.AddDays(dur.Nanos / nanosPerDay)
}

// AddDateYearsMonths: Date + YearsMonths -> Date (clamped).
func AddDateYearsMonths(d Date, dur YearsMonths) Date {
	return d.AddMonths(dur.Months)
}

// SubDateDate: Date - Date -> DaysTime.
func SubDateDate(a, b Date) DaysTime {
	return DaysTime{Nanos: a.SubDate(b) * nanosPerDay}
}

// SubDateDateTime: Date - DateTime -> DaysTime (date treated as midnight).
func SubDateDateTime(a Date, b DateTime) DaysTime {
	return DateTime{Date: a}.Sub(b)
}

// AddDateTimeDaysTime: DateTime + DaysTime -> DateTime.
func AddDateTimeDaysTime(dt DateTime, dur DaysTime) DateTime {
	return dt.AddDuration(dur)
}

// AddDateTimeYearsMonths: DateTime + YearsMonths -> DateTime.
func AddDateTimeYearsMonths(dt DateTime, dur YearsMonths) DateTime {
	return dt.AddMonths(dur.Months)
}

// SubDateTimeDateTime: DateTime - DateTime -> DaysTime.
func SubDateTimeDateTime(a, b DateTime) DaysTime {
	return a.Sub(b)
}

// AddTimeDaysTime: Time + DaysTime -> Time (wraps within the day).
func AddTimeDaysTime(t Time, dur DaysTime) Time {
	nt, _ := t.AddDuration(dur)
	return nt
}

// SubTimeTime: Time - Time -> DaysTime.
func SubTimeTime(a, b Time) DaysTime {
	return a.Sub(b)
}

// MulDaysTimeNumber: DaysTime * n -> DaysTime.
func MulDaysTimeNumber(d DaysTime, n float64) DaysTime {
	return DaysTime{Nanos: int64(float64(d.Nanos) * n)}
}

// MulYearsMonthsNumber: YearsMonths * n -> YearsMonths.
func MulYearsMonthsNumber(y YearsMonths, n float64) YearsMonths {
	return YearsMonths{Months: int64(float64(y.Months) * n)}
}

// DivDaysTimeNumber: DaysTime / n -> DaysTime. ok is false for n == 0.
func DivDaysTimeNumber(d DaysTime, n float64) (DaysTime, bool) {
	if n == 0 {
		return DaysTime{}, false
	}
	return DaysTime{Nanos: int64(float64(d.Nanos) / n)}, true
}

// DivYearsMonthsNumber: YearsMonths / n -> YearsMonths. ok is false for n == 0.
func DivYearsMonthsNumber(y YearsMonths, n float64) (YearsMonths, bool) {
	if n == 0 {
		return YearsMonths{}, false
	}
	return YearsMonths{Months: int64(float64(y.Months) / n)}, true
}
