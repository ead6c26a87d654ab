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

package eval

import (
	"github.com/dmntk-go/dmntk/internal/ast"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/temporal"
	"github.com/dmntk-go/dmntk/internal/value"
)

// compileArith handles the five arithmetic operators, dispatched on the
// dynamic type of the left operand then the right (spec.md §4.3
// "Arithmetic is dispatched on the dynamic type of the left operand,
// then the right"). Every row of the cross-kind table is a case here or
// in package temporal's arith.go; anything not listed yields Null.
func compileArith(env *Env, x *ast.BinaryArith) (value.Closure, error) {
	left, err := Compile(env, x.Left)
	if err != nil {
		return nil, err
	}
	right, err := Compile(env, x.Right)
	if err != nil {
		return nil, err
	}
	op := x.Op
	return func(s *value.Scope) value.Value {
		return arith(op, left(s), right(s))
	}, nil
}

func arith(op ast.ArithOp, l, r value.Value) value.Value {
	if _, ok := l.(value.Null); ok {
		return value.NullTrace("arithmetic on null")
	}
	if _, ok := r.(value.Null); ok {
		return value.NullTrace("arithmetic on null")
	}
	switch a := l.(type) {
	case value.Num:
		return arithNum(op, a, r)
	case value.DateVal:
		return arithDate(op, a, r)
	case value.TimeVal:
		return arithTime(op, a, r)
	case value.DateTimeVal:
		return arithDateTime(op, a, r)
	case value.YearsMonthsVal:
		return arithYearsMonths(op, a, r)
	case value.DaysTimeVal:
		return arithDaysTime(op, a, r)
	case value.Str:
		if op == ast.Add {
			if b, ok := r.(value.Str); ok {
				return value.Str(string(a) + string(b))
			}
		}
	}
	return value.NullTrace("arithmetic not defined for %s %s %s", l.Kind(), arithOpString(op), r.Kind())
}

func arithOpString(op ast.ArithOp) string {
	switch op {
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mul:
		return "*"
	case ast.Div:
		return "/"
	case ast.Exp:
		return "**"
	}
	return "?"
}

func arithNum(op ast.ArithOp, a value.Num, r value.Value) value.Value {
	b, ok := r.(value.Num)
	if !ok {
		return value.NullTrace("number op requires number, got %s", r.Kind())
	}
	var (
		res value.Value
		n   number.Number
		o   bool
	)
	switch op {
	case ast.Add:
		n, o = number.Add(a.N, b.N)
	case ast.Sub:
		n, o = number.Sub(a.N, b.N)
	case ast.Mul:
		n, o = number.Mul(a.N, b.N)
	case ast.Div:
		n, o = number.Div(a.N, b.N)
	case ast.Exp:
		n, o = number.Pow(a.N, b.N)
	}
	if !o {
		return value.NullTrace("arithmetic result not representable")
	}
	res = value.NewNum(n)
	return res
}

func arithDate(op ast.ArithOp, a value.DateVal, r value.Value) value.Value {
	switch op {
	case ast.Add:
		switch b := r.(type) {
		case value.DaysTimeVal:
			return value.DateVal{D: temporal.AddDateDaysTime(a.D, b.D)}
		case value.YearsMonthsVal:
			return value.DateVal{D: temporal.AddDateYearsMonths(a.D, b.Y)}
		}
	case ast.Sub:
		switch b := r.(type) {
		case value.DateVal:
			return value.DaysTimeVal{D: temporal.SubDateDate(a.D, b.D)}
		case value.DateTimeVal:
			return value.DaysTimeVal{D: temporal.SubDateDateTime(a.D, b.DT)}
		case value.DaysTimeVal:
			return value.DateVal{D: temporal.AddDateDaysTime(a.D, temporal.DaysTime{Nanos: -b.D.Nanos})}
		case value.YearsMonthsVal:
			return value.DateVal{D: temporal.AddDateYearsMonths(a.D, temporal.YearsMonths{Months: -b.Y.Months})}
		}
	}
	return value.NullTrace("arithmetic not defined for date %s %s", arithOpString(op), r.Kind())
}

func arithTime(op ast.ArithOp, a value.TimeVal, r value.Value) value.Value {
	switch op {
	case ast.Add:
		if b, ok := r.(value.DaysTimeVal); ok {
			return value.TimeVal{T: temporal.AddTimeDaysTime(a.T, b.D)}
		}
	case ast.Sub:
		switch b := r.(type) {
		case value.TimeVal:
			return value.DaysTimeVal{D: temporal.SubTimeTime(a.T, b.T)}
		case value.DaysTimeVal:
			return value.TimeVal{T: temporal.AddTimeDaysTime(a.T, temporal.DaysTime{Nanos: -b.D.Nanos})}
		}
	}
	return value.NullTrace("arithmetic not defined for time %s %s", arithOpString(op), r.Kind())
}

func arithDateTime(op ast.ArithOp, a value.DateTimeVal, r value.Value) value.Value {
	switch op {
	case ast.Add:
		switch b := r.(type) {
		case value.DaysTimeVal:
			return value.DateTimeVal{DT: temporal.AddDateTimeDaysTime(a.DT, b.D)}
		case value.YearsMonthsVal:
			return value.DateTimeVal{DT: temporal.AddDateTimeYearsMonths(a.DT, b.Y)}
		}
	case ast.Sub:
		switch b := r.(type) {
		case value.DateTimeVal:
			return value.DaysTimeVal{D: temporal.SubDateTimeDateTime(a.DT, b.DT)}
		case value.DaysTimeVal:
			return value.DateTimeVal{DT: temporal.AddDateTimeDaysTime(a.DT, temporal.DaysTime{Nanos: -b.D.Nanos})}
		case value.YearsMonthsVal:
			return value.DateTimeVal{DT: temporal.AddDateTimeYearsMonths(a.DT, temporal.YearsMonths{Months: -b.Y.Months})}
		}
	}
	return value.NullTrace("arithmetic not defined for date and time %s %s", arithOpString(op), r.Kind())
}

func arithYearsMonths(op ast.ArithOp, a value.YearsMonthsVal, r value.Value) value.Value {
	switch op {
	case ast.Add:
		if b, ok := r.(value.YearsMonthsVal); ok {
			return value.YearsMonthsVal{Y: a.Y.Add(b.Y)}
		}
	case ast.Sub:
		if b, ok := r.(value.YearsMonthsVal); ok {
			return value.YearsMonthsVal{Y: a.Y.Sub(b.Y)}
		}
	case ast.Mul:
		if b, ok := r.(value.Num); ok {
			i, ok := b.N.Int64()
			if !ok {
				return value.NullTrace("duration scaling requires an integral number")
			}
			return value.YearsMonthsVal{Y: a.Y.MulInt(i)}
		}
	case ast.Div:
		if b, ok := r.(value.YearsMonthsVal); ok {
			n, ok := durationRatio(a.Y.Months, b.Y.Months)
			if !ok {
				return value.NullTrace("division by zero")
			}
			return value.NewNum(n)
		}
		if b, ok := r.(value.Num); ok {
			i, ok := b.N.Int64()
			if !ok || i == 0 {
				return value.NullTrace("duration scaling requires a nonzero integral number")
			}
			y, ok := temporal.DivYearsMonthsNumber(a.Y, float64(i))
			if !ok {
				return value.NullTrace("division by zero")
			}
			return value.YearsMonthsVal{Y: y}
		}
	}
	return value.NullTrace("arithmetic not defined for years and months duration %s %s", arithOpString(op), r.Kind())
}

func arithDaysTime(op ast.ArithOp, a value.DaysTimeVal, r value.Value) value.Value {
	switch op {
	case ast.Add:
		if b, ok := r.(value.DaysTimeVal); ok {
			return value.DaysTimeVal{D: a.D.Add(b.D)}
		}
	case ast.Sub:
		if b, ok := r.(value.DaysTimeVal); ok {
			return value.DaysTimeVal{D: a.D.Sub(b.D)}
		}
	case ast.Mul:
		if b, ok := r.(value.Num); ok {
			return value.DaysTimeVal{D: temporal.MulDaysTimeNumber(a.D, b.N.Float64())}
		}
	case ast.Div:
		if b, ok := r.(value.DaysTimeVal); ok {
			n, ok := durationRatio(a.D.Nanos, b.D.Nanos)
			if !ok {
				return value.NullTrace("division by zero")
			}
			return value.NewNum(n)
		}
		if b, ok := r.(value.Num); ok {
			d, ok := temporal.DivDaysTimeNumber(a.D, b.N.Float64())
			if !ok {
				return value.NullTrace("division by zero")
			}
			return value.DaysTimeVal{D: d}
		}
	}
	return value.NullTrace("arithmetic not defined for days and time duration %s %s", arithOpString(op), r.Kind())
}

// durationRatio computes a/b as a Number via exact integer-nanosecond (or
// integer-month) decimal division, rather than routing through float64,
// so a duration-over-duration division keeps FEEL's full 34-digit
// precision (spec.md §4.1 "Number is exact decimal").
func durationRatio(a, b int64) (number.Number, bool) {
	if b == 0 {
		return number.Number{}, false
	}
	return number.Div(number.FromInt64(a), number.FromInt64(b))
}

// compileComparison handles the four ordering operators plus `=`/`!=`,
// per spec.md §4.3: `=`/`!=` use the ternary equality primitive; the
// four ordering operators use natural order and yield Null for
// unordered/incomparable pairs.
func compileComparison(env *Env, x *ast.Comparison) (value.Closure, error) {
	left, err := Compile(env, x.Left)
	if err != nil {
		return nil, err
	}
	right, err := Compile(env, x.Right)
	if err != nil {
		return nil, err
	}
	op := x.Op
	return func(s *value.Scope) value.Value {
		return compare(op, left(s), right(s))
	}, nil
}

func compare(op ast.CompareOp, l, r value.Value) value.Value {
	switch op {
	case ast.Equal:
		t := value.Equal(l, r)
		if t == value.TriIncomparable {
			return value.NullTrace("values of type %s and %s are not comparable", l.Kind(), r.Kind())
		}
		return value.Bool(t == value.TriTrue)
	case ast.NotEqual:
		t := value.Equal(l, r)
		if t == value.TriIncomparable {
			return value.NullTrace("values of type %s and %s are not comparable", l.Kind(), r.Kind())
		}
		return value.Bool(t != value.TriTrue)
	}
	c, ok := value.Compare(l, r)
	if !ok {
		return value.NullTrace("values of type %s and %s are not ordered", l.Kind(), r.Kind())
	}
	switch op {
	case ast.Less:
		return value.Bool(c < 0)
	case ast.LessOrEqual:
		return value.Bool(c <= 0)
	case ast.Greater:
		return value.Bool(c > 0)
	case ast.GreaterOrEqual:
		return value.Bool(c >= 0)
	}
	return value.NullTrace("unknown comparison operator")
}
