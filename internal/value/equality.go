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

package value

import "github.com/dmntk-go/dmntk/internal/number"

// Tri is a ternary result: true, false, or "not comparable".
type Tri int

const (
	TriFalse Tri = iota
	TriTrue
	TriIncomparable
)

// Equal implements the ternary equality primitive of spec.md §4.3: Some
// true/Some false mean a definite comparison; TriIncomparable means
// "not comparable", which callers turn into Null.
func Equal(a, b Value) Tri {
	_, aNull := a.(Null)
	_, bNull := b.(Null)
	if aNull && bNull {
		return TriTrue
	}
	if aNull || bNull {
		return TriFalse
	}
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		if !ok {
			return TriIncomparable
		}
		return boolTri(x == y)
	case Num:
		y, ok := b.(Num)
		if !ok {
			return TriIncomparable
		}
		return boolTri(number.Equal(x.N, y.N))
	case Str:
		y, ok := b.(Str)
		if !ok {
			return TriIncomparable
		}
		return boolTri(x == y)
	case DateVal:
		y, ok := b.(DateVal)
		if !ok {
			return TriIncomparable
		}
		return boolTri(x.D.Equal(y.D))
	case TimeVal:
		y, ok := b.(TimeVal)
		if !ok {
			return TriIncomparable
		}
		return boolTri(x.T.Equal(y.T))
	case DateTimeVal:
		y, ok := b.(DateTimeVal)
		if !ok {
			return TriIncomparable
		}
		return boolTri(x.DT.Equal(y.DT))
	case YearsMonthsVal:
		y, ok := b.(YearsMonthsVal)
		if !ok {
			return TriIncomparable
		}
		return boolTri(x.Y == y.Y)
	case DaysTimeVal:
		y, ok := b.(DaysTimeVal)
		if !ok {
			return TriIncomparable
		}
		return boolTri(x.D == y.D)
	case List:
		y, ok := b.(List)
		if !ok {
			return TriIncomparable
		}
		if len(x.Items) != len(y.Items) {
			return TriFalse
		}
		for i := range x.Items {
			if Equal(x.Items[i], y.Items[i]) != TriTrue {
				return TriFalse
			}
		}
		return TriTrue
	case Context:
		y, ok := b.(Context)
		if !ok {
			return TriIncomparable
		}
		return boolTri(contextsEqual(x, y))
	case Range:
		y, ok := b.(Range)
		if !ok {
			return TriIncomparable
		}
		if x.StartClose != y.StartClose || x.EndClose != y.EndClose {
			return TriFalse
		}
		return boolTri(Equal(x.Start, y.Start) == TriTrue && Equal(x.End, y.End) == TriTrue)
	}
	return TriIncomparable
}

func contextsEqual(a, b Context) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for _, ea := range a.Entries {
		bv, ok := b.Get(ea.Name)
		if !ok || Equal(ea.Value, bv) != TriTrue {
			return false
		}
	}
	return true
}

func boolTri(b bool) Tri {
	if b {
		return TriTrue
	}
	return TriFalse
}

// Compare returns -1, 0, 1 and ok=true for same-kind scalars with a
// natural ordering (Number, String, Date, Time, DateTime, durations);
// ok=false for any other pairing, including equal-kind structured values
// (List/Context/Range have no ordering in FEEL).
func Compare(a, b Value) (int, bool) {
	switch x := a.(type) {
	case Num:
		if y, ok := b.(Num); ok {
			return number.Cmp(x.N, y.N), true
		}
	case Str:
		if y, ok := b.(Str); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			default:
				return 0, true
			}
		}
	case DateVal:
		if y, ok := b.(DateVal); ok {
			return x.D.Compare(y.D), true
		}
	case DateTimeVal:
		if y, ok := b.(DateTimeVal); ok {
			return x.DT.Compare(y.DT), true
		}
	case TimeVal:
		if y, ok := b.(TimeVal); ok {
			d := x.T.Sub(y.T)
			switch {
			case d.Nanos < 0:
				return -1, true
			case d.Nanos > 0:
				return 1, true
			default:
				return 0, true
			}
		}
	case DaysTimeVal:
		if y, ok := b.(DaysTimeVal); ok {
			return x.D.Compare(y.D), true
		}
	case YearsMonthsVal:
		if y, ok := b.(YearsMonthsVal); ok {
			switch {
			case x.Y.Months < y.Y.Months:
				return -1, true
			case x.Y.Months > y.Y.Months:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}
