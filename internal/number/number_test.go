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

package number

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1", "1"},
		{"1.50", "1.5"},
		{"-3.000", "-3"},
		{"0.1", "0.1"},
		{"100", "100"},
	}
	for _, tt := range tests {
		n, ok := Parse(tt.in)
		qt.Assert(t, qt.IsTrue(ok))
		qt.Assert(t, qt.Equals(n.String(), tt.want))
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	_, ok := Parse("  ")
	qt.Assert(t, qt.IsFalse(ok))
	_, ok = Parse("not a number")
	qt.Assert(t, qt.IsFalse(ok))
}

func TestArithReducesTrailingZeros(t *testing.T) {
	a, _ := Parse("1.500")
	b, _ := Parse("1.500")
	sum, ok := Add(a, b)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(sum.String(), "3"))
}

func TestDivByZeroIsNotOK(t *testing.T) {
	a := FromInt64(1)
	_, ok := Div(a, Zero)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestModFlooredSign(t *testing.T) {
	// spec.md's floored modulo: -7 mod 3 == 2, following sign of divisor.
	a := FromInt64(-7)
	b := FromInt64(3)
	got, ok := Mod(a, b)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got.String(), "2"))
}

func TestPowZeroToZeroIsOne(t *testing.T) {
	got, ok := Pow(Zero, Zero)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(Equal(got, One)))
}

func TestIntegerPredicates(t *testing.T) {
	four := FromInt64(4)
	five := FromInt64(5)
	half, _ := Parse("1.5")

	qt.Assert(t, qt.IsTrue(four.IsInteger()))
	qt.Assert(t, qt.IsTrue(four.IsEven()))
	qt.Assert(t, qt.IsFalse(four.IsOdd()))
	qt.Assert(t, qt.IsTrue(five.IsOdd()))
	qt.Assert(t, qt.IsFalse(half.IsInteger()))
	qt.Assert(t, qt.IsFalse(half.IsEven()))
}

func TestRoundModes(t *testing.T) {
	half, _ := Parse("2.5")

	evenMode, ok := Round(half, 0, RoundHalfEven)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(evenMode.String(), "2"))

	awayMode, ok := Round(half, 0, RoundHalfAwayFromZero)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(awayMode.String(), "3"))
}

func TestCmpIgnoresRepresentation(t *testing.T) {
	a, _ := Parse("1.0")
	b, _ := Parse("1.00")
	qt.Assert(t, qt.Equals(Cmp(a, b), 0))
	qt.Assert(t, qt.IsTrue(Equal(a, b)))
}

func TestInt64RoundTrip(t *testing.T) {
	n := FromInt64(42)
	i, ok := n.Int64()
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(i, int64(42)))

	frac, _ := Parse("42.5")
	_, ok = frac.Int64()
	qt.Assert(t, qt.IsFalse(ok))
}
