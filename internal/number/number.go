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

// Package number implements FEEL's Number: a signed, arbitrary-precision
// decimal with 34 significant digits, backed by github.com/cockroachdb/apd.
// Every operation is closed over (valid, Number) except the handful the
// spec calls out as producing Null on a non-finite or non-representable
// result; those are reported through the ok return value rather than by
// panicking, so callers (the evaluator, built-ins) can fold them into a
// Null value with a trace.
package number

import (
	"strings"

	"github.com/cockroachdb/apd/v2"
)

// Precision is FEEL's mandated 34 significant digits (IEEE 754-2008
// decimal128), matching the source's fixed-precision decimal library.
const Precision = 34

// ctx is the shared arithmetic context: 34 digits, round-half-even
// (banker's rounding only applies to Context-level results; the `round`
// built-in exposes the other three modes explicitly via Round).
var ctx = apd.Context{
	Precision:   Precision,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Rounding:    apd.RoundHalfEven,
}

// Number wraps an apd.Decimal. The zero Number is not valid; use Zero.
type Number struct {
	d apd.Decimal
}

// Zero is the Number 0.
var Zero = FromInt64(0)

// One is the Number 1.
var One = FromInt64(1)

// FromInt64 constructs an integer Number.
func FromInt64(n int64) Number {
	var num Number
	num.d.SetInt64(n)
	return num
}

// FromMantissaScale constructs mantissa * 10^-scale, matching the "integer
// mantissa, scale" constructor spec.md §4.1 requires.
func FromMantissaScale(mantissa int64, scale int32) Number {
	var num Number
	num.d.Coeff.SetInt64(mantissa)
	num.d.Exponent = -scale
	return num
}

// FromUint64 constructs a Number from an unsigned 64-bit integer.
func FromUint64(n uint64) Number {
	var num Number
	num.d.Coeff.SetUint64(n)
	return num
}

// Parse parses decimal text (no scientific-notation restriction beyond
// what apd accepts) into a Number. ok is false on malformed text.
func Parse(s string) (Number, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, false
	}
	var num Number
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Number{}, false
	}
	num.d = *d
	return num, true
}

// apdValue exposes the underlying decimal for packages (temporal,
// builtins) that need direct apd interop; it is not part of the
// public surface used by the evaluator.
func (n Number) apdValue() *apd.Decimal { return &n.d }

// Decimal returns a copy of the underlying apd.Decimal, for collaborators
// (built-ins, temporal arithmetic) that need direct apd access.
func (n Number) Decimal() apd.Decimal { return n.d }

func fromDecimal(d apd.Decimal) Number { return Number{d: d} }

func reduced(d *apd.Decimal) Number {
	r := new(apd.Decimal)
	r.Reduce(d)
	return Number{d: *r}
}

// binOp applies an apd.Context binary op and reduces trailing zeros per
// spec.md's "operations reduce trailing zeros" invariant. ok is false
// when the operation over/underflowed out of 34-digit precision or hit
// a non-finite condition (division handled separately: it never fails
// this way, it returns Null on zero divisor instead).
func binOp(op func(z, x, y *apd.Decimal) (apd.Condition, error), a, b Number) (Number, bool) {
	var z apd.Decimal
	cond, err := op(&z, &a.d, &b.d)
	if err != nil || cond.Overflow() || cond.Underflow() {
		return Number{}, false
	}
	return reduced(&z), true
}

// Add returns a + b.
func Add(a, b Number) (Number, bool) { return binOp(ctx.Add, a, b) }

// Sub returns a - b.
func Sub(a, b Number) (Number, bool) { return binOp(ctx.Sub, a, b) }

// Mul returns a * b.
func Mul(a, b Number) (Number, bool) { return binOp(ctx.Mul, a, b) }

// Div returns a / b. Division by zero yields (Number{}, false), which
// callers must turn into Null, never NaN or Inf.
func Div(a, b Number) (Number, bool) {
	if b.IsZero() {
		return Number{}, false
	}
	return binOp(ctx.Quo, a, b)
}

// Mod returns floored modulo: a - b*floor(a/b). Division by zero yields
// (Number{}, false).
func Mod(a, b Number) (Number, bool) {
	if b.IsZero() {
		return Number{}, false
	}
	var q apd.Decimal
	if _, err := ctx.Quo(&q, &a.d, &b.d); err != nil {
		return Number{}, false
	}
	var f apd.Decimal
	if _, err := ctx.Floor(&f, &q); err != nil {
		return Number{}, false
	}
	var prod, rem apd.Decimal
	if _, err := ctx.Mul(&prod, &f, &b.d); err != nil {
		return Number{}, false
	}
	if _, err := ctx.Sub(&rem, &a.d, &prod); err != nil {
		return Number{}, false
	}
	return reduced(&rem), true
}

// Pow returns a**b. pow(0,0) = 1 per spec.md; results not representable
// in 34 digits yield ok=false.
func Pow(a, b Number) (Number, bool) {
	if a.IsZero() && b.IsZero() {
		return One, true
	}
	var z apd.Decimal
	cond, err := ctx.Pow(&z, &a.d, &b.d)
	if err != nil || cond.Overflow() || cond.Underflow() || z.Form == apd.NaN || z.Form == apd.Infinite {
		return Number{}, false
	}
	return reduced(&z), true
}

// Neg returns -a.
func Neg(a Number) Number {
	var z apd.Decimal
	ctx.Neg(&z, &a.d)
	return reduced(&z)
}

// Abs returns |a|.
func Abs(a Number) Number {
	var z apd.Decimal
	ctx.Abs(&z, &a.d)
	return reduced(&z)
}

// Ceiling rounds toward +Infinity.
func Ceiling(a Number) (Number, bool) {
	var z apd.Decimal
	if _, err := ctx.Ceil(&z, &a.d); err != nil {
		return Number{}, false
	}
	return reduced(&z), true
}

// Floor rounds toward -Infinity.
func Floor(a Number) (Number, bool) {
	var z apd.Decimal
	if _, err := ctx.Floor(&z, &a.d); err != nil {
		return Number{}, false
	}
	return reduced(&z), true
}

// Truncate rounds toward zero.
func Truncate(a Number) (Number, bool) {
	var z apd.Decimal
	// Quantize to a zero-fraction exponent with Context.Rounding
	// temporarily pinned to round-down (toward zero).
	trunc := ctx
	trunc.Rounding = apd.RoundDown
	if _, err := trunc.Quantize(&z, &a.d, 0); err != nil {
		return Number{}, false
	}
	return reduced(&z), true
}

// RoundMode selects the mode for Round, matching the four modes the
// source's `round` built-in exposes (spec.md §4.1, §4.4).
type RoundMode int

const (
	RoundHalfEven RoundMode = iota
	RoundHalfAwayFromZero
	RoundUp
	RoundDown
)

// Round rounds a to scale decimal places (scale may be negative, rounding
// to tens/hundreds/etc.) using mode.
func Round(a Number, scale int32, mode RoundMode) (Number, bool) {
	rc := ctx
	switch mode {
	case RoundHalfEven:
		rc.Rounding = apd.RoundHalfEven
	case RoundHalfAwayFromZero:
		rc.Rounding = apd.RoundHalfUp
	case RoundUp:
		rc.Rounding = apd.RoundUp
	case RoundDown:
		rc.Rounding = apd.RoundDown
	}
	var z apd.Decimal
	if _, err := rc.Quantize(&z, &a.d, -scale); err != nil {
		return Number{}, false
	}
	return reduced(&z), true
}

// Exp returns e**a; ok is false if the result is not finite/representable.
func Exp(a Number) (Number, bool) {
	var z apd.Decimal
	cond, err := ctx.Exp(&z, &a.d)
	if err != nil || cond.Overflow() || z.Form != apd.Finite {
		return Number{}, false
	}
	return reduced(&z), true
}

// Ln returns the natural logarithm of a; ok is false for a <= 0 or a
// non-representable result.
func Ln(a Number) (Number, bool) {
	if a.IsNegative() || a.IsZero() {
		return Number{}, false
	}
	var z apd.Decimal
	cond, err := ctx.Ln(&z, &a.d)
	if err != nil || cond.Overflow() || z.Form != apd.Finite {
		return Number{}, false
	}
	return reduced(&z), true
}

// Sqrt returns the square root of a; ok is false for a < 0.
func Sqrt(a Number) (Number, bool) {
	if a.IsNegative() {
		return Number{}, false
	}
	var z apd.Decimal
	cond, err := ctx.Sqrt(&z, &a.d)
	if err != nil || cond.Overflow() || z.Form != apd.Finite {
		return Number{}, false
	}
	return reduced(&z), true
}

// Cmp returns -1, 0, 1 following natural numeric order, independent of
// the two operands' representation (e.g. 1.0 and 1.00 compare equal).
func Cmp(a, b Number) int { return a.d.Cmp(&b.d) }

// Equal reports whether a and b are numerically equal.
func Equal(a, b Number) bool { return Cmp(a, b) == 0 }

func (n Number) IsZero() bool     { return n.d.IsZero() }
func (n Number) IsNegative() bool { return n.d.Negative && !n.d.IsZero() }
func (n Number) IsPositive() bool { return !n.d.Negative && !n.d.IsZero() }
func (n Number) IsOne() bool      { return Equal(n, One) }

// IsInteger reports whether n has no fractional part.
func (n Number) IsInteger() bool {
	var z apd.Decimal
	if _, err := ctx.RoundToIntegralExact(&z, &n.d); err != nil {
		return false
	}
	return z.Cmp(&n.d) == 0
}

// IsEven reports whether an integral n is even; non-integers return false.
func (n Number) IsEven() bool {
	if !n.IsInteger() {
		return false
	}
	i, ok := n.Int64()
	return ok && i%2 == 0
}

// IsOdd reports whether an integral n is odd; non-integers return false.
func (n Number) IsOdd() bool {
	if !n.IsInteger() {
		return false
	}
	i, ok := n.Int64()
	return ok && i%2 != 0
}

// Int64 converts an integral n to int64; ok is false when n is
// non-integer or out of int64 range (spec.md "Large integer
// conversions").
func (n Number) Int64() (int64, bool) {
	if !n.IsInteger() {
		return 0, false
	}
	t, ok := Truncate(n)
	if !ok {
		return 0, false
	}
	i, err := t.d.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// Float64 converts to float64 for interop with non-FEEL consumers
// (diagnostics only; never used for FEEL arithmetic itself).
func (n Number) Float64() float64 {
	f, _ := n.d.Float64()
	return f
}

// String renders the canonical display form: plain decimal, never
// scientific notation. A positive exponent is expanded with trailing
// zeros; a negative exponent is rendered with a leading "0." and enough
// leading zeros.
func (n Number) String() string {
	d := n.d
	d.Reduce(&d)
	return d.Text('f')
}
