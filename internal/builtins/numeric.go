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
	"sort"
	"strings"

	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/value"
)

func init() {
	register("abs", []string{"n"}, biAbs)
	register("ceiling", []string{"n"}, biCeiling)
	register("floor", []string{"n"}, biFloor)
	register("round up", []string{"n", "scale"}, biRoundUp)
	register("round down", []string{"n", "scale"}, biRoundDown)
	register("round half up", []string{"n", "scale"}, biRoundHalfUp)
	register("round half even", []string{"n", "scale"}, biRoundHalfEven)
	register("decimal", []string{"n", "scale"}, biRoundHalfEven)
	register("sqrt", []string{"number"}, biSqrt)
	register("exp", []string{"number"}, biExp)
	register("log", []string{"number"}, biLog)
	register("modulo", []string{"dividend", "divisor"}, biModulo)
	register("even", []string{"number"}, biEven)
	register("odd", []string{"number"}, biOdd)
	register("min", nil, biMin)
	register("max", nil, biMax)
	register("sum", nil, biSum)
	register("mean", nil, biMean)
	register("median", nil, biMedian)
	register("mode", nil, biMode)
	register("stddev", nil, biStddev)
	register("product", nil, biProduct)
	register("count", nil, biCount)
	register("number", []string{"from", "grouping separator", "decimal separator"}, biNumber)
}

func numUnary(args []value.Value, op func(number.Number) (number.Number, bool)) value.Value {
	n, ok := asNum(arg(args, 0))
	if !ok {
		return value.NullTrace("expected a number argument")
	}
	r, ok := op(n.N)
	if !ok {
		return value.Null{}
	}
	return value.NewNum(r)
}

func biAbs(args []value.Value) value.Value {
	n, ok := asNum(arg(args, 0))
	if !ok {
		return value.NullTrace("abs: expected a number")
	}
	return value.NewNum(number.Abs(n.N))
}

func biCeiling(args []value.Value) value.Value {
	return numUnary(args, number.Ceiling)
}

func biFloor(args []value.Value) value.Value {
	return numUnary(args, number.Floor)
}

func scaleArg(args []value.Value, i int) int32 {
	if n, ok := asNum(arg(args, i)); ok {
		if s, ok := n.N.Int64(); ok {
			return int32(s)
		}
	}
	return 0
}

func biRoundUp(args []value.Value) value.Value {
	return roundWith(args, number.RoundUp)
}

func biRoundDown(args []value.Value) value.Value {
	return roundWith(args, number.RoundDown)
}

func biRoundHalfUp(args []value.Value) value.Value {
	return roundWith(args, number.RoundHalfAwayFromZero)
}

func biRoundHalfEven(args []value.Value) value.Value {
	return roundWith(args, number.RoundHalfEven)
}

func roundWith(args []value.Value, mode number.RoundMode) value.Value {
	n, ok := asNum(arg(args, 0))
	if !ok {
		return value.NullTrace("round: expected a number")
	}
	scale := int32(0)
	if len(args) > 1 {
		scale = scaleArg(args, 1)
	}
	r, ok := number.Round(n.N, scale, mode)
	if !ok {
		return value.Null{}
	}
	return value.NewNum(r)
}

func biSqrt(args []value.Value) value.Value  { return numUnary(args, number.Sqrt) }
func biExp(args []value.Value) value.Value   { return numUnary(args, number.Exp) }
func biLog(args []value.Value) value.Value   { return numUnary(args, number.Ln) }

func biModulo(args []value.Value) value.Value {
	a, ok1 := asNum(arg(args, 0))
	b, ok2 := asNum(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("modulo: expected two numbers")
	}
	r, ok := number.Mod(a.N, b.N)
	if !ok {
		return value.NullTrace("modulo: division by zero")
	}
	return value.NewNum(r)
}

func biEven(args []value.Value) value.Value {
	n, ok := asNum(arg(args, 0))
	if !ok {
		return value.NullTrace("even: expected a number")
	}
	return value.Bool(n.N.IsEven())
}

func biOdd(args []value.Value) value.Value {
	n, ok := asNum(arg(args, 0))
	if !ok {
		return value.NullTrace("odd: expected a number")
	}
	return value.Bool(n.N.IsOdd())
}

func numberList(args []value.Value) ([]number.Number, bool) {
	items := variadicArgs(args)
	out := make([]number.Number, len(items))
	for i, it := range items {
		n, ok := asNum(it)
		if !ok {
			return nil, false
		}
		out[i] = n.N
	}
	return out, true
}

func biMin(args []value.Value) value.Value {
	ns, ok := numberList(args)
	if !ok || len(ns) == 0 {
		return value.NullTrace("min: expected one or more numbers")
	}
	m := ns[0]
	for _, n := range ns[1:] {
		if number.Cmp(n, m) < 0 {
			m = n
		}
	}
	return value.NewNum(m)
}

func biMax(args []value.Value) value.Value {
	ns, ok := numberList(args)
	if !ok || len(ns) == 0 {
		return value.NullTrace("max: expected one or more numbers")
	}
	m := ns[0]
	for _, n := range ns[1:] {
		if number.Cmp(n, m) > 0 {
			m = n
		}
	}
	return value.NewNum(m)
}

func sumOf(ns []number.Number) (number.Number, bool) {
	total := number.Zero
	for _, n := range ns {
		var ok bool
		total, ok = number.Add(total, n)
		if !ok {
			return number.Number{}, false
		}
	}
	return total, true
}

func biSum(args []value.Value) value.Value {
	ns, ok := numberList(args)
	if !ok {
		return value.NullTrace("sum: expected numbers")
	}
	total, ok := sumOf(ns)
	if !ok {
		return value.Null{}
	}
	return value.NewNum(total)
}

func biMean(args []value.Value) value.Value {
	ns, ok := numberList(args)
	if !ok || len(ns) == 0 {
		return value.NullTrace("mean: expected one or more numbers")
	}
	total, ok := sumOf(ns)
	if !ok {
		return value.Null{}
	}
	r, ok := number.Div(total, number.FromInt64(int64(len(ns))))
	if !ok {
		return value.Null{}
	}
	return value.NewNum(r)
}

func biMedian(args []value.Value) value.Value {
	ns, ok := numberList(args)
	if !ok || len(ns) == 0 {
		return value.NullTrace("median: expected one or more numbers")
	}
	sorted := append([]number.Number(nil), ns...)
	sort.Slice(sorted, func(i, j int) bool { return number.Cmp(sorted[i], sorted[j]) < 0 })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return value.NewNum(sorted[mid])
	}
	r, ok := number.Div(mustAdd(sorted[mid-1], sorted[mid]), number.FromInt64(2))
	if !ok {
		return value.Null{}
	}
	return value.NewNum(r)
}

func mustAdd(a, b number.Number) number.Number {
	r, ok := number.Add(a, b)
	if !ok {
		return a
	}
	return r
}

func biMode(args []value.Value) value.Value {
	ns, ok := numberList(args)
	if !ok || len(ns) == 0 {
		return value.NullTrace("mode: expected one or more numbers")
	}
	sorted := append([]number.Number(nil), ns...)
	sort.Slice(sorted, func(i, j int) bool { return number.Cmp(sorted[i], sorted[j]) < 0 })
	best := []number.Number{sorted[0]}
	bestCount, curCount := 1, 1
	for i := 1; i < len(sorted); i++ {
		if number.Equal(sorted[i], sorted[i-1]) {
			curCount++
		} else {
			curCount = 1
		}
		switch {
		case curCount > bestCount:
			bestCount = curCount
			best = []number.Number{sorted[i]}
		case curCount == bestCount:
			dup := false
			for _, b := range best {
				if number.Equal(b, sorted[i]) {
					dup = true
				}
			}
			if !dup {
				best = append(best, sorted[i])
			}
		}
	}
	out := make([]value.Value, len(best))
	for i, n := range best {
		out[i] = value.NewNum(n)
	}
	return value.List{Items: out}
}

func biStddev(args []value.Value) value.Value {
	ns, ok := numberList(args)
	if !ok || len(ns) < 2 {
		return value.NullTrace("stddev: expected two or more numbers")
	}
	total, ok := sumOf(ns)
	if !ok {
		return value.Null{}
	}
	mean, ok := number.Div(total, number.FromInt64(int64(len(ns))))
	if !ok {
		return value.Null{}
	}
	sq := number.Zero
	for _, n := range ns {
		d, ok := number.Sub(n, mean)
		if !ok {
			return value.Null{}
		}
		sq2, ok := number.Mul(d, d)
		if !ok {
			return value.Null{}
		}
		sq, ok = number.Add(sq, sq2)
		if !ok {
			return value.Null{}
		}
	}
	variance, ok := number.Div(sq, number.FromInt64(int64(len(ns)-1)))
	if !ok {
		return value.Null{}
	}
	r, ok := number.Sqrt(variance)
	if !ok {
		return value.Null{}
	}
	return value.NewNum(r)
}

func biProduct(args []value.Value) value.Value {
	ns, ok := numberList(args)
	if !ok || len(ns) == 0 {
		return value.NullTrace("product: expected one or more numbers")
	}
	total := number.One
	for _, n := range ns {
		var ok bool
		total, ok = number.Mul(total, n)
		if !ok {
			return value.Null{}
		}
	}
	return value.NewNum(total)
}

func biCount(args []value.Value) value.Value {
	items := variadicArgs(args)
	if len(args) == 1 {
		if l, ok := asList(args[0]); ok {
			return value.NewNum(number.FromInt64(int64(len(l.Items))))
		}
	}
	return value.NewNum(number.FromInt64(int64(len(items))))
}

func biNumber(args []value.Value) value.Value {
	s, ok := asStr(arg(args, 0))
	if !ok {
		return value.NullTrace("number: expected a string")
	}
	text := string(s)
	if gs, ok := asStr(arg(args, 1)); ok {
		text = strings.ReplaceAll(text, string(gs), "")
	}
	if ds, ok := asStr(arg(args, 2)); ok && string(ds) != "." {
		text = strings.Replace(text, string(ds), ".", 1)
	}
	n, ok := number.Parse(text)
	if !ok {
		return value.NullTrace("number: cannot parse %q", text)
	}
	return value.NewNum(n)
}
