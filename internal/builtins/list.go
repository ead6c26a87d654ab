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

	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/value"
)

func init() {
	register("list contains", []string{"list", "element"}, biListContains)
	register("append", nil, biAppend)
	register("concatenate", nil, biConcatenate)
	register("insert before", []string{"list", "position", "newItem"}, biInsertBefore)
	register("remove", []string{"list", "position"}, biRemove)
	register("reverse", []string{"list"}, biReverse)
	register("index of", []string{"list", "match"}, biIndexOf)
	register("union", nil, biUnion)
	register("distinct values", []string{"list"}, biDistinctValues)
	register("flatten", []string{"list"}, biFlatten)
	register("sort", []string{"list", "precedes"}, biSort)
	register("sublist", []string{"list", "start position", "length"}, biSublist)
}

func biListContains(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("list contains: expected a list")
	}
	target := arg(args, 1)
	for _, it := range l.Items {
		if value.Equal(it, target) == value.TriTrue {
			return value.Bool(true)
		}
	}
	return value.Bool(false)
}

func biAppend(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("append: expected a list as first argument")
	}
	out := append([]value.Value(nil), l.Items...)
	out = append(out, args[1:]...)
	return value.List{Items: out}
}

func biConcatenate(args []value.Value) value.Value {
	var out []value.Value
	for _, a := range args {
		l, ok := asList(a)
		if !ok {
			return value.NullTrace("concatenate: expected lists")
		}
		out = append(out, l.Items...)
	}
	return value.List{Items: out}
}

func clampIndex(raw int64, n int64) (int64, bool) {
	idx := raw
	if idx < 0 {
		idx = n + idx + 1
	}
	if idx < 1 || idx > n {
		return 0, false
	}
	return idx, true
}

func biInsertBefore(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("insert before: expected a list")
	}
	pn, ok := asNum(arg(args, 1))
	if !ok {
		return value.NullTrace("insert before: expected a numeric position")
	}
	pi, ok := pn.N.Int64()
	if !ok {
		return value.NullTrace("insert before: position must be integral")
	}
	idx, ok := clampIndex(pi, int64(len(l.Items))+1)
	if !ok {
		return value.NullTrace("insert before: position out of range")
	}
	out := make([]value.Value, 0, len(l.Items)+1)
	out = append(out, l.Items[:idx-1]...)
	out = append(out, arg(args, 2))
	out = append(out, l.Items[idx-1:]...)
	return value.List{Items: out}
}

func biRemove(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("remove: expected a list")
	}
	pn, ok := asNum(arg(args, 1))
	if !ok {
		return value.NullTrace("remove: expected a numeric position")
	}
	pi, ok := pn.N.Int64()
	if !ok {
		return value.NullTrace("remove: position must be integral")
	}
	idx, ok := clampIndex(pi, int64(len(l.Items)))
	if !ok {
		return value.NullTrace("remove: position out of range")
	}
	out := make([]value.Value, 0, len(l.Items)-1)
	out = append(out, l.Items[:idx-1]...)
	out = append(out, l.Items[idx:]...)
	return value.List{Items: out}
}

func biReverse(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("reverse: expected a list")
	}
	out := make([]value.Value, len(l.Items))
	for i, it := range l.Items {
		out[len(out)-1-i] = it
	}
	return value.List{Items: out}
}

func biIndexOf(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("index of: expected a list")
	}
	target := arg(args, 1)
	var out []value.Value
	for i, it := range l.Items {
		if value.Equal(it, target) == value.TriTrue {
			out = append(out, value.NewNum(number.FromInt64(int64(i+1))))
		}
	}
	return value.List{Items: out}
}

func biUnion(args []value.Value) value.Value {
	var out []value.Value
	for _, a := range args {
		l, ok := asList(a)
		if !ok {
			return value.NullTrace("union: expected lists")
		}
		for _, it := range l.Items {
			dup := false
			for _, seen := range out {
				if value.Equal(it, seen) == value.TriTrue {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, it)
			}
		}
	}
	return value.List{Items: out}
}

func biDistinctValues(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("distinct values: expected a list")
	}
	var out []value.Value
	for _, it := range l.Items {
		dup := false
		for _, seen := range out {
			if value.Equal(it, seen) == value.TriTrue {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return value.List{Items: out}
}

func biFlatten(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("flatten: expected a list")
	}
	var out []value.Value
	var walk func(value.List)
	walk = func(l value.List) {
		for _, it := range l.Items {
			if nested, ok := it.(value.List); ok {
				walk(nested)
				continue
			}
			out = append(out, it)
		}
	}
	walk(l)
	return value.List{Items: out}
}

// callPrecedes invokes a two-parameter FunctionDefinition comparator
// directly via its captured Closure and Body, without importing package
// eval (FunctionDefinition.Body is already a plain value.Closure).
func callPrecedes(fn value.FunctionDefinition, a, b value.Value) (bool, bool) {
	if len(fn.Params) != 2 {
		return false, false
	}
	frame := value.Context{}
	frame = frame.With(fn.Params[0].Name, value.Coerce(fn.Params[0].Type, a))
	frame = frame.With(fn.Params[1].Name, value.Coerce(fn.Params[1].Type, b))
	scope := value.NewScope(fn.Closure).Push(frame)
	result := value.Coerce(fn.Result, fn.Body(scope))
	bv, ok := result.(value.Bool)
	if !ok {
		return false, false
	}
	return bool(bv), true
}

// biSort implements sort(list, precedes): precedes(x, y) returns true
// when x must come before y (spec.md §4.4); a non-boolean comparator
// result aborts the sort with Null, matching built-ins' "Null on
// argument-shape failure" rule.
func biSort(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("sort: expected a list")
	}
	fn, ok := arg(args, 1).(value.FunctionDefinition)
	if !ok {
		return value.NullTrace("sort: expected a comparator function")
	}
	out := append([]value.Value(nil), l.Items...)
	var sortErr bool
	sort.SliceStable(out, func(i, j int) bool {
		b, ok := callPrecedes(fn, out[i], out[j])
		if !ok {
			sortErr = true
			return false
		}
		return b
	})
	if sortErr {
		return value.NullTrace("sort: comparator did not return a boolean")
	}
	return value.List{Items: out}
}

func biSublist(args []value.Value) value.Value {
	l, ok := asList(arg(args, 0))
	if !ok {
		return value.NullTrace("sublist: expected a list")
	}
	sn, ok := asNum(arg(args, 1))
	if !ok {
		return value.NullTrace("sublist: expected a numeric start position")
	}
	si, ok := sn.N.Int64()
	if !ok {
		return value.NullTrace("sublist: start position must be integral")
	}
	n := int64(len(l.Items))
	idx := si
	if idx < 0 {
		idx = n + idx + 1
	}
	if idx < 1 || idx > n+1 {
		return value.NullTrace("sublist: start position out of range")
	}
	length := n - idx + 1
	if ln, ok := asNum(arg(args, 2)); ok {
		if v, ok := ln.N.Int64(); ok {
			length = v
		}
	}
	if length < 0 {
		length = 0
	}
	end := idx - 1 + length
	if end > n {
		end = n
	}
	return value.List{Items: l.Items[idx-1 : end]}
}
