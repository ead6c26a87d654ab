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
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/value"
)

// compileIf implements `if cond then a else b` (spec.md §4.3): a
// non-boolean or Null condition takes the else branch, matching the
// source's "any value other than true is treated as false" rule for
// conditionals specifically (distinct from and/or's dominance rules).
func compileIf(env *Env, x *ast.IfThenElse) (value.Closure, error) {
	cond, err := Compile(env, x.Cond)
	if err != nil {
		return nil, err
	}
	then, err := Compile(env, x.Then)
	if err != nil {
		return nil, err
	}
	els, err := Compile(env, x.Else)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		cv := cond(s)
		if b, ok := cv.(value.Bool); ok && bool(b) {
			return then(s)
		}
		return els(s)
	}, nil
}

// iterationSource is a single compiled `for`/`some`/`every` binding.
type iterationSource struct {
	name     feelname.Name
	list     value.Closure // non-nil for `for x in collection`
	rangeEnd value.Closure // non-nil for `for x in start..end`
}

func compileIterationContexts(env *Env, ctxs []ast.IterationContext) ([]iterationSource, error) {
	out := make([]iterationSource, len(ctxs))
	for i, c := range ctxs {
		src, err := Compile(env, c.Source)
		if err != nil {
			return nil, err
		}
		name := nameFromRef(c.Name)
		is := iterationSource{name: name, list: src}
		if c.RangeEnd != nil {
			end, err := Compile(env, c.RangeEnd)
			if err != nil {
				return nil, err
			}
			is.rangeEnd = end
			is.list = src // reinterpreted as the start expression below
		}
		out[i] = is
	}
	return out, nil
}

// materialize resolves one iteration binding's domain list under s.
func (is iterationSource) materialize(s *value.Scope) ([]value.Value, bool) {
	if is.rangeEnd != nil {
		startV, ok := is.list(s).(value.Num)
		if !ok {
			return nil, false
		}
		endV, ok := is.rangeEnd(s).(value.Num)
		if !ok {
			return nil, false
		}
		startI, ok := startV.N.Int64()
		if !ok {
			return nil, false
		}
		endI, ok := endV.N.Int64()
		if !ok {
			return nil, false
		}
		var out []value.Value
		if startI <= endI {
			for i := startI; i <= endI; i++ {
				out = append(out, value.NewNum(number.FromInt64(i)))
			}
		} else {
			for i := startI; i >= endI; i-- {
				out = append(out, value.NewNum(number.FromInt64(i)))
			}
		}
		return out, true
	}
	l, ok := is.list(s).(value.List)
	if !ok {
		return nil, false
	}
	return l.Items, true
}

// cartesian yields every combination of the iteration sources' domains,
// declared-order nested (spec.md §4.3 "for": iteration proceeds in
// declared order, not outermost-fastest-changing), invoking visit once
// per combination. It does not bind "partial" (spec.md's reserved
// accumulator name for the in-progress result list); compileFor's visit
// callback does.
func cartesian(s *value.Scope, sources []iterationSource, visit func(*value.Scope, []value.Value) (stop bool)) value.Value {
	domains := make([][]value.Value, len(sources))
	for i, src := range sources {
		d, ok := src.materialize(s)
		if !ok {
			return value.NullTrace("for: iteration source %q is not a list or numeric range", src.name.String())
		}
		domains[i] = d
	}
	indices := make([]value.Value, len(sources))
	var recurse func(depth int, cur *value.Scope) bool
	recurse = func(depth int, cur *value.Scope) bool {
		if depth == len(sources) {
			return visit(cur, indices)
		}
		for _, item := range domains[depth] {
			indices[depth] = item
			next := cur.Set(sources[depth].name, item)
			if recurse(depth+1, next) {
				return true
			}
		}
		return false
	}
	recurse(0, s)
	return nil
}

// compileFor implements the `for` iteration expression (spec.md §4.3,
// §5): the result is a list built in declared Cartesian-product order;
// "partial" names the in-progress result list within the body.
func compileFor(env *Env, x *ast.ForExpr) (value.Closure, error) {
	sources, err := compileIterationContexts(env, x.Contexts)
	if err != nil {
		return nil, err
	}
	bodyEnv := env
	for _, src := range sources {
		bodyEnv = bodyEnv.withName(src.name)
	}
	partial := feelname.MustNew("partial")
	body, err := Compile(bodyEnv, x.Body)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		var result []value.Value
		if n := cartesian(s, sources, func(cur *value.Scope, _ []value.Value) bool {
			cur = cur.Set(partial, value.List{Items: append([]value.Value(nil), result...)})
			result = append(result, body(cur))
			return false
		}); n != nil {
			return n
		}
		return value.List{Items: result}
	}, nil
}

// compileSomeEvery implements `some`/`every ... satisfies ...` (spec.md
// §4.3): some is the existential quantifier, every the universal, both
// over the same declared-order Cartesian product as `for`. Short-
// circuits on the first definitive hit.
func compileSomeEvery(env *Env, x *ast.SomeEvery) (value.Closure, error) {
	sources, err := compileIterationContexts(env, x.Contexts)
	if err != nil {
		return nil, err
	}
	bodyEnv := env
	for _, src := range sources {
		bodyEnv = bodyEnv.withName(src.name)
	}
	satisfies, err := Compile(bodyEnv, x.Satisfies)
	if err != nil {
		return nil, err
	}
	every := x.Every
	return func(s *value.Scope) value.Value {
		sawUnknown := false
		found := false
		if n := cartesian(s, sources, func(cur *value.Scope, _ []value.Value) bool {
			b, ok := threeValued(satisfies(cur))
			if !ok {
				sawUnknown = true
				return false
			}
			if every && !b {
				found = true // reusing found as "counter-example seen"
				return true
			}
			if !every && b {
				found = true
				return true
			}
			return false
		}); n != nil {
			return n
		}
		if every {
			if found {
				return value.Bool(false)
			}
			if sawUnknown {
				return value.NullTrace("every: satisfies clause not boolean for some item")
			}
			return value.Bool(true)
		}
		if found {
			return value.Bool(true)
		}
		if sawUnknown {
			return value.NullTrace("some: satisfies clause not boolean for some item")
		}
		return value.Bool(false)
	}, nil
}

// compileFilter implements `list[predicate]` (spec.md §4.3 "Filter"):
// when predicate is a Number, it is a 1-based (negative: from-the-end)
// index instead of a boolean test; the item-scope extension binds the
// current item under the implicit name "item" in addition to whatever
// name the surrounding context already supplies it under, matching the
// source's filter-context rules. Trailing non-boolean, non-numeric
// predicate results for an index-style filter are not re-evaluated per
// item beyond the initial dynamic-type dispatch.
func compileFilter(env *Env, x *ast.Filter) (value.Closure, error) {
	list, err := Compile(env, x.List)
	if err != nil {
		return nil, err
	}
	itemEnv := env.withName(feelname.MustNew("item"))
	pred, err := Compile(itemEnv, x.Predicate)
	if err != nil {
		return nil, err
	}
	itemName := feelname.MustNew("item")
	return func(s *value.Scope) value.Value {
		lv, ok := list(s).(value.List)
		if !ok {
			return value.NullTrace("filter: left-hand side is not a list")
		}
		itemCtx := s.Set(itemName, value.Null{})
		firstPred := itemCtx
		if len(lv.Items) > 0 {
			firstPred = s.Set(itemName, lv.Items[0])
		}
		pv := pred(firstPred)
		if n, isNum := pv.(value.Num); isNum {
			i, ok := n.N.Int64()
			if !ok {
				return value.NullTrace("filter: index not integral")
			}
			idx := i
			if idx < 0 {
				idx = int64(len(lv.Items)) + idx + 1
			}
			if idx < 1 || idx > int64(len(lv.Items)) {
				return value.NullTrace("filter: index out of range")
			}
			return lv.Items[idx-1]
		}
		var out []value.Value
		for i, item := range lv.Items {
			cur := s.Set(itemName, item)
			var b value.Value
			if i == 0 {
				b = pv
			} else {
				b = pred(cur)
			}
			if bv, ok := threeValued(b); ok && bv {
				out = append(out, item)
			}
		}
		return value.List{Items: out}
	}, nil
}
