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

// Package eval implements C7, the AST-to-closure compiler (spec.md
// §4.3): every ast.Node is translated once, bottom-up, to a
// value.Closure (Scope -> Value). Built closures are pure and immutable
// and may be shared across goroutines evaluating independent scopes
// (spec.md §5).
package eval

import (
	"github.com/dmntk-go/dmntk/internal/ast"
	"github.com/dmntk-go/dmntk/internal/errors"
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/temporal"
	"github.com/dmntk-go/dmntk/internal/value"
)

// Builtins is the minimal surface package builtins exposes back to the
// evaluator, to invoke a BuiltInFunction and to resolve a bare name that
// happens to name a built-in (so `substring` used as a value, not a
// call, still resolves). It is an interface, not a direct import of
// package builtins, so the evaluator does not depend on the built-in
// library's implementation (package builtins never imports eval).
type Builtins interface {
	Lookup(name string) (value.BuiltInFunction, bool)
	Invoke(tag value.BuiltInTag, args []value.Value, named map[string]value.Value) value.Value
}

// Env carries the pieces a compile step needs beyond the AST itself: the
// built-in registry and the mirror of compile-time-visible names used
// for closure capture (spec.md §4.3 "compile-time scope mirror").
type Env struct {
	Builtins Builtins
	External External
	names    []feelname.Name // names visible at the current compile point, innermost last
}

// NewEnv creates a compile Env against the given built-in registry. The
// external-function invoker is left nil (every external call is Null
// with a trace) until WithExternal sets one.
func NewEnv(b Builtins) *Env { return &Env{Builtins: b} }

// WithExternal returns a copy of e with its external-function invoker
// set (spec.md §4.3 "external functions", §9 Open Question (c)).
func (e *Env) WithExternal(ext External) *Env {
	return &Env{Builtins: e.Builtins, External: ext, names: e.names}
}

func (e *Env) withName(n feelname.Name) *Env {
	names := make([]feelname.Name, len(e.names)+1)
	copy(names, e.names)
	names[len(names)-1] = n
	return &Env{Builtins: e.Builtins, External: e.External, names: names}
}

func (e *Env) withNames(ns []feelname.Name) *Env {
	names := make([]feelname.Name, 0, len(e.names)+len(ns))
	names = append(names, e.names...)
	names = append(names, ns...)
	return &Env{Builtins: e.Builtins, External: e.External, names: names}
}

// Compile translates an AST node into a value.Closure (spec.md §4.3).
// Compilation never fails for a structurally valid AST: unresolvable
// runtime conditions (wrong dynamic type, missing name, bad argument)
// are reported as Null at evaluation time, per spec.md §7. Compile can
// still fail on AST nodes that are structurally invalid in a way no
// runtime check could catch, e.g. an unknown type-constructor name.
func Compile(env *Env, n ast.Node) (value.Closure, error) {
	switch x := n.(type) {
	case *ast.LiteralNumber:
		return compileLiteralNumber(x)
	case *ast.LiteralString:
		s := value.Str(x.Value)
		return func(*value.Scope) value.Value { return s }, nil
	case *ast.LiteralBoolean:
		b := value.Bool(x.Value)
		return func(*value.Scope) value.Value { return b }, nil
	case *ast.LiteralNull:
		return func(*value.Scope) value.Value { return value.Null{} }, nil
	case *ast.LiteralTemporal:
		return compileLiteralTemporal(x)
	case *ast.Irrelevant:
		return func(*value.Scope) value.Value { return value.Irrelevant{} }, nil
	case *ast.NameRef:
		return compileNameRef(env, x)
	case *ast.QualifiedName:
		return compileQualifiedName(x)
	case *ast.Path:
		return compilePath(env, x)
	case *ast.ListExpr:
		return compileList(env, x)
	case *ast.NegatedList:
		return compileNegatedList(env, x)
	case *ast.RangeExpr:
		return compileRange(env, x)
	case *ast.BinaryArith:
		return compileArith(env, x)
	case *ast.Comparison:
		return compileComparison(env, x)
	case *ast.LogicalAnd:
		return compileAnd(env, x)
	case *ast.LogicalOr:
		return compileOr(env, x)
	case *ast.Not:
		return compileNot(env, x)
	case *ast.Between:
		return compileBetween(env, x)
	case *ast.In:
		return compileIn(env, x)
	case *ast.InstanceOf:
		return compileInstanceOf(env, x)
	case *ast.UnaryTest:
		return compileUnaryTest(env, x)
	case *ast.IfThenElse:
		return compileIf(env, x)
	case *ast.ForExpr:
		return compileFor(env, x)
	case *ast.SomeEvery:
		return compileSomeEvery(env, x)
	case *ast.Filter:
		return compileFilter(env, x)
	case *ast.FunctionDef:
		return compileFunctionDef(env, x)
	case *ast.Invocation:
		return compileInvocation(env, x)
	case *ast.ContextExpr:
		return compileContext(env, x)
	case *ast.TypeName, *ast.ListType, *ast.RangeType, *ast.ContextType, *ast.FunctionType:
		return compileTypeExpr(env, n)
	}
	return nil, errors.Newf("eval: unsupported AST node %T", n)
}

func compileLiteralNumber(x *ast.LiteralNumber) (value.Closure, error) {
	n, ok := number.Parse(x.Text)
	if !ok {
		return nil, errors.Newf("eval: malformed number literal %q", x.Text)
	}
	v := value.NewNum(n)
	return func(*value.Scope) value.Value { return v }, nil
}

func compileLiteralTemporal(x *ast.LiteralTemporal) (value.Closure, error) {
	text := x.Text
	return func(*value.Scope) value.Value {
		if d, err := temporal.ParseDateTime(text); err == nil {
			return value.DateTimeVal{DT: d}
		}
		if d, err := temporal.ParseDate(text); err == nil {
			return value.DateVal{D: d}
		}
		if t, err := temporal.ParseTime(text); err == nil {
			return value.TimeVal{T: t}
		}
		if ym, dt, isYM, err := temporal.ParseDuration(text); err == nil {
			if isYM {
				return value.YearsMonthsVal{Y: ym}
			}
			return value.DaysTimeVal{D: dt}
		}
		return value.NullTrace("unparsable temporal literal %q", text)
	}, nil
}

func nameFromRef(r ast.NameRef) feelname.Name {
	return feelname.MustNew(r.Tokens...)
}

func compileNameRef(env *Env, x *ast.NameRef) (value.Closure, error) {
	n := nameFromRef(*x)
	builtins := env.Builtins
	return func(s *value.Scope) value.Value {
		if v, ok := s.Lookup(n); ok {
			return v
		}
		if builtins != nil {
			if fn, ok := builtins.Lookup(n.String()); ok {
				return fn
			}
		}
		return value.NullTrace("unbound name %q", n.String())
	}, nil
}

func compileQualifiedName(x *ast.QualifiedName) (value.Closure, error) {
	segs := make([]feelname.Name, len(x.Segments))
	for i, s := range x.Segments {
		segs[i] = nameFromRef(s)
	}
	return func(s *value.Scope) value.Value {
		if v, ok := s.LookupQualified(segs); ok {
			return v
		}
		return value.NullTrace("unresolved qualified name")
	}, nil
}

func compilePath(env *Env, x *ast.Path) (value.Closure, error) {
	obj, err := Compile(env, x.Object)
	if err != nil {
		return nil, err
	}
	name := nameFromRef(x.Name)
	return func(s *value.Scope) value.Value {
		ov := obj(s)
		ctx, ok := ov.(value.Context)
		if !ok {
			return value.NullTrace("path: %q is not a context", name.String())
		}
		v, ok := ctx.Get(name)
		if !ok {
			return value.NullTrace("missing context entry %q", name.String())
		}
		return v
	}, nil
}

func compileList(env *Env, x *ast.ListExpr) (value.Closure, error) {
	items, err := compileAll(env, x.Items)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		out := make([]value.Value, len(items))
		for i, c := range items {
			out[i] = c(s)
		}
		return value.List{Items: out}
	}, nil
}

func compileNegatedList(env *Env, x *ast.NegatedList) (value.Closure, error) {
	items, err := compileAll(env, x.Items)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		out := make([]value.Value, len(items))
		for i, c := range items {
			out[i] = c(s)
		}
		return value.NegatedCommaList{Items: out}
	}, nil
}

func compileAll(env *Env, nodes []ast.Node) ([]value.Closure, error) {
	out := make([]value.Closure, len(nodes))
	for i, n := range nodes {
		c, err := Compile(env, n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func compileRange(env *Env, x *ast.RangeExpr) (value.Closure, error) {
	start, err := Compile(env, x.Start.Value)
	if err != nil {
		return nil, err
	}
	end, err := Compile(env, x.End.Value)
	if err != nil {
		return nil, err
	}
	sc, ec := x.Start.Closed, x.End.Closed
	return func(s *value.Scope) value.Value {
		return value.Range{Start: start(s), StartClose: sc, End: end(s), EndClose: ec}
	}, nil
}

// FreeNames returns the set of names referenced but not locally bound
// within n, used for function-closure capture (spec.md §6 "closure-
// capture utility", §9 "Closures"). It is a syntactic, conservative
// over-approximation: it does not attempt to exclude names that a
// nested `for`/function definition happens to shadow, since capturing a
// few extra (harmless, because Scope lookup always prefers the
// innermost binder) names is cheaper and safer than under-capturing.
func FreeNames(n ast.Node) []feelname.Name {
	var names []feelname.Name
	var walk func(ast.Node)
	add := func(r ast.NameRef) { names = append(names, nameFromRef(r)) }
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		switch x := n.(type) {
		case *ast.NameRef:
			add(*x)
		case *ast.QualifiedName:
			if len(x.Segments) > 0 {
				add(x.Segments[0])
			}
		case *ast.Path:
			walk(x.Object)
		case *ast.ListExpr:
			for _, it := range x.Items {
				walk(it)
			}
		case *ast.NegatedList:
			for _, it := range x.Items {
				walk(it)
			}
		case *ast.RangeExpr:
			walk(x.Start.Value)
			walk(x.End.Value)
		case *ast.BinaryArith:
			walk(x.Left)
			walk(x.Right)
		case *ast.Comparison:
			walk(x.Left)
			walk(x.Right)
		case *ast.LogicalAnd:
			walk(x.Left)
			walk(x.Right)
		case *ast.LogicalOr:
			walk(x.Left)
			walk(x.Right)
		case *ast.Not:
			walk(x.Operand)
		case *ast.Between:
			walk(x.Subject)
			walk(x.Low)
			walk(x.High)
		case *ast.In:
			walk(x.Subject)
			walk(x.RHS)
		case *ast.InstanceOf:
			walk(x.Subject)
		case *ast.UnaryTest:
			walk(x.Operand)
		case *ast.IfThenElse:
			walk(x.Cond)
			walk(x.Then)
			walk(x.Else)
		case *ast.ForExpr:
			for _, c := range x.Contexts {
				walk(c.Source)
				walk(c.RangeEnd)
			}
			walk(x.Body)
		case *ast.SomeEvery:
			for _, c := range x.Contexts {
				walk(c.Source)
				walk(c.RangeEnd)
			}
			walk(x.Satisfies)
		case *ast.Filter:
			walk(x.List)
			walk(x.Predicate)
		case *ast.FunctionDef:
			walk(x.Body)
		case *ast.Invocation:
			walk(x.Callee)
			for _, a := range x.Positional {
				walk(a.Value)
			}
			for _, a := range x.Named {
				walk(a.Value)
			}
		case *ast.ContextExpr:
			for _, e := range x.Entries {
				walk(e.Key.Computed)
				walk(e.Value)
			}
		}
	}
	walk(n)
	return names
}
