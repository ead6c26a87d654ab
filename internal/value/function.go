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

import (
	"strings"

	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/types"
)

// Closure is the compiled form of a FEEL expression: a pure function
// from a Scope to a Value (spec.md §4.3 "each AST node is translated to
// a closure of type Scope -> Value").
type Closure func(*Scope) Value

// Param is one formal parameter of a FunctionDefinition.
type Param struct {
	Name feelname.Name
	Type types.Type // types.Any if undeclared
}

// FunctionDefinition is a first-class FEEL function value: formal
// parameters, a compiled body, the Context captured by value at
// definition time, a declared result type, and the external flag
// (spec.md §3, §4.3).
type FunctionDefinition struct {
	Params   []Param
	Body     Closure
	Closure  Context
	Result   types.Type // types.Any if undeclared
	External bool
}

func (FunctionDefinition) isValue() {}
func (f FunctionDefinition) Kind() types.Type {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return types.Function(params, f.Result)
}
func (f FunctionDefinition) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name.String()
	}
	return "function(" + strings.Join(names, ", ") + ")"
}

// BuiltInTag names a single built-in function (spec.md §4.4); the actual
// implementation is looked up in package builtins, which depends on
// package value, not the reverse, so BuiltInFunction only carries the
// tag here.
type BuiltInTag string

// BuiltInFunction is a reference to a named built-in (spec.md §3).
type BuiltInFunction struct{ Tag BuiltInTag }

func (BuiltInFunction) isValue()         {}
func (BuiltInFunction) Kind() types.Type { return types.Any }
func (b BuiltInFunction) String() string { return string(b.Tag) }

// --- AST-transient variants (spec.md §3) ---
//
// These never appear as the result of an arbitrary expression; they are
// produced only when evaluating the right-hand side of `in`, a filter
// predicate used as a unary test, or a decision-table rule's input
// entry, and are consumed immediately by the `in`/test evaluator
// (package eval).

// CompareOp is the comparison operator of a UnaryTest.
type CompareOp int

const (
	OpLess CompareOp = iota
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
)

// UnaryTest represents `< x`, `<= x`, `> x`, `>= x` used as an `in`
// right-hand side or a decision-table input entry.
type UnaryTest struct {
	Op   CompareOp
	Comp Value
}

func (UnaryTest) isValue()         {}
func (UnaryTest) Kind() types.Type { return types.Any }
func (u UnaryTest) String() string {
	ops := [...]string{"<", "<=", ">", ">="}
	return ops[u.Op] + " " + u.Comp.String()
}

// ExpressionList is a bare comma-separated list used as an `in`
// right-hand side, e.g. `x in 1,2,3` — distinct from a List literal.
type ExpressionList struct{ Items []Value }

func (ExpressionList) isValue()         {}
func (ExpressionList) Kind() types.Type { return types.Any }
func (e ExpressionList) String() string {
	parts := make([]string, len(e.Items))
	for i, v := range e.Items {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// NegatedCommaList represents `not(a, b, c)` used as an `in` right-hand
// side: true iff none of the items match.
type NegatedCommaList struct{ Items []Value }

func (NegatedCommaList) isValue()         {}
func (NegatedCommaList) Kind() types.Type { return types.Any }
func (n NegatedCommaList) String() string {
	parts := make([]string, len(n.Items))
	for i, v := range n.Items {
		parts[i] = v.String()
	}
	return "not(" + strings.Join(parts, ", ") + ")"
}

// Irrelevant is the `-` dash: an `in` right-hand side that always
// matches, used in decision-table rule entries (spec.md §4.5).
type Irrelevant struct{}

func (Irrelevant) isValue()         {}
func (Irrelevant) Kind() types.Type { return types.Any }
func (Irrelevant) String() string   { return "-" }
