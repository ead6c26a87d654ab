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

// Package ast declares the FEEL AST node kinds the evaluator (package
// eval) compiles (spec.md §4.3, §6 "Consumed from the parser"). The
// grammar/parser that produces these trees is an external collaborator
// and out of this module's scope; this package only declares the shapes
// a parser must produce.
package ast

// Node is implemented by every FEEL AST node.
type Node interface {
	node()
}

type base struct{}

func (base) node() {}

// --- literals ---

type LiteralNumber struct {
	base
	Text string // decimal text, handed to package number.Parse
}

type LiteralString struct {
	base
	Value string
}

type LiteralBoolean struct {
	base
	Value bool
}

type LiteralNull struct{ base }

// LiteralTemporal is the `@"…"` literal; Text is handed to package
// temporal's parsers, trying date, time, date-and-time, then duration in
// turn (the parser does not know which kind a literal is ahead of time).
type LiteralTemporal struct {
	base
	Text string
}

// Irrelevant is the `-` dash, valid only as a decision-table rule entry
// or unary test right-hand side.
type Irrelevant struct{ base }

// --- names and paths ---

// NameRef is a single-or-multi-word name reference, tokenized by the
// parser's longest-match tokenizer (spec.md §6).
type NameRef struct {
	base
	Tokens []string
}

// QualifiedName is a dotted sequence of NameRefs, e.g. `a.b.c`.
type QualifiedName struct {
	base
	Segments []NameRef
}

// Path is `Object . Name`: a single extra segment appended to an
// arbitrary expression (as opposed to QualifiedName, which is a bare
// name sequence used for top-level references).
type Path struct {
	base
	Object Node
	Name   NameRef
}

// --- collections ---

type ListExpr struct {
	base
	Items []Node
}

// NegatedList is `not(a, b, c)` as an expression (as distinct from its
// use as an `in` right-hand side, which the evaluator recognizes from
// context).
type NegatedList struct {
	base
	Items []Node
}

// IntervalEnd is one endpoint of a RangeExpr: an expression plus whether
// that end is closed ("[", "]") or open ("(", ")").
type IntervalEnd struct {
	Value  Node
	Closed bool
}

type RangeExpr struct {
	base
	Start IntervalEnd
	End   IntervalEnd
}

// --- operators ---

type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Exp
)

type BinaryArith struct {
	base
	Op          ArithOp
	Left, Right Node
}

type CompareOp int

const (
	Less CompareOp = iota
	LessOrEqual
	Equal
	NotEqual
	GreaterOrEqual
	Greater
)

type Comparison struct {
	base
	Op          CompareOp
	Left, Right Node
}

type LogicalAnd struct {
	base
	Left, Right Node
}

type LogicalOr struct {
	base
	Left, Right Node
}

type Not struct {
	base
	Operand Node
}

// Between is `x between a and b`.
type Between struct {
	base
	Subject, Low, High Node
}

// In is `x in rhs`, where rhs may parse to any of the shapes enumerated
// in spec.md §4.3 ("in operator"): a bare expression (scalar/list/range),
// an ExpressionList, a NegatedList, or a UnaryTest.
type In struct {
	base
	Subject, RHS Node
}

// InstanceOf is `x instance of T`, where Type is a type-constructor node
// (TypeName, ListType, RangeType, ContextType, FunctionType).
type InstanceOf struct {
	base
	Subject Node
	Type    Node
}

// UnaryTest is `< x`, `<= x`, `> x`, `>= x` used standalone (e.g. as a
// decision-table rule entry or a filter predicate).
type UnaryTest struct {
	base
	Op      CompareOp
	Operand Node
}

// --- control flow ---

type IfThenElse struct {
	base
	Cond, Then, Else Node
}

// IterationContext is one `for`/`some`/`every` binding: either a single
// expression that must evaluate to a list (RangeEnd == nil), or a
// (start, end) pair producing an integer sequence.
type IterationContext struct {
	Name     NameRef
	Source   Node // the list expression, or the range start when RangeEnd != nil
	RangeEnd Node // non-nil for `for i in a..b`
}

type ForExpr struct {
	base
	Contexts []IterationContext
	Body     Node
}

type SomeEvery struct {
	base
	Every    bool
	Contexts []IterationContext
	Satisfies Node
}

// Filter is `list[predicate]`.
type Filter struct {
	base
	List, Predicate Node
}

// --- functions ---

type FormalParam struct {
	Name NameRef
	Type Node // nil if undeclared; otherwise a type-constructor node
}

type FunctionDef struct {
	base
	Params   []FormalParam
	Result   Node // nil if undeclared
	Body     Node
	External bool
}

// PositionalArg / NamedArg distinguish the two invocation syntaxes
// spec.md §4.3 describes.
type PositionalArg struct{ Value Node }
type NamedArg struct {
	Name  NameRef
	Value Node
}

type Invocation struct {
	base
	Callee     Node
	Positional []PositionalArg
	Named      []NamedArg
}

// --- contexts ---

// ContextEntryKey is either a plain name or a computed string-key
// expression (FEEL allows both `foo: 1` and `"foo": 1` as entry keys).
type ContextEntryKey struct {
	Name NameRef // zero value if Computed != nil
	Computed Node
}

type ContextEntry struct {
	Key   ContextEntryKey
	Value Node
}

type ContextExpr struct {
	base
	Entries []ContextEntry
}

// --- type constructors ---

// TypeName is a bare type reference: "number", "string", "boolean",
// "date", "time", "date and time", "days and time duration",
// "years and months duration", "Any", or a previously defined item
// definition name.
type TypeName struct {
	base
	Name string
}

type ListType struct {
	base
	Elem Node
}

type RangeType struct {
	base
	Elem Node
}

type ContextTypeEntry struct {
	Name string
	Type Node
}

type ContextType struct {
	base
	Entries []ContextTypeEntry
}

type FunctionType struct {
	base
	Params []Node
	Result Node
}
