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

package dtable

import (
	"testing"

	"github.com/dmntk-go/dmntk/internal/ast"
	"github.com/dmntk-go/dmntk/internal/eval"
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/types"
	"github.com/dmntk-go/dmntk/internal/value"
)

func num(text string) *ast.LiteralNumber { return &ast.LiteralNumber{Text: text} }
func str(s string) *ast.LiteralString    { return &ast.LiteralString{Value: s} }
func nameRef(tokens ...string) *ast.NameRef {
	return &ast.NameRef{Tokens: tokens}
}

// TestUniqueSingleOutput is spec.md §4.5/S2: a Unique-policy table
// choosing the single matching rule by string equality and a numeric
// unary test.
func TestUniqueSingleOutput(t *testing.T) {
	table := &Table{
		Inputs: []InputClause{
			{Expr: nameRef("Customer")},
			{Expr: nameRef("Order")},
		},
		Outputs: []OutputClause{
			{Type: types.Number},
		},
		Rules: []Rule{
			{
				Inputs:  []ast.Node{str("Business"), &ast.UnaryTest{Op: ast.Less, Operand: num("10")}},
				Outputs: []ast.Node{num("0.10")},
			},
			{
				Inputs:  []ast.Node{str("Business"), &ast.UnaryTest{Op: ast.GreaterOrEqual, Operand: num("10")}},
				Outputs: []ast.Node{num("0.15")},
			},
			{
				Inputs:  []ast.Node{str("Private"), &ast.Irrelevant{}},
				Outputs: []ast.Node{num("0.05")},
			},
		},
		Policy: Unique,
	}

	env := eval.NewEnv(nil)
	compiled, err := Compile(env, table)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	frame := value.Context{}.
		With(feelname.MustNew("Customer"), value.Str("Business")).
		With(feelname.MustNew("Order"), value.NewNum(number.FromInt64(10)))
	scope := value.NewScope(frame)

	got := Evaluate(compiled, scope)
	n, ok := got.(value.Num)
	if !ok {
		t.Fatalf("Evaluate: got %v (%T), want a Number", got, got)
	}
	want, _ := number.Parse("0.15")
	if !number.Equal(n.N, want) {
		t.Errorf("Evaluate: got %s, want 0.15", n.N.String())
	}
}

// TestUniqueTwoMatchesIsNull exercises the Unique hit-policy violation
// edge case (spec.md §4.5 "two or more ⇒ Null with trace").
func TestUniqueTwoMatchesIsNull(t *testing.T) {
	table := &Table{
		Inputs:  []InputClause{{Expr: nameRef("x")}},
		Outputs: []OutputClause{{Type: types.Number}},
		Rules: []Rule{
			{Inputs: []ast.Node{&ast.Irrelevant{}}, Outputs: []ast.Node{num("1")}},
			{Inputs: []ast.Node{&ast.Irrelevant{}}, Outputs: []ast.Node{num("2")}},
		},
		Policy: Unique,
	}
	env := eval.NewEnv(nil)
	compiled, err := Compile(env, table)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	scope := value.NewScope(value.Context{}.With(feelname.MustNew("x"), value.NewNum(number.FromInt64(1))))
	got := Evaluate(compiled, scope)
	if _, ok := got.(value.Null); !ok {
		t.Fatalf("Evaluate: got %v (%T), want Null", got, got)
	}
}

// TestPriorityMultiInput is spec.md §4.5/S3: a Priority-policy,
// multi-input, multi-output table resolved by output-clause allowed-
// value rank.
func TestPriorityMultiInput(t *testing.T) {
	riskPriority := &ast.ListExpr{Items: []ast.Node{str("High"), str("Medium"), str("Low")}}

	table := &Table{
		Inputs: []InputClause{
			{Expr: nameRef("Applicant", "age")},
			{Expr: nameRef("Medical", "history")},
		},
		Outputs: []OutputClause{
			{Name: "risk", Type: types.String, AllowedValues: riskPriority},
			{Name: "discount", Type: types.Number},
		},
		Rules: []Rule{
			{
				Inputs:  []ast.Node{&ast.UnaryTest{Op: ast.Greater, Operand: num("60")}, str("bad")},
				Outputs: []ast.Node{str("High"), num("0")},
			},
			{
				Inputs:  []ast.Node{&ast.UnaryTest{Op: ast.Greater, Operand: num("60")}, &ast.Irrelevant{}},
				Outputs: []ast.Node{str("Medium"), num("5")},
			},
		},
		Policy: Priority,
	}

	env := eval.NewEnv(nil)
	compiled, err := Compile(env, table)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	frame := value.Context{}.
		With(feelname.MustNew("Applicant", "age"), value.NewNum(number.FromInt64(61))).
		With(feelname.MustNew("Medical", "history"), value.Str("bad"))
	scope := value.NewScope(frame)

	got := Evaluate(compiled, scope)
	ctx, ok := got.(value.Context)
	if !ok {
		t.Fatalf("Evaluate: got %v (%T), want a Context", got, got)
	}
	risk, ok := ctx.Get(feelname.MustNew("risk"))
	if !ok || value.Equal(risk, value.Str("High")) != value.TriTrue {
		t.Errorf("risk: got %v, want High", risk)
	}
	discount, ok := ctx.Get(feelname.MustNew("discount"))
	if !ok {
		t.Fatalf("discount: missing")
	}
	n, ok := discount.(value.Num)
	if !ok || !n.N.IsZero() {
		t.Errorf("discount: got %v, want 0", discount)
	}
}

// TestCollectSum exercises the Collect(Sum) aggregation over a
// single-output table.
func TestCollectSum(t *testing.T) {
	table := &Table{
		Inputs:  []InputClause{{Expr: nameRef("x")}},
		Outputs: []OutputClause{{Type: types.Number}},
		Rules: []Rule{
			{Inputs: []ast.Node{&ast.UnaryTest{Op: ast.Greater, Operand: num("0")}}, Outputs: []ast.Node{num("2")}},
			{Inputs: []ast.Node{&ast.UnaryTest{Op: ast.Greater, Operand: num("0")}}, Outputs: []ast.Node{num("3")}},
		},
		Policy:      Collect,
		Aggregation: CollectSum,
	}
	env := eval.NewEnv(nil)
	compiled, err := Compile(env, table)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	scope := value.NewScope(value.Context{}.With(feelname.MustNew("x"), value.NewNum(number.FromInt64(5))))
	got := Evaluate(compiled, scope)
	n, ok := got.(value.Num)
	if !ok {
		t.Fatalf("Evaluate: got %v (%T), want a Number", got, got)
	}
	want, _ := number.Parse("5")
	if !number.Equal(n.N, want) {
		t.Errorf("Evaluate: got %s, want 5", n.N.String())
	}
}

// TestNoMatchDefault exercises the default-output fallback (spec.md
// §4.5 step 4).
func TestNoMatchDefault(t *testing.T) {
	table := &Table{
		Inputs:  []InputClause{{Expr: nameRef("x")}},
		Outputs: []OutputClause{{Type: types.Number, Default: num("99")}},
		Rules: []Rule{
			{Inputs: []ast.Node{&ast.UnaryTest{Op: ast.Less, Operand: num("0")}}, Outputs: []ast.Node{num("1")}},
		},
		Policy: Unique,
	}
	env := eval.NewEnv(nil)
	compiled, err := Compile(env, table)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	scope := value.NewScope(value.Context{}.With(feelname.MustNew("x"), value.NewNum(number.FromInt64(5))))
	got := Evaluate(compiled, scope)
	n, ok := got.(value.Num)
	if !ok {
		t.Fatalf("Evaluate: got %v (%T), want a Number", got, got)
	}
	want, _ := number.Parse("99")
	if !number.Equal(n.N, want) {
		t.Errorf("Evaluate: got %s, want 99", n.N.String())
	}
}
