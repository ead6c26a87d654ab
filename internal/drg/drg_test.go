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

package drg

import (
	"testing"

	"github.com/dmntk-go/dmntk/internal/ast"
	"github.com/dmntk-go/dmntk/internal/eval"
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/model"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/value"
)

// buildGraph wires a small DRG: a "base" decision that passes an input
// variable through, a "doubles" BKM, and a "derived" decision that
// invokes the BKM against "base"'s result (spec.md §4.6).
func buildGraph(t *testing.T) (*Graph, model.Key, model.Key, model.Key) {
	t.Helper()
	ns := "http://example.com/test"
	baseKey := model.Key{Namespace: ns, ID: "base"}
	doublesKey := model.Key{Namespace: ns, ID: "doubles"}
	derivedKey := model.Key{Namespace: ns, ID: "derived"}
	svcKey := model.Key{Namespace: ns, ID: "svc"}

	defs := model.NewDefinitions(ns)
	defs.BKMs[doublesKey] = &model.BusinessKnowledgeModel{
		Key:      doublesKey,
		Variable: model.Variable{Name: "doubles"},
		Params:   []model.Variable{{Name: "x"}},
		Body: &ast.BinaryArith{
			Op:    ast.Mul,
			Left:  &ast.NameRef{Tokens: []string{"x"}},
			Right: &ast.LiteralNumber{Text: "2"},
		},
	}
	defs.Decisions[baseKey] = &model.Decision{
		Key:        baseKey,
		Variable:   model.Variable{Name: "base"},
		Expression: &ast.NameRef{Tokens: []string{"Input"}},
	}
	defs.Decisions[derivedKey] = &model.Decision{
		Key:      derivedKey,
		Variable: model.Variable{Name: "derived"},
		Expression: &ast.Invocation{
			Callee:     &ast.NameRef{Tokens: []string{"doubles"}},
			Positional: []ast.PositionalArg{{Value: &ast.NameRef{Tokens: []string{"base"}}}},
		},
		InformationRequirements: []model.Key{baseKey},
		KnowledgeRequirements:   []model.Key{doublesKey},
	}
	defs.DecisionServices[svcKey] = &model.DecisionService{
		Key:                   svcKey,
		OutputDecisions:       []model.Key{derivedKey},
		EncapsulatedDecisions: []model.Key{baseKey},
	}

	g, err := Build(eval.NewEnv(nil), defs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g, baseKey, derivedKey, svcKey
}

func inputContext(n int64) value.Context {
	ctx, _ := value.NewContext(value.Entry{Name: feelname.MustNew("Input"), Value: value.NewNum(number.FromInt64(n))})
	return ctx
}

func TestEvaluateInvocableDecision(t *testing.T) {
	g, _, derivedKey, _ := buildGraph(t)
	got := EvaluateInvocable(g, derivedKey, inputContext(5))
	n, ok := got.(value.Num)
	if !ok {
		t.Fatalf("EvaluateInvocable: got %v (%T), want a Number", got, got)
	}
	want, _ := number.Parse("10")
	if !number.Equal(n.N, want) {
		t.Errorf("EvaluateInvocable: got %s, want 10", n.N.String())
	}
}

func TestEvaluateInvocableDecisionService(t *testing.T) {
	g, _, _, svcKey := buildGraph(t)
	got := EvaluateInvocable(g, svcKey, inputContext(7))
	n, ok := got.(value.Num)
	if !ok {
		t.Fatalf("EvaluateInvocable: got %v (%T), want a bare Number (single output decision)", got, got)
	}
	want, _ := number.Parse("14")
	if !number.Equal(n.N, want) {
		t.Errorf("EvaluateInvocable: got %s, want 14", n.N.String())
	}
}

func TestEvaluateInvocableRepeatedCallsAgree(t *testing.T) {
	// Two separate invocations of the same decision with equal input
	// yield equal results: the per-invocation memo does not leak between
	// calls.
	g, baseKey, derivedKey, _ := buildGraph(t)
	_ = baseKey
	got1 := EvaluateInvocable(g, derivedKey, inputContext(3))
	got2 := EvaluateInvocable(g, derivedKey, inputContext(3))
	n1, _ := got1.(value.Num)
	n2, _ := got2.(value.Num)
	if !number.Equal(n1.N, n2.N) {
		t.Errorf("EvaluateInvocable: got %s and %s, want equal results for equal input (spec.md §4.6 'Decision-table determinism' extends to decisions)", n1.N.String(), n2.N.String())
	}
}
