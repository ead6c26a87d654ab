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

// Package drg implements C10, the decision-requirements-graph linker
// and model evaluator (spec.md §4.6): it builds a per-decision
// evaluator from a normalized model.Definitions, resolving business-
// knowledge-model and decision references at compile time, then
// evaluates any invocable (a decision or a decision service) against an
// input context at run time.
package drg

import (
	"github.com/dmntk-go/dmntk/internal/dtable"
	"github.com/dmntk-go/dmntk/internal/errors"
	"github.com/dmntk-go/dmntk/internal/eval"
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/model"
	"github.com/dmntk-go/dmntk/internal/types"
	"github.com/dmntk-go/dmntk/internal/value"
)

// decisionNode is a decision's compiled-once evaluator: either a
// compiled expression or a compiled decision table, never both (spec.md
// §4.6 "a decision-logic expression instance").
type decisionNode struct {
	key        model.Key
	varName    feelname.Name
	resultType types.Type

	informationReqs []model.Key // input data or other decisions
	knowledgeReqs   []model.Key // BKMs this decision's logic invokes

	expr  value.Closure   // non-nil for an expression-logic decision
	table *dtable.Compiled // non-nil for a decision-table decision
}

// Graph is a fully compiled DRG: every decision and business-knowledge
// model has a build-once evaluator, ready for repeated EvaluateInvocable
// calls against independent input contexts (spec.md §5).
type Graph struct {
	defs      *model.Definitions
	bkmFns    map[model.Key]value.FunctionDefinition
	decisions map[model.Key]*decisionNode
}

// Build compiles every business-knowledge model and decision in defs
// against env (spec.md §4.6 "Build order: topological — leaves first;
// business-knowledge models next; decisions last"). Input data and item
// definitions carry no executable logic of their own, so they need no
// build step beyond the type resolution model.ResolveType already
// provides on demand.
func Build(env *eval.Env, defs *model.Definitions) (*Graph, error) {
	bkmFns, err := buildBKMs(env, defs)
	if err != nil {
		return nil, err
	}
	g := &Graph{defs: defs, bkmFns: bkmFns, decisions: map[model.Key]*decisionNode{}}
	for key, d := range defs.Decisions {
		node := &decisionNode{
			key:             key,
			varName:         feelname.MustNew(d.Variable.Name),
			resultType:      model.VariableType(defs, d.Variable),
			informationReqs: d.InformationRequirements,
			knowledgeReqs:   d.KnowledgeRequirements,
		}
		switch {
		case d.Table != nil:
			tc, err := dtable.Compile(env, d.Table)
			if err != nil {
				return nil, errors.Wrapf(err, key.String(), "compiling decision table")
			}
			node.table = tc
		case d.Expression != nil:
			ec, err := eval.Compile(env, d.Expression)
			if err != nil {
				return nil, errors.Wrapf(err, key.String(), "compiling decision expression")
			}
			node.expr = ec
		default:
			return nil, errors.Newf("drg: decision %s has neither an expression nor a table", key)
		}
		g.decisions[key] = node
	}
	return g, nil
}

// buildBKMs compiles every business-knowledge model's encapsulated
// logic into a value.FunctionDefinition, in knowledge-requirement
// topological order, so a BKM that invokes another BKM closes over an
// already-built FunctionDefinition value (spec.md §4.6 "they may
// reference other BKMs"). A knowledge-requirement cycle surfaces as a
// compile-time error (spec.md §4.6 "Failure: ... cyclic requirement").
func buildBKMs(env *eval.Env, defs *model.Definitions) (map[model.Key]value.FunctionDefinition, error) {
	fns := map[model.Key]value.FunctionDefinition{}
	visiting := map[model.Key]bool{}

	var visit func(key model.Key) error
	visit = func(key model.Key) error {
		if _, done := fns[key]; done {
			return nil
		}
		if visiting[key] {
			return errors.Newf("drg: cyclic knowledge requirement at %s", key)
		}
		bkm, ok := defs.BKMs[key]
		if !ok {
			return errors.Newf("drg: unresolved business knowledge model %s", key)
		}
		visiting[key] = true
		for _, req := range bkm.KnowledgeRequirements {
			if err := visit(req); err != nil {
				return err
			}
		}
		fn, err := buildBKM(env, defs, bkm, fns)
		if err != nil {
			return errors.Wrapf(err, key.String(), "compiling business knowledge model")
		}
		fns[key] = fn
		visiting[key] = false
		return nil
	}

	for key := range defs.BKMs {
		if err := visit(key); err != nil {
			return nil, err
		}
	}
	return fns, nil
}

func buildBKM(env *eval.Env, defs *model.Definitions, bkm *model.BusinessKnowledgeModel, built map[model.Key]value.FunctionDefinition) (value.FunctionDefinition, error) {
	params := make([]value.Param, len(bkm.Params))
	for i, p := range bkm.Params {
		params[i] = value.Param{Name: feelname.MustNew(p.Name), Type: model.VariableType(defs, p)}
	}
	body, err := eval.Compile(env, bkm.Body)
	if err != nil {
		return value.FunctionDefinition{}, err
	}
	closure := value.Context{}
	for _, req := range bkm.KnowledgeRequirements {
		reqBkm, ok := defs.BKMs[req]
		if !ok {
			return value.FunctionDefinition{}, errors.Newf("drg: unresolved knowledge requirement %s", req)
		}
		fn, ok := built[req]
		if !ok {
			return value.FunctionDefinition{}, errors.Newf("drg: knowledge requirement %s not yet built", req)
		}
		closure = closure.With(feelname.MustNew(reqBkm.Variable.Name), fn)
	}
	return value.FunctionDefinition{
		Params:  params,
		Body:    body,
		Closure: closure,
		Result:  model.VariableType(defs, bkm.Variable),
	}, nil
}

// invocation is one EvaluateInvocable call's working state: the
// caller-supplied input context plus a per-decision memo so a diamond
// dependency (spec.md §9 "Cyclic references ... shared sub-graphs") is
// evaluated at most once.
type invocation struct {
	g    *Graph
	base value.Context
	memo map[model.Key]value.Value
}

func (inv *invocation) resolveDecision(key model.Key) value.Value {
	if v, ok := inv.memo[key]; ok {
		return v
	}
	node, ok := inv.g.decisions[key]
	if !ok {
		return value.NullTrace("drg: unresolved decision reference %s", key)
	}
	frame := inv.base
	for _, req := range node.informationReqs {
		if reqNode, ok := inv.g.decisions[req]; ok {
			frame = frame.With(reqNode.varName, inv.resolveDecision(req))
		}
		// An information requirement on input data needs no injection:
		// inv.base already carries it, bound by the input-data variable
		// name the caller supplied.
	}
	for _, req := range node.knowledgeReqs {
		bkm, ok := inv.g.defs.BKMs[req]
		if !ok {
			continue
		}
		frame = frame.With(feelname.MustNew(bkm.Variable.Name), inv.g.bkmFns[req])
	}

	scope := value.NewScope(frame)
	var result value.Value
	switch {
	case node.table != nil:
		result = dtable.Evaluate(node.table, scope)
	case node.expr != nil:
		result = node.expr(scope)
	default:
		result = value.NullTrace("drg: decision %s has no compiled logic", key)
	}
	result = value.Coerce(node.resultType, result)
	inv.memo[key] = result
	return result
}

// EvaluateInvocable evaluates a decision or decision service by key
// against input (spec.md §4.6 "At call time"). Evaluation is a pure
// function of (Graph, key, input): the Graph is never mutated, so
// independent calls may run concurrently (spec.md §5).
func EvaluateInvocable(g *Graph, key model.Key, input value.Context) value.Value {
	if _, ok := g.decisions[key]; ok {
		inv := &invocation{g: g, base: input, memo: map[model.Key]value.Value{}}
		return inv.resolveDecision(key)
	}
	if svc, ok := g.defs.DecisionServices[key]; ok {
		return evaluateService(g, svc, input)
	}
	return value.NullTrace("drg: unknown invocable %s", key)
}

// evaluateService implements spec.md §4.6 "Decision service": a single
// output decision returns its bare value; otherwise a Context of
// (output-decision-name -> value). Encapsulated decisions are never
// exposed as top-level entries, though resolveDecision still reaches
// them transitively through an output decision's information
// requirements.
func evaluateService(g *Graph, svc *model.DecisionService, input value.Context) value.Value {
	inv := &invocation{g: g, base: input, memo: map[model.Key]value.Value{}}
	if len(svc.OutputDecisions) == 1 {
		return inv.resolveDecision(svc.OutputDecisions[0])
	}
	entries := make([]value.Entry, len(svc.OutputDecisions))
	for i, key := range svc.OutputDecisions {
		node, ok := g.decisions[key]
		if !ok {
			return value.NullTrace("drg: decision service references unresolved decision %s", key)
		}
		entries[i] = value.Entry{Name: node.varName, Value: inv.resolveDecision(key)}
	}
	ctx, ok := value.NewContext(entries...)
	if !ok {
		return value.NullTrace("drg: decision service output names collide")
	}
	return ctx
}
