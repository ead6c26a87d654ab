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

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmntk-go/dmntk/internal/ast"
	"github.com/dmntk-go/dmntk/internal/dtable"
	"github.com/dmntk-go/dmntk/internal/model"
	"github.com/dmntk-go/dmntk/internal/types"
)

// This file stands in for the out-of-scope DMN XML model loader
// (spec.md §6 "Consumed from the model loader (collaborator)"): a
// small YAML manifest format that builds a model.Definitions directly,
// bypassing the FEEL grammar/parser and DMN XML dialect non-goals
// (SPEC_FULL.md §6) while still exercising internal/runtime, the real
// driver this command illustrates.

// exprNode is the YAML shape of a FEEL expression tree. Exactly one
// field should be set; it is translated to the matching ast.Node.
type exprNode struct {
	Number     *string        `yaml:"number,omitempty"`
	String     *string        `yaml:"string,omitempty"`
	Boolean    *bool          `yaml:"boolean,omitempty"`
	Name       []string       `yaml:"name,omitempty"`
	Irrelevant bool           `yaml:"irrelevant,omitempty"`
	UnaryTest  *unaryTestNode `yaml:"unaryTest,omitempty"`
	Arith      *arithNode     `yaml:"arith,omitempty"`
	Compare    *compareNode   `yaml:"compare,omitempty"`
	And        *binNode       `yaml:"and,omitempty"`
	Or         *binNode       `yaml:"or,omitempty"`
	Not        *exprNode      `yaml:"not,omitempty"`
	If         *ifNode        `yaml:"if,omitempty"`
	Invoke     *invokeNode    `yaml:"invoke,omitempty"`
}

type unaryTestNode struct {
	Op    string    `yaml:"op"`
	Value *exprNode `yaml:"value"`
}

type arithNode struct {
	Op    string    `yaml:"op"`
	Left  *exprNode `yaml:"left"`
	Right *exprNode `yaml:"right"`
}

type compareNode struct {
	Op    string    `yaml:"op"`
	Left  *exprNode `yaml:"left"`
	Right *exprNode `yaml:"right"`
}

type binNode struct {
	Left  *exprNode `yaml:"left"`
	Right *exprNode `yaml:"right"`
}

type ifNode struct {
	Cond *exprNode `yaml:"cond"`
	Then *exprNode `yaml:"then"`
	Else *exprNode `yaml:"else"`
}

type invokeNode struct {
	Callee     []string    `yaml:"callee"`
	Positional []*exprNode `yaml:"positional,omitempty"`
}

func (n *exprNode) toAST() (ast.Node, error) {
	switch {
	case n == nil:
		return nil, fmt.Errorf("manifest: expression node is empty")
	case n.Number != nil:
		return &ast.LiteralNumber{Text: *n.Number}, nil
	case n.String != nil:
		return &ast.LiteralString{Value: *n.String}, nil
	case n.Boolean != nil:
		return &ast.LiteralBoolean{Value: *n.Boolean}, nil
	case len(n.Name) > 0:
		return &ast.NameRef{Tokens: n.Name}, nil
	case n.Irrelevant:
		return &ast.Irrelevant{}, nil
	case n.UnaryTest != nil:
		op, err := compareOp(n.UnaryTest.Op)
		if err != nil {
			return nil, err
		}
		operand, err := n.UnaryTest.Value.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryTest{Op: op, Operand: operand}, nil
	case n.Arith != nil:
		op, err := arithOp(n.Arith.Op)
		if err != nil {
			return nil, err
		}
		left, err := n.Arith.Left.toAST()
		if err != nil {
			return nil, err
		}
		right, err := n.Arith.Right.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryArith{Op: op, Left: left, Right: right}, nil
	case n.Compare != nil:
		op, err := compareOp(n.Compare.Op)
		if err != nil {
			return nil, err
		}
		left, err := n.Compare.Left.toAST()
		if err != nil {
			return nil, err
		}
		right, err := n.Compare.Right.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.Comparison{Op: op, Left: left, Right: right}, nil
	case n.And != nil:
		left, err := n.And.Left.toAST()
		if err != nil {
			return nil, err
		}
		right, err := n.And.Right.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.LogicalAnd{Left: left, Right: right}, nil
	case n.Or != nil:
		left, err := n.Or.Left.toAST()
		if err != nil {
			return nil, err
		}
		right, err := n.Or.Right.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.LogicalOr{Left: left, Right: right}, nil
	case n.Not != nil:
		operand, err := n.Not.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Operand: operand}, nil
	case n.If != nil:
		cond, err := n.If.Cond.toAST()
		if err != nil {
			return nil, err
		}
		then, err := n.If.Then.toAST()
		if err != nil {
			return nil, err
		}
		els, err := n.If.Else.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.IfThenElse{Cond: cond, Then: then, Else: els}, nil
	case n.Invoke != nil:
		args := make([]ast.PositionalArg, len(n.Invoke.Positional))
		for i, a := range n.Invoke.Positional {
			v, err := a.toAST()
			if err != nil {
				return nil, err
			}
			args[i] = ast.PositionalArg{Value: v}
		}
		return &ast.Invocation{Callee: &ast.NameRef{Tokens: n.Invoke.Callee}, Positional: args}, nil
	default:
		return nil, fmt.Errorf("manifest: expression node has no recognized shape")
	}
}

func arithOp(s string) (ast.ArithOp, error) {
	switch s {
	case "+":
		return ast.Add, nil
	case "-":
		return ast.Sub, nil
	case "*":
		return ast.Mul, nil
	case "/":
		return ast.Div, nil
	case "**":
		return ast.Exp, nil
	}
	return 0, fmt.Errorf("manifest: unrecognized arithmetic operator %q", s)
}

func compareOp(s string) (ast.CompareOp, error) {
	switch s {
	case "<":
		return ast.Less, nil
	case "<=":
		return ast.LessOrEqual, nil
	case "=", "==":
		return ast.Equal, nil
	case "!=":
		return ast.NotEqual, nil
	case ">=":
		return ast.GreaterOrEqual, nil
	case ">":
		return ast.Greater, nil
	}
	return 0, fmt.Errorf("manifest: unrecognized comparison operator %q", s)
}

// variableYAML is a name plus an optional declared type reference,
// identified by item-definition id within the same manifest.
type variableYAML struct {
	Name    string `yaml:"name"`
	TypeRef string `yaml:"typeRef,omitempty"`
}

func (v variableYAML) toVariable(ns string) model.Variable {
	mv := model.Variable{Name: v.Name}
	if v.TypeRef != "" {
		mv.TypeRef = model.Key{Namespace: ns, ID: v.TypeRef}
	}
	return mv
}

func keysFor(ns string, ids []string) []model.Key {
	keys := make([]model.Key, len(ids))
	for i, id := range ids {
		keys[i] = model.Key{Namespace: ns, ID: id}
	}
	return keys
}

type decisionYAML struct {
	ID           string        `yaml:"id"`
	Variable     variableYAML  `yaml:"variable"`
	Expression   *exprNode     `yaml:"expression,omitempty"`
	Table        *tableYAML    `yaml:"table,omitempty"`
	Information  []string      `yaml:"information,omitempty"`
	Knowledge    []string      `yaml:"knowledge,omitempty"`
	Authority    []string      `yaml:"authority,omitempty"`
}

type tableYAML struct {
	Inputs      []inputClauseYAML  `yaml:"inputs"`
	Outputs     []outputClauseYAML `yaml:"outputs"`
	Rules       []ruleYAML         `yaml:"rules"`
	HitPolicy   string             `yaml:"hitPolicy"`
	Aggregation string             `yaml:"aggregation,omitempty"`
	Label       string             `yaml:"label,omitempty"`
}

type inputClauseYAML struct {
	Expression    *exprNode `yaml:"expression"`
	AllowedValues *exprNode `yaml:"allowedValues,omitempty"`
}

type outputClauseYAML struct {
	Name          string    `yaml:"name,omitempty"`
	Type          string    `yaml:"type,omitempty"`
	AllowedValues *exprNode `yaml:"allowedValues,omitempty"`
	Default       *exprNode `yaml:"default,omitempty"`
}

type ruleYAML struct {
	Inputs  []*exprNode `yaml:"inputs"`
	Outputs []*exprNode `yaml:"outputs"`
}

func hitPolicy(s string) (dtable.HitPolicy, error) {
	switch s {
	case "unique", "Unique", "U":
		return dtable.Unique, nil
	case "any", "Any", "A":
		return dtable.Any, nil
	case "priority", "Priority", "P":
		return dtable.Priority, nil
	case "first", "First", "F":
		return dtable.First, nil
	case "ruleOrder", "RuleOrder", "R":
		return dtable.RuleOrder, nil
	case "outputOrder", "OutputOrder", "O":
		return dtable.OutputOrder, nil
	case "collect", "Collect", "C":
		return dtable.Collect, nil
	}
	return 0, fmt.Errorf("manifest: unrecognized hit policy %q", s)
}

func collectOp(s string) (dtable.CollectOp, error) {
	switch s {
	case "", "list", "List":
		return dtable.CollectList, nil
	case "sum", "Sum":
		return dtable.CollectSum, nil
	case "min", "Min":
		return dtable.CollectMin, nil
	case "max", "Max":
		return dtable.CollectMax, nil
	case "count", "Count":
		return dtable.CollectCount, nil
	}
	return 0, fmt.Errorf("manifest: unrecognized collect aggregation %q", s)
}

// manifestType resolves a YAML output clause's bare type name. Item-
// definition-typed outputs are out of scope for this illustrative
// manifest format; only the FEEL base types are recognized.
func manifestType(s string) types.Type {
	switch s {
	case "number":
		return types.Number
	case "string":
		return types.String
	case "boolean":
		return types.Boolean
	case "date":
		return types.Date
	case "time":
		return types.Time
	case "dateTime", "date and time":
		return types.DateTime
	default:
		return types.Any
	}
}

func (ty tableYAML) toTable(ns string) (*dtable.Table, error) {
	policy, err := hitPolicy(ty.HitPolicy)
	if err != nil {
		return nil, err
	}
	agg, err := collectOp(ty.Aggregation)
	if err != nil {
		return nil, err
	}
	inputs := make([]dtable.InputClause, len(ty.Inputs))
	for i, in := range ty.Inputs {
		expr, err := in.Expression.toAST()
		if err != nil {
			return nil, fmt.Errorf("manifest: table input %d: %w", i, err)
		}
		var allowed ast.Node
		if in.AllowedValues != nil {
			allowed, err = in.AllowedValues.toAST()
			if err != nil {
				return nil, fmt.Errorf("manifest: table input %d allowedValues: %w", i, err)
			}
		}
		inputs[i] = dtable.InputClause{Expr: expr, AllowedValues: allowed}
	}
	outputs := make([]dtable.OutputClause, len(ty.Outputs))
	for i, out := range ty.Outputs {
		var allowed, def ast.Node
		var err error
		if out.AllowedValues != nil {
			allowed, err = out.AllowedValues.toAST()
			if err != nil {
				return nil, fmt.Errorf("manifest: table output %d allowedValues: %w", i, err)
			}
		}
		if out.Default != nil {
			def, err = out.Default.toAST()
			if err != nil {
				return nil, fmt.Errorf("manifest: table output %d default: %w", i, err)
			}
		}
		outputs[i] = dtable.OutputClause{
			Name:          out.Name,
			Type:          manifestType(out.Type),
			AllowedValues: allowed,
			Default:       def,
		}
	}
	rules := make([]dtable.Rule, len(ty.Rules))
	for i, ry := range ty.Rules {
		inEntries := make([]ast.Node, len(ry.Inputs))
		for j, e := range ry.Inputs {
			node, err := e.toAST()
			if err != nil {
				return nil, fmt.Errorf("manifest: rule %d input %d: %w", i, j, err)
			}
			inEntries[j] = node
		}
		outEntries := make([]ast.Node, len(ry.Outputs))
		for j, e := range ry.Outputs {
			node, err := e.toAST()
			if err != nil {
				return nil, fmt.Errorf("manifest: rule %d output %d: %w", i, j, err)
			}
			outEntries[j] = node
		}
		rules[i] = dtable.Rule{Inputs: inEntries, Outputs: outEntries}
	}
	return &dtable.Table{
		Inputs:      inputs,
		Outputs:     outputs,
		Rules:       rules,
		Policy:      policy,
		Aggregation: agg,
		Label:       ty.Label,
	}, nil
}

type bkmYAML struct {
	ID        string       `yaml:"id"`
	Variable  variableYAML `yaml:"variable"`
	Params    []string     `yaml:"params,omitempty"`
	Body      *exprNode    `yaml:"body"`
	Knowledge []string     `yaml:"knowledge,omitempty"`
}

type serviceYAML struct {
	ID           string   `yaml:"id"`
	Output       []string `yaml:"output"`
	Encapsulated []string `yaml:"encapsulated,omitempty"`
	InputDecs    []string `yaml:"inputDecisions,omitempty"`
	InputData    []string `yaml:"inputData,omitempty"`
}

// manifest is the YAML document top level.
type manifest struct {
	Namespace string        `yaml:"namespace"`
	Decisions []decisionYAML `yaml:"decisions,omitempty"`
	BKMs      []bkmYAML      `yaml:"bkms,omitempty"`
	Services  []serviceYAML  `yaml:"services,omitempty"`
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return &m, nil
}

func (m *manifest) toDefinitions() (*model.Definitions, error) {
	defs := model.NewDefinitions(m.Namespace)
	for _, b := range m.BKMs {
		body, err := b.Body.toAST()
		if err != nil {
			return nil, fmt.Errorf("manifest: bkm %s: %w", b.ID, err)
		}
		params := make([]model.Variable, len(b.Params))
		for i, p := range b.Params {
			params[i] = model.Variable{Name: p}
		}
		key := model.Key{Namespace: m.Namespace, ID: b.ID}
		defs.BKMs[key] = &model.BusinessKnowledgeModel{
			Key:                   key,
			Variable:              b.Variable.toVariable(m.Namespace),
			Params:                params,
			Body:                  body,
			KnowledgeRequirements: keysFor(m.Namespace, b.Knowledge),
		}
	}
	for _, d := range m.Decisions {
		key := model.Key{Namespace: m.Namespace, ID: d.ID}
		dec := &model.Decision{
			Key:                     key,
			Variable:                d.Variable.toVariable(m.Namespace),
			InformationRequirements: keysFor(m.Namespace, d.Information),
			KnowledgeRequirements:   keysFor(m.Namespace, d.Knowledge),
			AuthorityRequirements:   keysFor(m.Namespace, d.Authority),
		}
		switch {
		case d.Table != nil:
			t, err := d.Table.toTable(m.Namespace)
			if err != nil {
				return nil, fmt.Errorf("manifest: decision %s: %w", d.ID, err)
			}
			dec.Table = t
		case d.Expression != nil:
			expr, err := d.Expression.toAST()
			if err != nil {
				return nil, fmt.Errorf("manifest: decision %s: %w", d.ID, err)
			}
			dec.Expression = expr
		default:
			return nil, fmt.Errorf("manifest: decision %s has neither expression nor table", d.ID)
		}
		defs.Decisions[key] = dec
	}
	for _, s := range m.Services {
		key := model.Key{Namespace: m.Namespace, ID: s.ID}
		defs.DecisionServices[key] = &model.DecisionService{
			Key:                   key,
			OutputDecisions:       keysFor(m.Namespace, s.Output),
			EncapsulatedDecisions: keysFor(m.Namespace, s.Encapsulated),
			InputDecisions:        keysFor(m.Namespace, s.InputDecs),
			InputData:             keysFor(m.Namespace, s.InputData),
		}
	}
	return defs, nil
}
