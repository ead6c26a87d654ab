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

// Package dtable implements C9, the decision-table evaluator (spec.md
// §4.5): rule matching against unary-test entries, every DMN hit policy
// and Collect aggregation, default-output fallback and output-priority
// resolution. A Table is compiled once against the surrounding
// evaluation Env, then evaluated any number of times against independent
// scopes (spec.md §5).
package dtable

import (
	"sort"

	"github.com/dmntk-go/dmntk/internal/ast"
	"github.com/dmntk-go/dmntk/internal/eval"
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/types"
	"github.com/dmntk-go/dmntk/internal/value"
)

// HitPolicy selects which of a table's matching rules contribute to the
// result (spec.md §4.5).
type HitPolicy int

const (
	Unique HitPolicy = iota
	Any
	Priority
	First
	RuleOrder
	OutputOrder
	Collect
)

// CollectOp is the aggregation applied by the Collect hit policy.
type CollectOp int

const (
	CollectList CollectOp = iota
	CollectSum
	CollectMin
	CollectMax
	CollectCount
)

func (op CollectOp) String() string {
	switch op {
	case CollectList:
		return "List"
	case CollectSum:
		return "Sum"
	case CollectMin:
		return "Min"
	case CollectMax:
		return "Max"
	case CollectCount:
		return "Count"
	}
	return "?"
}

// InputClause is one ordered table input: an expression evaluated once
// per Evaluate call, plus an optional allowed-values unary test used to
// validate the evaluated input.
type InputClause struct {
	Expr          ast.Node
	AllowedValues ast.Node // nil if unconstrained
}

// OutputClause is one ordered table output: a declared result type, the
// name it is bound to in a multi-output result Context, an optional
// allowed-values test (and, for Priority/Output Order, priority list),
// and an optional default-output expression used when no rule matches.
type OutputClause struct {
	Name          string // empty for an unlabeled single output
	Type          types.Type
	AllowedValues ast.Node // nil if unconstrained; also the Priority ranking list
	Default       ast.Node // nil if none
}

// Rule is one ordered table row: one input entry per input clause (a
// dash parses as *ast.Irrelevant, matching spec.md §4.5's "an entry
// consisting only of a dash matches anything"), and one output entry
// per output clause.
type Rule struct {
	Inputs  []ast.Node
	Outputs []ast.Node
}

// Table is an immutable decision-table description (spec.md §4.5).
// Orientation is not represented: it affects only a table's visual
// layout, never its evaluation semantics.
type Table struct {
	Inputs      []InputClause
	Outputs     []OutputClause
	Rules       []Rule
	Policy      HitPolicy
	Aggregation CollectOp // meaningful only when Policy == Collect

	// Label, if non-empty, names a single-output table's bare result as
	// a one-entry Context instead of returning the value bare (spec.md
	// §4.5 "unless the output is explicitly named with a label").
	Label string
}

type compiledOutput struct {
	name    feelname.Name
	typ     types.Type
	allowed value.Closure // nil if unconstrained
	def     value.Closure // nil if none
}

type compiledRule struct {
	inputs  []value.Closure
	outputs []value.Closure
}

// Compiled is a Table whose expressions have been parsed into closures
// once (spec.md §4.5 "Compile-time").
type Compiled struct {
	table *Table

	inputs  []value.Closure
	inputOK []value.Closure // allowed-values test per input clause, nil if none

	outputs []compiledOutput
	rules   []compiledRule
}

var qMark = feelname.MustNew("?")

// Compile parses every input expression, rule entry, output entry,
// default-output expression and allowed-values test against env, once
// (spec.md §4.5 "Compile-time"). Rule entries compile through the same
// eval.Compile path as any other expression: a dash is already an
// *ast.Irrelevant node, and a bare literal entry (implicit equality) or
// a unary test reduces to exactly the shapes eval.MatchTest already
// understands as an `in` right-hand side.
func Compile(env *eval.Env, t *Table) (*Compiled, error) {
	c := &Compiled{table: t}

	c.inputs = make([]value.Closure, len(t.Inputs))
	c.inputOK = make([]value.Closure, len(t.Inputs))
	for i, in := range t.Inputs {
		cl, err := eval.Compile(env, in.Expr)
		if err != nil {
			return nil, err
		}
		c.inputs[i] = cl
		if in.AllowedValues != nil {
			ac, err := eval.Compile(env, in.AllowedValues)
			if err != nil {
				return nil, err
			}
			c.inputOK[i] = ac
		}
	}

	c.outputs = make([]compiledOutput, len(t.Outputs))
	for i, out := range t.Outputs {
		co := compiledOutput{typ: out.Type}
		if out.Name != "" {
			co.name = feelname.MustNew(out.Name)
		}
		if out.AllowedValues != nil {
			ac, err := eval.Compile(env, out.AllowedValues)
			if err != nil {
				return nil, err
			}
			co.allowed = ac
		}
		if out.Default != nil {
			dc, err := eval.Compile(env, out.Default)
			if err != nil {
				return nil, err
			}
			co.def = dc
		}
		c.outputs[i] = co
	}

	c.rules = make([]compiledRule, len(t.Rules))
	for ri, r := range t.Rules {
		cr := compiledRule{
			inputs:  make([]value.Closure, len(r.Inputs)),
			outputs: make([]value.Closure, len(r.Outputs)),
		}
		for i, n := range r.Inputs {
			cl, err := eval.Compile(env, n)
			if err != nil {
				return nil, err
			}
			cr.inputs[i] = cl
		}
		for i, n := range r.Outputs {
			cl, err := eval.Compile(env, n)
			if err != nil {
				return nil, err
			}
			cr.outputs[i] = cl
		}
		c.rules[ri] = cr
	}
	return c, nil
}

type match struct {
	row []value.Value // coerced output values, one per output clause
}

// Evaluate runs the decision-table algorithm of spec.md §4.5 against
// scope, the caller's evaluation scope.
func Evaluate(c *Compiled, scope *value.Scope) value.Value {
	iv := make([]value.Value, len(c.inputs))
	for i, cl := range c.inputs {
		iv[i] = cl(scope)
		if c.inputOK[i] == nil {
			continue
		}
		if ok, known := matched(iv[i], c.inputOK[i](scope)); !known || !ok {
			return value.NullTrace("decision table: input %d value %s not in allowed values", i+1, iv[i].String())
		}
	}

	var matches []match
	for _, r := range c.rules {
		row, ok := matchRule(c, r, iv, scope)
		if !ok {
			continue
		}
		matches = append(matches, match{row: row})
	}

	switch c.table.Policy {
	case Unique:
		if len(matches) == 0 {
			return noMatchResult(c, scope)
		}
		if len(matches) > 1 {
			return value.NullTrace("decision table: Unique hit policy matched %d rules", len(matches))
		}
		return assembleRow(c.outputs, matches[0].row, c.table.Label)
	case Any:
		if len(matches) == 0 {
			return noMatchResult(c, scope)
		}
		for _, m := range matches[1:] {
			if !rowsEqual(m.row, matches[0].row) {
				return value.NullTrace("decision table: Any hit policy matched rules with differing outputs")
			}
		}
		return assembleRow(c.outputs, matches[0].row, c.table.Label)
	case First:
		if len(matches) == 0 {
			return noMatchResult(c, scope)
		}
		return assembleRow(c.outputs, matches[0].row, c.table.Label)
	case Priority:
		if len(matches) == 0 {
			return noMatchResult(c, scope)
		}
		best := matches[0]
		bestPr := priorityVector(c.outputs, best.row, scope)
		for _, m := range matches[1:] {
			pr := priorityVector(c.outputs, m.row, scope)
			if comparePriority(pr, bestPr) < 0 {
				best, bestPr = m, pr
			}
		}
		return assembleRow(c.outputs, best.row, c.table.Label)
	case RuleOrder:
		return assembleList(c.outputs, matches, c.table.Label)
	case OutputOrder:
		ordered := append([]match(nil), matches...)
		sort.SliceStable(ordered, func(i, j int) bool {
			pi := priorityVector(c.outputs, ordered[i].row, scope)
			pj := priorityVector(c.outputs, ordered[j].row, scope)
			return comparePriority(pi, pj) < 0
		})
		return assembleList(c.outputs, ordered, c.table.Label)
	case Collect:
		return collectResult(c, matches)
	}
	return value.NullTrace("decision table: unknown hit policy")
}

// matchRule tests a rule's entries left-to-right, each against the
// corresponding input value bound to `?` (spec.md §4.5 step 2), then
// evaluates and coerces its output entries.
func matchRule(c *Compiled, r compiledRule, iv []value.Value, scope *value.Scope) ([]value.Value, bool) {
	if len(r.inputs) != len(iv) {
		return nil, false
	}
	for i, entry := range r.inputs {
		bound := scope.WithTop(scope.Top().With(qMark, iv[i]))
		rhs := entry(bound)
		ok, known := matched(iv[i], rhs)
		if !known || !ok {
			return nil, false
		}
	}
	row := make([]value.Value, len(c.outputs))
	for i, oc := range r.outputs {
		v := value.Coerce(c.outputs[i].typ, oc(scope))
		if c.outputs[i].allowed != nil {
			allowed := c.outputs[i].allowed(scope)
			if ok, known := matched(v, allowed); !known || !ok {
				return nil, false
			}
		}
		row[i] = v
	}
	return row, true
}

func matched(subject, rhs value.Value) (ok, known bool) {
	b, isBool := eval.MatchTest(subject, rhs).(value.Bool)
	if !isBool {
		return false, false
	}
	return bool(b), true
}

func noMatchResult(c *Compiled, scope *value.Scope) value.Value {
	row := make([]value.Value, len(c.outputs))
	any := false
	for i, oc := range c.outputs {
		if oc.def != nil {
			row[i] = value.Coerce(oc.typ, oc.def(scope))
			any = true
			continue
		}
		row[i] = value.Null{}
	}
	if !any {
		return value.NullTrace("decision table: no rule matched")
	}
	return assembleRow(c.outputs, row, c.table.Label)
}

// assembleRow implements spec.md §4.5 step 5: a single, unlabeled
// output returns its bare value; every other shape returns a Context of
// (output-name -> value) in output-clause order.
func assembleRow(outputs []compiledOutput, row []value.Value, label string) value.Value {
	if len(outputs) == 1 && label == "" {
		return row[0]
	}
	entries := make([]value.Entry, len(outputs))
	for i, oc := range outputs {
		name := oc.name
		if len(outputs) == 1 && label != "" {
			name = feelname.MustNew(label)
		}
		entries[i] = value.Entry{Name: name, Value: row[i]}
	}
	ctx, ok := value.NewContext(entries...)
	if !ok {
		return value.NullTrace("decision table: duplicate output name")
	}
	return ctx
}

func assembleList(outputs []compiledOutput, matches []match, label string) value.Value {
	rows := make([]value.Value, len(matches))
	for i, m := range matches {
		rows[i] = assembleRow(outputs, m.row, label)
	}
	return value.List{Items: rows}
}

func rowsEqual(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if value.Equal(a[i], b[i]) != value.TriTrue {
			return false
		}
	}
	return true
}

// priorityList reduces an evaluated allowed-output-values expression to
// an ordered candidate slice, whatever comma-list shape it parsed to.
func priorityList(v value.Value) []value.Value {
	switch x := v.(type) {
	case value.ExpressionList:
		return x.Items
	case value.List:
		return x.Items
	case value.NegatedCommaList:
		return x.Items
	default:
		return []value.Value{v}
	}
}

// priorityVector computes, for each output clause, the position of
// row[i] within that clause's allowed-output list (spec.md §4.5
// "priority is the position of the output value in the output clause's
// allowed-output list, earlier = higher"). A clause without an
// allowed-values list, or a value absent from it, ranks lowest among its
// peers but never breaks comparison against other tables' clauses.
func priorityVector(outputs []compiledOutput, row []value.Value, scope *value.Scope) []int {
	out := make([]int, len(outputs))
	for i, oc := range outputs {
		if oc.allowed == nil {
			out[i] = 0
			continue
		}
		list := priorityList(oc.allowed(scope))
		idx := len(list)
		for j, cand := range list {
			if value.Equal(cand, row[i]) == value.TriTrue {
				idx = j
				break
			}
		}
		out[i] = idx
	}
	return out
}

// comparePriority orders priority vectors lexicographically, lowest
// (highest-priority) first, in output-clause order (spec.md §4.5
// "Compare outputs lexicographically in output-clause order").
func comparePriority(a, b []int) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// collectResult implements the Collect(op) hit policy (spec.md §4.5):
// List returns matching outputs in rule order; Sum/Min/Max/Count reduce
// a single numeric output column.
func collectResult(c *Compiled, matches []match) value.Value {
	switch c.table.Aggregation {
	case CollectList:
		return assembleList(c.outputs, matches, c.table.Label)
	case CollectCount:
		return value.NewNum(number.FromInt64(int64(len(matches))))
	case CollectSum, CollectMin, CollectMax:
		if len(c.outputs) != 1 {
			return value.NullTrace("decision table: Collect(%s) requires a single output", c.table.Aggregation)
		}
		if len(matches) == 0 {
			return value.NullTrace("decision table: no rule matched")
		}
		nums := make([]number.Number, len(matches))
		for i, m := range matches {
			n, ok := m.row[0].(value.Num)
			if !ok {
				return value.NullTrace("decision table: Collect(%s) requires numeric outputs", c.table.Aggregation)
			}
			nums[i] = n.N
		}
		acc := nums[0]
		for _, n := range nums[1:] {
			switch c.table.Aggregation {
			case CollectSum:
				if sum, ok := number.Add(acc, n); ok {
					acc = sum
				}
			case CollectMin:
				if number.Cmp(n, acc) < 0 {
					acc = n
				}
			case CollectMax:
				if number.Cmp(n, acc) > 0 {
					acc = n
				}
			}
		}
		return value.NewNum(acc)
	}
	return value.NullTrace("decision table: unknown aggregation")
}
