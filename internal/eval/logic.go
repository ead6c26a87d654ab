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
	"github.com/dmntk-go/dmntk/internal/types"
	"github.com/dmntk-go/dmntk/internal/value"
)

// threeValued turns a Value into Go's three outcomes for and/or
// short-circuiting: true, false, or "neither" (Null or any non-boolean,
// per spec.md §7 "three-valued logic").
func threeValued(v value.Value) (b bool, known bool) {
	bv, ok := v.(value.Bool)
	if !ok {
		return false, false
	}
	return bool(bv), true
}

// compileAnd implements FEEL's three-valued `and` (spec.md §7): false
// dominates (false and anything = false, even Null/other-typed), true
// and unknown is unknown, true and true is true.
func compileAnd(env *Env, x *ast.LogicalAnd) (value.Closure, error) {
	left, err := Compile(env, x.Left)
	if err != nil {
		return nil, err
	}
	right, err := Compile(env, x.Right)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		lv := left(s)
		if lb, ok := threeValued(lv); ok && !lb {
			return value.Bool(false)
		}
		rv := right(s)
		if rb, ok := threeValued(rv); ok && !rb {
			return value.Bool(false)
		}
		lb, lok := threeValued(lv)
		rb, rok := threeValued(rv)
		if lok && rok {
			return value.Bool(lb && rb)
		}
		return value.NullTrace("and: operand not boolean")
	}, nil
}

// compileOr implements FEEL's three-valued `or`: true dominates.
func compileOr(env *Env, x *ast.LogicalOr) (value.Closure, error) {
	left, err := Compile(env, x.Left)
	if err != nil {
		return nil, err
	}
	right, err := Compile(env, x.Right)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		lv := left(s)
		if lb, ok := threeValued(lv); ok && lb {
			return value.Bool(true)
		}
		rv := right(s)
		if rb, ok := threeValued(rv); ok && rb {
			return value.Bool(true)
		}
		lb, lok := threeValued(lv)
		rb, rok := threeValued(rv)
		if lok && rok {
			return value.Bool(lb || rb)
		}
		return value.NullTrace("or: operand not boolean")
	}, nil
}

// compileNot implements unary `not`, Null/non-boolean in, Null out.
func compileNot(env *Env, x *ast.Not) (value.Closure, error) {
	operand, err := Compile(env, x.Operand)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		b, ok := threeValued(operand(s))
		if !ok {
			return value.NullTrace("not: operand not boolean")
		}
		return value.Bool(!b)
	}, nil
}

// compileBetween implements `x between a and b`: low <= x <= high using
// natural order, Null if any operand is unordered against the others
// (spec.md §4.3).
func compileBetween(env *Env, x *ast.Between) (value.Closure, error) {
	subj, err := Compile(env, x.Subject)
	if err != nil {
		return nil, err
	}
	low, err := Compile(env, x.Low)
	if err != nil {
		return nil, err
	}
	high, err := Compile(env, x.High)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		sv, lv, hv := subj(s), low(s), high(s)
		c1, ok1 := value.Compare(sv, lv)
		c2, ok2 := value.Compare(sv, hv)
		if !ok1 || !ok2 {
			return value.NullTrace("between: operands not comparable")
		}
		return value.Bool(c1 >= 0 && c2 <= 0)
	}, nil
}

// compileInstanceOf implements `x instance of T` (spec.md §3, §9(a)):
// Context instance-of checks use StructuralEqualType (exact key-set
// match); every other kind uses Conforms.
func compileInstanceOf(env *Env, x *ast.InstanceOf) (value.Closure, error) {
	subj, err := Compile(env, x.Subject)
	if err != nil {
		return nil, err
	}
	typ, err := Compile(env, x.Type)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		sv := subj(s)
		tv, ok := typ(s).(value.FeelType)
		if !ok {
			return value.NullTrace("instance of: right-hand side is not a type")
		}
		actual := sv.Kind()
		if actual.Kind == types.ContextKind && tv.T.Kind == types.ContextKind {
			return value.Bool(types.StructuralEqualType(actual, tv.T))
		}
		return value.Bool(types.Conforms(actual, tv.T))
	}, nil
}

// compileUnaryTest compiles a standalone `< x`/`<= x`/`> x`/`>= x`,
// producing a value.UnaryTest: it cannot be evaluated to a boolean on
// its own (it needs an implicit left-hand side), so it is only valid
// as an `in` right-hand side or decision-table rule entry (spec.md §4.5).
func compileUnaryTest(env *Env, x *ast.UnaryTest) (value.Closure, error) {
	operand, err := Compile(env, x.Operand)
	if err != nil {
		return nil, err
	}
	op := toValueCompareOp(x.Op)
	return func(s *value.Scope) value.Value {
		return value.UnaryTest{Op: op, Comp: operand(s)}
	}, nil
}

func toValueCompareOp(op ast.CompareOp) value.CompareOp {
	switch op {
	case ast.Less:
		return value.OpLess
	case ast.LessOrEqual:
		return value.OpLessOrEqual
	case ast.Greater:
		return value.OpGreater
	case ast.GreaterOrEqual:
		return value.OpGreaterOrEqual
	}
	return value.OpLess
}

// compileIn implements `x in rhs` over every right-hand shape spec.md
// §4.3 enumerates: a bare scalar (equality), a Range (membership), a
// List (membership, with the List-in-List one-to-one subset rule when
// the subject is itself a List), an ExpressionList/NegatedCommaList
// (comma-separated test lists), a UnaryTest (implicit-subject
// comparison), or Irrelevant (always true).
func compileIn(env *Env, x *ast.In) (value.Closure, error) {
	subj, err := Compile(env, x.Subject)
	if err != nil {
		return nil, err
	}
	rhs, err := Compile(env, x.RHS)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		return evalIn(subj(s), rhs(s))
	}, nil
}

func evalIn(subject, rhs value.Value) value.Value {
	switch r := rhs.(type) {
	case value.Irrelevant:
		return value.Bool(true)
	case value.UnaryTest:
		return testAgainst(subject, r)
	case value.ExpressionList:
		return inList(subject, r.Items)
	case value.NegatedCommaList:
		b := inList(subject, r.Items)
		bv, ok := threeValued(b)
		if !ok {
			return value.NullTrace("in: membership not boolean")
		}
		return value.Bool(!bv)
	case value.Range:
		return inRange(subject, r)
	case value.List:
		if subjList, ok := subject.(value.List); ok {
			return subjectListInList(subjList, r)
		}
		return inList(subject, r.Items)
	default:
		t := value.Equal(subject, rhs)
		if t == value.TriIncomparable {
			return value.NullTrace("in: values not comparable")
		}
		return value.Bool(t == value.TriTrue)
	}
}

func testAgainst(subject value.Value, t value.UnaryTest) value.Value {
	c, ok := value.Compare(subject, t.Comp)
	if !ok {
		return value.NullTrace("in: unary test operand not comparable")
	}
	switch t.Op {
	case value.OpLess:
		return value.Bool(c < 0)
	case value.OpLessOrEqual:
		return value.Bool(c <= 0)
	case value.OpGreater:
		return value.Bool(c > 0)
	case value.OpGreaterOrEqual:
		return value.Bool(c >= 0)
	}
	return value.NullTrace("in: unknown unary test operator")
}

func inList(subject value.Value, items []value.Value) value.Value {
	sawIncomparable := false
	for _, it := range items {
		t := value.Equal(subject, it)
		if t == value.TriTrue {
			return value.Bool(true)
		}
		if t == value.TriIncomparable {
			sawIncomparable = true
		}
	}
	if sawIncomparable {
		return value.NullTrace("in: values not comparable")
	}
	return value.Bool(false)
}

// subjectListInList implements the "List in List" rule: true iff every
// element of the subject list is matched to a distinct, equal element of
// the candidate list (one-to-one subset test, spec.md §4.3 "in operator"
// edge case).
func subjectListInList(subject, candidates value.List) value.Value {
	used := make([]bool, len(candidates.Items))
	for _, sv := range subject.Items {
		matched, sawIncomparable := false, false
		for j, cv := range candidates.Items {
			if used[j] {
				continue
			}
			t := value.Equal(sv, cv)
			if t == value.TriTrue {
				used[j], matched = true, true
				break
			}
			sawIncomparable = sawIncomparable || t == value.TriIncomparable
		}
		if !matched && sawIncomparable {
			return value.NullTrace("in: list membership not comparable")
		}
		if !matched {
			return value.Bool(false)
		}
	}
	return value.Bool(true)
}

// MatchTest evaluates subject against rhs the same way an `in`
// right-hand side is matched (spec.md §4.3), exported so package dtable
// can test decision-table rule entries (spec.md §4.5) against the
// bound input value without re-deriving unary-test/list/range
// matching semantics.
func MatchTest(subject, rhs value.Value) value.Value {
	return evalIn(subject, rhs)
}

func inRange(subject value.Value, r value.Range) value.Value {
	lo, lok := value.Compare(subject, r.Start)
	hi, hok := value.Compare(subject, r.End)
	if !lok || !hok {
		return value.NullTrace("in: value not comparable to range endpoints")
	}
	loOK := lo > 0 || (lo == 0 && r.StartClose)
	hiOK := hi < 0 || (hi == 0 && r.EndClose)
	return value.Bool(loOK && hiOK)
}
