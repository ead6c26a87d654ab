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
	"testing"

	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
)

func TestNewContextRejectsDuplicateKeys(t *testing.T) {
	name := feelname.MustNew("age")
	_, ok := NewContext(Entry{Name: name, Value: Bool(true)}, Entry{Name: name, Value: Bool(false)})
	if ok {
		t.Fatalf("NewContext should reject a duplicate key")
	}
}

func TestContextGetAndWith(t *testing.T) {
	age := feelname.MustNew("age")
	name := feelname.MustNew("name")
	ctx, ok := NewContext(Entry{Name: age, Value: NewNum(number.FromInt64(21))})
	if !ok {
		t.Fatalf("NewContext: unexpected !ok")
	}

	if _, found := ctx.Get(name); found {
		t.Fatalf("Get should not find an absent name")
	}

	updated := ctx.With(age, NewNum(number.FromInt64(22)))
	v, found := updated.Get(age)
	if !found {
		t.Fatalf("With should preserve the entry under the same name")
	}
	if v.(Num).N.String() != "22" {
		t.Fatalf("With should replace the value in place, got %v", v)
	}
	if len(updated.Entries) != 1 {
		t.Fatalf("With replacing an existing key should not grow the entry list, got %d entries", len(updated.Entries))
	}

	withName := ctx.With(name, Str("Alice"))
	if len(withName.Entries) != 2 {
		t.Fatalf("With on a new key should append, got %d entries", len(withName.Entries))
	}
}

func TestEqualNullOnlyEqualsNull(t *testing.T) {
	if Equal(Null{}, Null{}) != TriTrue {
		t.Errorf("Null should equal Null")
	}
	if Equal(Null{}, Bool(false)) != TriFalse {
		t.Errorf("Null should not equal any non-null value")
	}
}

func TestEqualCrossKindIsIncomparable(t *testing.T) {
	if Equal(Str("1"), NewNum(number.FromInt64(1))) != TriIncomparable {
		t.Errorf("a string and a number should be incomparable, not false")
	}
}

func TestEqualListIsElementwise(t *testing.T) {
	a := List{Items: []Value{NewNum(number.FromInt64(1)), Str("x")}}
	b := List{Items: []Value{NewNum(number.FromInt64(1)), Str("x")}}
	c := List{Items: []Value{NewNum(number.FromInt64(1)), Str("y")}}
	if Equal(a, b) != TriTrue {
		t.Errorf("identical lists should be equal")
	}
	if Equal(a, c) != TriFalse {
		t.Errorf("lists differing in one element should not be equal")
	}
}

func TestEqualContextIsOrderIndependent(t *testing.T) {
	age := feelname.MustNew("age")
	name := feelname.MustNew("name")
	a, _ := NewContext(Entry{Name: age, Value: NewNum(number.FromInt64(1))}, Entry{Name: name, Value: Str("x")})
	b, _ := NewContext(Entry{Name: name, Value: Str("x")}, Entry{Name: age, Value: NewNum(number.FromInt64(1))})
	if Equal(a, b) != TriTrue {
		t.Errorf("contexts with the same entries in different order should be equal")
	}
}

func TestCompareCrossKindIsNotOK(t *testing.T) {
	_, ok := Compare(Str("x"), NewNum(number.FromInt64(1)))
	if ok {
		t.Errorf("Compare across kinds should report ok=false")
	}
}

func TestCompareNumberOrdering(t *testing.T) {
	lo := NewNum(number.FromInt64(1))
	hi := NewNum(number.FromInt64(2))
	c, ok := Compare(lo, hi)
	if !ok || c >= 0 {
		t.Errorf("Compare(1, 2) = (%d, %v), want negative, true", c, ok)
	}
}

func TestListKindUsesFirstElementForEmptyAnyFallback(t *testing.T) {
	empty := List{}
	if empty.Kind().String() != "list<Any>" {
		t.Errorf("empty list Kind = %v, want list<Any>", empty.Kind())
	}
	nums := List{Items: []Value{NewNum(number.FromInt64(1))}}
	if nums.Kind().String() != "list<number>" {
		t.Errorf("List{Num}.Kind = %v, want list<number>", nums.Kind())
	}
}
