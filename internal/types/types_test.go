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

package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConformsScalarAndAny(t *testing.T) {
	tests := []struct {
		name string
		s, t Type
		want bool
	}{
		{"any accepts everything", Number, Any, true},
		{"null conforms to anything", Null, String, true},
		{"equal scalars conform", Number, Number, true},
		{"distinct scalars do not conform", Number, String, false},
	}
	for _, tt := range tests {
		if got := Conforms(tt.s, tt.t); got != tt.want {
			t.Errorf("%s: Conforms(%v, %v) = %v, want %v", tt.name, tt.s, tt.t, got, tt.want)
		}
	}
}

func TestConformsListIsCovariant(t *testing.T) {
	if !Conforms(List(Number), List(Number)) {
		t.Errorf("List(Number) should conform to itself")
	}
	if Conforms(List(Number), List(String)) {
		t.Errorf("List(Number) should not conform to List(String)")
	}
}

func TestConformsContextRequiresEveryTargetEntry(t *testing.T) {
	s := Context(Entry{Name: "age", Type: Number}, Entry{Name: "name", Type: String})
	t1 := Context(Entry{Name: "age", Type: Number})
	if !Conforms(s, t1) {
		t.Errorf("s with extra entries should conform to t with a subset")
	}

	t2 := Context(Entry{Name: "age", Type: Number}, Entry{Name: "active", Type: Boolean})
	if Conforms(s, t2) {
		t.Errorf("s missing a required entry should not conform to t")
	}
}

func TestConformsFunctionIsContravariantInParams(t *testing.T) {
	// A function accepting Any can stand in wherever one accepting Number is
	// expected: contravariant in parameters, covariant in result.
	broad := Function([]Type{Any}, Number)
	narrow := Function([]Type{Number}, Number)
	if !Conforms(broad, narrow) {
		t.Errorf("function accepting Any should conform where one accepting Number is expected")
	}
	if Conforms(narrow, broad) {
		t.Errorf("function accepting Number should not conform where one accepting Any is expected")
	}
}

func TestEquivalentContextIgnoresEntryOrder(t *testing.T) {
	a := Context(Entry{Name: "age", Type: Number}, Entry{Name: "name", Type: String})
	b := Context(Entry{Name: "name", Type: String}, Entry{Name: "age", Type: Number})
	if !Equivalent(a, b) {
		t.Errorf("Context equivalence should be order-independent on entries")
	}
}

func TestStructuralEqualTypeRejectsExtraEntries(t *testing.T) {
	a := Context(Entry{Name: "age", Type: Number})
	b := Context(Entry{Name: "age", Type: Number}, Entry{Name: "name", Type: String})
	if StructuralEqualType(a, b) {
		t.Errorf("StructuralEqualType should reject a superset/subset entry mismatch")
	}
	if !StructuralEqualType(a, a) {
		t.Errorf("StructuralEqualType should accept identical context types")
	}
}

func TestListConstructorShape(t *testing.T) {
	got := List(Number)
	want := Type{Kind: ListKind, Elem: &Number}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List(Number) shape mismatch (-want +got):\n%s", diff)
	}
}

func TestStringRendersNestedShapes(t *testing.T) {
	got := List(Number).String()
	if got != "list<number>" {
		t.Errorf("List(Number).String() = %q, want %q", got, "list<number>")
	}

	fn := Function([]Type{Number, String}, Boolean)
	got = fn.String()
	want := "function<(number, string) -> boolean>"
	if got != want {
		t.Errorf("Function.String() = %q, want %q", got, want)
	}
}
