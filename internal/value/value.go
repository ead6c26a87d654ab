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

// Package value implements the FEEL Value domain (spec.md §3, C5): a
// tagged union of every runtime value the evaluator produces, plus the
// handful of AST-transient variants (unary tests, comma lists, the
// irrelevant dash) that only ever appear as the right-hand side of `in`.
package value

import (
	"fmt"
	"strings"

	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/temporal"
	"github.com/dmntk-go/dmntk/internal/types"
)

// Value is implemented by every FEEL runtime value.
type Value interface {
	// Kind returns the dynamic type of this value. Null's Kind is
	// types.Null; a FunctionDefinition's Kind is types.Function with its
	// declared signature.
	Kind() types.Type
	// String renders the display form (spec.md §6 "Value text forms").
	String() string
	isValue()
}

// Null carries an optional human-readable trace (spec.md §3). Null
// compares equal only to Null.
type Null struct {
	Trace string
}

func (Null) isValue()         {}
func (Null) Kind() types.Type { return types.Null }
func (n Null) String() string {
	if n.Trace == "" {
		return "null"
	}
	return "null(" + n.Trace + ")"
}

// NullTrace is a convenience constructor matching the common call
// pattern `return value.NullTrace("division by zero")`.
func NullTrace(format string, args ...interface{}) Null {
	return Null{Trace: fmt.Sprintf(format, args...)}
}

// Bool is a FEEL boolean.
type Bool bool

func (Bool) isValue()         {}
func (Bool) Kind() types.Type { return types.Boolean }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Num wraps a Number.
type Num struct{ N number.Number }

func (Num) isValue()         {}
func (Num) Kind() types.Type { return types.Number }
func (n Num) String() string { return n.N.String() }

// NewNum is a convenience constructor.
func NewNum(n number.Number) Num { return Num{N: n} }

// Str is a FEEL string.
type Str string

func (Str) isValue()         {}
func (Str) Kind() types.Type { return types.String }
func (s Str) String() string { return string(s) }

// DateVal wraps a calendar date.
type DateVal struct{ D temporal.Date }

func (DateVal) isValue()         {}
func (DateVal) Kind() types.Type { return types.Date }
func (d DateVal) String() string { return d.D.String() }

// TimeVal wraps a time-of-day.
type TimeVal struct{ T temporal.Time }

func (TimeVal) isValue()         {}
func (TimeVal) Kind() types.Type { return types.Time }
func (t TimeVal) String() string { return t.T.String() }

// DateTimeVal wraps a date-and-time.
type DateTimeVal struct{ DT temporal.DateTime }

func (DateTimeVal) isValue()         {}
func (DateTimeVal) Kind() types.Type { return types.DateTime }
func (d DateTimeVal) String() string { return d.DT.String() }

// YearsMonthsVal wraps a years-months duration.
type YearsMonthsVal struct{ Y temporal.YearsMonths }

func (YearsMonthsVal) isValue()         {}
func (YearsMonthsVal) Kind() types.Type { return types.YearsMonths }
func (y YearsMonthsVal) String() string { return y.Y.String() }

// DaysTimeVal wraps a days-time duration.
type DaysTimeVal struct{ D temporal.DaysTime }

func (DaysTimeVal) isValue()         {}
func (DaysTimeVal) Kind() types.Type { return types.DaysTime }
func (d DaysTimeVal) String() string { return d.D.String() }

// List is an ordered sequence of Values.
type List struct{ Items []Value }

func (List) isValue() {}
func (l List) Kind() types.Type {
	elem := types.Any
	if len(l.Items) > 0 {
		elem = l.Items[0].Kind()
	}
	return types.List(elem)
}
func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Entry is one ordered Context entry.
type Entry struct {
	Name  feelname.Name
	Value Value
}

// Context is an ordered mapping from Name to Value (spec.md §3, §4.7).
// Insertion order is preserved; duplicate keys on construction are
// rejected by the builder (see NewContext), never silently overwritten.
type Context struct {
	Entries []Entry
}

func (Context) isValue() {}
func (c Context) Kind() types.Type {
	entries := make([]types.Entry, len(c.Entries))
	for i, e := range c.Entries {
		entries[i] = types.Entry{Name: e.Name.String(), Type: e.Value.Kind()}
	}
	return types.Context(entries...)
}
func (c Context) String() string {
	parts := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		parts[i] = e.Name.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// NewContext builds a Context from entries in order, returning ok=false
// on a duplicate key (spec.md §3 "duplicate key on insertion is an
// error").
func NewContext(entries ...Entry) (Context, bool) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		k := e.Name.String()
		if seen[k] {
			return Context{}, false
		}
		seen[k] = true
	}
	return Context{Entries: entries}, true
}

// Get returns the value bound to name and whether it was found.
func (c Context) Get(name feelname.Name) (Value, bool) {
	for _, e := range c.Entries {
		if e.Name.Equal(name) {
			return e.Value, true
		}
	}
	return nil, false
}

// With returns a copy of c with name bound to v, replacing any existing
// entry for name in place (preserving its position) or appending.
func (c Context) With(name feelname.Name, v Value) Context {
	out := make([]Entry, len(c.Entries))
	copy(out, c.Entries)
	for i, e := range out {
		if e.Name.Equal(name) {
			out[i].Value = v
			return Context{Entries: out}
		}
	}
	return Context{Entries: append(out, Entry{Name: name, Value: v})}
}

// Range is an interval with independently closed/open endpoints.
type Range struct {
	Start      Value
	StartClose bool // true = closed ("[")
	End        Value
	EndClose   bool
}

func (Range) isValue() {}
func (r Range) Kind() types.Type {
	elem := types.Any
	if r.Start != nil {
		elem = r.Start.Kind()
	}
	return types.Range(elem)
}
func (r Range) String() string {
	open := "("
	if r.StartClose {
		open = "["
	}
	closeCh := ")"
	if r.EndClose {
		closeCh = "]"
	}
	return fmt.Sprintf("%s%s..%s%s", open, r.Start.String(), r.End.String(), closeCh)
}

// FeelType reifies a Type as a first-class Value, for `instance of` and
// context/list/range/function type-constructor expressions.
type FeelType struct{ T types.Type }

func (FeelType) isValue()         {}
func (FeelType) Kind() types.Type { return types.Any }
func (t FeelType) String() string { return t.T.String() }
