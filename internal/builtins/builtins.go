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

// Package builtins implements C8 (spec.md §4.4): the library of named
// FEEL functions, dispatched either positionally or by name. It never
// imports package eval, and satisfies the
// eval.Builtins interface so package eval can invoke it without an
// import cycle.
package builtins

import "github.com/dmntk-go/dmntk/internal/value"

// descriptor is one registered built-in: its named-argument parameter
// order (for named dispatch; nil for purely variadic functions, which
// only support positional calls) and its implementation.
type descriptor struct {
	params []string
	fn     func(args []value.Value) value.Value
}

var registry = map[string]descriptor{}

func register(name string, params []string, fn func([]value.Value) value.Value) {
	registry[name] = descriptor{params: params, fn: fn}
}

// Registry is the builtins library, implementing eval.Builtins.
type Registry struct{}

// NewRegistry constructs the standard built-in library (spec.md §4.4).
func NewRegistry() *Registry { return &Registry{} }

// Lookup resolves a bare name to a callable built-in reference, so a
// built-in used as a value (not invoked) still resolves (spec.md §4.4).
func (*Registry) Lookup(name string) (value.BuiltInFunction, bool) {
	if _, ok := registry[name]; !ok {
		return value.BuiltInFunction{}, false
	}
	return value.BuiltInFunction{Tag: value.BuiltInTag(name)}, true
}

// Invoke dispatches a built-in call. Positional args are used as-is;
// named args are reordered into positional form via the descriptor's
// declared parameter order, with any parameter the caller omitted bound
// to Null. Unknown built-in name or argument-shape mismatch yields Null
// with a trace identifying the function (spec.md §4.4).
func (*Registry) Invoke(tag value.BuiltInTag, args []value.Value, named map[string]value.Value) value.Value {
	d, ok := registry[string(tag)]
	if !ok {
		return value.NullTrace("unknown built-in %q", string(tag))
	}
	if len(named) > 0 {
		if d.params == nil {
			return value.NullTrace("%s: does not support named arguments", string(tag))
		}
		bound := make([]value.Value, len(d.params))
		for i, p := range d.params {
			v, ok := named[p]
			if !ok {
				v = value.Null{}
			}
			bound[i] = v
		}
		args = bound
	}
	return d.fn(args)
}

// variadicArgs implements the "single list or multiple positional
// arguments" shape used by sum/min/max/mean/median/mode/stddev/product/
// count: a lone List argument is unwrapped. union and concatenate do not
// use it; they take each positional argument as a list.
func variadicArgs(args []value.Value) []value.Value {
	if len(args) == 1 {
		if l, ok := args[0].(value.List); ok {
			return l.Items
		}
	}
	return args
}

func asNum(v value.Value) (value.Num, bool) {
	n, ok := v.(value.Num)
	return n, ok
}

func asStr(v value.Value) (value.Str, bool) {
	s, ok := v.(value.Str)
	return s, ok
}

func asList(v value.Value) (value.List, bool) {
	l, ok := v.(value.List)
	return l, ok
}

func asBool(v value.Value) (value.Bool, bool) {
	b, ok := v.(value.Bool)
	return b, ok
}

func asContext(v value.Value) (value.Context, bool) {
	c, ok := v.(value.Context)
	return c, ok
}

func arg(args []value.Value, i int) value.Value {
	if i < 0 || i >= len(args) {
		return value.Null{}
	}
	return args[i]
}
