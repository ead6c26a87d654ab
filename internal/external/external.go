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

// Package external resolves spec.md §9 Open Question (c): "an
// implementation should provide a real hook or explicit stub-mode
// flag" for external ("java"/"pmml") function invocation. It implements
// the eval.External interface structurally (it never imports package
// eval, for the same reason package builtins does) and
// ships a default Null-returning stub plus a small table-driven Java
// invoker usable in tests or as a host-registered dispatch table.
package external

import (
	"strings"

	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/value"
)

var (
	javaKey   = feelname.MustNew("java")
	pmmlKey   = feelname.MustNew("pmml")
	classKey  = feelname.MustNew("class")
	methodKey = feelname.MustNew("method signature")
)

// StubInvoker rejects every call with a trace identifying which
// collaborator (java/pmml) would have been invoked. It is the default
// wiring (spec.md §9 Open Question (c) "explicit stub-mode flag") when
// a host does not register a real bridge.
type StubInvoker struct{}

func (StubInvoker) Invoke(spec value.Context, args []value.Value) value.Value {
	if _, ok := spec.Get(javaKey); ok {
		return value.NullTrace("external java invocation not configured: stub invoker")
	}
	if _, ok := spec.Get(pmmlKey); ok {
		return value.NullTrace("external pmml invocation not configured: stub invoker")
	}
	return value.NullTrace("external invocation not configured: stub invoker")
}

// JavaFunc is one registered Java-collaborator implementation: plain Go
// standing in for the out-of-scope JVM bridge.
type JavaFunc func(args []value.Value) value.Value

// JavaInvoker dispatches `{java: {class: ..., "method signature": ...}}`
// external function bodies to a host-registered lookup table, keyed by
// "class#method signature" (spec.md §4.3 "external functions"). PMML
// bodies always fail: this invoker is java-only, by construction, not
// by omission.
type JavaInvoker struct {
	funcs map[string]JavaFunc
}

// NewJavaInvoker returns an empty JavaInvoker; register implementations
// with Register before wiring it into an eval.Env via Env.WithExternal.
func NewJavaInvoker() *JavaInvoker {
	return &JavaInvoker{funcs: map[string]JavaFunc{}}
}

// Register binds fn under the key "class#methodSignature".
func (j *JavaInvoker) Register(class, methodSignature string, fn JavaFunc) {
	j.funcs[class+"#"+methodSignature] = fn
}

// NewDefaultJavaInvoker returns a JavaInvoker pre-registered with a
// fixed list of common `java.lang` signatures, mirroring the original
// implementation's mock-list approach to external function resolution
// (spec.md §9 Open Question (c)) rather than a real JVM bridge.
func NewDefaultJavaInvoker() *JavaInvoker {
	j := NewJavaInvoker()
	j.Register("java.lang.Math", "max(int, int)", func(args []value.Value) value.Value {
		if len(args) != 2 {
			return value.NullTrace("java.lang.Math#max(int, int): expected 2 arguments")
		}
		a, aok := args[0].(value.Num)
		b, bok := args[1].(value.Num)
		if !aok || !bok {
			return value.NullTrace("java.lang.Math#max(int, int): expected numeric arguments")
		}
		if number.Cmp(a.N, b.N) >= 0 {
			return a
		}
		return b
	})
	j.Register("java.lang.Math", "min(int, int)", func(args []value.Value) value.Value {
		if len(args) != 2 {
			return value.NullTrace("java.lang.Math#min(int, int): expected 2 arguments")
		}
		a, aok := args[0].(value.Num)
		b, bok := args[1].(value.Num)
		if !aok || !bok {
			return value.NullTrace("java.lang.Math#min(int, int): expected numeric arguments")
		}
		if number.Cmp(a.N, b.N) <= 0 {
			return a
		}
		return b
	})
	j.Register("java.lang.String", "toUpperCase()", func(args []value.Value) value.Value {
		if len(args) != 1 {
			return value.NullTrace("java.lang.String#toUpperCase(): expected 1 argument")
		}
		s, ok := args[0].(value.Str)
		if !ok {
			return value.NullTrace("java.lang.String#toUpperCase(): expected a string argument")
		}
		return value.Str(strings.ToUpper(string(s)))
	})
	return j
}

func (j *JavaInvoker) Invoke(spec value.Context, args []value.Value) value.Value {
	jv, ok := spec.Get(javaKey)
	if !ok {
		return value.NullTrace("external invocation: not a java function")
	}
	jctx, ok := jv.(value.Context)
	if !ok {
		return value.NullTrace("external java invocation: malformed collaborator spec")
	}
	class, ok := asStr(jctx, classKey)
	if !ok {
		return value.NullTrace(`external java invocation: missing "class"`)
	}
	method, ok := asStr(jctx, methodKey)
	if !ok {
		return value.NullTrace(`external java invocation: missing "method signature"`)
	}
	fn, ok := j.funcs[class+"#"+method]
	if !ok {
		return value.NullTrace("external java invocation: no implementation registered for %s#%s", class, method)
	}
	return fn(args)
}

func asStr(ctx value.Context, key feelname.Name) (string, bool) {
	v, ok := ctx.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(value.Str)
	return string(s), ok
}

// PMMLInvoker is the out-of-scope PMML model-evaluation collaborator's
// placeholder: every call fails with a trace, since PMML scoring has no
// grounding in this module's dependency surface. It exists only so a
// Dispatcher can route java calls to a real JavaInvoker while still
// honoring a `{pmml: ...}` body without a type assertion panic.
type PMMLInvoker struct{}

func (PMMLInvoker) Invoke(spec value.Context, args []value.Value) value.Value {
	return value.NullTrace("external pmml invocation is not implemented")
}

// Invoker is declared locally, matching eval.External's method set
// structurally, so this package never imports package eval (the same
// cycle-avoidance package builtins uses against eval.Builtins).
type Invoker interface {
	Invoke(spec value.Context, args []value.Value) value.Value
}

// Dispatcher routes an external call to Java or PMML by which key the
// collaborator spec carries, falling back to StubInvoker{} for either
// collaborator left nil.
type Dispatcher struct {
	Java Invoker
	PMML Invoker
}

func (d Dispatcher) Invoke(spec value.Context, args []value.Value) value.Value {
	if _, ok := spec.Get(javaKey); ok {
		if d.Java != nil {
			return d.Java.Invoke(spec, args)
		}
		return StubInvoker{}.Invoke(spec, args)
	}
	if _, ok := spec.Get(pmmlKey); ok {
		if d.PMML != nil {
			return d.PMML.Invoke(spec, args)
		}
		return StubInvoker{}.Invoke(spec, args)
	}
	return StubInvoker{}.Invoke(spec, args)
}
