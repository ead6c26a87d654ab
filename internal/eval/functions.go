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
	"github.com/dmntk-go/dmntk/internal/errors"
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/types"
	"github.com/dmntk-go/dmntk/internal/value"
)

// External is the minimal surface package external exposes back to the
// evaluator, to invoke an external ("java"/"pmml") function body
// against a call's evaluated arguments. It is an interface, not a
// direct import of package external, for the same reason Builtins is:
// package external depends on value, not eval, to avoid a cycle.
type External interface {
	Invoke(spec value.Context, args []value.Value) value.Value
}

// compileFunctionDef compiles `function(params) body` (spec.md §4.3,
// §9 "Closures"): at definition time the surrounding scope is snapshot
// by free name, not held live, so later mutation of an outer binding
// (via a subsequent `for`/context entry of the same name) never leaks
// into an already-built function value.
func compileFunctionDef(env *Env, x *ast.FunctionDef) (value.Closure, error) {
	params := make([]value.Param, len(x.Params))
	bodyEnv := env
	for i, p := range x.Params {
		pt := types.Any
		if p.Type != nil {
			pv, err := Compile(env, p.Type)
			if err != nil {
				return nil, err
			}
			if ft, ok := pv(nil).(value.FeelType); ok {
				pt = ft.T
			}
		}
		params[i] = value.Param{Name: nameFromRef(p.Name), Type: pt}
		bodyEnv = bodyEnv.withName(params[i].Name)
	}
	result := types.Any
	if x.Result != nil {
		rv, err := Compile(env, x.Result)
		if err != nil {
			return nil, err
		}
		if ft, ok := rv(nil).(value.FeelType); ok {
			result = ft.T
		}
	}
	body, err := Compile(bodyEnv, x.Body)
	if err != nil {
		return nil, err
	}
	free := FreeNames(x.Body)
	// exclude the function's own parameters: they are bound fresh on
	// each call, not captured from the definition-time scope.
	paramSet := make(map[string]bool, len(params))
	for _, p := range params {
		paramSet[p.Name.String()] = true
	}
	capture := free[:0]
	for _, n := range free {
		if !paramSet[n.String()] {
			capture = append(capture, n)
		}
	}
	external := x.External
	return func(s *value.Scope) value.Value {
		closed := s.Snapshot(capture)
		return value.FunctionDefinition{
			Params:   params,
			Body:     body,
			Closure:  closed,
			Result:   result,
			External: external,
		}
	}, nil
}

// compileInvocation implements function invocation (spec.md §4.3):
// positional or named arguments (never mixed, the parser enforces
// that), arity checked against the callee's declared parameter list,
// each argument coerced to its parameter's declared type, the result
// coerced to the declared result type, invoked against a scope that
// pushes the captured definition-time Closure frame then a fresh
// parameter-bindings frame (so the body sees parameters shadowing
// anything of the same name in the closure).
func compileInvocation(env *Env, x *ast.Invocation) (value.Closure, error) {
	callee, err := Compile(env, x.Callee)
	if err != nil {
		return nil, err
	}
	positional, err := compilePositionalArgs(env, x.Positional)
	if err != nil {
		return nil, err
	}
	named, err := compileNamedArgs(env, x.Named)
	if err != nil {
		return nil, err
	}
	return func(s *value.Scope) value.Value {
		cv := callee(s)
		switch fn := cv.(type) {
		case value.FunctionDefinition:
			return invokeDefinition(env, s, fn, positional, named)
		case value.BuiltInFunction:
			return invokeBuiltin(env, s, fn, positional, named)
		default:
			return value.NullTrace("invocation target is not a function")
		}
	}, nil
}

type compiledPositionalArg struct{ value value.Closure }
type compiledNamedArg struct {
	name  feelname.Name
	value value.Closure
}

func compilePositionalArgs(env *Env, args []ast.PositionalArg) ([]compiledPositionalArg, error) {
	out := make([]compiledPositionalArg, len(args))
	for i, a := range args {
		c, err := Compile(env, a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = compiledPositionalArg{value: c}
	}
	return out, nil
}

func compileNamedArgs(env *Env, args []ast.NamedArg) ([]compiledNamedArg, error) {
	out := make([]compiledNamedArg, len(args))
	for i, a := range args {
		c, err := Compile(env, a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = compiledNamedArg{name: nameFromRef(a.Name), value: c}
	}
	return out, nil
}

func invokeDefinition(env *Env, s *value.Scope, fn value.FunctionDefinition, positional []compiledPositionalArg, named []compiledNamedArg) value.Value {
	var args []value.Value
	if len(positional) > 0 || len(named) == 0 {
		if len(positional) != len(fn.Params) {
			return value.NullTrace("function expects %d arguments, got %d", len(fn.Params), len(positional))
		}
		args = make([]value.Value, len(positional))
		for i, a := range positional {
			args[i] = a.value(s)
		}
	} else {
		args = make([]value.Value, len(fn.Params))
		provided := make(map[string]value.Value, len(named))
		for _, a := range named {
			provided[a.name.String()] = a.value(s)
		}
		for i, p := range fn.Params {
			v, ok := provided[p.Name.String()]
			if !ok {
				return value.NullTrace("missing named argument %q", p.Name.String())
			}
			args[i] = v
		}
	}
	callScope := value.NewScope(fn.Closure)
	frame := value.Context{}
	coercedArgs := make([]value.Value, len(fn.Params))
	for i, p := range fn.Params {
		coerced := value.Coerce(p.Type, args[i])
		coercedArgs[i] = coerced
		frame = frame.With(p.Name, coerced)
	}
	callScope = callScope.Push(frame)
	body := fn.Body(callScope)
	if fn.External {
		return invokeExternal(env, body, coercedArgs, fn.Result)
	}
	return value.Coerce(fn.Result, body)
}

// invokeExternal implements spec.md §4.3 "external functions": the
// function body is not evaluated for its own sake but inspected as a
// "java"/"pmml" collaborator spec and handed to the registered invoker
// (spec.md §9 Open Question (c)). With no invoker configured, every
// call is Null with a trace, matching the built-ins' failure
// convention rather than panicking.
func invokeExternal(env *Env, body value.Value, args []value.Value, result types.Type) value.Value {
	ctx, ok := body.(value.Context)
	if !ok {
		return value.NullTrace("external function body must be a context")
	}
	if err := verifyExternalShape(ctx); err != nil {
		return value.NullTrace(err.Error())
	}
	if env.External == nil {
		return value.NullTrace("external function invocation requires a registered invoker")
	}
	return value.Coerce(result, env.External.Invoke(ctx, args))
}

func invokeBuiltin(env *Env, s *value.Scope, fn value.BuiltInFunction, positional []compiledPositionalArg, named []compiledNamedArg) value.Value {
	if env.Builtins == nil {
		return value.NullTrace("no built-in registry configured")
	}
	args := make([]value.Value, len(positional))
	for i, a := range positional {
		args[i] = a.value(s)
	}
	var namedArgs map[string]value.Value
	if len(named) > 0 {
		namedArgs = make(map[string]value.Value, len(named))
		for _, a := range named {
			namedArgs[a.name.String()] = a.value(s)
		}
	}
	return env.Builtins.Invoke(fn.Tag, args, namedArgs)
}

// verifyExternalShape checks the `java`/`pmml` external-function Context
// shape spec.md §4.3 ("external functions") requires: a context with a
// "java" or "pmml" entry, itself a context carrying the collaborator's
// expected keys. It does not invoke anything; package external performs
// the actual call once this shape check passes.
func verifyExternalShape(body value.Value) error {
	ctx, ok := body.(value.Context)
	if !ok {
		return errors.Newf("external function body must be a context")
	}
	if _, ok := ctx.Get(feelname.MustNew("java")); ok {
		return nil
	}
	if _, ok := ctx.Get(feelname.MustNew("pmml")); ok {
		return nil
	}
	return errors.Newf(`external function body must carry a "java" or "pmml" entry`)
}
