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
	"github.com/dmntk-go/dmntk/internal/types"
	"github.com/dmntk-go/dmntk/internal/value"
)

// compileTypeExpr compiles a type-constructor node into a closure
// producing a value.FeelType. Type expressions never reference Scope
// (spec.md §3 type lattice is purely structural), so the returned
// closure ignores its argument and may safely be invoked with a nil
// Scope, as FunctionDef parameter/result type resolution does.
func compileTypeExpr(env *Env, n ast.Node) (value.Closure, error) {
	t, err := resolveType(env, n)
	if err != nil {
		return nil, err
	}
	ft := value.FeelType{T: t}
	return func(*value.Scope) value.Value { return ft }, nil
}

func resolveType(env *Env, n ast.Node) (types.Type, error) {
	switch x := n.(type) {
	case *ast.TypeName:
		switch x.Name {
		case "Any", "any":
			return types.Any, nil
		case "number":
			return types.Number, nil
		case "string":
			return types.String, nil
		case "boolean":
			return types.Boolean, nil
		case "date":
			return types.Date, nil
		case "time":
			return types.Time, nil
		case "date and time":
			return types.DateTime, nil
		case "days and time duration":
			return types.DaysTime, nil
		case "years and months duration":
			return types.YearsMonths, nil
		default:
			return types.Type{}, errors.Newf("eval: unknown type name %q", x.Name)
		}
	case *ast.ListType:
		elem, err := resolveType(env, x.Elem)
		if err != nil {
			return types.Type{}, err
		}
		return types.List(elem), nil
	case *ast.RangeType:
		elem, err := resolveType(env, x.Elem)
		if err != nil {
			return types.Type{}, err
		}
		return types.Range(elem), nil
	case *ast.ContextType:
		entries := make([]types.Entry, len(x.Entries))
		for i, e := range x.Entries {
			et, err := resolveType(env, e.Type)
			if err != nil {
				return types.Type{}, err
			}
			entries[i] = types.Entry{Name: e.Name, Type: et}
		}
		return types.Context(entries...), nil
	case *ast.FunctionType:
		params := make([]types.Type, len(x.Params))
		for i, p := range x.Params {
			pt, err := resolveType(env, p)
			if err != nil {
				return types.Type{}, err
			}
			params[i] = pt
		}
		result, err := resolveType(env, x.Result)
		if err != nil {
			return types.Type{}, err
		}
		return types.Function(params, result), nil
	}
	return types.Type{}, errors.Newf("eval: %T is not a type expression", n)
}
