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

import "github.com/dmntk-go/dmntk/internal/types"

// TypeOf returns the dynamic type of v; it is simply v.Kind(), exposed
// as a free function for symmetry with Coerce.
func TypeOf(v Value) types.Type { return v.Kind() }

// Coerce implements the three coercion shapes of spec.md §3, in order:
// (a) pass through if v's type conforms to target; (b) wrap v in a
// one-element list if target is List(T) and v conforms to T; (c) unwrap
// a one-element List(T') if T' conforms to target. Anything else yields
// Null.
func Coerce(target types.Type, v Value) Value {
	actual := TypeOf(v)
	if target.Kind == types.AnyKind || types.Conforms(actual, target) {
		return v
	}
	if target.Kind == types.ListKind {
		if types.Conforms(actual, *target.Elem) {
			return List{Items: []Value{v}}
		}
	}
	if l, ok := v.(List); ok && len(l.Items) == 1 {
		if types.Conforms(l.Items[0].Kind(), target) {
			return l.Items[0]
		}
	}
	return NullTrace("cannot coerce value of type %s to %s", actual, target)
}
