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

package builtins

import "github.com/dmntk-go/dmntk/internal/value"

func init() {
	register("not", []string{"negand"}, biNot)
	register("is", []string{"value1", "value2"}, biIs)
}

// biNot implements ternary not: not(Null) = Null (spec.md §4.4), and any
// other non-boolean argument also yields Null.
func biNot(args []value.Value) value.Value {
	b, ok := asBool(arg(args, 0))
	if !ok {
		return value.Null{}
	}
	return value.Bool(!bool(b))
}

// biIs tests whether two values are the same instance of the FEEL type
// lattice: same dynamic kind and structurally equal, unlike `=` which
// treats cross-kind comparisons as incomparable rather than false.
func biIs(args []value.Value) value.Value {
	a, b := arg(args, 0), arg(args, 1)
	if a.Kind().Kind != b.Kind().Kind {
		return value.Bool(false)
	}
	return value.Bool(value.Equal(a, b) == value.TriTrue)
}
