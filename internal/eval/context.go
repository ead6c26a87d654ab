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
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/value"
)

// compileContext implements a context literal (spec.md §4.7 "special"
// context): entries are evaluated in source order, each newly evaluated
// entry becomes visible to the ones that follow it (but not to itself,
// and not retroactively to earlier entries), by pushing the
// partially-built frame back onto the scope between entries. A computed
// ("string-key") entry key is evaluated against the scope as it stood
// before this entry was added.
func compileContext(env *Env, x *ast.ContextExpr) (value.Closure, error) {
	type compiledEntry struct {
		name     feelname.Name
		computed value.Closure // non-nil when the key is a computed string
		val      value.Closure
	}
	entryEnv := env
	entries := make([]compiledEntry, len(x.Entries))
	for i, e := range x.Entries {
		var ce compiledEntry
		if e.Key.Computed != nil {
			c, err := Compile(entryEnv, e.Key.Computed)
			if err != nil {
				return nil, err
			}
			ce.computed = c
		} else {
			ce.name = nameFromRef(e.Key.Name)
			entryEnv = entryEnv.withName(ce.name)
		}
		v, err := Compile(entryEnv, e.Value)
		if err != nil {
			return nil, err
		}
		ce.val = v
		entries[i] = ce
	}
	return func(s *value.Scope) value.Value {
		cur := s
		built := value.Context{}
		for _, ce := range entries {
			name := ce.name
			if ce.computed != nil {
				kv, ok := ce.computed(cur).(value.Str)
				if !ok {
					return value.NullTrace("context: computed key is not a string")
				}
				n, ok := feelname.New(string(kv))
				if !ok {
					return value.NullTrace("context: invalid computed key %q", string(kv))
				}
				name = n
			}
			v := ce.val(cur)
			built = built.With(name, v)
			cur = cur.WithTop(cur.Top().With(name, v))
		}
		return built
	}, nil
}
