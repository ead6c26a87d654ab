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

import (
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/value"
)

func init() {
	register("get value", []string{"m", "key"}, biGetValue)
	register("get entries", []string{"m"}, biGetEntries)
}

func biGetValue(args []value.Value) value.Value {
	ctx, ok := asContext(arg(args, 0))
	if !ok {
		return value.NullTrace("get value: expected a context")
	}
	key, ok := asStr(arg(args, 1))
	if !ok {
		return value.NullTrace("get value: expected a string key")
	}
	n, ok := feelname.New(string(key))
	if !ok {
		return value.NullTrace("get value: invalid key %q", string(key))
	}
	v, ok := ctx.Get(n)
	if !ok {
		return value.Null{}
	}
	return v
}

// biGetEntries returns a list of {key, value} contexts in insertion
// order (spec.md §4.4).
func biGetEntries(args []value.Value) value.Value {
	ctx, ok := asContext(arg(args, 0))
	if !ok {
		return value.NullTrace("get entries: expected a context")
	}
	out := make([]value.Value, len(ctx.Entries))
	keyName := feelname.MustNew("key")
	valName := feelname.MustNew("value")
	for i, e := range ctx.Entries {
		out[i] = value.Context{Entries: []value.Entry{
			{Name: keyName, Value: value.Str(e.Name.String())},
			{Name: valName, Value: e.Value},
		}}
	}
	return value.List{Items: out}
}
