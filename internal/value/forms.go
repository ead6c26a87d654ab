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

import "strings"

// JSON renders v's JSON form (spec.md §6): like the display form, but
// strings are quoted with ". Nested values recurse, so a List or
// Context's string elements are quoted too, unlike their bare display
// form.
func JSON(v Value) string {
	switch x := v.(type) {
	case Str:
		return quoteJSON(string(x))
	case List:
		parts := make([]string, len(x.Items))
		for i, it := range x.Items {
			parts[i] = JSON(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Context:
		parts := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			parts[i] = quoteJSON(e.Name.String()) + ": " + JSON(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.String()
	}
}

func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// FEELString renders v's FEEL-literal form (spec.md §6): strings are
// quoted with ", inner quotes escaped as \". Used when re-serializing a
// Value back into FEEL source (diagnostics, decision-table trace text).
func FEELString(v Value) string {
	switch x := v.(type) {
	case Str:
		return quoteJSON(string(x))
	case List:
		parts := make([]string, len(x.Items))
		for i, it := range x.Items {
			parts[i] = FEELString(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Context:
		parts := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			parts[i] = e.Name.String() + ": " + FEELString(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.String()
	}
}
