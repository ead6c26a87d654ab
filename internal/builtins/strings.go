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
	"regexp"
	"strings"

	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/value"
)

func init() {
	register("string", []string{"from"}, biString)
	register("string length", []string{"string"}, biStringLength)
	register("upper case", []string{"string"}, biUpperCase)
	register("lower case", []string{"string"}, biLowerCase)
	register("contains", []string{"string", "match"}, biContains)
	register("starts with", []string{"string", "match"}, biStartsWith)
	register("ends with", []string{"string", "match"}, biEndsWith)
	register("substring", []string{"string", "start position", "length"}, biSubstring)
	register("substring before", []string{"string", "match"}, biSubstringBefore)
	register("substring after", []string{"string", "match"}, biSubstringAfter)
	register("replace", []string{"input", "pattern", "replacement", "flags"}, biReplace)
	register("matches", []string{"input", "pattern", "flags"}, biMatches)
	register("split", []string{"string", "delimiter"}, biSplit)
}

func biString(args []value.Value) value.Value {
	v := arg(args, 0)
	if _, isNull := v.(value.Null); isNull {
		return value.Null{}
	}
	return value.Str(v.String())
}

func biStringLength(args []value.Value) value.Value {
	s, ok := asStr(arg(args, 0))
	if !ok {
		return value.NullTrace("string length: expected a string")
	}
	return value.NewNum(number.FromInt64(int64(len([]rune(string(s))))))
}

func biUpperCase(args []value.Value) value.Value {
	s, ok := asStr(arg(args, 0))
	if !ok {
		return value.NullTrace("upper case: expected a string")
	}
	return value.Str(strings.ToUpper(string(s)))
}

func biLowerCase(args []value.Value) value.Value {
	s, ok := asStr(arg(args, 0))
	if !ok {
		return value.NullTrace("lower case: expected a string")
	}
	return value.Str(strings.ToLower(string(s)))
}

func biContains(args []value.Value) value.Value {
	s, ok1 := asStr(arg(args, 0))
	m, ok2 := asStr(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("contains: expected two strings")
	}
	return value.Bool(strings.Contains(string(s), string(m)))
}

func biStartsWith(args []value.Value) value.Value {
	s, ok1 := asStr(arg(args, 0))
	m, ok2 := asStr(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("starts with: expected two strings")
	}
	return value.Bool(strings.HasPrefix(string(s), string(m)))
}

func biEndsWith(args []value.Value) value.Value {
	s, ok1 := asStr(arg(args, 0))
	m, ok2 := asStr(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("ends with: expected two strings")
	}
	return value.Bool(strings.HasSuffix(string(s), string(m)))
}

// biSubstring implements 1-based, negative-from-end substring(s, start[, length]).
func biSubstring(args []value.Value) value.Value {
	s, ok := asStr(arg(args, 0))
	if !ok {
		return value.NullTrace("substring: expected a string")
	}
	startN, ok := asNum(arg(args, 1))
	if !ok {
		return value.NullTrace("substring: expected a numeric start position")
	}
	start, ok := startN.N.Int64()
	if !ok {
		return value.NullTrace("substring: start position must be integral")
	}
	runes := []rune(string(s))
	n := int64(len(runes))
	idx := start
	if idx < 0 {
		idx = n + idx + 1
	}
	if idx < 1 {
		idx = 1
	}
	if idx > n+1 {
		return value.Str("")
	}
	from := idx - 1
	length := n - from
	if ln, ok := asNum(arg(args, 2)); ok {
		if l, ok := ln.N.Int64(); ok {
			length = l
		}
	}
	if length < 0 {
		length = 0
	}
	to := from + length
	if to > n {
		to = n
	}
	if from > to {
		from = to
	}
	return value.Str(string(runes[from:to]))
}

func biSubstringBefore(args []value.Value) value.Value {
	s, ok1 := asStr(arg(args, 0))
	m, ok2 := asStr(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("substring before: expected two strings")
	}
	i := strings.Index(string(s), string(m))
	if i < 0 {
		return value.Str("")
	}
	return value.Str(string(s)[:i])
}

func biSubstringAfter(args []value.Value) value.Value {
	s, ok1 := asStr(arg(args, 0))
	m, ok2 := asStr(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("substring after: expected two strings")
	}
	i := strings.Index(string(s), string(m))
	if i < 0 {
		return value.Str("")
	}
	return value.Str(string(s)[i+len(string(m)):])
}

func feelRegexp(pattern, flags string) (*regexp.Regexp, error) {
	prefix := ""
	if strings.Contains(flags, "i") {
		prefix += "i"
	}
	if strings.Contains(flags, "s") {
		prefix += "s"
	}
	if strings.Contains(flags, "m") {
		prefix += "m"
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	return regexp.Compile(pattern)
}

func biReplace(args []value.Value) value.Value {
	input, ok1 := asStr(arg(args, 0))
	pattern, ok2 := asStr(arg(args, 1))
	repl, ok3 := asStr(arg(args, 2))
	if !ok1 || !ok2 || !ok3 {
		return value.NullTrace("replace: expected three strings")
	}
	flags := ""
	if f, ok := asStr(arg(args, 3)); ok {
		flags = string(f)
	}
	re, err := feelRegexp(string(pattern), flags)
	if err != nil {
		return value.NullTrace("replace: invalid pattern %q", string(pattern))
	}
	goRepl := convertBackreferences(string(repl))
	return value.Str(re.ReplaceAllString(string(input), goRepl))
}

// convertBackreferences rewrites FEEL/XPath-style $1 backreferences to
// Go regexp's ${1} form.
func convertBackreferences(repl string) string {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '$' && i+1 < len(repl) && repl[i+1] >= '0' && repl[i+1] <= '9' {
			j := i + 1
			for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			b.WriteString("${" + repl[i+1:j] + "}")
			i = j - 1
			continue
		}
		b.WriteByte(repl[i])
	}
	return b.String()
}

func biMatches(args []value.Value) value.Value {
	input, ok1 := asStr(arg(args, 0))
	pattern, ok2 := asStr(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("matches: expected two strings")
	}
	flags := ""
	if f, ok := asStr(arg(args, 2)); ok {
		flags = string(f)
	}
	re, err := feelRegexp(string(pattern), flags)
	if err != nil {
		return value.NullTrace("matches: invalid pattern %q", string(pattern))
	}
	return value.Bool(re.MatchString(string(input)))
}

func biSplit(args []value.Value) value.Value {
	s, ok1 := asStr(arg(args, 0))
	d, ok2 := asStr(arg(args, 1))
	if !ok1 || !ok2 {
		return value.NullTrace("split: expected two strings")
	}
	re, err := regexp.Compile(string(d))
	if err != nil {
		return value.NullTrace("split: invalid delimiter pattern %q", string(d))
	}
	parts := re.Split(string(s), -1)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.Str(p)
	}
	return value.List{Items: out}
}
