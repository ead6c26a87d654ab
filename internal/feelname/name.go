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

// Package feelname implements FEEL's multi-word Name: an ordered sequence
// of non-empty word tokens with a canonical single-space-joined string
// form. Two distinct tokenizations of the same character sequence are
// different names, so Name equality is token-sequence equality, never
// plain string equality.
package feelname

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name is an ordered, non-empty sequence of word tokens, e.g. the FEEL
// name `Applicant age` tokenizes to ["Applicant", "age"].
type Name struct {
	tokens []string
}

// New builds a Name from pre-split tokens. Empty tokens are rejected by
// returning ok=false; every token is normalized to Unicode NFC so that
// names that differ only in combining-character representation compare
// equal.
func New(tokens ...string) (Name, bool) {
	if len(tokens) == 0 {
		return Name{}, false
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if t == "" {
			return Name{}, false
		}
		out[i] = norm.NFC.String(t)
	}
	return Name{tokens: out}, true
}

// MustNew is New but panics on an invalid (empty) token list. Intended
// for tests and builder code operating on already-validated input.
func MustNew(tokens ...string) Name {
	n, ok := New(tokens...)
	if !ok {
		panic("feelname: empty name")
	}
	return n
}

// FromTokenizer splits s into word tokens using tokenize, the longest-match
// tokenizer supplied by the parser collaborator (spec.md §6), and builds
// a Name from the result.
func FromTokenizer(s string, tokenize func(string) []string) (Name, bool) {
	return New(tokenize(s)...)
}

// Simple builds a single-token Name directly from an identifier string,
// for the common case of a name with no internal spaces (most built-in
// and BKM parameter names).
func Simple(s string) Name {
	return MustNew(s)
}

// Tokens returns the underlying word tokens. The returned slice must not
// be mutated.
func (n Name) Tokens() []string { return n.tokens }

// String renders the canonical form: tokens joined by a single space.
func (n Name) String() string {
	return strings.Join(n.tokens, " ")
}

// Equal reports token-sequence equality, not string equality: two names
// are equal iff they have the same number of tokens and each pair of
// tokens is identical after NFC normalization.
func (n Name) Equal(o Name) bool {
	if len(n.tokens) != len(o.tokens) {
		return false
	}
	for i := range n.tokens {
		if n.tokens[i] != o.tokens[i] {
			return false
		}
	}
	return true
}

// Less provides a total order over Names (lexicographically per token,
// then by token count when one is a prefix of the other) so Names can key
// sorted structures such
// as Context's ordered export.
func (n Name) Less(o Name) bool {
	for i := 0; i < len(n.tokens) && i < len(o.tokens); i++ {
		if n.tokens[i] != o.tokens[i] {
			return n.tokens[i] < o.tokens[i]
		}
	}
	return len(n.tokens) < len(o.tokens)
}

// IsZero reports whether n is the zero value (no tokens), useful for map
// sentinels and "name unset" guards.
func (n Name) IsZero() bool { return len(n.tokens) == 0 }
