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

import "github.com/dmntk-go/dmntk/internal/feelname"

// Scope implements FEEL's Scope (spec.md §3, §4.7): a non-empty stack of
// Context frames, searched top-down for name resolution. It lives in
// this package, rather than a separate one, because FunctionDefinition
// closures (below) must close over a Scope -> Value signature without
// an import cycle.
type Scope struct {
	frames []Context
}

// NewScope returns a Scope with a single root frame.
func NewScope(root Context) *Scope {
	return &Scope{frames: []Context{root}}
}

// Push returns a new Scope with frame pushed on top. Scope is treated as
// persistent: pushing never mutates s, so closures that already captured
// s remain valid.
func (s *Scope) Push(frame Context) *Scope {
	frames := make([]Context, len(s.frames)+1)
	copy(frames, s.frames)
	frames[len(frames)-1] = frame
	return &Scope{frames: frames}
}

// Pop returns a Scope with the top frame removed. Popping the last
// remaining frame panics: a Scope must never become empty.
func (s *Scope) Pop() *Scope {
	if len(s.frames) <= 1 {
		panic("value: cannot pop a scope's last frame")
	}
	return &Scope{frames: s.frames[:len(s.frames)-1]}
}

// Top returns the top-of-stack frame.
func (s *Scope) Top() Context { return s.frames[len(s.frames)-1] }

// WithTop returns a Scope with the top frame replaced by frame, used by
// context-literal construction to make already-evaluated entries visible
// to later entries within the same literal (spec.md §4.7 "special"
// context).
func (s *Scope) WithTop(frame Context) *Scope {
	frames := make([]Context, len(s.frames))
	copy(frames, s.frames)
	frames[len(frames)-1] = frame
	return &Scope{frames: frames}
}

// Lookup searches top-down for a single-segment name, returning the
// first match.
func (s *Scope) Lookup(name feelname.Name) (Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// LookupQualified walks nested Contexts by segment, starting from the
// top-down single-segment Lookup of the first segment (spec.md §3
// "qualified names walk nested Contexts by segment").
func (s *Scope) LookupQualified(segments []feelname.Name) (Value, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	v, ok := s.Lookup(segments[0])
	if !ok {
		return nil, false
	}
	for _, seg := range segments[1:] {
		ctx, ok := v.(Context)
		if !ok {
			return nil, false
		}
		v, ok = ctx.Get(seg)
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// Set binds name to v in the top frame, used by `for`/`some`/`every`
// iteration bindings (spec.md §3 "a single-segment set used by
// iterations"). It never mutates an existing frame in place; it returns
// a new Scope with the binding applied to a fresh top frame.
func (s *Scope) Set(name feelname.Name, v Value) *Scope {
	return s.WithTop(s.Top().With(name, v))
}

// Snapshot captures the current value of each of names, top-down,
// skipping names that aren't bound — used by closure capture to record a
// function's free-name set at definition time (spec.md §4.3, §9
// "Closures").
func (s *Scope) Snapshot(names []feelname.Name) Context {
	var entries []Entry
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n.String()] {
			continue
		}
		if v, ok := s.Lookup(n); ok {
			entries = append(entries, Entry{Name: n, Value: v})
			seen[n.String()] = true
		}
	}
	return Context{Entries: entries}
}
