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

// Package errors defines the error types shared by the DMN/FEEL core.
//
// The core distinguishes two taxonomies: compile-time errors, returned
// as a typed [Error] from model/table/expression builders, and runtime
// errors, which never panic and are instead folded into a Null value
// carrying a [Error]-shaped trace (see package value).
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Error is the common error type produced by the core's builders.
// It mirrors the shape used throughout the engine so that a trace can
// be attached to a runtime Null value as well as returned synchronously
// from a compile step.
type Error interface {
	error
	// Path returns the path into the DRG or expression tree where the
	// error occurred, outermost first. It may be empty.
	Path() []string
	// Msg returns the unformatted message and its arguments, for callers
	// that want to localize or reformat.
	Msg() (format string, args []interface{})
}

type posError struct {
	path []string
	msg  string
	args []interface{}
}

func (e *posError) Error() string {
	if len(e.path) == 0 {
		return fmt.Sprintf(e.msg, e.args...)
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.path, "."), fmt.Sprintf(e.msg, e.args...))
}

func (e *posError) Path() []string { return e.path }

func (e *posError) Msg() (string, []interface{}) { return e.msg, e.args }

// Newf creates an [Error] with no path context.
func Newf(format string, args ...interface{}) Error {
	return &posError{msg: format, args: args}
}

// NewfPath creates an [Error] rooted at path.
func NewfPath(path []string, format string, args ...interface{}) Error {
	return &posError{path: path, msg: format, args: args}
}

// Wrapf wraps an existing error with additional path context, preserving
// the original message as a suffix.
func Wrapf(err error, path string, format string, args ...interface{}) Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	var p []string
	var e Error
	if stderrors.As(err, &e) {
		p = append(p, e.Path()...)
	}
	p = append([]string{path}, p...)
	return &posError{path: p, msg: "%s", args: []interface{}{msg}}
}

// List is a list of Errors, itself satisfying error. Mirrors
// cue/errors.Error's list aggregation so builders can accumulate
// multiple problems (e.g. several unresolved hrefs) before failing.
type List []Error

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Sanitize sorts and deduplicates a list of errors for stable output.
func (l List) Sanitize() List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Error() < out[j].Error()
	})
	uniq := out[:0]
	for _, e := range out {
		if len(uniq) > 0 && uniq[len(uniq)-1].Error() == e.Error() {
			continue
		}
		uniq = append(uniq, e)
	}
	return uniq
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }
