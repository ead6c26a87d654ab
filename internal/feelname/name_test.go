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

package feelname

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestNewRejectsEmptyTokenList(t *testing.T) {
	_, ok := New()
	qt.Assert(t, qt.IsFalse(ok))
}

func TestNewRejectsEmptyToken(t *testing.T) {
	_, ok := New("Applicant", "")
	qt.Assert(t, qt.IsFalse(ok))
}

func TestStringJoinsTokensWithSingleSpace(t *testing.T) {
	n := MustNew("Applicant", "age")
	qt.Assert(t, qt.Equals(n.String(), "Applicant age"))
}

func TestEqualIsTokenSequenceEquality(t *testing.T) {
	a := MustNew("Applicant", "age")
	b := MustNew("Applicant", "age")
	qt.Assert(t, qt.IsTrue(a.Equal(b)))

	// Same rendered string, different tokenization: not equal.
	c := MustNew("Applicant age")
	qt.Assert(t, qt.IsFalse(a.Equal(c)))
}

func TestLessOrdersByTokenThenLength(t *testing.T) {
	a := MustNew("age")
	b := MustNew("name")
	qt.Assert(t, qt.IsTrue(a.Less(b)))
	qt.Assert(t, qt.IsFalse(b.Less(a)))

	short := MustNew("a")
	long := MustNew("a", "b")
	qt.Assert(t, qt.IsTrue(short.Less(long)))
}

func TestIsZero(t *testing.T) {
	var zero Name
	qt.Assert(t, qt.IsTrue(zero.IsZero()))
	qt.Assert(t, qt.IsFalse(MustNew("x").IsZero()))
}

func TestTokensExposesUnderlyingSlice(t *testing.T) {
	n := MustNew("Applicant", "age")
	qt.Assert(t, qt.DeepEquals(n.Tokens(), []string{"Applicant", "age"}))
}
