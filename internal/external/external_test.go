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

package external

import (
	"testing"

	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/value"
)

func javaSpec(class, method string) value.Context {
	jctx, _ := value.NewContext(
		value.Entry{Name: feelname.MustNew("class"), Value: value.Str(class)},
		value.Entry{Name: feelname.MustNew("method signature"), Value: value.Str(method)},
	)
	ctx, _ := value.NewContext(value.Entry{Name: feelname.MustNew("java"), Value: jctx})
	return ctx
}

func TestStubInvokerReturnsNull(t *testing.T) {
	got := StubInvoker{}.Invoke(javaSpec("java.lang.Math", "abs(int)"), nil)
	if _, ok := got.(value.Null); !ok {
		t.Fatalf("StubInvoker.Invoke: got %v (%T), want Null", got, got)
	}
}

func TestJavaInvokerDispatchesRegisteredFunc(t *testing.T) {
	inv := NewJavaInvoker()
	inv.Register("java.lang.Math", "abs(int)", func(args []value.Value) value.Value {
		return value.Str("called")
	})
	got := inv.Invoke(javaSpec("java.lang.Math", "abs(int)"), nil)
	if s, ok := got.(value.Str); !ok || s != "called" {
		t.Fatalf("Invoke: got %v, want Str(called)", got)
	}
}

func TestJavaInvokerUnregisteredIsNull(t *testing.T) {
	inv := NewJavaInvoker()
	got := inv.Invoke(javaSpec("java.lang.Math", "abs(int)"), nil)
	if _, ok := got.(value.Null); !ok {
		t.Fatalf("Invoke: got %v (%T), want Null", got, got)
	}
}

func TestDefaultJavaInvokerMax(t *testing.T) {
	inv := NewDefaultJavaInvoker()
	args := []value.Value{value.NewNum(number.FromInt64(3)), value.NewNum(number.FromInt64(7))}
	got := inv.Invoke(javaSpec("java.lang.Math", "max(int, int)"), args)
	n, ok := got.(value.Num)
	if !ok || !number.Equal(n.N, number.FromInt64(7)) {
		t.Fatalf("Invoke: got %v, want 7", got)
	}
}

func TestDispatcherRoutesToJava(t *testing.T) {
	inv := NewJavaInvoker()
	inv.Register("C", "m()", func(args []value.Value) value.Value { return value.Bool(true) })
	d := Dispatcher{Java: inv}
	got := d.Invoke(javaSpec("C", "m()"), nil)
	if b, ok := got.(value.Bool); !ok || !bool(b) {
		t.Fatalf("Invoke: got %v, want true", got)
	}
}
