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

package runtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/kr/pretty"

	"github.com/dmntk-go/dmntk/internal/ast"
	"github.com/dmntk-go/dmntk/internal/builtins"
	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/model"
	"github.com/dmntk-go/dmntk/internal/value"
)

const testNamespace = "http://example.com/runtime-test"

func greeterDefs() *model.Definitions {
	defs := model.NewDefinitions(testNamespace)
	key := model.Key{Namespace: testNamespace, ID: "greeting"}
	defs.Decisions[key] = &model.Decision{
		Key:        key,
		Variable:   model.Variable{Name: "greeting"},
		Expression: &ast.NameRef{Tokens: []string{"name"}},
	}
	return defs
}

func TestAddModelRejectsDuplicate(t *testing.T) {
	r := New(builtins.NewRegistry(), nil)
	if err := r.AddModel("greeter", greeterDefs()); err != nil {
		t.Fatalf("AddModel: %v", err)
	}
	if err := r.AddModel("greeter", greeterDefs()); err == nil {
		t.Fatalf("AddModel: want error for duplicate name")
	}
}

func TestEvaluateInvocableBeforeDeployIsNull(t *testing.T) {
	r := New(builtins.NewRegistry(), nil)
	_ = r.AddModel("greeter", greeterDefs())
	input, _ := value.NewContext(value.Entry{Name: feelname.MustNew("name"), Value: value.Str("world")})
	got := r.EvaluateInvocable("greeter", testNamespace, "greeting", input)
	if _, ok := got.(value.Null); !ok {
		t.Fatalf("EvaluateInvocable: got %v (%T), want Null before deploy", got, got)
	}
}

func TestDeployThenEvaluateInvocable(t *testing.T) {
	r := New(builtins.NewRegistry(), nil)
	_ = r.AddModel("greeter", greeterDefs())
	reports := r.Deploy()
	if len(reports) != 1 || !reports[0].OK {
		t.Fatalf("Deploy: got %+v, want one OK report", reports)
	}
	if len(reports[0].Invocables) != 1 || !reports[0].Invocables[0].Ready {
		t.Fatalf("Deploy: got %+v, want one ready invocable", reports[0].Invocables)
	}

	input, _ := value.NewContext(value.Entry{Name: feelname.MustNew("name"), Value: value.Str("world")})
	got := r.EvaluateInvocable("greeter", testNamespace, "greeting", input)
	s, ok := got.(value.Str)
	if !ok || string(s) != "world" {
		t.Fatalf("EvaluateInvocable: got %v, want Str(world)", got)
	}
}

func TestRemoveModelThenEvaluateInvocableIsNull(t *testing.T) {
	r := New(builtins.NewRegistry(), nil)
	_ = r.AddModel("greeter", greeterDefs())
	r.Deploy()
	r.RemoveModel("greeter")

	input, _ := value.NewContext(value.Entry{Name: feelname.MustNew("name"), Value: value.Str("world")})
	got := r.EvaluateInvocable("greeter", testNamespace, "greeting", input)
	if _, ok := got.(value.Null); !ok {
		t.Fatalf("EvaluateInvocable: got %v (%T), want Null after removal", got, got)
	}
}

func TestDeployModelCompileFailureReportsError(t *testing.T) {
	r := New(builtins.NewRegistry(), nil)
	defs := model.NewDefinitions(testNamespace)
	key := model.Key{Namespace: testNamespace, ID: "broken"}
	bkmKey := model.Key{Namespace: testNamespace, ID: "a"}
	// A business knowledge model that requires itself: a cyclic
	// knowledge requirement (spec.md §4.6 "Failure: ... cyclic
	// requirement").
	defs.BKMs[bkmKey] = &model.BusinessKnowledgeModel{
		Key:                   bkmKey,
		Variable:              model.Variable{Name: "a"},
		Body:                  &ast.LiteralNumber{Text: "1"},
		KnowledgeRequirements: []model.Key{bkmKey},
	}
	defs.Decisions[key] = &model.Decision{
		Key:        key,
		Variable:   model.Variable{Name: "broken"},
		Expression: &ast.LiteralNumber{Text: "1"},
	}
	_ = r.AddModel("broken-model", defs)
	report := r.DeployModel("broken-model")
	if report.OK {
		t.Fatalf("DeployModel: got OK report for a cyclic knowledge requirement:\n%# v", pretty.Formatter(report))
	}
	if report.Error == "" {
		t.Errorf("DeployModel: want a non-empty error trace")
	}

	input, _ := value.NewContext()
	got := r.EvaluateInvocable("broken-model", testNamespace, "broken", input)
	if _, ok := got.(value.Null); !ok {
		t.Errorf("EvaluateInvocable: got %v (%T), want Null for an undeployed model", got, got)
	}
}

func TestReplaceModelStampsNewRevision(t *testing.T) {
	r := New(builtins.NewRegistry(), nil)
	_ = r.AddModel("greeter", greeterDefs())
	rev1, ok := r.Revision("greeter")
	if !ok || rev1 == "" {
		t.Fatalf("Revision: got (%q, %v), want a non-empty revision", rev1, ok)
	}
	r.ReplaceModel("greeter", greeterDefs())
	rev2, ok := r.Revision("greeter")
	if !ok || rev2 == "" || rev2 == rev1 {
		t.Fatalf("Revision after ReplaceModel: got %q, want a different non-empty revision from %q", rev2, rev1)
	}
}

// TestConcurrentAddAndEvaluate is a regression-shaped test for
// concurrent access to the registry: concurrent add_model/deploy calls
// (write lock) on distinct models, then concurrent evaluate_invocable
// calls (read lock) on them, must not race
// (spec.md §5 "hosts MAY wrap the model evaluator in a read/write lock").
func TestConcurrentAddAndEvaluate(t *testing.T) {
	r := New(builtins.NewRegistry(), nil)
	const n = 20
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("model-%d", i)
	}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_ = r.AddModel(name, greeterDefs())
			r.DeployModel(name)
		}(name)
	}
	wg.Wait()

	input, _ := value.NewContext(value.Entry{Name: feelname.MustNew("name"), Value: value.Str("world")})
	var wg2 sync.WaitGroup
	for _, name := range names {
		wg2.Add(1)
		go func(name string) {
			defer wg2.Done()
			r.EvaluateInvocable(name, testNamespace, "greeting", input)
		}(name)
	}
	wg2.Wait()
}
