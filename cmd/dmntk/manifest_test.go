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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/model"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/runtime"
	"github.com/dmntk-go/dmntk/internal/value"
)

const greeterManifest = `
namespace: http://example.com/greeter
decisions:
  - id: greeting
    variable:
      name: greeting
    expression:
      name: [name]
`

const eligibilityManifest = `
namespace: http://example.com/eligibility
bkms:
  - id: minimumAge
    variable:
      name: minimumAge
    body:
      number: "18"
decisions:
  - id: eligible
    variable:
      name: eligible
    information: []
    knowledge: [minimumAge]
    expression:
      compare:
        op: ">="
        left: {name: [age]}
        right: {invoke: {callee: [minimumAge], positional: []}}
services:
  - id: eligibilityService
    output: [eligible]
`

func writeTempManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// runtimeFromDefs deploys defs under name and fails the test if deploy
// does not succeed.
func runtimeFromDefs(t *testing.T, name string, defs *model.Definitions) *runtime.Runtime {
	t.Helper()
	rt := newDefaultRuntime()
	if err := rt.AddModel(name, defs); err != nil {
		t.Fatalf("AddModel: %v", err)
	}
	report := rt.DeployModel(name)
	if !report.OK {
		t.Fatalf("DeployModel: %s", report.Error)
	}
	return rt
}

func TestManifestToDefinitionsSimpleDecision(t *testing.T) {
	path := writeTempManifest(t, greeterManifest)
	m, err := loadManifest(path)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	defs, err := m.toDefinitions()
	if err != nil {
		t.Fatalf("toDefinitions: %v", err)
	}
	if len(defs.Decisions) != 1 {
		t.Fatalf("toDefinitions: got %d decisions, want 1", len(defs.Decisions))
	}

	rt := runtimeFromDefs(t, m.Namespace, defs)
	input, _ := value.NewContext(value.Entry{Name: feelname.MustNew("name"), Value: value.Str("world")})
	got := rt.EvaluateInvocable(m.Namespace, m.Namespace, "greeting", input)
	s, ok := got.(value.Str)
	if !ok || string(s) != "world" {
		t.Fatalf("EvaluateInvocable: got %v, want Str(world)", got)
	}
}

func TestManifestToDefinitionsBKMAndDecisionService(t *testing.T) {
	path := writeTempManifest(t, eligibilityManifest)
	m, err := loadManifest(path)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	defs, err := m.toDefinitions()
	if err != nil {
		t.Fatalf("toDefinitions: %v", err)
	}

	rt := runtimeFromDefs(t, m.Namespace, defs)
	input, _ := value.NewContext(value.Entry{Name: feelname.MustNew("age"), Value: value.NewNum(number.FromInt64(21))})
	got := rt.EvaluateInvocable(m.Namespace, m.Namespace, "eligibilityService", input)
	b, ok := got.(value.Bool)
	if !ok || !bool(b) {
		t.Fatalf("EvaluateInvocable: got %v (%T), want Bool(true)", got, got)
	}
}
