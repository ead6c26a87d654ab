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

// Package runtime is the model registry exposed to callers (spec.md §6
// "Exposed to callers"). It mirrors internal/core/runtime.Runtime in
// the teacher: an index of loaded instances (there, build.Instance;
// here, model.Definitions keyed by model name) plus a build-once
// compiled form (there, the evaluator graph from compiling a CUE
// instance; here, a drg.Graph) reused across calls.
package runtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dmntk-go/dmntk/internal/drg"
	"github.com/dmntk-go/dmntk/internal/errors"
	"github.com/dmntk-go/dmntk/internal/eval"
	"github.com/dmntk-go/dmntk/internal/external"
	"github.com/dmntk-go/dmntk/internal/model"
	"github.com/dmntk-go/dmntk/internal/value"
)

// modelEntry is one deployed model's source definitions plus its
// compiled graph, if compilation has succeeded. A model may be present
// with graph == nil if it was added but has not yet been deployed, or
// if its last deploy attempt failed. revision is stamped fresh on every
// AddModel/ReplaceModel so a host can tell whether the definitions it
// is looking at are the ones it last submitted.
type modelEntry struct {
	defs     *model.Definitions
	revision string
	graph    *drg.Graph
	err      error
}

// Runtime is the model registry (spec.md §6 "Supporting calls:
// add_model, replace_model, remove_model, deploy"). It is safe for
// concurrent use: compilation (add_model/replace_model/deploy) takes a
// write lock, evaluate_invocable takes a read lock, matching spec.md §5
// "hosts MAY wrap the model evaluator in a read/write lock if hot-reload
// is desired".
type Runtime struct {
	mu     sync.RWMutex
	env    *eval.Env
	models map[string]*modelEntry
}

// New returns an empty Runtime. builtins and ext wire the shared
// built-in function library (C8, spec.md §4.4) and the external
// function hook (spec.md §9 Open Question (c), internal/external)
// every deployed model's decisions and business knowledge models
// compile and evaluate against.
func New(builtins eval.Builtins, ext eval.External) *Runtime {
	if ext == nil {
		ext = external.StubInvoker{}
	}
	return &Runtime{
		env:    eval.NewEnv(builtins).WithExternal(ext),
		models: map[string]*modelEntry{},
	}
}

// AddModel registers defs under name. It is an error to add a name that
// already exists; use ReplaceModel for that (spec.md §6 "add_model,
// replace_model, remove_model"). AddModel does not compile defs — call
// Deploy (or DeployModel) to build its evaluator graph.
func (r *Runtime) AddModel(name string, defs *model.Definitions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.models[name]; exists {
		return errors.Newf("runtime: model %q already exists", name)
	}
	r.models[name] = &modelEntry{defs: defs, revision: uuid.NewString()}
	return nil
}

// ReplaceModel overwrites an existing (or absent) model's definitions,
// stamping a fresh revision and discarding any previously compiled
// graph: the replacement is not live until the next Deploy.
func (r *Runtime) ReplaceModel(name string, defs *model.Definitions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[name] = &modelEntry{defs: defs, revision: uuid.NewString()}
}

// Revision returns the opaque revision stamp of the currently
// registered definitions for name, and false if no such model exists.
// Two calls observing the same revision observed the same definitions,
// whether or not they have been deployed yet.
func (r *Runtime) Revision(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.models[name]
	if !ok {
		return "", false
	}
	return entry.revision, true
}

// RemoveModel deletes a model from the registry. Removing a model that
// does not exist is a no-op, matching the teacher's index.go tolerance
// for removing an instance that was never added.
func (r *Runtime) RemoveModel(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.models, name)
}

// InvocableStatus is one invocable's readiness after a deploy pass
// (spec.md §6 "deploy (returns per-invocable readiness/error status)";
// SPEC_FULL.md §4 Supplemented Feature #6, following the original
// `server/src/server.rs` / `EvaluatorStatus` report shape).
type InvocableStatus struct {
	Namespace string
	ID        string
	Ready     bool
	Error     string
}

// DeployReport is the structured deployment result for one model: an
// overall pass/fail plus a per-invocable breakdown. A model that fails to
// build has OK=false, its Error set and no invocable entries; a model that
// builds lists every invocable as Ready. No report marks a single
// invocable as failed while the rest of its model built (see Deploy).
type DeployReport struct {
	Model      string
	Revision   string
	OK         bool
	Error      string
	Invocables []InvocableStatus
}

// Deploy (re)compiles every registered model and returns one
// DeployReport per model, in no particular order beyond Go's map
// iteration. A model whose Definitions fail to build gets a single
// DeployReport with OK=false and no per-invocable entries; a model
// that builds gets one InvocableStatus per decision and decision
// service, all Ready=true (the compiler either builds every invocable
// or fails the whole model — spec.md §4.6 "Failure: compilation errors
// ... surface synchronously as a typed error").
func (r *Runtime) Deploy() []DeployReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	reports := make([]DeployReport, 0, len(r.models))
	for name, entry := range r.models {
		reports = append(reports, r.deployLocked(name, entry))
	}
	return reports
}

// DeployModel (re)compiles a single named model and returns its
// report. It reports a failure DeployReport if name is not registered.
func (r *Runtime) DeployModel(name string) DeployReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.models[name]
	if !ok {
		return DeployReport{Model: name, OK: false, Error: "no such model"}
	}
	return r.deployLocked(name, entry)
}

func (r *Runtime) deployLocked(name string, entry *modelEntry) DeployReport {
	g, err := drg.Build(r.env, entry.defs)
	if err != nil {
		entry.graph = nil
		entry.err = err
		return DeployReport{Model: name, Revision: entry.revision, OK: false, Error: err.Error()}
	}
	entry.graph = g
	entry.err = nil

	var invocables []InvocableStatus
	for key := range entry.defs.Decisions {
		invocables = append(invocables, InvocableStatus{Namespace: key.Namespace, ID: key.ID, Ready: true})
	}
	for key := range entry.defs.DecisionServices {
		invocables = append(invocables, InvocableStatus{Namespace: key.Namespace, ID: key.ID, Ready: true})
	}
	return DeployReport{Model: name, Revision: entry.revision, OK: true, Invocables: invocables}
}

// EvaluateInvocable is the runtime's single exposed call site (spec.md
// §6 "One call site: evaluate_invocable(namespace, model_name,
// invocable_name, input_context) -> Value"). It returns a Null trace,
// never an error return or a panic, for every failure mode: unknown
// model, undeployed model, or unknown invocable (spec.md §6 "Error
// values are Value::Null with a human-readable trace").
func (r *Runtime) EvaluateInvocable(modelName, namespace, invocableName string, input value.Context) value.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.models[modelName]
	if !ok {
		return value.NullTrace("runtime: no such model %q", modelName)
	}
	if entry.graph == nil {
		if entry.err != nil {
			return value.NullTrace("runtime: model %q failed to deploy: %s", modelName, entry.err.Error())
		}
		return value.NullTrace("runtime: model %q has not been deployed", modelName)
	}
	key := model.Key{Namespace: namespace, ID: invocableName}
	return drg.EvaluateInvocable(entry.graph, key, input)
}
