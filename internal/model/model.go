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

// Package model implements the normalized DRG object model C10 consumes
// (spec.md §4.6): item definitions, input data, business-knowledge
// models, decisions and decision services, each keyed by (namespace,
// id). It is the shape the out-of-scope DMN XML parser is expected to
// hand the engine; this package has no XML awareness of its own.
package model

import (
	"github.com/dmntk-go/dmntk/internal/ast"
	"github.com/dmntk-go/dmntk/internal/dtable"
	"github.com/dmntk-go/dmntk/internal/types"
)

// Key identifies a DRG object across model namespaces (spec.md §4.6
// "every DRG object is identified by (namespace, id)").
type Key struct {
	Namespace string
	ID        string
}

func (k Key) String() string { return k.Namespace + "#" + k.ID }

// ItemDefKind selects which of ItemDefinition's type-constructor shapes
// is populated (spec.md §4.6 "simple-typed, reference-typed, component
// record, collection variants, function type").
type ItemDefKind int

const (
	ItemSimple ItemDefKind = iota
	ItemReference
	ItemComponent
	ItemCollection
	ItemFunction
)

// ItemDefinition is a normalized `itemDefinition`.
type ItemDefinition struct {
	Key Key

	Kind ItemDefKind

	// ItemSimple: the FEEL base type name (e.g. "string", "number").
	SimpleType string
	// ItemReference: the referenced item definition.
	RefKey Key
	// ItemComponent: named fields, each itself an item-definition
	// reference, in declared order (a record type).
	Components []ComponentField
	// ItemCollection: the element item-definition reference.
	ElementRef Key
	// ItemFunction: parameter and result item-definition references.
	FunctionParams []Key
	FunctionResult Key
}

// ComponentField is one named field of a component (record) item
// definition.
type ComponentField struct {
	Name string
	Ref  Key
}

// Variable is a typed `informationItem`: a name bound to a declared
// type reference.
type Variable struct {
	Name    string
	TypeRef Key // zero Key means untyped (types.Any)
}

// InputData is a normalized `inputData` node: a DRG leaf supplying one
// externally provided variable.
type InputData struct {
	Key      Key
	Variable Variable
}

// BusinessKnowledgeModel is a normalized `businessKnowledgeModel`: a
// named FunctionDefinition plus the other BKMs it requires (spec.md
// §4.6).
type BusinessKnowledgeModel struct {
	Key      Key
	Variable Variable

	Params []Variable // the encapsulated function's formal parameters
	Body   ast.Node    // the encapsulated function's body expression

	KnowledgeRequirements []Key // other BKMs this BKM invokes
}

// Decision is a normalized `decision` node: a decision-logic expression
// instance plus its requirements (spec.md §4.6).
type Decision struct {
	Key      Key
	Variable Variable

	// Exactly one of Expression/Table is populated, matching the two
	// decision-logic shapes the source supports.
	Expression ast.Node
	Table      *dtable.Table

	InformationRequirements []Key // input data or other decisions
	KnowledgeRequirements   []Key // BKMs invoked by this decision's logic
	AuthorityRequirements   []Key // informational only; not evaluated
}

// DecisionService is a normalized `decisionService`: a named subset of
// the DRG exposed as a single invocable (spec.md §4.6).
type DecisionService struct {
	Key Key

	InputDecisions        []Key
	EncapsulatedDecisions []Key
	OutputDecisions       []Key
	InputData             []Key
}

// Definitions is the normalized form of a DMN `Definitions` document:
// every DRG object the out-of-scope XML parser produced, keyed for
// cross-model reference resolution (spec.md §4.6).
type Definitions struct {
	Namespace string

	ItemDefinitions  map[Key]*ItemDefinition
	InputData        map[Key]*InputData
	BKMs             map[Key]*BusinessKnowledgeModel
	Decisions        map[Key]*Decision
	DecisionServices map[Key]*DecisionService
}

// NewDefinitions returns an empty Definitions for namespace.
func NewDefinitions(namespace string) *Definitions {
	return &Definitions{
		Namespace:        namespace,
		ItemDefinitions:  map[Key]*ItemDefinition{},
		InputData:        map[Key]*InputData{},
		BKMs:             map[Key]*BusinessKnowledgeModel{},
		Decisions:        map[Key]*Decision{},
		DecisionServices: map[Key]*DecisionService{},
	}
}

// ResolveType converts an item-definition reference into a types.Type,
// recursively resolving component fields, collection elements and
// function signatures. A zero Key resolves to types.Any (an untyped
// variable). Cyclic item-definition references are guarded against via
// seen, returning types.Any rather than recursing forever.
func ResolveType(defs *Definitions, key Key, seen map[Key]bool) types.Type {
	if key == (Key{}) {
		return types.Any
	}
	if seen[key] {
		return types.Any
	}
	item, ok := defs.ItemDefinitions[key]
	if !ok {
		return types.Any
	}
	seen = markSeen(seen, key)
	switch item.Kind {
	case ItemSimple:
		return simpleType(item.SimpleType)
	case ItemReference:
		return ResolveType(defs, item.RefKey, seen)
	case ItemComponent:
		entries := make([]types.Entry, len(item.Components))
		for i, f := range item.Components {
			entries[i] = types.Entry{Name: f.Name, Type: ResolveType(defs, f.Ref, seen)}
		}
		return types.Context(entries...)
	case ItemCollection:
		return types.List(ResolveType(defs, item.ElementRef, seen))
	case ItemFunction:
		params := make([]types.Type, len(item.FunctionParams))
		for i, p := range item.FunctionParams {
			params[i] = ResolveType(defs, p, seen)
		}
		return types.Function(params, ResolveType(defs, item.FunctionResult, seen))
	}
	return types.Any
}

func markSeen(seen map[Key]bool, key Key) map[Key]bool {
	out := make(map[Key]bool, len(seen)+1)
	for k := range seen {
		out[k] = true
	}
	out[key] = true
	return out
}

func simpleType(name string) types.Type {
	switch name {
	case "number":
		return types.Number
	case "string":
		return types.String
	case "boolean":
		return types.Boolean
	case "date":
		return types.Date
	case "time":
		return types.Time
	case "dateTime", "date and time":
		return types.DateTime
	case "dayTimeDuration", "days and time duration":
		return types.DaysTime
	case "yearMonthDuration", "years and months duration":
		return types.YearsMonths
	default:
		return types.Any
	}
}

// VariableType resolves v's declared type, or types.Any if v is
// untyped.
func VariableType(defs *Definitions, v Variable) types.Type {
	return ResolveType(defs, v.TypeRef, nil)
}
