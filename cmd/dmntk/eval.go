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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmntk-go/dmntk/internal/feelname"
	"github.com/dmntk-go/dmntk/internal/number"
	"github.com/dmntk-go/dmntk/internal/value"
)

// newEvalCmd creates the `dmntk eval` subcommand: load a manifest,
// deploy it, then run evaluate_invocable against an input context
// supplied as a flat YAML mapping (spec.md §6 "One call site:
// evaluate_invocable(namespace, model_name, invocable_name,
// input_context) -> Value").
func newEvalCmd() *cobra.Command {
	var inputPath string
	cmd := &cobra.Command{
		Use:   "eval <manifest.yaml> <invocable-id>",
		Short: "deploy a manifest and evaluate one invocable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			defs, err := m.toDefinitions()
			if err != nil {
				return err
			}
			rt := newDefaultRuntime()
			if err := rt.AddModel(m.Namespace, defs); err != nil {
				return err
			}
			report := rt.DeployModel(m.Namespace)
			if !report.OK {
				return fmt.Errorf("deploy failed: %s", report.Error)
			}

			input, err := loadInputContext(inputPath)
			if err != nil {
				return err
			}
			result := rt.EvaluateInvocable(m.Namespace, m.Namespace, args[1], input)
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to a YAML mapping of input-variable-name to value (omit for an empty context)")
	return cmd
}

// loadInputContext reads a flat YAML mapping of names to FEEL-literal-
// shaped values (string, number, boolean) into a value.Context. Nested
// structures beyond this are out of scope for the illustrative driver.
func loadInputContext(path string) (value.Context, error) {
	if path == "" {
		ctx, _ := value.NewContext()
		return ctx, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Context{}, fmt.Errorf("input: %w", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return value.Context{}, fmt.Errorf("input: %w", err)
	}
	entries := make([]value.Entry, 0, len(raw))
	for k, v := range raw {
		fv, err := toFeelValue(v)
		if err != nil {
			return value.Context{}, fmt.Errorf("input %q: %w", k, err)
		}
		entries = append(entries, value.Entry{Name: feelname.MustNew(k), Value: fv})
	}
	ctx, ok := value.NewContext(entries...)
	if !ok {
		return value.Context{}, fmt.Errorf("input: duplicate entry names")
	}
	return ctx, nil
}

func toFeelValue(v interface{}) (value.Value, error) {
	switch t := v.(type) {
	case string:
		return value.Str(t), nil
	case bool:
		return value.Bool(t), nil
	case int:
		return value.NewNum(number.FromInt64(int64(t))), nil
	case float64:
		n, ok := number.Parse(fmt.Sprintf("%v", t))
		if !ok {
			return nil, fmt.Errorf("unparsable number %v", t)
		}
		return value.NewNum(n), nil
	case nil:
		return value.Null{}, nil
	default:
		return nil, fmt.Errorf("unsupported input value %v (%T)", v, v)
	}
}
