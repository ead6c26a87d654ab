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

	"github.com/dmntk-go/dmntk/internal/builtins"
	"github.com/dmntk-go/dmntk/internal/dtable"
	"github.com/dmntk-go/dmntk/internal/eval"
	"github.com/dmntk-go/dmntk/internal/value"
)

// newTableCmd creates the `dmntk table` subcommand: compile and
// evaluate a single decision table (spec.md §4.5) in isolation, without
// building a full model/DRG. Useful for trying out hit policies and
// Collect aggregations against a table YAML fragment directly.
func newTableCmd() *cobra.Command {
	var inputPath string
	cmd := &cobra.Command{
		Use:   "table <table.yaml>",
		Short: "compile and evaluate a single decision table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var ty tableYAML
			if err := yaml.Unmarshal(data, &ty); err != nil {
				return fmt.Errorf("table: %w", err)
			}
			table, err := ty.toTable("")
			if err != nil {
				return err
			}
			env := eval.NewEnv(builtins.NewRegistry())
			compiled, err := dtable.Compile(env, table)
			if err != nil {
				return fmt.Errorf("table: compile: %w", err)
			}

			input, err := loadInputContext(inputPath)
			if err != nil {
				return err
			}
			result := dtable.Evaluate(compiled, value.NewScope(input))
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to a YAML mapping of input-clause-name to value (omit for an empty context)")
	return cmd
}
