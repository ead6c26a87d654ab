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

	"github.com/spf13/cobra"
)

// newDeployCmd creates the `dmntk deploy` subcommand: load a manifest,
// register it, and print its per-invocable DeployReport
// (spec.md §6 "deploy (returns per-invocable readiness/error status)";
// SPEC_FULL.md §4 Supplemented Feature #6).
func newDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy <manifest.yaml>",
		Short: "deploy a manifest and print its readiness report",
		Args:  cobra.ExactArgs(1),
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

			out := cmd.OutOrStdout()
			if !report.OK {
				fmt.Fprintf(out, "model %s: FAILED: %s\n", report.Model, report.Error)
				return nil
			}
			fmt.Fprintf(out, "model %s: OK (revision %s)\n", report.Model, report.Revision)
			for _, inv := range report.Invocables {
				status := "ready"
				if !inv.Ready {
					status = "error: " + inv.Error
				}
				fmt.Fprintf(out, "  %s#%s: %s\n", inv.Namespace, inv.ID, status)
			}
			return nil
		},
	}
}
