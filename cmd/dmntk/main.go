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

// Command dmntk is a minimal illustrative driver of internal/runtime
// (SPEC_FULL.md §6 "cmd/dmntk — illustrative CLI front-end"). It is not
// a complete CLI product: it carries no subcommand beyond eval, deploy,
// and table (SPEC_FULL.md §6 Non-goals), and reads models from a YAML
// manifest rather than DMN XML, since the XML dialect and FEEL
// grammar/parser are both out of scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmntk-go/dmntk/internal/builtins"
	"github.com/dmntk-go/dmntk/internal/external"
	"github.com/dmntk-go/dmntk/internal/runtime"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dmntk",
		Short:         "a minimal DMN/FEEL decision engine driver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEvalCmd())
	root.AddCommand(newDeployCmd())
	root.AddCommand(newTableCmd())
	return root
}

// newDefaultRuntime wires the shared built-in library (C8) and a java-
// mocking external invoker (spec.md §9 Open Question (c)) the way a
// host embedding this engine would.
func newDefaultRuntime() *runtime.Runtime {
	return runtime.New(builtins.NewRegistry(), external.NewDefaultJavaInvoker())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dmntk:", err)
		os.Exit(1)
	}
}
