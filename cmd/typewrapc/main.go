// Copyright 2026 The Typewrap Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command typewrapc drives the pipeline and codegen packages from the
// command line: generate runs a full configuration against a registered
// symbol.Provider and writes the resulting files, precompile expands one
// script's import graph into a single compilable unit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "typewrapc",
	Short: "typewrapc generates typed wrappers from debug symbols",
	Long: `typewrapc turns a PDB-backed symbol.Provider into a tree of typed
wrapper classes, following a YAML configuration's module list, type
wildcards, and naming transformations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(precompileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
