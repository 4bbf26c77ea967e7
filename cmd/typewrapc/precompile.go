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

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/typewrap/typewrap/log"
	"github.com/typewrap/typewrap/scriptprecompile"
)

var (
	searchFolders []string
	precompileOut string
)

var precompileCmd = &cobra.Command{
	Use:   "precompile <script>",
	Short: "Expand a script's import graph into one compilable unit",
	Long: `precompile recursively expands a script's import statements,
hoists its using declarations, and writes the flattened wrapper class to
--out (stdout if unset).`,
	Args: cobra.ExactArgs(1),
	RunE: runPrecompile,
}

func init() {
	precompileCmd.Flags().StringArrayVar(&searchFolders, "search", nil, "additional folder to resolve imports against (repeatable)")
	precompileCmd.Flags().StringVar(&precompileOut, "out", "", "file to write the rendered unit to (default stdout)")
}

func runPrecompile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	unit, err := scriptprecompile.Precompile(args[0], searchFolders)
	if err != nil {
		return errors.Wrapf(err, "precompiling %q", args[0])
	}

	log.From(ctx).Infof().With("imports", len(unit.Imports)).With("usings", len(unit.Usings)).Log("precompile complete")

	rendered := unit.Render()
	if precompileOut == "" {
		_, err := os.Stdout.WriteString(rendered)
		return err
	}
	return os.WriteFile(precompileOut, []byte(rendered), 0o644)
}
