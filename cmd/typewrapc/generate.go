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
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/typewrap/typewrap/codegen"
	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/log"
	"github.com/typewrap/typewrap/pipeline"
	"github.com/typewrap/typewrap/symbol"
)

var (
	providerName string
	outDir       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full pipeline and write the generated wrapper files",
	Long: `generate loads a YAML configuration, opens every configured module
through the named symbol.Provider, and writes the resulting .g.cs files
under --out. The provider must have been registered with symbol.Register,
from an init function of a package linked into the binary; typewrapc
registers no provider of its own and never reads a PDB itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&providerName, "provider", "", "name of the symbol.Provider registered via symbol.Register (required)")
	generateCmd.Flags().StringVar(&outDir, "out", ".", "directory generated files are written into")
	_ = generateCmd.MarkFlagRequired("provider")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if verbose {
		ctx = log.WithFilter(ctx, log.Debug)
	}

	cfgPath := args[0]
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return errors.Wrapf(err, "loading configuration %q", cfgPath)
	}

	provider, ok := symbol.Lookup(providerName)
	if !ok {
		return errors.Errorf("no symbol.Provider registered under %q", providerName)
	}

	log.From(ctx).Infof().With("config", cfgPath).With("provider", providerName).Log("starting generate")

	result, err := pipeline.New(cfg, provider).Run(ctx)
	if err != nil {
		return errors.Wrap(err, "running pipeline")
	}

	emitter := codegen.New(cfg, result.Resolver)
	files, err := emitter.Emit(ctx, result.Namespaces, result.TopLevel, result.Diagnostics)
	if err != nil {
		return errors.Wrap(err, "emitting generated code")
	}

	for _, diag := range result.Diagnostics.Items() {
		log.From(ctx).Warningf().With("kind", diag.Kind).Log(diag.Error())
	}

	if err := writeFiles(outDir, files); err != nil {
		return err
	}

	log.From(ctx).Infof().With("count", len(files)).With("out", outDir).Log("generate complete")

	if result.Diagnostics.HasErrors() {
		return errors.New("generate finished with fatal diagnostics")
	}
	return nil
}

func writeFiles(dir string, files []codegen.File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %q", dir)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Path)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %q", path)
		}
	}
	return nil
}
