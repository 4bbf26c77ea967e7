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

// Package codegen is the pipeline's P9 emit phase: it walks the UserType
// forest the pipeline produced and fans writeCode calls out across workers,
// either one file per type or one concatenated file, the way P1/P2 fan
// their own work out with errgroup and a bounded semaphore. It is a
// separate package from usertype because usertype already imports emit for
// the Writer interface; this driver needs both emit and usertype and would
// otherwise form a cycle.
package codegen

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/emirpasic/gods/sets/treeset"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/emit"
	"github.com/typewrap/typewrap/symbol"
	"github.com/typewrap/typewrap/typerr"
	"github.com/typewrap/typewrap/usertype"
)

// maxParallelism bounds concurrent emit workers, matching the pipeline's own
// data-parallel phases.
const maxParallelism = 16

// indent is the generated code's house indentation.
const indent = "    "

// File is one emitted output: a path plus its rendered text.
type File struct {
	Path    string
	Content string
}

// Emitter drives P9 over a resolved UserType forest.
type Emitter struct {
	cfg      *config.Configuration
	resolver usertype.Resolver
}

// New returns an Emitter that resolves field/base references through
// resolver (typically the same factory.UserTypeFactory the pipeline linked
// with) and shapes output per cfg's GenerationFlags.
func New(cfg *config.Configuration, resolver usertype.Resolver) *Emitter {
	return &Emitter{cfg: cfg, resolver: resolver}
}

// Emit renders types, either as one File per eligible UserType or as a
// single concatenated File, depending on config.FlagSingleFileExport.
// Eligible means: not a template specialization (only primaries are
// written; specializations are described by their primary's comment
// block), not BaseType-tagged, and — in file-per-type mode only — not
// nested under a non-namespace DeclaredInType.
func (e *Emitter) Emit(ctx context.Context, namespaces []*usertype.NamespaceUserType, topLevel []usertype.UserType, diag *typerr.Channel) ([]File, error) {
	if e.cfg.GenerationFlags.Has(config.FlagSingleFileExport) {
		return e.emitSingleFile(namespaces, topLevel)
	}
	return e.emitPerFile(ctx, namespaces, topLevel, diag)
}

// emitSingleFile concatenates every namespace (recursing into its children)
// and every namespace-less top-level type into one File, in the order the
// pipeline produced them.
func (e *Emitter) emitSingleFile(namespaces []*usertype.NamespaceUserType, topLevel []usertype.UserType) ([]File, error) {
	w := emit.NewIndentedWriter(indent)
	for _, ns := range namespaces {
		if err := ns.WriteCode(w, e.resolver, e.cfg.GenerationFlags); err != nil {
			return nil, typerr.New(typerr.KindEmit, "Emit", "", ns.FullClassName(), err.Error())
		}
	}
	for _, t := range topLevel {
		if t.Kind() == usertype.KindNamespace {
			continue // already covered above
		}
		if !eligible(t) {
			continue
		}
		if err := t.WriteCode(w, e.resolver, e.cfg.GenerationFlags); err != nil {
			return nil, typerr.New(typerr.KindEmit, "Emit", "", t.FullClassName(), err.Error())
		}
	}
	return []File{{Path: e.singleFileName(), Content: w.String()}}, nil
}

func (e *Emitter) singleFileName() string {
	if e.cfg.GeneratedAssemblyName != "" {
		return e.cfg.GeneratedAssemblyName + ".g.cs"
	}
	return "Generated.g.cs"
}

// emitPerFile writes one file per eligible type, fanning the writeCode
// calls out across a bounded pool of goroutines the way P5's collect phase
// does, reserving each type's lowercased path under a mutex-guarded treeset
// before claiming it (the "atomic insert" the concurrency design calls
// for), so two workers racing on the same constructor name never clobber
// each other's file.
func (e *Emitter) emitPerFile(ctx context.Context, namespaces []*usertype.NamespaceUserType, topLevel []usertype.UserType, diag *typerr.Channel) ([]File, error) {
	var candidates []usertype.UserType
	for _, ns := range namespaces {
		candidates = append(candidates, ns.Children...)
	}
	for _, t := range topLevel {
		if t.Kind() != usertype.KindNamespace {
			candidates = append(candidates, t)
		}
	}

	var mu sync.Mutex
	reserved := treeset.NewWithStringComparator()
	files := make([]File, 0, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(maxParallelism)

	for _, t := range candidates {
		t := t
		if !eligible(t) {
			continue
		}
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			w := emit.NewIndentedWriter(indent)
			if err := t.WriteCode(w, e.resolver, e.cfg.GenerationFlags); err != nil {
				return typerr.New(typerr.KindEmit, "Emit", "", t.FullClassName(), err.Error())
			}

			path := reserveFileName(&mu, reserved, t.ConstructorName()) + ".g.cs"

			mu.Lock()
			files = append(files, File{Path: path, Content: w.String()})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// reserveFileName claims a filename for baseName, appending "_1", "_2", …
// until the lowercased candidate isn't already present in reserved. The
// insert-and-check is atomic under mu, matching generatedFiles' "atomic
// insert" contract.
func reserveFileName(mu *sync.Mutex, reserved *treeset.Set, baseName string) string {
	mu.Lock()
	defer mu.Unlock()

	candidate := baseName
	for i := 1; reserved.Contains(strings.ToLower(candidate)); i++ {
		candidate = baseName + "_" + strconv.Itoa(i)
	}
	reserved.Add(strings.ToLower(candidate))
	return candidate
}

// eligible applies the P9 skip rules. A template specialization is
// described by its primary and never emitted standalone; a type whose
// symbol is BaseType-tagged (the factory builds a PhysicalUserType for it
// like any other non-enum symbol) is not emitted; a type nested under a
// non-namespace parent is skipped.
func eligible(t usertype.UserType) bool {
	if tmpl, ok := t.(*usertype.TemplateUserType); ok && tmpl.Primary != nil {
		return false
	}
	if sym := t.Symbol(); sym != nil && sym.Tag() == symbol.TagBaseType {
		return false
	}
	if parent := t.DeclaredInType(); parent != nil && parent.Kind() != usertype.KindNamespace {
		return false
	}
	return true
}
