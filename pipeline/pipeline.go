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

// Package pipeline is the driver: it runs the first eight of the nine phases
// described by the design (load, enumerate, deduplicate, cache, collect,
// materialize, link, post-process; the ninth, emit, is package codegen)
// over a symbol.Provider and a config.Configuration, fanning
// the data-parallel phases out with golang.org/x/sync/errgroup the way
// internal/analysis/causal_chain.go fans out its batch queries.
package pipeline

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/dedup"
	"github.com/typewrap/typewrap/factory"
	"github.com/typewrap/typewrap/nameparser"
	"github.com/typewrap/typewrap/symbol"
	"github.com/typewrap/typewrap/typerr"
	"github.com/typewrap/typewrap/usertype"
)

// maxParallelism bounds the number of concurrent workers in the
// data-parallel phases (P1, P2, P5), independent of how many modules or
// symbols there are.
const maxParallelism = 16

// templateShards is the number of locks the P5 template accumulator is
// split across, so unrelated families don't serialize on one mutex.
const templateShards = 16

// Result is everything a run produced: the top-level UserTypes (namespaces
// and any type with no namespace wrapper), the diagnostics channel, and the
// Resolver that linked them, ready to hand to codegen.New for emission.
type Result struct {
	Namespaces  []*usertype.NamespaceUserType
	TopLevel    []usertype.UserType
	Diagnostics *typerr.Channel
	Resolver    usertype.Resolver
}

// Pipeline runs the phased build for one Configuration against one
// symbol.Provider.
type Pipeline struct {
	cfg         *config.Configuration
	provider    symbol.Provider
	diagnostics *typerr.Channel
	cache       *symbol.GlobalCache
	factory     *factory.UserTypeFactory
	namespaceOf map[*symbol.Symbol]string
}

// New constructs a Pipeline. Call Run to execute it; a Pipeline is single
// use.
func New(cfg *config.Configuration, provider symbol.Provider) *Pipeline {
	diag := typerr.NewChannel()
	cache := symbol.NewGlobalCache()
	return &Pipeline{
		cfg:         cfg,
		provider:    provider,
		diagnostics: diag,
		cache:       cache,
		factory:     factory.New(cache, cfg, diag),
	}
}

// Run executes every phase in order and returns the resulting UserType
// forest. A fatal error (ModuleLoadError, EmitError-class I/O) aborts the
// run; non-fatal diagnostics accumulate in Result.Diagnostics.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	modules, err := p.loadModules(ctx)
	if err != nil {
		return nil, err
	}

	symbols, err := p.enumerateSymbols(ctx, modules)
	if err != nil {
		return nil, err
	}

	dedupResult := dedup.Deduplicate(symbols, p.cfg.CommonTypesNamespace)
	p.updateCache(dedupResult)
	p.namespaceOf = dedupResult.Namespace

	simple, templates := p.collect(ctx, dedupResult)

	types, err := p.materialize(ctx, modules, simple, templates)
	if err != nil {
		return nil, err
	}

	p.link(ctx, types)

	namespaces := p.factory.ProcessTypes(types)
	topLevel := topLevelOf(types)

	return &Result{Namespaces: namespaces, TopLevel: topLevel, Diagnostics: p.diagnostics, Resolver: p.factory}, nil
}

// topLevelOf returns the types that ended up with no DeclaredInType — these
// are emitted directly rather than via a namespace wrapper (globals, and
// anything whose configured namespace was empty). Template specializations
// also have no DeclaredInType and are included; codegen never emits them
// standalone.
func topLevelOf(types []usertype.UserType) []usertype.UserType {
	var out []usertype.UserType
	for _, t := range types {
		if t.DeclaredInType() == nil {
			out = append(out, t)
		}
	}
	return out
}

// P1. loadModules opens every configured module in parallel; any failure
// aborts the whole phase.
func (p *Pipeline) loadModules(ctx context.Context) ([]*symbol.Module, error) {
	modules := make([]*symbol.Module, len(p.cfg.Modules))
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(maxParallelism)

	for i, desc := range p.cfg.Modules {
		i, desc := i, desc
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			handle, err := p.provider.OpenModule(gctx, symbol.ModuleDescriptor{
				Path: desc.Path, Name: desc.Name, Namespace: desc.Namespace,
			})
			if err != nil {
				return typerr.New(typerr.KindModuleLoad, "Load", desc.Name, "", err.Error())
			}
			modules[i] = &symbol.Module{ID: i, Name: desc.Name, Namespace: desc.Namespace, Handle: handle}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return modules, nil
}

// P2. enumerateSymbols runs wildcard + full enumeration per module in
// parallel, then interleaves the per-module results round-robin: symbol j
// of module i precedes symbol j+1 of module 0. This ordering is the
// determinism invariant dedup tie-breaking relies on.
func (p *Pipeline) enumerateSymbols(ctx context.Context, modules []*symbol.Module) ([]*symbol.Symbol, error) {
	perModule := make([][]*symbol.Symbol, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(maxParallelism)

	for i, m := range modules {
		i, m := i, m
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			seen := map[symbol.RawSymbol]bool{}
			var raws []symbol.RawSymbol

			for _, pattern := range p.cfg.Types {
				matches, err := m.Handle.FindGlobalTypeWildcard(pattern)
				if err != nil {
					return typerr.New(typerr.KindModuleLoad, "Enumerate", m.Name, "", err.Error())
				}
				if len(matches) == 0 {
					p.diagnostics.Report(typerr.New(typerr.KindSymbolNotFound, "Enumerate", m.Name, pattern, "wildcard matched no symbols"))
				}
				for _, r := range matches {
					if !seen[r] {
						seen[r] = true
						raws = append(raws, r)
					}
				}
			}
			all, err := m.Handle.GetAllTypes()
			if err != nil {
				return typerr.New(typerr.KindModuleLoad, "Enumerate", m.Name, "", err.Error())
			}
			for _, r := range all {
				if !seen[r] {
					seen[r] = true
					raws = append(raws, r)
				}
			}

			syms := make([]*symbol.Symbol, len(raws))
			for j, r := range raws {
				syms[j] = symbol.New(m, r)
			}
			perModule[i] = syms

			if gs := m.Handle.GlobalScope(); gs != nil {
				m.GlobalScope = symbol.New(m, gs)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return interleave(perModule), nil
}

// interleave produces the deterministic round-robin merge of per-module
// symbol lists: symbol j of module 0, symbol j of module 1, ..., then
// symbol j+1 of module 0, until every list is drained.
func interleave(perModule [][]*symbol.Symbol) []*symbol.Symbol {
	var out []*symbol.Symbol
	for j := 0; ; j++ {
		any := false
		for _, syms := range perModule {
			if j < len(syms) {
				out = append(out, syms[j])
				any = true
			}
		}
		if !any {
			break
		}
	}
	return out
}

// P4. updateCache replaces the GlobalCache with the dedup output, keyed by
// name, representative first.
func (p *Pipeline) updateCache(r *dedup.Result) {
	m := map[string][]*symbol.Symbol{}
	for _, name := range r.Names() {
		var syms []*symbol.Symbol
		for _, g := range r.Groups(name) {
			syms = append(syms, g.All()...)
		}
		m[name] = syms
	}
	p.cache.Update(m)
}

// templateKey identifies one (namespace, familyName) accumulator bucket,
// guarded by whichever shard it hashes to.
type templateKey struct {
	namespace, family string
}

// isFiltered applies the P5 filter predicate: drop symbols whose name
// starts with "$" or "__vc_attributes", contains a backtick or "&", or
// whose last scope starts with "<".
func isFiltered(name string, parsed *nameparser.ParsedName) bool {
	if strings.HasPrefix(name, "$") || strings.HasPrefix(name, "__vc_attributes") {
		return true
	}
	if strings.ContainsAny(name, "`&") {
		return true
	}
	if parsed != nil && len(parsed.Scopes) > 0 {
		if strings.HasPrefix(parsed.Scopes[len(parsed.Scopes)-1].BareName, "<") {
			return true
		}
	}
	return false
}

// P5. collect filters the dedup winners in parallel, bucketing surviving
// UDTs into template families (sharded, locked) or a simple, append-only
// bag.
func (p *Pipeline) collect(ctx context.Context, r *dedup.Result) (simple []*symbol.Symbol, templates map[templateKey][]*symbol.Symbol) {
	winners := r.Winners()

	var simpleMu sync.Mutex
	shardMu := make([]sync.Mutex, templateShards)
	shardMaps := make([]map[templateKey][]*symbol.Symbol, templateShards)
	for i := range shardMaps {
		shardMaps[i] = map[templateKey][]*symbol.Symbol{}
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxParallelism)

	for _, sym := range winners {
		sym := sym
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			parsed := sym.ParsedName()
			if parsed == nil {
				p.diagnostics.Report(typerr.New(typerr.KindNameSyntax, "Collect", sym.Module().Name, sym.Name(), sym.NamespaceError().Error()))
				return
			}
			if isFiltered(sym.Name(), parsed) {
				return
			}

			if sym.Tag() != symbol.TagEnum && sym.IsTemplate() {
				family, err := nameparser.TemplateFamilyName(sym.Name())
				if err != nil {
					return
				}
				key := templateKey{namespace: sym.Module().Namespace, family: family}
				shard := shardFor(family)
				shardMu[shard].Lock()
				shardMaps[shard][key] = append(shardMaps[shard][key], sym)
				shardMu[shard].Unlock()
				return
			}

			simpleMu.Lock()
			simple = append(simple, sym)
			simpleMu.Unlock()
		}()
	}
	wg.Wait()

	templates = map[templateKey][]*symbol.Symbol{}
	for _, sm := range shardMaps {
		for k, v := range sm {
			templates[k] = append(templates[k], v...)
		}
	}
	return simple, templates
}

func shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % templateShards)
}

// P6. materialize runs single-threaded: one addSymbols call per template
// family, one addSymbol per simple symbol, one GlobalUserType per module.
func (p *Pipeline) materialize(ctx context.Context, modules []*symbol.Module, simple []*symbol.Symbol, templates map[templateKey][]*symbol.Symbol) ([]usertype.UserType, error) {
	var out []usertype.UserType

	for _, sym := range simple {
		ns := p.namespaceFor(sym)
		ut, err := p.factory.AddSymbol(sym, ns, p.cfg.GenerationFlags)
		if err != nil {
			if err.(*typerr.Error).Kind.Fatal() {
				return nil, err
			}
			p.diagnostics.Report(err.(*typerr.Error))
			continue
		}
		out = append(out, ut)
	}

	for key, group := range templates {
		uts, err := p.factory.AddSymbols(ctx, group, key.namespace, p.cfg.GenerationFlags)
		if err != nil {
			if err.(*typerr.Error).Kind.Fatal() {
				return nil, err
			}
			p.diagnostics.Report(err.(*typerr.Error))
			continue
		}
		out = append(out, uts...)
	}

	for _, m := range modules {
		g, err := p.factory.AddGlobal(m, m.Namespace)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}

	return out, nil
}

// namespaceFor returns the namespace the Deduplicator assigned to sym: the
// common namespace for an unambiguous name, or sym's own module namespace
// for one left unlinked across modules.
func (p *Pipeline) namespaceFor(sym *symbol.Symbol) string {
	if ns, ok := p.namespaceOf[sym]; ok {
		return ns
	}
	return p.cfg.CommonTypesNamespace
}

// P7. link resolves every field/base reference of every UserType, wrapping
// the base factory in a TemplateUserTypeFactory for each template
// specialization so its own arguments take priority.
func (p *Pipeline) link(ctx context.Context, types []usertype.UserType) {
	for _, t := range types {
		switch v := t.(type) {
		case *usertype.TemplateUserType:
			if v.Primary != nil {
				continue // linked via its primary below
			}
			for _, spec := range v.SpecializedTypes {
				resolver := factory.NewTemplateUserTypeFactory(p.factory, spec)
				factory.LinkFields(spec, resolver, spec.Namespace())
			}
		default:
			factory.LinkFields(t, p.factory, t.Namespace())
		}
	}
}
