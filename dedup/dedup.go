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

// Package dedup implements the cross-module type-identity reconciliation
// described by the pipeline's phase 3: symbols sharing a name are grouped,
// zero-sized forward declarations collapse into their sized definition, and
// names that remain genuinely ambiguous across modules are left unlinked so
// a later phase can't arbitrarily pick one winner.
//
// Tie-breaking is entirely a function of insertion order, which is why the
// bucket map preserves first-seen order rather than using a plain Go map.
package dedup

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/typewrap/typewrap/symbol"
)

// Group is one entry of a name's symbol list: a representative plus the
// Symbols that were folded into it.
type Group struct {
	Representative *symbol.Symbol
	Duplicates     []*symbol.Symbol
}

// All returns the representative followed by its duplicates, in the order
// they were folded in.
func (g *Group) All() []*symbol.Symbol {
	out := make([]*symbol.Symbol, 0, len(g.Duplicates)+1)
	out = append(out, g.Representative)
	return append(out, g.Duplicates...)
}

// Result is the output of Deduplicate: the per-name group lists, in
// first-insertion order of the names, plus the target namespace assigned
// to every Symbol that survived.
type Result struct {
	names        *linkedhashmap.Map // string -> []*Group, insertion ordered
	Namespace    map[*symbol.Symbol]string
}

// Groups returns the final group list for name, or nil if name was never
// seen.
func (r *Result) Groups(name string) []*Group {
	v, ok := r.names.Get(name)
	if !ok {
		return nil
	}
	return v.([]*Group)
}

// Names returns every name observed, in first-insertion order.
func (r *Result) Names() []string {
	keys := r.names.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Winners returns one representative Symbol per Group across every name, in
// (name first-seen order, group order) — the deterministic set of dedup
// winners that phase 5 (Collect) consumes. A name with a single
// representative contributes one winner; a name left ambiguous contributes
// one winner per standalone entry, per end-to-end scenario 2.
func (r *Result) Winners() []*symbol.Symbol {
	var out []*symbol.Symbol
	for _, k := range r.names.Keys() {
		groups, _ := r.names.Get(k)
		for _, g := range groups.([]*Group) {
			out = append(out, g.Representative)
		}
	}
	return out
}

// Deduplicate runs the three-step algorithm of the design over symbols, in
// the exact order given (the caller is responsible for producing the
// deterministic round-robin interleaving described by phase 2).
func Deduplicate(symbols []*symbol.Symbol, commonNamespace string) *Result {
	names := linkedhashmap.New()

	for _, s := range symbols {
		var groups []*Group
		if v, ok := names.Get(s.Name()); ok {
			groups = v.([]*Group)
		}
		names.Put(s.Name(), insert(groups, s))
	}

	// Step 2: unlink ambiguous names.
	for _, k := range names.Keys() {
		groups, _ := names.Get(k)
		gs := groups.([]*Group)
		if len(gs) > 1 {
			names.Put(k, unlink(gs))
		}
	}

	result := &Result{names: names, Namespace: map[*symbol.Symbol]string{}}

	// Step 3: namespace assignment.
	for _, k := range names.Keys() {
		groups, _ := names.Get(k)
		gs := groups.([]*Group)
		if len(gs) == 1 {
			for _, s := range gs[0].All() {
				result.Namespace[s] = commonNamespace
			}
			continue
		}
		for _, g := range gs {
			ns := g.Representative.Module().Namespace
			for _, s := range g.All() {
				result.Namespace[s] = ns
			}
		}
	}

	return result
}

// insert folds s into the existing per-name group list, following the
// split/promote/duplicate rules, trying entries in insertion order and
// stopping at the first one s is compatible with.
func insert(groups []*Group, s *symbol.Symbol) []*Group {
	for i, g := range groups {
		rep := g.Representative
		if rep.Size() != 0 && s.Size() != 0 && rep.Size() != s.Size() {
			continue // split candidate: try the next entry
		}
		if rep.Size() == 0 && s.Size() != 0 {
			// Promote: s replaces rep as representative. The displaced
			// zero-sized rep, and everything already folded into it, become
			// s's duplicates — nothing is discarded (design note (b)).
			duplicates := make([]*symbol.Symbol, 0, len(g.Duplicates)+1)
			duplicates = append(duplicates, rep)
			duplicates = append(duplicates, g.Duplicates...)
			groups[i] = &Group{Representative: s, Duplicates: duplicates}
			return groups
		}
		// Either sizes are equal, or s is itself a zero-sized forward
		// declaration: s is a duplicate of the existing representative.
		duplicates := make([]*symbol.Symbol, len(g.Duplicates), len(g.Duplicates)+1)
		copy(duplicates, g.Duplicates)
		groups[i] = &Group{Representative: rep, Duplicates: append(duplicates, s)}
		return groups
	}
	// No compatible entry: genuinely different nonzero size, start a new one.
	return append(groups, &Group{Representative: s})
}

// unlink flattens every entry's representative+duplicates back into
// standalone entries, so that a later phase can't silently pick a single
// winner for a name that is ambiguous across modules.
func unlink(groups []*Group) []*Group {
	var out []*Group
	for _, g := range groups {
		for _, s := range g.All() {
			out = append(out, &Group{Representative: s})
		}
	}
	return out
}
