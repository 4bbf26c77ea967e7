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

// Package factory builds usertype.UserType values from symbols and links
// their field/base references against a symbol.GlobalCache, the way
// gapil/resolver turns ast nodes into semantic.Type values.
package factory

import (
	"context"
	"regexp"

	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/log"
	"github.com/typewrap/typewrap/symbol"
	"github.com/typewrap/typewrap/typerr"
	"github.com/typewrap/typewrap/usertype"
)

// UserTypeFactory is the base, non-decorated factory: it knows every
// UserType it has constructed and can resolve a field's raw type name
// against that set or against the GlobalCache.
type UserTypeFactory struct {
	cache           *symbol.GlobalCache
	transformations []config.Transformation
	diagnostics     *typerr.Channel

	bySymbol map[*symbol.Symbol]usertype.UserType
	byName   map[string]usertype.UserType // keyed by transformed qualified name
}

// New constructs a factory bound to cache, applying cfg's transformations
// and reporting non-fatal problems to diag.
func New(cache *symbol.GlobalCache, cfg *config.Configuration, diag *typerr.Channel) *UserTypeFactory {
	return &UserTypeFactory{
		cache:           cache,
		transformations: cfg.Transformations,
		diagnostics:     diag,
		bySymbol:        map[*symbol.Symbol]usertype.UserType{},
		byName:          map[string]usertype.UserType{},
	}
}

// Transform applies the first matching configured rewrite to name, in
// configuration order; if no pattern matches, name is returned unchanged.
func (f *UserTypeFactory) Transform(name string) string {
	for _, t := range f.transformations {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			continue // an invalid pattern never matches; config.Validate doesn't check regex syntax
		}
		if re.MatchString(name) {
			return re.ReplaceAllString(name, t.Replacement)
		}
	}
	return name
}

// AddSymbol builds the UserType for a single, non-template symbol: Enum or
// Physical depending on tag.
func (f *UserTypeFactory) AddSymbol(sym *symbol.Symbol, namespace string, flags config.GenerationFlags) (usertype.UserType, error) {
	parsed := sym.ParsedName()
	if parsed == nil {
		return nil, typerr.New(typerr.KindNameSyntax, "Collect", sym.Module().Name, sym.Name(), sym.NamespaceError().Error())
	}

	var ut usertype.UserType
	switch sym.Tag() {
	case symbol.TagEnum:
		values, err := sym.EnumValues()
		if err != nil {
			return nil, typerr.New(typerr.KindEmit, "Materialize", sym.Module().Name, sym.Name(), err.Error())
		}
		ut = usertype.NewEnumUserType(sym, parsed, namespace, values)
	default:
		phys := usertype.NewPhysicalUserType(sym, parsed, namespace)
		if err := f.populateFields(sym, &phys.Fields, &phys.Bases); err != nil {
			return nil, err
		}
		ut = phys
	}
	f.register(sym.Name(), ut)
	f.bySymbol[sym] = ut
	return ut, nil
}

// AddGlobal builds the single GlobalUserType aggregating module's
// global-scope symbol.
func (f *UserTypeFactory) AddGlobal(module *symbol.Module, namespace string) (*usertype.GlobalUserType, error) {
	g := usertype.NewGlobalUserType(module, namespace)
	if module.GlobalScope != nil {
		if err := f.populateFields(module.GlobalScope, &g.Fields, nil); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddSymbols builds a template family from a bucket of same-family symbols:
// one primary plus one specialization per symbol, returned primary-first.
func (f *UserTypeFactory) AddSymbols(ctx context.Context, symbols []*symbol.Symbol, namespace string, flags config.GenerationFlags) ([]usertype.UserType, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	first := symbols[0].ParsedName()
	if first == nil {
		return nil, typerr.New(typerr.KindNameSyntax, "Collect", symbols[0].Module().Name, symbols[0].Name(), symbols[0].NamespaceError().Error())
	}
	arity := len(first.TemplateArguments())
	primary := usertype.NewTemplatePrimary(first, namespace, arity)

	out := []usertype.UserType{primary}
	for _, sym := range symbols {
		parsed := sym.ParsedName()
		if parsed == nil {
			log.From(ctx).Warningf().With("symbol", sym.Name()).Log("skipping unparsable template specialization")
			continue
		}
		spec := usertype.NewTemplateSpecialization(sym, parsed, namespace, primary)
		if err := f.populateFields(sym, &spec.Fields, &spec.Bases); err != nil {
			return nil, err
		}
		f.register(sym.Name(), spec)
		f.bySymbol[sym] = spec
		out = append(out, spec)
	}
	f.register(first.FamilyName(), primary)
	return out, nil
}

func (f *UserTypeFactory) populateFields(sym *symbol.Symbol, fields *[]usertype.Field, bases *[]usertype.Base) error {
	rawFields, err := sym.Fields()
	if err != nil {
		return typerr.New(typerr.KindEmit, "Materialize", sym.Module().Name, sym.Name(), err.Error())
	}
	for _, rf := range rawFields {
		*fields = append(*fields, usertype.Field{
			Name:      rf.Name,
			Offset:    rf.Offset,
			Type:      usertype.Ref{RawTypeName: f.Transform(rf.TypeName)},
			Anonymous: rf.Name == "" && rf.Tag == symbol.TagUDT,
		})
	}
	if bases == nil {
		return nil
	}
	rawBases, err := sym.BaseClasses()
	if err != nil {
		return typerr.New(typerr.KindEmit, "Materialize", sym.Module().Name, sym.Name(), err.Error())
	}
	for _, rb := range rawBases {
		*bases = append(*bases, usertype.Base{
			Offset: rb.Offset,
			Type:   usertype.Ref{RawTypeName: f.Transform(rb.TypeName)},
		})
	}
	return nil
}

func (f *UserTypeFactory) register(name string, ut usertype.UserType) {
	f.byName[f.Transform(name)] = ut
}

// GetUserType looks up the UserType built for sym by identity.
func (f *UserTypeFactory) GetUserType(sym *symbol.Symbol) (usertype.UserType, bool) {
	ut, ok := f.bySymbol[sym]
	return ut, ok
}

// TryGetUserType looks up a UserType by its textual type name, as recorded
// by a field or base class reference, first among the names the factory
// registered and then through the GlobalCache's representative for that
// name. namespace is accepted for interface symmetry with the decorator but
// unused here: names are registered globally by their qualified form.
func (f *UserTypeFactory) TryGetUserType(namespace, typeName string) (usertype.UserType, bool) {
	if ut, ok := f.byName[f.Transform(typeName)]; ok {
		return ut, true
	}
	if sym, ok := f.cache.GetSymbol(typeName); ok {
		if ut, ok := f.bySymbol[sym]; ok {
			return ut, true
		}
	}
	return nil, false
}

// ResolveReference fills in ref.Resolved from r, leaving ref.RawTypeName
// untouched when nothing matches — link failures are non-fatal per the
// error handling design's TemplateLinkError policy.
func ResolveReference(ref *usertype.Ref, r usertype.Resolver, namespace string) {
	if ut, ok := r.TryGetUserType(namespace, ref.RawTypeName); ok {
		if ut.Kind() == usertype.KindTemplateArgument {
			ref.Placeholder = ut.ConstructorName()
			return
		}
		ref.Resolved = ut
	}
}

// LinkFields resolves every field and base reference of ut against r,
// mutating them in place.
func LinkFields(ut usertype.UserType, r usertype.Resolver, namespace string) {
	switch t := ut.(type) {
	case *usertype.PhysicalUserType:
		for i := range t.Fields {
			ResolveReference(&t.Fields[i].Type, r, namespace)
		}
		for i := range t.Bases {
			ResolveReference(&t.Bases[i].Type, r, namespace)
		}
	case *usertype.TemplateUserType:
		for i := range t.Fields {
			ResolveReference(&t.Fields[i].Type, r, namespace)
		}
		for i := range t.Bases {
			ResolveReference(&t.Bases[i].Type, r, namespace)
		}
	case *usertype.GlobalUserType:
		for i := range t.Fields {
			ResolveReference(&t.Fields[i].Type, r, namespace)
		}
	}
}

type scopeKey struct{ namespace, name string }

// ProcessTypes synthesizes a NamespaceUserType for every namespace that
// ends up with at least one top-level child, and sets DeclaredInType on
// every type whose qualified name nests it inside another UserType the
// factory has already built.
func (f *UserTypeFactory) ProcessTypes(types []usertype.UserType) []*usertype.NamespaceUserType {
	byScope := map[scopeKey]usertype.UserType{}
	for _, t := range types {
		if t.Symbol() == nil {
			continue
		}
		parsed := t.Symbol().ParsedName()
		if parsed == nil {
			continue
		}
		last := parsed.Scopes[len(parsed.Scopes)-1]
		byScope[scopeKey{t.Namespace(), last.BareName}] = t
	}

	namespaces := map[string]*usertype.NamespaceUserType{}
	var order []string
	for _, t := range types {
		if tmpl, ok := t.(*usertype.TemplateUserType); ok && tmpl.Primary != nil {
			continue // specializations are described by their primary, never placed on their own
		}
		if t.Kind() == usertype.KindGlobal {
			continue // ModuleGlobals is never placed under a namespace node; it stays top-level
		}

		parentScope := enclosingScope(t)
		if len(parentScope) > 0 {
			immediate := parentScope[len(parentScope)-1]
			if parent, ok := byScope[scopeKey{t.Namespace(), immediate}]; ok && parent != t {
				t.SetDeclaredInType(parent)
				continue
			}
		}

		ns := t.Namespace()
		if ns == "" {
			continue
		}
		nsType, ok := namespaces[ns]
		if !ok {
			nsType = usertype.NewNamespaceUserType(ns, ns)
			namespaces[ns] = nsType
			order = append(order, ns)
		}
		nsType.AddChild(t)
	}

	out := make([]*usertype.NamespaceUserType, 0, len(order))
	for _, ns := range order {
		out = append(out, namespaces[ns])
	}
	return out
}

// enclosingScope returns the qualified-name scope path (everything but the
// last component) that should determine t's DeclaredInType: its own
// symbol's, or for a template primary, its first specialization's.
func enclosingScope(t usertype.UserType) []string {
	sym := t.Symbol()
	if sym == nil {
		if tmpl, ok := t.(*usertype.TemplateUserType); ok && len(tmpl.SpecializedTypes) > 0 {
			sym = tmpl.SpecializedTypes[0].Symbol()
		}
	}
	if sym == nil {
		return nil
	}
	parsed := sym.ParsedName()
	if parsed == nil {
		return nil
	}
	return parsed.Namespaces()
}
