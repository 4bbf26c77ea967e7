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

// Package fake is a minimal in-memory symbol.Provider used by tests, since
// a real PDB reader is out of this module's scope.
package fake

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/typewrap/typewrap/symbol"
)

// RawSymbol is a fully in-memory symbol.RawSymbol.
type RawSymbol struct {
	NameV        string
	SizeV        uint64
	TagV         symbol.Tag
	FieldsV      []symbol.Field
	BaseClassesV []symbol.BaseClass
	EnumValuesV  []symbol.EnumValue
}

func (r *RawSymbol) Name() string                           { return r.NameV }
func (r *RawSymbol) Size() uint64                            { return r.SizeV }
func (r *RawSymbol) Tag() symbol.Tag                         { return r.TagV }
func (r *RawSymbol) Fields() ([]symbol.Field, error)         { return r.FieldsV, nil }
func (r *RawSymbol) BaseClasses() ([]symbol.BaseClass, error) { return r.BaseClassesV, nil }
func (r *RawSymbol) EnumValues() ([]symbol.EnumValue, error) { return r.EnumValuesV, nil }

// Module is a fully in-memory symbol.ModuleHandle.
type Module struct {
	NameV          string
	Types          []*RawSymbol
	GlobalScopeV   *RawSymbol
}

func (m *Module) Name() string { return m.NameV }

func (m *Module) FindGlobalTypeWildcard(pattern string) ([]symbol.RawSymbol, error) {
	var out []symbol.RawSymbol
	for _, t := range m.Types {
		if ok, _ := filepath.Match(pattern, t.NameV); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Module) GetAllTypes() ([]symbol.RawSymbol, error) {
	out := make([]symbol.RawSymbol, len(m.Types))
	for i, t := range m.Types {
		out[i] = t
	}
	return out, nil
}

func (m *Module) GlobalScope() symbol.RawSymbol {
	if m.GlobalScopeV == nil {
		return nil
	}
	return m.GlobalScopeV
}

// Provider is a symbol.Provider backed by a fixed set of Modules, keyed by
// ModuleDescriptor.Path.
type Provider struct {
	Modules map[string]*Module
	// FailPaths causes OpenModule to fail for the named paths, simulating a
	// ModuleLoadError.
	FailPaths map[string]bool
}

func NewProvider() *Provider {
	return &Provider{Modules: map[string]*Module{}, FailPaths: map[string]bool{}}
}

func (p *Provider) OpenModule(ctx context.Context, desc symbol.ModuleDescriptor) (symbol.ModuleHandle, error) {
	if p.FailPaths[desc.Path] {
		return nil, errors.Errorf("fake provider: configured to fail opening %q", desc.Path)
	}
	m, ok := p.Modules[desc.Path]
	if !ok {
		return nil, errors.Errorf("fake provider: no module registered for path %q", desc.Path)
	}
	return m, nil
}

// Symbol is a convenience constructor for a UDT/Enum RawSymbol.
func Symbol(name string, size uint64, tag symbol.Tag) *RawSymbol {
	return &RawSymbol{NameV: name, SizeV: size, TagV: tag}
}

// WithFields sets r's fields and returns r.
func (r *RawSymbol) WithFields(fields ...symbol.Field) *RawSymbol {
	r.FieldsV = fields
	return r
}

// WithBases sets r's base classes and returns r.
func (r *RawSymbol) WithBases(bases ...symbol.BaseClass) *RawSymbol {
	r.BaseClassesV = bases
	return r
}

// WithEnumValues sets r's enum members and returns r.
func (r *RawSymbol) WithEnumValues(vals ...symbol.EnumValue) *RawSymbol {
	r.EnumValuesV = vals
	return r
}
