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

package symbol

import (
	"sync"

	"github.com/typewrap/typewrap/nameparser"
)

// Module is opened exactly once and lives for the whole run.
type Module struct {
	ID        int
	Name      string
	Namespace string
	Handle    ModuleHandle

	// GlobalScope is the module's global-scope Symbol, set once during
	// enumeration (phase P2).
	GlobalScope *Symbol
}

// Symbol is the immutable, lazily-populated façade over a RawSymbol. Two
// Symbols with the same Name are dedup candidates; field/base references
// are unresolved type-name strings until the factory's link phase resolves
// them against the GlobalCache.
type Symbol struct {
	name   string
	size   uint64
	tag    Tag
	module *Module
	raw    RawSymbol

	namespaces    []string
	namespaceErr  error
	parsedName    *nameparser.ParsedName

	fieldsOnce  sync.Once
	fields      []Field
	fieldsErr   error

	basesOnce sync.Once
	bases     []BaseClass
	basesErr  error

	enumOnce  sync.Once
	enumVals  []EnumValue
	enumErr   error
}

// New wraps raw as a Symbol belonging to module, eagerly computing Tag,
// Size and Namespaces (namespaces is derived once, per the façade's
// contract, even though it is cheap to recompute).
func New(module *Module, raw RawSymbol) *Symbol {
	s := &Symbol{
		name:   raw.Name(),
		size:   raw.Size(),
		tag:    raw.Tag(),
		module: module,
		raw:    raw,
	}
	if p, err := nameparser.Parse(s.name); err != nil {
		s.namespaceErr = err
	} else {
		s.parsedName = p
		s.namespaces = p.Namespaces()
	}
	return s
}

func (s *Symbol) Name() string   { return s.name }
func (s *Symbol) Size() uint64   { return s.size }
func (s *Symbol) Tag() Tag       { return s.tag }
func (s *Symbol) Module() *Module { return s.module }

// Namespaces returns the enclosing scope path of the symbol's name, or nil
// (with NamespaceError() non-nil) if the name failed to parse.
func (s *Symbol) Namespaces() []string { return s.namespaces }

// NamespaceError returns the NameSyntaxError encountered while deriving
// Namespaces, if any.
func (s *Symbol) NamespaceError() error { return s.namespaceErr }

// ParsedName returns the cached nameparser.ParsedName for this symbol's
// name, or nil if parsing failed.
func (s *Symbol) ParsedName() *nameparser.ParsedName { return s.parsedName }

// IsTemplate reports whether the symbol's name denotes a template
// specialization.
func (s *Symbol) IsTemplate() bool {
	return s.parsedName != nil && s.parsedName.IsTemplate
}

// Fields returns this symbol's fields, computing and caching them from the
// underlying RawSymbol on first access.
func (s *Symbol) Fields() ([]Field, error) {
	s.fieldsOnce.Do(func() {
		s.fields, s.fieldsErr = s.raw.Fields()
	})
	return s.fields, s.fieldsErr
}

// BaseClasses returns this symbol's base classes, in declaration order,
// computing and caching them on first access.
func (s *Symbol) BaseClasses() ([]BaseClass, error) {
	s.basesOnce.Do(func() {
		s.bases, s.basesErr = s.raw.BaseClasses()
	})
	return s.bases, s.basesErr
}

// EnumValues returns this symbol's enum members, computing and caching them
// on first access.
func (s *Symbol) EnumValues() ([]EnumValue, error) {
	s.enumOnce.Do(func() {
		s.enumVals, s.enumErr = s.raw.EnumValues()
	})
	return s.enumVals, s.enumErr
}
