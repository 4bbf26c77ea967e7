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

// Package symbol is the thin in-memory façade over a SymbolProvider: Module
// and Symbol wrap whatever a real PDB reader hands back, and GlobalCache is
// the process-wide deduplicated name lookup populated once per run.
package symbol

import "context"

// Tag classifies what kind of thing a Symbol denotes.
type Tag int

const (
	TagUDT Tag = iota
	TagEnum
	TagBaseType
	TagPointer
	TagArray
	TagFunction
	TagOther
)

func (t Tag) String() string {
	switch t {
	case TagUDT:
		return "UDT"
	case TagEnum:
		return "Enum"
	case TagBaseType:
		return "BaseType"
	case TagPointer:
		return "Pointer"
	case TagArray:
		return "Array"
	case TagFunction:
		return "Function"
	default:
		return "Other"
	}
}

// Field describes one field of a UDT, as reported by the provider. Tag is
// the tag of the field's own type (not of the UDT the field belongs to);
// an empty Name combined with Tag == TagUDT is how PDB tooling marks an
// anonymous nested struct/union, whose members are inlined into the
// enclosing type rather than accessed through a named member.
type Field struct {
	Name     string
	TypeName string
	Offset   uint64
	Tag      Tag
}

// BaseClass describes one base class of a UDT, in declaration order.
type BaseClass struct {
	TypeName string
	Offset   uint64
}

// EnumValue describes one member of an enum symbol.
type EnumValue struct {
	Name  string
	Value int64
}

// RawSymbol is the provider's view of a single symbol, before this package
// wraps it with caching and identity. Fields/BaseClasses/EnumValues are
// expected to be expensive: the provider should defer the underlying PDB
// query until they are actually called.
type RawSymbol interface {
	Name() string
	Size() uint64
	Tag() Tag
	Fields() ([]Field, error)
	BaseClasses() ([]BaseClass, error)
	EnumValues() ([]EnumValue, error)
}

// ModuleHandle is the provider's view of one opened module.
type ModuleHandle interface {
	Name() string
	FindGlobalTypeWildcard(pattern string) ([]RawSymbol, error)
	GetAllTypes() ([]RawSymbol, error)
	GlobalScope() RawSymbol
}

// ModuleDescriptor is one entry of config.Configuration.Modules.
type ModuleDescriptor struct {
	Path      string
	Name      string
	Namespace string
}

// Provider is the out-of-core collaborator that actually reads a PDB. This
// package, and everything above it, only depends on this interface.
type Provider interface {
	OpenModule(ctx context.Context, desc ModuleDescriptor) (ModuleHandle, error)
}

var providers = map[string]func() Provider{}

// Register adds a named Provider constructor to the set the CLI can select
// from by name, the way gapis/api.Register lets each graphics API plug
// itself into a shared registry instead of the core depending on every
// implementation directly. A real PDB reader lives outside this module and
// registers itself from an init function in its own package; no concrete
// provider is registered here.
func Register(name string, factory func() Provider) {
	if _, present := providers[name]; present {
		panic("symbol: provider " + name + " registered more than once")
	}
	providers[name] = factory
}

// Lookup constructs the provider registered under name, or reports false if
// none was registered.
func Lookup(name string) (Provider, bool) {
	factory, ok := providers[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}
