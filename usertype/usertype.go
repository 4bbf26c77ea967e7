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

// Package usertype is the variant hierarchy the factory builds and the
// emitter walks: Physical, Enum, Template, TemplateArgument, Namespace and
// Global, unified behind one UserType interface the way gapil/semantic
// unifies its Class/Enum/Pointer/etc. types behind a single Type interface.
package usertype

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/emit"
	"github.com/typewrap/typewrap/nameparser"
	"github.com/typewrap/typewrap/symbol"
)

// Kind discriminates which UserType variant a value is.
type Kind int

const (
	KindPhysical Kind = iota
	KindEnum
	KindTemplate
	KindTemplateArgument
	KindNamespace
	KindGlobal
)

func (k Kind) String() string {
	switch k {
	case KindPhysical:
		return "Physical"
	case KindEnum:
		return "Enum"
	case KindTemplate:
		return "Template"
	case KindTemplateArgument:
		return "TemplateArgument"
	case KindNamespace:
		return "Namespace"
	case KindGlobal:
		return "Global"
	default:
		return "Unknown"
	}
}

// Resolver is the subset of the factory's behavior a UserType needs at
// writeCode time: resolving a raw field/base type name to another UserType.
// It is declared here, not in the factory package, so this package never
// has to import factory back.
type Resolver interface {
	GetUserType(sym *symbol.Symbol) (UserType, bool)
	TryGetUserType(namespace, typeName string) (UserType, bool)
	Transform(typeName string) string
}

// isType is implemented by every variant so the compiler enforces that
// nothing outside this package can synthesize a UserType.
type isType interface {
	isUserType()
}

// UserType is any node in the variant hierarchy.
type UserType interface {
	isType
	Kind() Kind
	Symbol() *symbol.Symbol
	Namespace() string
	ConstructorName() string
	FullClassName() string
	DeclaredInType() UserType
	SetDeclaredInType(UserType)
	Usings() []string
	AddUsing(string)
	WriteCode(w emit.Writer, r Resolver, flags config.GenerationFlags) error
}

// DefaultUsing is seeded into every UserType's Usings set before anything
// else is added.
const DefaultUsing = "System"

// base holds the fields and behavior shared by every variant. It is
// embedded, never used standalone.
type base struct {
	kind            Kind
	sym             *symbol.Symbol // nil for Namespace
	namespace       string
	constructorName string
	fullClassName   string
	declaredInType  UserType
	usings          *treeset.Set
}

func newBase(kind Kind, sym *symbol.Symbol, namespace string) base {
	return base{
		kind:      kind,
		sym:       sym,
		namespace: namespace,
		usings:    treeset.NewWithStringComparator(DefaultUsing),
	}
}

func (b *base) isUserType() {}

func (b *base) Kind() Kind               { return b.kind }
func (b *base) Symbol() *symbol.Symbol   { return b.sym }
func (b *base) Namespace() string        { return b.namespace }
func (b *base) ConstructorName() string  { return b.constructorName }
func (b *base) DeclaredInType() UserType { return b.declaredInType }

func (b *base) SetDeclaredInType(parent UserType) { b.declaredInType = parent }

// FullClassName walks the declaredInType chain: a Namespace ancestor
// contributes its own FullClassName (which is just its dotted path), a
// class ancestor nests this type's constructor name beneath it.
func (b *base) FullClassName() string {
	if b.fullClassName != "" {
		return b.fullClassName
	}
	if b.declaredInType == nil {
		return qualify(b.namespace, b.constructorName)
	}
	parent := b.declaredInType
	if parent.Kind() == KindNamespace {
		return qualify(parent.FullClassName(), b.constructorName)
	}
	return parent.FullClassName() + "." + b.constructorName
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

func (b *base) Usings() []string {
	vals := b.usings.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}

func (b *base) AddUsing(u string) {
	if u == "" {
		return
	}
	b.usings.Add(u)
}

// deriveConstructorName computes the emitted class identifier for a parsed
// name: the last scope's bare name, with a sanitized arity tag appended for
// template specializations (arity > 0 means "this name carries template
// arguments").
func deriveConstructorName(p *nameparser.ParsedName, arity int) string {
	last := p.Scopes[len(p.Scopes)-1]
	name := sanitizeIdentifier(last.BareName)
	if arity > 0 {
		name = fmt.Sprintf("%s_%d", name, arity)
	}
	return name
}

// sanitizeIdentifier strips characters that cannot appear in a generated
// identifier, leaving the rest untouched.
func sanitizeIdentifier(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "Anon"
	}
	return string(out)
}

// namespaceOf returns the enclosing namespace path of a parsed name, joined
// with "::", or "" for an unqualified name.
func namespaceOf(p *nameparser.ParsedName) string {
	ns := p.Namespaces()
	if len(ns) == 0 {
		return ""
	}
	out := ns[0]
	for _, n := range ns[1:] {
		out += "::" + n
	}
	return out
}
