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

package usertype

// Ref is a field or base-class type reference, in the three states the
// link phase (P7) can leave it in: unresolved raw text, resolved to another
// UserType, or bound to a template argument placeholder.
type Ref struct {
	RawTypeName string
	Resolved    UserType // non-nil once link succeeds
	Placeholder string   // non-empty once a TemplateUserTypeFactory binds it
}

// IsLinked reports whether link (P7) was able to attach any meaning to this
// reference beyond its raw text.
func (r Ref) IsLinked() bool { return r.Resolved != nil || r.Placeholder != "" }

// TypeName returns the best name available for this reference: the
// placeholder if bound, the resolved type's constructor name, or the raw
// text as emitted by the symbol provider.
func (r Ref) TypeName() string {
	switch {
	case r.Placeholder != "":
		return r.Placeholder
	case r.Resolved != nil:
		return r.Resolved.ConstructorName()
	default:
		return r.RawTypeName
	}
}

// Field is one accessor-generating member of a Physical, Template or Global
// UserType.
type Field struct {
	Name     string
	Offset   uint64
	Type     Ref
	Anonymous bool // true for an anonymous nested UDT, which is inlined rather than accessed by name
}

// Base is one compositional accessor derived from a base class, emitted in
// declaration order.
type Base struct {
	Offset uint64
	Type   Ref
}
