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

package factory

import (
	"github.com/typewrap/typewrap/symbol"
	"github.com/typewrap/typewrap/usertype"
)

// TemplateUserTypeFactory decorates a base usertype.Resolver, rebinding any
// lookup that matches one of spec's own template arguments to a
// TemplateArgumentUserType placeholder before falling back to base. One
// instance is constructed per specialization being linked, mirroring how
// gapil's generic subroutine resolver pushes a fresh argument scope per
// instantiation rather than mutating shared state.
type TemplateUserTypeFactory struct {
	base usertype.Resolver
	spec *usertype.TemplateUserType
}

// NewTemplateUserTypeFactory returns a resolver that rebinds names matching
// one of spec's template arguments, delegating everything else to base.
func NewTemplateUserTypeFactory(base usertype.Resolver, spec *usertype.TemplateUserType) *TemplateUserTypeFactory {
	return &TemplateUserTypeFactory{base: base, spec: spec}
}

func (f *TemplateUserTypeFactory) GetUserType(sym *symbol.Symbol) (usertype.UserType, bool) {
	if ph, ok := f.spec.PlaceholderFor(sym.Name()); ok {
		return usertype.NewTemplateArgumentUserType(ph), true
	}
	return f.base.GetUserType(sym)
}

func (f *TemplateUserTypeFactory) TryGetUserType(namespace, typeName string) (usertype.UserType, bool) {
	if ph, ok := f.spec.PlaceholderFor(typeName); ok {
		return usertype.NewTemplateArgumentUserType(ph), true
	}
	return f.base.TryGetUserType(namespace, typeName)
}

func (f *TemplateUserTypeFactory) Transform(name string) string {
	return f.base.Transform(name)
}
