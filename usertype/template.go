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

import (
	"fmt"
	"strings"

	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/emit"
	"github.com/typewrap/typewrap/nameparser"
	"github.com/typewrap/typewrap/symbol"
)

// TemplateUserType is either the primary of a template family (the generic
// wrapper every specialization shares) or one of its specializations. Only
// the primary's SpecializedTypes is populated; only a specialization's
// Arguments is populated.
type TemplateUserType struct {
	base
	ParameterNames   []string            // "T1".."Tn", primary only
	SpecializedTypes []*TemplateUserType // primary only
	Arguments        []string            // this specialization's raw argument names, parallel to the primary's ParameterNames
	Fields           []Field
	Bases            []Base
	Primary          *TemplateUserType // nil for the primary itself
}

// NewTemplatePrimary constructs the family's primary, with arity type
// parameters named T1..Tn.
func NewTemplatePrimary(parsed *nameparser.ParsedName, namespace string, arity int) *TemplateUserType {
	t := &TemplateUserType{base: newBase(KindTemplate, nil, namespace)}
	t.constructorName = deriveConstructorName(parsed, arity)
	t.ParameterNames = make([]string, arity)
	for i := range t.ParameterNames {
		t.ParameterNames[i] = fmt.Sprintf("T%d", i+1)
	}
	return t
}

// NewTemplateSpecialization constructs one specialization of primary,
// carrying sym's own fields (populated by the factory after construction)
// and the raw argument names extracted from sym's own parsed name.
func NewTemplateSpecialization(sym *symbol.Symbol, parsed *nameparser.ParsedName, namespace string, primary *TemplateUserType) *TemplateUserType {
	t := &TemplateUserType{base: newBase(KindTemplate, sym, namespace), Primary: primary}
	t.constructorName = deriveConstructorName(parsed, len(primary.ParameterNames))
	args := parsed.TemplateArguments()
	t.Arguments = make([]string, len(args))
	for i, a := range args {
		t.Arguments[i] = a.Render()
	}
	primary.SpecializedTypes = append(primary.SpecializedTypes, t)
	return t
}

// PlaceholderFor returns the parameter name (e.g. "T2") this specialization
// binds typeName to, and true, if typeName textually matches one of the
// specialization's own recorded template arguments.
func (t *TemplateUserType) PlaceholderFor(typeName string) (string, bool) {
	if t.Primary == nil {
		return "", false
	}
	for i, arg := range t.Arguments {
		if aliasEquivalent(arg, typeName) && i < len(t.Primary.ParameterNames) {
			return t.Primary.ParameterNames[i], true
		}
	}
	return "", false
}

// cppAliases is the fixed set of interchangeable C++ spellings the template
// argument matcher tolerates (4.6).
var cppAliases = [][2]string{
	{"wchar_t", "unsigned short"},
	{"long long", "__int64"},
	{"unsigned long long", "unsigned __int64"},
}

func aliasEquivalent(a, b string) bool {
	if a == b {
		return true
	}
	for _, pair := range cppAliases {
		if (a == pair[0] && b == pair[1]) || (a == pair[1] && b == pair[0]) {
			return true
		}
	}
	return false
}

// WriteCode is only meaningful on the primary: it emits the generic wrapper
// body (using the first specialization's field layout, rebound to
// placeholders where link matched an argument) followed by a descriptor
// comment per observed specialization.
func (t *TemplateUserType) WriteCode(w emit.Writer, r Resolver, flags config.GenerationFlags) error {
	if t.Primary != nil {
		return nil // specializations are described, not emitted, standalone
	}
	params := strings.Join(t.ParameterNames, ", ")
	w.WriteLine("public sealed class %s<%s>", t.ConstructorName(), params)
	w.WriteLine("{")
	w.Indent()
	w.WriteLine("readonly ulong Address;")
	w.WriteLine("public %s(ulong address) { Address = address; }", t.ConstructorName())

	var body *TemplateUserType
	if len(t.SpecializedTypes) > 0 {
		body = t.SpecializedTypes[0]
	}
	compressed := flags.Has(config.FlagCompressedOutput)
	if body != nil {
		for _, b := range body.Bases {
			if !compressed {
				w.Blank()
			}
			w.WriteLine("public %s %s => new %s(Address + 0x%X);",
				b.Type.TypeName(), baseAccessorName(b.Type.TypeName()), b.Type.TypeName(), b.Offset)
		}
		for _, f := range body.Fields {
			if !compressed {
				w.Blank()
			}
			writeFieldAccessor(w, f)
		}
	}
	w.Dedent()
	w.WriteLine("}")

	if len(t.SpecializedTypes) > 0 {
		w.Blank()
		w.WriteLine("// specializations:")
		for _, s := range t.SpecializedTypes {
			w.WriteLine("//   %s<%s>", t.ConstructorName(), strings.Join(s.Arguments, ", "))
		}
	}
	return nil
}

// TemplateArgumentUserType is a sentinel bound to one template parameter; it
// is never emitted on its own, only referenced by Ref.Placeholder.
type TemplateArgumentUserType struct {
	base
}

// NewTemplateArgumentUserType returns the sentinel for placeholder (e.g.
// "T1").
func NewTemplateArgumentUserType(placeholder string) *TemplateArgumentUserType {
	t := &TemplateArgumentUserType{base: newBase(KindTemplateArgument, nil, "")}
	t.constructorName = placeholder
	return t
}

func (t *TemplateArgumentUserType) WriteCode(w emit.Writer, r Resolver, flags config.GenerationFlags) error {
	return nil
}
