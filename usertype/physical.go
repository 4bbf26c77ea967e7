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
	"strings"
	"unicode"

	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/emit"
	"github.com/typewrap/typewrap/nameparser"
	"github.com/typewrap/typewrap/symbol"
)

// PhysicalUserType is a struct/class UDT: one accessor per field, plus one
// compositional accessor per base class, in declaration order.
type PhysicalUserType struct {
	base
	Fields []Field
	Bases  []Base
}

// NewPhysicalUserType constructs an (as yet fieldless) UserType for sym,
// whose qualified name must be parsed and non-template.
func NewPhysicalUserType(sym *symbol.Symbol, parsed *nameparser.ParsedName, namespace string) *PhysicalUserType {
	p := &PhysicalUserType{base: newBase(KindPhysical, sym, namespace)}
	p.constructorName = deriveConstructorName(parsed, 0)
	return p
}

func (p *PhysicalUserType) WriteCode(w emit.Writer, r Resolver, flags config.GenerationFlags) error {
	p.recomputeUsings()
	w.WriteLine("public sealed class %s", p.ConstructorName())
	w.WriteLine("{")
	w.Indent()
	w.WriteLine("readonly ulong Address;")
	w.WriteLine("public %s(ulong address) { Address = address; }", p.ConstructorName())
	compressed := flags.Has(config.FlagCompressedOutput)

	for _, b := range p.Bases {
		if !compressed {
			w.Blank()
		}
		w.WriteLine("public %s %s => new %s(Address + 0x%X);",
			b.Type.TypeName(), baseAccessorName(b.Type.TypeName()), b.Type.TypeName(), b.Offset)
	}
	for _, f := range p.Fields {
		if !compressed {
			w.Blank()
		}
		writeFieldAccessor(w, f)
	}
	w.Dedent()
	w.WriteLine("}")
	return nil
}

// writeFieldAccessor is shared by Physical and Template emission.
func writeFieldAccessor(w emit.Writer, f Field) {
	if f.Anonymous {
		w.WriteLine("// anonymous nested UDT at 0x%X inlined", f.Offset)
		return
	}
	name := accessorName(f.Name)
	if f.Type.Resolved != nil && f.Type.Resolved.Kind() == KindEnum {
		w.WriteLine("public %s %s => (%s)reader.ReadInt32(Address + 0x%X);", f.Type.TypeName(), name, f.Type.TypeName(), f.Offset)
		return
	}
	if f.Type.Resolved != nil || f.Type.Placeholder != "" {
		w.WriteLine("public %s %s => new %s(Address + 0x%X);", f.Type.TypeName(), name, f.Type.TypeName(), f.Offset)
		return
	}
	cs, reader := builtinReader(f.Type.RawTypeName)
	w.WriteLine("public %s %s => reader.%s(Address + 0x%X);", cs, name, reader, f.Offset)
}

func (p *PhysicalUserType) recomputeUsings() {
	for _, b := range p.Bases {
		addUsingForType(&p.base, b.Type)
	}
	for _, f := range p.Fields {
		addUsingForType(&p.base, f.Type)
	}
}

// addUsingForType seeds b's Usings set: the resolved type's assigned
// namespace once link succeeds, or — for a reference link never touched —
// any namespace already present in the field's own raw type name (e.g.
// "Foo::Bar" carries namespace "Foo").
func addUsingForType(b *base, ref Ref) {
	if ref.Resolved != nil {
		if ns := ref.Resolved.Namespace(); ns != "" {
			b.AddUsing(ns)
		}
		return
	}
	if ref.Placeholder != "" || ref.RawTypeName == "" {
		return
	}
	parsed, err := nameparser.Parse(ref.RawTypeName)
	if err != nil {
		return
	}
	if ns := namespaceOf(parsed); ns != "" {
		b.AddUsing(strings.ReplaceAll(ns, "::", "."))
	}
}

// accessorName exports a field's C++ member name as a PascalCase C#
// property identifier.
func accessorName(name string) string {
	name = strings.TrimLeft(name, "_")
	if name == "" {
		return "Value"
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// baseAccessorName names the compositional accessor for a base class after
// its own type name.
func baseAccessorName(typeName string) string {
	if i := strings.LastIndexByte(typeName, '.'); i >= 0 {
		typeName = typeName[i+1:]
	}
	return "As" + typeName
}

// builtinReader maps a raw C++ builtin type name to its C# equivalent and
// the reader method used to fetch it, falling back to a raw pointer read
// for anything unrecognized.
func builtinReader(raw string) (csType, readerMethod string) {
	switch raw {
	case "int", "long", "signed int":
		return "int", "ReadInt32"
	case "unsigned int", "unsigned long", "DWORD":
		return "uint", "ReadUInt32"
	case "short":
		return "short", "ReadInt16"
	case "unsigned short", "wchar_t":
		return "ushort", "ReadUInt16"
	case "char", "signed char":
		return "sbyte", "ReadSByte"
	case "unsigned char", "byte", "BYTE":
		return "byte", "ReadByte"
	case "bool":
		return "bool", "ReadBoolean"
	case "float":
		return "float", "ReadSingle"
	case "double":
		return "double", "ReadDouble"
	case "long long", "__int64":
		return "long", "ReadInt64"
	case "unsigned long long", "unsigned __int64":
		return "ulong", "ReadUInt64"
	default:
		return "ulong", "ReadUInt64"
	}
}
