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
	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/emit"
	"github.com/typewrap/typewrap/symbol"
)

// GlobalUserType is "ModuleGlobals": one per module, aggregating its
// global-scope symbol's fields as static accessors over absolute addresses.
type GlobalUserType struct {
	base
	ModuleName string
	Fields     []Field
}

// NewGlobalUserType constructs the globals aggregator for module.
func NewGlobalUserType(module *symbol.Module, namespace string) *GlobalUserType {
	g := &GlobalUserType{base: newBase(KindGlobal, module.GlobalScope, namespace), ModuleName: module.Name}
	g.constructorName = sanitizeIdentifier(module.Name) + "Globals"
	return g
}

func (g *GlobalUserType) WriteCode(w emit.Writer, r Resolver, flags config.GenerationFlags) error {
	w.WriteLine("public static class %s", g.ConstructorName())
	w.WriteLine("{")
	w.Indent()
	compressed := flags.Has(config.FlagCompressedOutput)
	for _, f := range g.Fields {
		if !compressed {
			w.Blank()
		}
		name := accessorName(f.Name)
		if f.Type.Resolved != nil {
			w.WriteLine("public static %s %s => new %s(0x%X);", f.Type.TypeName(), name, f.Type.TypeName(), f.Offset)
			continue
		}
		cs, reader := builtinReader(f.Type.RawTypeName)
		w.WriteLine("public static %s %s => reader.%s(0x%X);", cs, name, reader, f.Offset)
	}
	w.Dedent()
	w.WriteLine("}")
	return nil
}
