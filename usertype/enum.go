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
	"github.com/typewrap/typewrap/nameparser"
	"github.com/typewrap/typewrap/symbol"
)

// EnumUserType emits a C# enum from the symbol's enum values: each value is
// preserved verbatim, and each member name goes through the same PascalCase
// conversion as a field accessor name.
type EnumUserType struct {
	base
	Values []symbol.EnumValue
}

// NewEnumUserType constructs an EnumUserType for sym.
func NewEnumUserType(sym *symbol.Symbol, parsed *nameparser.ParsedName, namespace string, values []symbol.EnumValue) *EnumUserType {
	e := &EnumUserType{base: newBase(KindEnum, sym, namespace), Values: values}
	e.constructorName = deriveConstructorName(parsed, 0)
	return e
}

func (e *EnumUserType) WriteCode(w emit.Writer, r Resolver, flags config.GenerationFlags) error {
	w.WriteLine("public enum %s", e.ConstructorName())
	w.WriteLine("{")
	w.Indent()
	for _, v := range e.Values {
		w.WriteLine("%s = %d,", accessorName(v.Name), v.Value)
	}
	w.Dedent()
	w.WriteLine("}")
	return nil
}
