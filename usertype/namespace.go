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
)

// NamespaceUserType is a synthetic container synthesized during
// post-processing (P8) for each namespace path that has at least one
// descendant UserType; it never owns a Symbol.
type NamespaceUserType struct {
	base
	Children []UserType
}

// NewNamespaceUserType returns an empty namespace node named name, nested
// under the dotted path fullPath (which becomes its FullClassName).
func NewNamespaceUserType(name, fullPath string) *NamespaceUserType {
	n := &NamespaceUserType{base: newBase(KindNamespace, nil, "")}
	n.constructorName = name
	n.fullClassName = fullPath
	return n
}

// AddChild attaches child to this namespace and sets its DeclaredInType.
func (n *NamespaceUserType) AddChild(child UserType) {
	n.Children = append(n.Children, child)
	child.SetDeclaredInType(n)
}

// WriteCode is only exercised in single-file emission: it recurses into
// every child. File-per-type emission writes each child to its own file
// directly and never calls this.
func (n *NamespaceUserType) WriteCode(w emit.Writer, r Resolver, flags config.GenerationFlags) error {
	if len(n.Children) == 0 {
		return nil
	}
	w.WriteLine("namespace %s", n.FullClassName())
	w.WriteLine("{")
	w.Indent()
	for _, c := range n.Children {
		if err := c.WriteCode(w, r, flags); err != nil {
			return err
		}
	}
	w.Dedent()
	w.WriteLine("}")
	return nil
}
