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

// Package nameparser parses mangled-style qualified C++ names of the form
// A::B<X,Y<Z>>::C into a tree of nested scopes and template argument lists.
//
// It is deliberately a small recursive-descent scanner rather than a full
// grammar: the only structure that matters to the rest of the pipeline is
// scope nesting via "::" and template argument lists balanced by "<"/">",
// with "," significant only at the argument list's own top level.
package nameparser

import (
	"strings"

	"github.com/pkg/errors"
)

// NameSyntaxError is returned when s cannot be parsed: mismatched angle
// brackets, or a scope/argument with an empty bare name.
type NameSyntaxError struct {
	Name    string
	Message string
}

func (e *NameSyntaxError) Error() string {
	return "name syntax error in \"" + e.Name + "\": " + e.Message
}

// Scope is one "::"-delimited component of a qualified name.
type Scope struct {
	BareName  string
	Arguments []*ParsedName // empty for non-template scopes
}

// IsTemplate reports whether this scope carries a template argument list
// (possibly empty, e.g. "Foo<>").
func (s Scope) IsTemplate() bool { return s.Arguments != nil }

// ParsedName is the result of parsing a qualified name.
type ParsedName struct {
	Scopes     []Scope
	IsTemplate bool // true iff the last scope carries a template argument list
}

// Parse parses a mangled-style qualified name into nested scopes and
// template argument lists.
func Parse(s string) (*ParsedName, error) {
	scopeStrs, err := splitTopLevel(s, "::")
	if err != nil {
		return nil, &NameSyntaxError{Name: s, Message: err.Error()}
	}
	if len(scopeStrs) == 0 {
		return nil, &NameSyntaxError{Name: s, Message: "empty name"}
	}
	scopes := make([]Scope, len(scopeStrs))
	for i, ss := range scopeStrs {
		scope, err := parseScope(s, ss)
		if err != nil {
			return nil, err
		}
		scopes[i] = scope
	}
	return &ParsedName{
		Scopes:     scopes,
		IsTemplate: scopes[len(scopes)-1].IsTemplate(),
	}, nil
}

func parseScope(full, scopeStr string) (Scope, error) {
	open := indexTopLevelOpen(scopeStr)
	if open < 0 {
		if scopeStr == "" {
			return Scope{}, &NameSyntaxError{Name: full, Message: "empty scope name"}
		}
		return Scope{BareName: scopeStr}, nil
	}
	bare := scopeStr[:open]
	if bare == "" {
		return Scope{}, &NameSyntaxError{Name: full, Message: "empty bare name before '<'"}
	}
	if scopeStr[len(scopeStr)-1] != '>' {
		return Scope{}, &NameSyntaxError{Name: full, Message: "missing closing '>' for " + bare}
	}
	inner := scopeStr[open+1 : len(scopeStr)-1]
	argStrs, err := splitTopLevel(inner, ",")
	if err != nil {
		return Scope{}, &NameSyntaxError{Name: full, Message: err.Error()}
	}
	args := make([]*ParsedName, 0, len(argStrs))
	for _, as := range argStrs {
		as = strings.TrimSpace(as)
		if as == "" {
			continue // "Foo<>" — empty argument list
		}
		arg, err := Parse(as)
		if err != nil {
			return Scope{}, err
		}
		args = append(args, arg)
	}
	return Scope{BareName: bare, Arguments: args}, nil
}

// indexTopLevelOpen returns the index of the first '<' that begins the
// template argument list for this scope component, or -1 if there is none.
// Because scope splitting already happened on "::", the first '<' at depth 0
// is always the start of this scope's own argument list.
func indexTopLevelOpen(s string) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			if depth == 0 {
				return i
			}
			depth++
		case '>':
			depth--
		}
	}
	return -1
}

// splitTopLevel splits s on sep, but only where angle-bracket depth is zero,
// so "Foo<A,B>::Bar" splits on "::" into ["Foo<A,B>", "Bar"], not inside the
// argument list.
func splitTopLevel(s string, sep string) ([]string, error) {
	var out []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, errors.Errorf("mismatched '>' at offset %d", i)
			}
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				out = append(out, s[last:i])
				i += len(sep) - 1
				last = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.Errorf("unbalanced '<' in %q", s)
	}
	out = append(out, s[last:])
	return out, nil
}

// TemplateFamilyName returns the name with every scope's argument list
// replaced by the placeholder "<>", used as the template-family lookup key.
func TemplateFamilyName(s string) (string, error) {
	p, err := Parse(s)
	if err != nil {
		return "", err
	}
	return p.FamilyName(), nil
}

// FamilyName joins each scope's bare name, appending "<>" for scopes that
// carry a template argument list.
func (p *ParsedName) FamilyName() string {
	parts := make([]string, len(p.Scopes))
	for i, sc := range p.Scopes {
		if sc.IsTemplate() {
			parts[i] = sc.BareName + "<>"
		} else {
			parts[i] = sc.BareName
		}
	}
	return strings.Join(parts, "::")
}

// TemplateArguments returns the template argument list of the last scope, or
// nil if the name does not name a template specialization.
func (p *ParsedName) TemplateArguments() []*ParsedName {
	if len(p.Scopes) == 0 {
		return nil
	}
	return p.Scopes[len(p.Scopes)-1].Arguments
}

// Namespaces returns the bare names of every scope but the last — the
// enclosing namespace/class path of the name.
func (p *ParsedName) Namespaces() []string {
	if len(p.Scopes) <= 1 {
		return nil
	}
	out := make([]string, len(p.Scopes)-1)
	for i := 0; i < len(p.Scopes)-1; i++ {
		out[i] = p.Scopes[i].BareName
	}
	return out
}

// Render reconstructs the canonical textual form of p, used by the
// round-trip property: TemplateFamilyName(Parse(s).Render()) is idempotent.
func (p *ParsedName) Render() string {
	parts := make([]string, len(p.Scopes))
	for i, sc := range p.Scopes {
		if sc.IsTemplate() {
			args := make([]string, len(sc.Arguments))
			for j, a := range sc.Arguments {
				args[j] = a.Render()
			}
			parts[i] = sc.BareName + "<" + strings.Join(args, ",") + ">"
		} else {
			parts[i] = sc.BareName
		}
	}
	return strings.Join(parts, "::")
}

// BareName returns the bare name (template arguments stripped) of the final
// scope — the symbol's own identifier, not its enclosing namespace path.
func (p *ParsedName) BareName() string {
	if len(p.Scopes) == 0 {
		return ""
	}
	return p.Scopes[len(p.Scopes)-1].BareName
}
