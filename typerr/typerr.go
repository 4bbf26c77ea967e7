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

// Package typerr holds the distinguishable error kinds of the pipeline, as
// described in the error handling design: each is a typed error so callers
// can branch on kind with errors.As instead of string matching, while the
// surrounding call sites still wrap with github.com/pkg/errors for context
// and stack traces.
package typerr

import "fmt"

// Kind identifies which of the error handling design's categories an error
// belongs to.
type Kind string

const (
	KindConfiguration  Kind = "ConfigurationError"
	KindModuleLoad     Kind = "ModuleLoadError"
	KindSymbolNotFound Kind = "SymbolNotFound"
	KindNameSyntax     Kind = "NameSyntaxError"
	KindTemplateLink   Kind = "TemplateLinkError"
	KindEmit           Kind = "EmitError"
	KindCompile        Kind = "CompileError"
)

// Error is a typed error carrying its Kind plus whatever structured context
// the phase that raised it had available.
type Error struct {
	Kind    Kind
	Phase   string
	Module  string
	Symbol  string
	Message string
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Phase != "" {
		s = fmt.Sprintf("%s [phase=%s", s, e.Phase)
		if e.Module != "" {
			s += fmt.Sprintf(" module=%s", e.Module)
		}
		if e.Symbol != "" {
			s += fmt.Sprintf(" symbol=%s", e.Symbol)
		}
		s += "]"
	}
	return s
}

// New constructs an *Error of the given kind.
func New(kind Kind, phase, module, symbol, message string) *Error {
	return &Error{Kind: kind, Phase: phase, Module: module, Symbol: symbol, Message: message}
}

// Fatal reports whether errors of this kind abort the owning phase/pipeline,
// per the error handling design's policy table.
func (k Kind) Fatal() bool {
	switch k {
	case KindConfiguration, KindModuleLoad, KindEmit:
		return true
	default:
		return false
	}
}
