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

// Package scriptprecompile is the small utility the surrounding
// script-execution collaborator uses before handing a user script to the
// downstream Compiler: it recursively expands `import "path";` statements,
// hoists `using name;` declarations, and wraps the flattened result in one
// class so the script can be compiled as a single unit.
package scriptprecompile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	defaultNamespace    = "Typewrap.Scripts"
	defaultWrapperClass = "ScriptWrapper"
	defaultEntryPoint   = "Run"
)

// maskPattern finds every comment and string literal span so import/using
// extraction never matches text that only looks like a directive inside a
// comment or a quoted path. It also matches a whole import directive, so
// that blank can leave the directive's own quoted path intact.
var maskPattern = regexp.MustCompile(`(?s)/\*.*?\*/|//[^\n]*|import\s+"[^"]+"\s*;|@"(?:""|[^"])*"|"(?:\\.|[^"\\])*"`)

var importPattern = regexp.MustCompile(`import\s+"([^"]+)"\s*;`)
var usingPattern = regexp.MustCompile(`using\s+([^;]+);`)

// importedBody is one expanded import, in first-need (depth-first) order.
type importedBody struct {
	path string
	body string
}

// Unit is the result of precompiling one script entry point.
type Unit struct {
	Namespace        string
	WrapperClassName string
	EntryPointName   string

	// Usings is every hoisted using declaration, deduplicated and sorted.
	Usings []string
	// Imports is the canonical path of every expanded import, in
	// depth-first expansion order.
	Imports []string

	importBodies []importedBody
	mainPath     string
	mainBody     string
}

// Precompile expands startPath's import graph against searchFolders and
// returns the synthesized Unit. Import paths are resolved first relative to
// the importing file's own directory, then against each search folder in
// order; a path already expanded (by canonical, absolute form) is not
// expanded again.
func Precompile(startPath string, searchFolders []string) (*Unit, error) {
	mainAbs, err := filepath.Abs(startPath)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving start path %q", startPath)
	}
	mainSrc, err := os.ReadFile(mainAbs)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", startPath)
	}

	u := &Unit{
		Namespace:        defaultNamespace,
		WrapperClassName: defaultWrapperClass,
		EntryPointName:   defaultEntryPoint,
		mainPath:         mainAbs,
	}

	seen := map[string]bool{mainAbs: true}
	usings := map[string]bool{}

	if err := u.expand(string(mainSrc), filepath.Dir(mainAbs), searchFolders, seen, usings); err != nil {
		return nil, err
	}
	u.mainBody = stripDirectiveLines(string(mainSrc))
	u.Usings = sortedKeys(usings)
	return u, nil
}

// expand masks src, hoists its using declarations into usings, and
// recursively expands every import it references before recording its own
// flattened body — dependencies precede dependents in Imports/importBodies.
func (u *Unit) expand(src, baseDir string, searchFolders []string, seen map[string]bool, usings map[string]bool) error {
	masked := maskPattern.ReplaceAllStringFunc(src, blank)

	for _, m := range usingPattern.FindAllStringSubmatch(masked, -1) {
		usings[strings.TrimSpace(m[1])] = true
	}

	for _, m := range importPattern.FindAllStringSubmatch(masked, -1) {
		resolved, err := resolveImport(strings.TrimSpace(m[1]), baseDir, searchFolders)
		if err != nil {
			return err
		}
		if seen[resolved] {
			continue
		}
		seen[resolved] = true

		body, err := os.ReadFile(resolved)
		if err != nil {
			return errors.Wrapf(err, "reading import %q", m[1])
		}
		if err := u.expand(string(body), filepath.Dir(resolved), searchFolders, seen, usings); err != nil {
			return err
		}

		u.Imports = append(u.Imports, resolved)
		u.importBodies = append(u.importBodies, importedBody{path: resolved, body: stripDirectiveLines(string(body))})
	}
	return nil
}

// blank replaces a masked comment/string span with spaces, preserving any
// embedded newlines so line numbers in the masked copy still line up with
// the original. An import directive matched by maskPattern is returned
// unchanged.
func blank(match string) string {
	if strings.HasPrefix(match, "import") {
		return match
	}
	var b strings.Builder
	for _, r := range match {
		if r == '\n' {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// resolveImport tries baseDir first, then each search folder in order,
// returning the first candidate that exists, canonicalized.
func resolveImport(importPath, baseDir string, searchFolders []string) (string, error) {
	candidates := make([]string, 0, len(searchFolders)+1)
	candidates = append(candidates, filepath.Join(baseDir, importPath))
	for _, f := range searchFolders {
		candidates = append(candidates, filepath.Join(f, importPath))
	}
	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err == nil {
			return filepath.Clean(abs), nil
		}
	}
	return "", errors.Errorf("import %q not found relative to %q or in search folders %v", importPath, baseDir, searchFolders)
}

// stripDirectiveLines blanks out any line that is (per the masked copy) an
// import or using declaration, preserving line count so a #line directive
// anchored at the top of this body still maps later lines correctly.
func stripDirectiveLines(src string) string {
	masked := maskPattern.ReplaceAllStringFunc(src, blank)
	lines := strings.Split(src, "\n")
	maskedLines := strings.Split(masked, "\n")
	for i, ml := range maskedLines {
		if importPattern.MatchString(ml) || usingPattern.MatchString(ml) {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Render produces the final synthesized source: the fixed namespace, hoisted
// usings, the flattened import bodies as class members, and the entry-point
// method whose body is the original script text — each chunk preceded by a
// #line directive mapping back to its source file.
func (u *Unit) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "namespace %s\n{\n", u.Namespace)
	for _, using := range u.Usings {
		fmt.Fprintf(&b, "    using %s;\n", using)
	}
	if len(u.Usings) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "    public static class %s\n    {\n", u.WrapperClassName)

	for _, ib := range u.importBodies {
		fmt.Fprintf(&b, "#line 1 %q\n", ib.path)
		b.WriteString(ib.body)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "        public static void %s()\n        {\n", u.EntryPointName)
	fmt.Fprintf(&b, "#line 1 %q\n", u.mainPath)
	b.WriteString(u.mainBody)
	b.WriteString("\n        }\n    }\n}\n")

	return b.String()
}
