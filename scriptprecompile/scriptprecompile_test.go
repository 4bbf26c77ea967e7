package scriptprecompile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewrap/typewrap/scriptprecompile"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPrecompileExpandsImportsAndHoistsUsings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.cs", "using System.Text;\n\nvoid Helper() {\n    // a helper\n}\n")
	main := writeFile(t, dir, "main.cs", "import \"helper.cs\";\nusing System;\n\nvoid Main() {\n    Helper();\n}\n")

	u, err := scriptprecompile.Precompile(main, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"System", "System.Text"}, u.Usings)
	require.Len(t, u.Imports, 1)
	assert.Contains(t, u.Imports[0], "helper.cs")

	rendered := u.Render()
	assert.Contains(t, rendered, "namespace Typewrap.Scripts")
	assert.Contains(t, rendered, "using System;")
	assert.Contains(t, rendered, "using System.Text;")
	assert.Contains(t, rendered, "void Helper()")
	assert.Contains(t, rendered, "void Main()")
	assert.Contains(t, rendered, "#line 1")
	assert.NotContains(t, rendered, "import \"helper.cs\";")
}

func TestPrecompileDedupsRepeatedImportByCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.cs", "void Shared() {}\n")
	writeFile(t, dir, "a.cs", "import \"shared.cs\";\nvoid A() { Shared(); }\n")
	main := writeFile(t, dir, "main.cs", "import \"a.cs\";\nimport \"shared.cs\";\nvoid Main() { A(); }\n")

	u, err := scriptprecompile.Precompile(main, nil)
	require.NoError(t, err)

	count := 0
	for _, imp := range u.Imports {
		if filepath.Base(imp) == "shared.cs" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPrecompileResolvesAgainstSearchFolders(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "lib")
	require.NoError(t, os.Mkdir(libDir, 0o755))
	writeFile(t, libDir, "util.cs", "void Util() {}\n")
	main := writeFile(t, dir, "main.cs", "import \"util.cs\";\nvoid Main() { Util(); }\n")

	u, err := scriptprecompile.Precompile(main, []string{libDir})
	require.NoError(t, err)
	require.Len(t, u.Imports, 1)
	assert.Contains(t, u.Imports[0], "util.cs")
}

func TestPrecompileMasksCommentsAndStringsBeforeExtraction(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.cs", "// import \"nope.cs\";\nstring s = \"import \\\"x\\\";\";\nusing System;\nvoid Main() {}\n")

	u, err := scriptprecompile.Precompile(main, nil)
	require.NoError(t, err)
	assert.Empty(t, u.Imports)
	assert.Equal(t, []string{"System"}, u.Usings)
}

func TestPrecompileMissingImportErrors(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.cs", "import \"missing.cs\";\nvoid Main() {}\n")

	_, err := scriptprecompile.Precompile(main, nil)
	assert.Error(t, err)
}
