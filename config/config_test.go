package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewrap/typewrap/config"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeTemp(t, `
modules:
  - path: m1.dll
    name: M1
    namespace: M1
commonTypesNamespace: Common
types:
  - "Foo*"
`)
	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Common", c.CommonTypesNamespace)
	assert.Equal(t, "m1.dll", c.Modules[0].Path)
	assert.Equal(t, []string{"Foo*"}, c.Types)
}

func TestValidateRejectsNoModules(t *testing.T) {
	c := &config.Configuration{CommonTypesNamespace: "Common"}
	err := c.Validate()
	require.Error(t, err)
}

func TestValidateRejectsMissingNamespace(t *testing.T) {
	c := &config.Configuration{Modules: []config.ModuleDescriptor{{Path: "a", Name: "A"}}}
	err := c.Validate()
	require.Error(t, err)
}

func TestValidateRejectsReferencedAssembliesWithoutName(t *testing.T) {
	c := &config.Configuration{
		Modules:              []config.ModuleDescriptor{{Path: "a", Name: "A"}},
		CommonTypesNamespace: "Common",
		ReferencedAssemblies: []string{"System.dll"},
	}
	err := c.Validate()
	require.Error(t, err)
}

func TestGenerationFlagsHas(t *testing.T) {
	f := config.FlagSingleFileExport | config.FlagCompressedOutput
	assert.True(t, f.Has(config.FlagSingleFileExport))
	assert.True(t, f.Has(config.FlagCompressedOutput))
	assert.False(t, config.FlagNone.Has(config.FlagSingleFileExport))
}
