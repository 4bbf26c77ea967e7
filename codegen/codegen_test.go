package codegen_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewrap/typewrap/codegen"
	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/pipeline"
	"github.com/typewrap/typewrap/symbol"
	"github.com/typewrap/typewrap/symbol/fake"
	"github.com/typewrap/typewrap/usertype"
)

type nopResolver struct{}

func (nopResolver) GetUserType(*symbol.Symbol) (usertype.UserType, bool)    { return nil, false }
func (nopResolver) TryGetUserType(string, string) (usertype.UserType, bool) { return nil, false }
func (nopResolver) Transform(name string) string                           { return name }

func run(t *testing.T) (*pipeline.Result, *config.Configuration) {
	t.Helper()
	provider := fake.NewProvider()
	provider.Modules["m1"] = &fake.Module{NameV: "M1", Types: []*fake.RawSymbol{
		fake.Symbol("Foo", 8, symbol.TagUDT).WithFields(symbol.Field{Name: "x", TypeName: "int", Offset: 0}),
		fake.Symbol("Color", 4, symbol.TagEnum).WithEnumValues(symbol.EnumValue{Name: "Red", Value: 0}),
	}}
	cfg := &config.Configuration{
		Modules:              []config.ModuleDescriptor{{Path: "m1", Name: "M1", Namespace: "M1"}},
		Types:                []string{"*"},
		CommonTypesNamespace: "Common",
	}
	r, err := pipeline.New(cfg, provider).Run(context.Background())
	require.NoError(t, err)
	return r, cfg
}

func TestEmitPerFileWritesOneFilePerType(t *testing.T) {
	r, cfg := run(t)
	e := codegen.New(cfg, nopResolver{})

	files, err := e.Emit(context.Background(), r.Namespaces, r.TopLevel, r.Diagnostics)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var foundFoo, foundColor bool
	for _, f := range files {
		assert.True(t, strings.HasSuffix(f.Path, ".g.cs"))
		if strings.HasPrefix(f.Path, "Foo") {
			foundFoo = true
			assert.Contains(t, f.Content, "public sealed class Foo")
		}
		if strings.HasPrefix(f.Path, "Color") {
			foundColor = true
			assert.Contains(t, f.Content, "public enum Color")
		}
	}
	assert.True(t, foundFoo)
	assert.True(t, foundColor)
}

func TestEmitSingleFileConcatenates(t *testing.T) {
	r, cfg := run(t)
	cfg.GenerationFlags = config.FlagSingleFileExport
	e := codegen.New(cfg, nopResolver{})

	files, err := e.Emit(context.Background(), r.Namespaces, r.TopLevel, r.Diagnostics)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0].Content, "public sealed class Foo")
	assert.Contains(t, files[0].Content, "public enum Color")
	assert.Contains(t, files[0].Content, "namespace Common")
}
