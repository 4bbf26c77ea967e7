package factory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/factory"
	"github.com/typewrap/typewrap/symbol"
	"github.com/typewrap/typewrap/symbol/fake"
	"github.com/typewrap/typewrap/typerr"
	"github.com/typewrap/typewrap/usertype"
)

func TestAddSymbolBuildsPhysical(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	raw := fake.Symbol("Foo", 8, symbol.TagUDT).WithFields(symbol.Field{Name: "x", TypeName: "int", Offset: 0})
	sym := symbol.New(m, raw)

	f := factory.New(symbol.NewGlobalCache(), &config.Configuration{}, typerr.NewChannel())
	ut, err := f.AddSymbol(sym, "Common", config.FlagNone)
	require.NoError(t, err)

	phys, ok := ut.(*usertype.PhysicalUserType)
	require.True(t, ok)
	assert.Equal(t, "Foo", phys.ConstructorName())
	require.Len(t, phys.Fields, 1)
	assert.Equal(t, "int", phys.Fields[0].Type.RawTypeName)

	got, ok := f.GetUserType(sym)
	assert.True(t, ok)
	assert.Same(t, ut, got)
}

func TestAddSymbolMarksAnonymousNestedUDTField(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	raw := fake.Symbol("Foo", 16, symbol.TagUDT).WithFields(
		symbol.Field{Name: "", TypeName: "Foo::<anon-tag>", Offset: 0, Tag: symbol.TagUDT},
		symbol.Field{Name: "x", TypeName: "int", Offset: 8},
	)
	sym := symbol.New(m, raw)

	f := factory.New(symbol.NewGlobalCache(), &config.Configuration{}, typerr.NewChannel())
	ut, err := f.AddSymbol(sym, "Common", config.FlagNone)
	require.NoError(t, err)

	phys := ut.(*usertype.PhysicalUserType)
	require.Len(t, phys.Fields, 2)
	assert.True(t, phys.Fields[0].Anonymous)
	assert.False(t, phys.Fields[1].Anonymous)
}

func TestAddSymbolBuildsEnum(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	raw := fake.Symbol("Color", 4, symbol.TagEnum).WithEnumValues(symbol.EnumValue{Name: "Red", Value: 0})
	sym := symbol.New(m, raw)

	f := factory.New(symbol.NewGlobalCache(), &config.Configuration{}, typerr.NewChannel())
	ut, err := f.AddSymbol(sym, "Common", config.FlagNone)
	require.NoError(t, err)
	_, ok := ut.(*usertype.EnumUserType)
	assert.True(t, ok)
}

func TestTransformAppliesFirstMatchingRewrite(t *testing.T) {
	cfg := &config.Configuration{Transformations: []config.Transformation{
		{Pattern: `^std::`, Replacement: "Std::"},
	}}
	f := factory.New(symbol.NewGlobalCache(), cfg, typerr.NewChannel())
	assert.Equal(t, "Std::vector", f.Transform("std::vector"))
	assert.Equal(t, "Foo", f.Transform("Foo"))
}

func TestAddSymbolsBuildsTemplateFamily(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	intSpec := symbol.New(m, fake.Symbol("Vec<int>", 4, symbol.TagUDT).WithFields(symbol.Field{Name: "value", TypeName: "int", Offset: 0}))
	floatSpec := symbol.New(m, fake.Symbol("Vec<float>", 4, symbol.TagUDT).WithFields(symbol.Field{Name: "value", TypeName: "float", Offset: 0}))

	f := factory.New(symbol.NewGlobalCache(), &config.Configuration{}, typerr.NewChannel())
	out, err := f.AddSymbols(context.Background(), []*symbol.Symbol{intSpec, floatSpec}, "Common", config.FlagNone)
	require.NoError(t, err)
	require.Len(t, out, 3) // primary + 2 specializations

	primary, ok := out[0].(*usertype.TemplateUserType)
	require.True(t, ok)
	assert.Len(t, primary.SpecializedTypes, 2)
}

func TestLinkFieldsResolvesAgainstFactory(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	barSym := symbol.New(m, fake.Symbol("Bar", 4, symbol.TagUDT))
	fooSym := symbol.New(m, fake.Symbol("Foo", 8, symbol.TagUDT).WithFields(symbol.Field{Name: "b", TypeName: "Bar", Offset: 0}))

	f := factory.New(symbol.NewGlobalCache(), &config.Configuration{}, typerr.NewChannel())
	_, err := f.AddSymbol(barSym, "Common", config.FlagNone)
	require.NoError(t, err)
	fooUT, err := f.AddSymbol(fooSym, "Common", config.FlagNone)
	require.NoError(t, err)

	factory.LinkFields(fooUT, f, "Common")

	phys := fooUT.(*usertype.PhysicalUserType)
	require.NotNil(t, phys.Fields[0].Type.Resolved)
	assert.Equal(t, "Bar", phys.Fields[0].Type.Resolved.ConstructorName())
}

func TestProcessTypesNestsAndWrapsNamespace(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	outerSym := symbol.New(m, fake.Symbol("Outer", 4, symbol.TagUDT))
	innerSym := symbol.New(m, fake.Symbol("Outer::Inner", 4, symbol.TagUDT))

	f := factory.New(symbol.NewGlobalCache(), &config.Configuration{}, typerr.NewChannel())
	outerUT, err := f.AddSymbol(outerSym, "Common", config.FlagNone)
	require.NoError(t, err)
	innerUT, err := f.AddSymbol(innerSym, "Common", config.FlagNone)
	require.NoError(t, err)

	namespaces := f.ProcessTypes([]usertype.UserType{outerUT, innerUT})
	require.Len(t, namespaces, 1)
	assert.Equal(t, "Common", namespaces[0].ConstructorName())
	assert.Equal(t, []usertype.UserType{outerUT}, namespaces[0].Children)
	assert.Same(t, outerUT, innerUT.DeclaredInType())
	assert.Equal(t, "Common.Outer.Inner", innerUT.FullClassName())
}

func TestTemplateUserTypeFactoryRebindsPlaceholder(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	vecInt := symbol.New(m, fake.Symbol("Vec<int>", 4, symbol.TagUDT).WithFields(symbol.Field{Name: "value", TypeName: "int", Offset: 0}))

	f := factory.New(symbol.NewGlobalCache(), &config.Configuration{}, typerr.NewChannel())
	out, err := f.AddSymbols(context.Background(), []*symbol.Symbol{vecInt}, "Common", config.FlagNone)
	require.NoError(t, err)
	spec := out[1].(*usertype.TemplateUserType)

	decorated := factory.NewTemplateUserTypeFactory(f, spec)
	factory.LinkFields(spec, decorated, "Common")

	assert.Equal(t, "T1", spec.Fields[0].Type.Placeholder)
	assert.Nil(t, spec.Fields[0].Type.Resolved)
}
