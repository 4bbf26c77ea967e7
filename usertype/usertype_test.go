package usertype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewrap/typewrap/config"
	"github.com/typewrap/typewrap/emit"
	"github.com/typewrap/typewrap/nameparser"
	"github.com/typewrap/typewrap/symbol"
	"github.com/typewrap/typewrap/symbol/fake"
	"github.com/typewrap/typewrap/usertype"
)

type nopResolver struct{}

func (nopResolver) GetUserType(*symbol.Symbol) (usertype.UserType, bool)          { return nil, false }
func (nopResolver) TryGetUserType(string, string) (usertype.UserType, bool)       { return nil, false }
func (nopResolver) Transform(name string) string                                 { return name }

func mustParse(t *testing.T, s string) *nameparser.ParsedName {
	t.Helper()
	p, err := nameparser.Parse(s)
	require.NoError(t, err)
	return p
}

func TestPhysicalUserTypeConstructorName(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	sym := symbol.New(m, fake.Symbol("Foo::Bar", 8, symbol.TagUDT))
	p := usertype.NewPhysicalUserType(sym, mustParse(t, "Foo::Bar"), "Common")
	assert.Equal(t, "Bar", p.ConstructorName())
	assert.Equal(t, "Common.Bar", p.FullClassName())
}

func TestFullClassNameNestsUnderParent(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	outer := usertype.NewPhysicalUserType(symbol.New(m, fake.Symbol("Outer", 4, symbol.TagUDT)), mustParse(t, "Outer"), "Common")
	inner := usertype.NewPhysicalUserType(symbol.New(m, fake.Symbol("Outer::Inner", 4, symbol.TagUDT)), mustParse(t, "Outer::Inner"), "Common")
	inner.SetDeclaredInType(outer)
	assert.Equal(t, "Common.Outer.Inner", inner.FullClassName())
}

func TestPhysicalWriteCodeEmitsFieldAccessor(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	sym := symbol.New(m, fake.Symbol("Foo", 8, symbol.TagUDT))
	p := usertype.NewPhysicalUserType(sym, mustParse(t, "Foo"), "Common")
	p.Fields = []usertype.Field{{Name: "x", Offset: 0, Type: usertype.Ref{RawTypeName: "int"}}}

	w := emit.NewIndentedWriter("    ")
	require.NoError(t, p.WriteCode(w, nopResolver{}, config.FlagNone))
	out := w.String()
	assert.Contains(t, out, "public sealed class Foo")
	assert.Contains(t, out, "public int X => reader.ReadInt32(Address + 0x0);")
}

func TestPhysicalWriteCodeInlinesAnonymousField(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	sym := symbol.New(m, fake.Symbol("Foo", 8, symbol.TagUDT))
	p := usertype.NewPhysicalUserType(sym, mustParse(t, "Foo"), "Common")
	p.Fields = []usertype.Field{
		{Name: "", Offset: 0, Type: usertype.Ref{RawTypeName: "Foo::<anon-tag>"}, Anonymous: true},
		{Name: "x", Offset: 8, Type: usertype.Ref{RawTypeName: "int"}},
	}

	w := emit.NewIndentedWriter("    ")
	require.NoError(t, p.WriteCode(w, nopResolver{}, config.FlagNone))
	out := w.String()
	assert.Contains(t, out, "anonymous nested UDT at 0x0 inlined")
	assert.Contains(t, out, "public int X => reader.ReadInt32(Address + 0x8);")
	assert.NotContains(t, out, "public ulong Value")
}

func TestAddUsingForTypeParsesNamespaceFromUnresolvedRawName(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	sym := symbol.New(m, fake.Symbol("Foo", 8, symbol.TagUDT))
	p := usertype.NewPhysicalUserType(sym, mustParse(t, "Foo"), "Common")
	p.Fields = []usertype.Field{{Name: "b", Offset: 0, Type: usertype.Ref{RawTypeName: "Bar::Baz"}}}

	w := emit.NewIndentedWriter("    ")
	require.NoError(t, p.WriteCode(w, nopResolver{}, config.FlagNone))
	assert.Contains(t, p.Usings(), "Bar")
}

func TestEnumUserTypeWriteCode(t *testing.T) {
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	sym := symbol.New(m, fake.Symbol("Color", 4, symbol.TagEnum))
	e := usertype.NewEnumUserType(sym, mustParse(t, "Color"), "Common", []symbol.EnumValue{{Name: "Red", Value: 0}, {Name: "Blue", Value: 1}})

	w := emit.NewIndentedWriter("    ")
	require.NoError(t, e.WriteCode(w, nopResolver{}, config.FlagNone))
	out := w.String()
	assert.Contains(t, out, "public enum Color")
	assert.Contains(t, out, "Red = 0,")
	assert.Contains(t, out, "Blue = 1,")
}

func TestTemplatePlaceholderFor(t *testing.T) {
	primary := usertype.NewTemplatePrimary(mustParse(t, "Vec<int>"), "Common", 1)
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	spec := usertype.NewTemplateSpecialization(symbol.New(m, fake.Symbol("Vec<int>", 4, symbol.TagUDT)), mustParse(t, "Vec<int>"), "Common", primary)

	ph, ok := spec.PlaceholderFor("int")
	require.True(t, ok)
	assert.Equal(t, "T1", ph)

	_, ok = spec.PlaceholderFor("float")
	assert.False(t, ok)

	assert.Len(t, primary.SpecializedTypes, 1)
	assert.Same(t, spec, primary.SpecializedTypes[0])
}

func TestTemplateArgumentAliasMatching(t *testing.T) {
	primary := usertype.NewTemplatePrimary(mustParse(t, "Box<wchar_t>"), "Common", 1)
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	spec := usertype.NewTemplateSpecialization(symbol.New(m, fake.Symbol("Box<wchar_t>", 2, symbol.TagUDT)), mustParse(t, "Box<wchar_t>"), "Common", primary)

	ph, ok := spec.PlaceholderFor("unsigned short")
	require.True(t, ok)
	assert.Equal(t, "T1", ph)
}

func TestTemplateWriteCodeGenericWrapper(t *testing.T) {
	primary := usertype.NewTemplatePrimary(mustParse(t, "Vec<int>"), "Common", 1)
	m := &symbol.Module{ID: 0, Name: "M1", Namespace: "M1"}
	spec := usertype.NewTemplateSpecialization(symbol.New(m, fake.Symbol("Vec<int>", 4, symbol.TagUDT)), mustParse(t, "Vec<int>"), "Common", primary)
	spec.Fields = []usertype.Field{{Name: "value", Offset: 0, Type: usertype.Ref{RawTypeName: "int", Placeholder: "T1"}}}

	w := emit.NewIndentedWriter("    ")
	require.NoError(t, primary.WriteCode(w, nopResolver{}, config.FlagNone))
	out := w.String()
	assert.Contains(t, out, "public sealed class Vec_1<T1>")
	assert.Contains(t, out, "public T1 Value => new T1(Address + 0x0);")
	assert.Contains(t, out, "// specializations:")
	assert.Contains(t, out, "//   Vec_1<int>")
}

func TestNamespaceUserTypeSkipsEmpty(t *testing.T) {
	n := usertype.NewNamespaceUserType("Common", "Common")
	w := emit.NewIndentedWriter("    ")
	require.NoError(t, n.WriteCode(w, nopResolver{}, config.FlagNone))
	assert.Empty(t, w.String())
}
