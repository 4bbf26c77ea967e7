package nameparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewrap/typewrap/nameparser"
)

func TestParseSimpleScopes(t *testing.T) {
	p, err := nameparser.Parse("A::B::C")
	require.NoError(t, err)
	require.Len(t, p.Scopes, 3)
	assert.Equal(t, "A", p.Scopes[0].BareName)
	assert.Equal(t, "B", p.Scopes[1].BareName)
	assert.Equal(t, "C", p.Scopes[2].BareName)
	assert.False(t, p.IsTemplate)
	assert.Equal(t, []string{"A", "B"}, p.Namespaces())
	assert.Equal(t, "C", p.BareName())
}

func TestParseNestedTemplate(t *testing.T) {
	p, err := nameparser.Parse("A::B<X,Y<Z>>::C")
	require.NoError(t, err)
	require.Len(t, p.Scopes, 3)
	assert.True(t, p.Scopes[1].IsTemplate())
	require.Len(t, p.Scopes[1].Arguments, 2)
	assert.Equal(t, "X", p.Scopes[1].Arguments[0].BareName())
	assert.Equal(t, "Y", p.Scopes[1].Arguments[1].BareName())
	require.Len(t, p.Scopes[1].Arguments[1].TemplateArguments(), 1)
	assert.Equal(t, "Z", p.Scopes[1].Arguments[1].TemplateArguments()[0].BareName())
	assert.False(t, p.IsTemplate) // last scope "C" is not a template
}

func TestFamilyName(t *testing.T) {
	name, err := nameparser.TemplateFamilyName("Foo::Vec<int>")
	require.NoError(t, err)
	assert.Equal(t, "Foo::Vec<>", name)
}

func TestTemplateArguments(t *testing.T) {
	p, err := nameparser.Parse("Vec<int>")
	require.NoError(t, err)
	assert.True(t, p.IsTemplate)
	args := p.TemplateArguments()
	require.Len(t, args, 1)
	assert.Equal(t, "int", args[0].BareName())
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{
		"A::B::C",
		"Vec<int>",
		"A::B<X,Y<Z>>::C",
		"std::map<std::basic_string<char>,int>",
	} {
		p, err := nameparser.Parse(s)
		require.NoError(t, err)
		rendered := p.Render()
		again, err := nameparser.Parse(rendered)
		require.NoError(t, err)
		assert.Equal(t, p.FamilyName(), again.FamilyName())
	}
}

func TestMismatchedBracketsIsSyntaxError(t *testing.T) {
	_, err := nameparser.Parse("Foo<Bar")
	require.Error(t, err)
	var nse *nameparser.NameSyntaxError
	require.ErrorAs(t, err, &nse)
}

func TestEmptyBareNameIsSyntaxError(t *testing.T) {
	_, err := nameparser.Parse("Foo::<int>")
	require.Error(t, err)
}

func TestEmptyTemplateArgumentList(t *testing.T) {
	p, err := nameparser.Parse("Foo<>")
	require.NoError(t, err)
	assert.True(t, p.IsTemplate)
	assert.Len(t, p.TemplateArguments(), 0)
}
