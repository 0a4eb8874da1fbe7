package heritage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseywise/tmplc/lexer"
	"github.com/caseywise/tmplc/parser"
)

type mapLoader map[string]string

func (m mapLoader) Load(path string) (*parser.Template, error) {
	src, ok := m[path]
	if !ok {
		return nil, &Error{Template: path, Message: "not found"}
	}
	return parser.Parse(path, src, lexer.DefaultSyntax())
}

func parseTmpl(t *testing.T, name, src string) *parser.Template {
	t.Helper()
	tmpl, err := parser.Parse(name, src, lexer.DefaultSyntax())
	require.NoError(t, err)
	return tmpl
}

func litText(t *testing.T, n parser.Node) string {
	t.Helper()
	lit, ok := n.(*parser.Lit)
	require.True(t, ok, "expected *parser.Lit, got %T", n)
	return lit.Text
}

func TestResolveNoExtends(t *testing.T) {
	loader := mapLoader{}
	tmpl := parseTmpl(t, "solo.html", "hello")
	chain, err := Resolve(loader, tmpl, "solo.html")
	require.NoError(t, err)
	assert.Nil(t, chain.Parent)

	out, err := chain.Flatten(loader)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "hello", litText(t, out[0]))
}

func TestResolveOverridesBlock(t *testing.T) {
	loader := mapLoader{
		"base.html": `before{% block content %}base{% endblock %}after`,
	}
	child := parseTmpl(t, "child.html", `{% extends "base.html" %}{% block content %}child{% endblock %}`)

	chain, err := Resolve(loader, child, "child.html")
	require.NoError(t, err)
	require.NotNil(t, chain.Parent)

	out, err := chain.Flatten(loader)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "before", litText(t, out[0]))
	assert.Equal(t, "child", litText(t, out[1]))
	assert.Equal(t, "after", litText(t, out[2]))
}

func TestResolveSuperCallInsertsParentContent(t *testing.T) {
	loader := mapLoader{
		"base.html": `{% block content %}base{% endblock %}`,
	}
	child := parseTmpl(t, "child.html",
		`{% extends "base.html" %}{% block content %}{{ super() }} + child{% endblock %}`)

	chain, err := Resolve(loader, child, "child.html")
	require.NoError(t, err)

	out, err := chain.Flatten(loader)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "base", litText(t, out[0]))
	assert.Equal(t, " + child", litText(t, out[1]))
}

func TestResolveMissingParentErrors(t *testing.T) {
	loader := mapLoader{}
	child := parseTmpl(t, "child.html", `{% extends "missing.html" %}`)
	_, err := Resolve(loader, child, "child.html")
	assert.Error(t, err)
}

func TestResolveIncludeExpandsInPlace(t *testing.T) {
	loader := mapLoader{
		"partial.html": "included",
	}
	tmpl := parseTmpl(t, "page.html", `a{% include "partial.html" %}b`)
	chain, err := Resolve(loader, tmpl, "page.html")
	require.NoError(t, err)

	out, err := chain.Flatten(loader)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "a", litText(t, out[0]))
	assert.Equal(t, "included", litText(t, out[1]))
	assert.Equal(t, "b", litText(t, out[2]))
}

func TestResolveIncludeIgnoreMissing(t *testing.T) {
	loader := mapLoader{}
	tmpl := parseTmpl(t, "page.html", `a{% include "gone.html" ignore missing %}b`)
	chain, err := Resolve(loader, tmpl, "page.html")
	require.NoError(t, err)

	out, err := chain.Flatten(loader)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", litText(t, out[0]))
	assert.Equal(t, "b", litText(t, out[1]))
}

func TestResolveBlockInsideForBody(t *testing.T) {
	loader := mapLoader{}
	tmpl := parseTmpl(t, "loop.html",
		`{% for x in xs %}{% block row %}row{% endblock %}{% endfor %}`)
	chain, err := Resolve(loader, tmpl, "loop.html")
	require.NoError(t, err)
	out, err := chain.Flatten(loader)
	require.NoError(t, err)
	require.Len(t, out, 1)
	forNode, ok := out[0].(*parser.For)
	require.True(t, ok)
	require.Len(t, forNode.Body, 1)
	assert.Equal(t, "row", litText(t, forNode.Body[0]))
}
