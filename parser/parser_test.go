package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseywise/tmplc/lexer"
)

func mustParse(t *testing.T, src string) *Template {
	t.Helper()
	tmpl, err := Parse("test.html", src, lexer.DefaultSyntax())
	require.NoError(t, err)
	return tmpl
}

func TestParseLiteralText(t *testing.T) {
	tmpl := mustParse(t, "hello world")
	require.Len(t, tmpl.Children, 1)
	lit, ok := tmpl.Children[0].(*Lit)
	require.True(t, ok)
	assert.Equal(t, "hello world", lit.Text)
}

func TestParseExprStmt(t *testing.T) {
	tmpl := mustParse(t, "{{ name }}")
	require.Len(t, tmpl.Children, 1)
	stmt, ok := tmpl.Children[0].(*ExprStmt)
	require.True(t, ok)
	v, ok := stmt.Value.(*Var)
	require.True(t, ok)
	assert.Equal(t, "name", v.Name)
}

func TestParseFilterChain(t *testing.T) {
	tmpl := mustParse(t, "{{ name|upper|trim }}")
	stmt := tmpl.Children[0].(*ExprStmt)
	outer, ok := stmt.Value.(*FilterExpr)
	require.True(t, ok)
	assert.Equal(t, "trim", outer.Name)
	inner, ok := outer.Value.(*FilterExpr)
	require.True(t, ok)
	assert.Equal(t, "upper", inner.Name)
	assert.IsType(t, &Var{}, inner.Value)
}

func TestParseFilterVsBitwiseOr(t *testing.T) {
	// `a|b` with b an identifier is a filter; `a|(1+2)` is bitwise-or
	// since the right-hand side is not a bare identifier.
	tmpl := mustParse(t, "{{ a|b }}")
	stmt := tmpl.Children[0].(*ExprStmt)
	_, ok := stmt.Value.(*FilterExpr)
	assert.True(t, ok)

	tmpl2 := mustParse(t, "{{ a|1 }}")
	stmt2 := tmpl2.Children[0].(*ExprStmt)
	bin, ok := stmt2.Value.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "|", bin.Op)
}

func TestParseTryAndSafe(t *testing.T) {
	tmpl := mustParse(t, "{{ parse()?|safe }}")
	stmt := tmpl.Children[0].(*ExprStmt)
	filt, ok := stmt.Value.(*FilterExpr)
	require.True(t, ok)
	assert.Equal(t, "safe", filt.Name)
	tryExpr, ok := filt.Value.(*Try)
	require.True(t, ok)
	_, ok = tryExpr.Inner.(*CallExpr)
	assert.True(t, ok)
}

func TestParsePrecedenceLadder(t *testing.T) {
	tmpl := mustParse(t, "{{ 1 + 2 * 3 == 7 and x or y }}")
	stmt := tmpl.Children[0].(*ExprStmt)
	or, ok := stmt.Value.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
	and, ok := or.Left.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Op)
	eq, ok := and.Left.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "==", eq.Op)
	add, ok := eq.Left.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Right.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseRange(t *testing.T) {
	tmpl := mustParse(t, "{% for i in 0..=10 %}{{ i }}{% endfor %}")
	forNode := tmpl.Children[0].(*For)
	rng, ok := forNode.Iter.(*Range)
	require.True(t, ok)
	assert.True(t, rng.Inclusive)
}

func TestParseIfElifElse(t *testing.T) {
	tmpl := mustParse(t, `{% if a %}A{% elif b %}B{% else %}C{% endif %}`)
	ifNode := tmpl.Children[0].(*If)
	require.Len(t, ifNode.Arms, 3)
	assert.Equal(t, CondExpr, ifNode.Arms[0].Kind)
	assert.Equal(t, CondExpr, ifNode.Arms[1].Kind)
	assert.Equal(t, CondElse, ifNode.Arms[2].Kind)
}

func TestParseIfLet(t *testing.T) {
	tmpl := mustParse(t, `{% if let Some(x) = maybe %}{{ x }}{% endif %}`)
	ifNode := tmpl.Children[0].(*If)
	require.Len(t, ifNode.Arms, 1)
	assert.Equal(t, CondLet, ifNode.Arms[0].Kind)
	_, ok := ifNode.Arms[0].LetTarget.(PatStruct)
	assert.True(t, ok)
}

func TestParseMatch(t *testing.T) {
	tmpl := mustParse(t, `{% match status %}{% when Status.Ok %}ok{% when Status.Err(msg) %}{{ msg }}{% endmatch %}`)
	m := tmpl.Children[0].(*Match)
	require.Len(t, m.Arms, 2)
	_, ok := m.Arms[0].Pattern.(PatPath)
	assert.True(t, ok)
	_, ok = m.Arms[1].Pattern.(PatStruct)
	assert.True(t, ok)
}

func TestParseMacroAndCall(t *testing.T) {
	tmpl := mustParse(t, `{% macro greet(name, loud=false) %}hi {{ name }}{% endmacro %}{{ greet("a", loud=true) }}`)
	require.Len(t, tmpl.Children, 2)
	macro := tmpl.Children[0].(*Macro)
	assert.Equal(t, "greet", macro.Name)
	require.Len(t, macro.Params, 2)
	assert.Equal(t, "loud", macro.Params[1].Name)

	stmt := tmpl.Children[1].(*ExprStmt)
	call, ok := stmt.Value.(*CallExpr)
	require.True(t, ok)
	callee, ok := call.Callee.(*Var)
	require.True(t, ok)
	assert.Equal(t, "greet", callee.Name)
	assert.Len(t, call.Args, 1)
	assert.Contains(t, call.NamedArgs, "loud")
}

func TestParseCallBlock(t *testing.T) {
	tmpl := mustParse(t, `{% call wrapper(title="hi") %}body{% endcall %}`)
	call := tmpl.Children[0].(*Call)
	assert.Equal(t, "wrapper", call.Name)
	assert.Contains(t, call.NamedArgs, "title")
	require.Len(t, call.Body, 1)
}

func TestParseExtendsMustBeFirst(t *testing.T) {
	_, err := Parse("t.html", `hi{% extends "base.html" %}`, lexer.DefaultSyntax())
	require.Error(t, err)
}

func TestParseExtendsAndBlock(t *testing.T) {
	tmpl := mustParse(t, `{% extends "base.html" %}{% block content %}hi{% endblock %}`)
	require.Len(t, tmpl.Children, 2)
	ext, ok := tmpl.Children[0].(*Extends)
	require.True(t, ok)
	lit, ok := ext.Path.(*LitString)
	require.True(t, ok)
	assert.Equal(t, "base.html", lit.Value)
	block, ok := tmpl.Children[1].(*BlockDef)
	require.True(t, ok)
	assert.Equal(t, "content", block.Name)
}

func TestParseRawIgnoresDelimiters(t *testing.T) {
	tmpl := mustParse(t, `{% raw %}{{ not an expr }}{% endraw %}`)
	raw, ok := tmpl.Children[0].(*Raw)
	require.True(t, ok)
	assert.Equal(t, "{{ not an expr }}", raw.Text)
}

func TestParseHostExpr(t *testing.T) {
	tmpl := mustParse(t, `{{ host!(fmt.Sprintf("%d", 1)) }}`)
	stmt := tmpl.Children[0].(*ExprStmt)
	host, ok := stmt.Value.(*HostExpr)
	require.True(t, ok)
	assert.Contains(t, host.Tokens, "Sprintf")
}

func TestParseWhitespaceTrimFlags(t *testing.T) {
	tmpl := mustParse(t, `{%- if x -%}a{% endif %}`)
	ifNode := tmpl.Children[0].(*If)
	require.Len(t, ifNode.Arms, 1)
	assert.Len(t, ifNode.Arms[0].Body, 1)
}
