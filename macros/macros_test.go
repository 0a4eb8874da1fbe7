package macros

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseywise/tmplc/lexer"
	"github.com/caseywise/tmplc/parser"
)

func parse(t *testing.T, src string) []parser.Node {
	t.Helper()
	tmpl, err := parser.Parse("t.html", src, lexer.DefaultSyntax())
	require.NoError(t, err)
	return tmpl.Children
}

func TestCollectFindsMacroDefs(t *testing.T) {
	nodes := parse(t, `{% macro greet(name, loud=false) %}hi{% endmacro %}`)
	reg, err := Collect(nodes)
	require.NoError(t, err)
	m, ok := reg.Get("greet")
	require.True(t, ok)
	assert.Equal(t, "greet", m.Name)
}

func TestCollectRejectsDuplicateNames(t *testing.T) {
	nodes := parse(t, `{% macro greet() %}a{% endmacro %}{% macro greet() %}b{% endmacro %}`)
	_, err := Collect(nodes)
	assert.Error(t, err)
}

func TestValidateCallRequiresArguments(t *testing.T) {
	nodes := parse(t, `{% macro greet(name, loud=false) %}hi{% endmacro %}`)
	reg, err := Collect(nodes)
	require.NoError(t, err)

	err = reg.ValidateCall("greet", nil, nil)
	assert.Error(t, err)

	err = reg.ValidateCall("greet", []parser.Expr{&parser.LitString{Value: "a"}}, nil)
	assert.NoError(t, err)
}

func TestValidateCallRejectsUnknownNamedArg(t *testing.T) {
	nodes := parse(t, `{% macro greet(name) %}hi{% endmacro %}`)
	reg, err := Collect(nodes)
	require.NoError(t, err)

	err = reg.ValidateCall("greet", nil, map[string]parser.Expr{"shout": &parser.LitBool{Value: true}})
	assert.Error(t, err)
}

func TestValidateCallRejectsTooManyPositional(t *testing.T) {
	nodes := parse(t, `{% macro greet(name) %}hi{% endmacro %}`)
	reg, err := Collect(nodes)
	require.NoError(t, err)

	err = reg.ValidateCall("greet", []parser.Expr{&parser.LitString{Value: "a"}, &parser.LitString{Value: "b"}}, nil)
	assert.Error(t, err)
}

func TestCheckRecursionRejectsDirectCycle(t *testing.T) {
	nodes := parse(t, `{% macro a() %}{{ a() }}{% endmacro %}`)
	reg, err := Collect(nodes)
	require.NoError(t, err)
	assert.Error(t, reg.CheckRecursion())
}

func TestCheckRecursionRejectsIndirectCycle(t *testing.T) {
	nodes := parse(t, `{% macro a() %}{{ b() }}{% endmacro %}{% macro b() %}{{ a() }}{% endmacro %}`)
	reg, err := Collect(nodes)
	require.NoError(t, err)
	assert.Error(t, reg.CheckRecursion())
}

func TestCheckRecursionAllowsNonRecursiveCalls(t *testing.T) {
	nodes := parse(t, `{% macro a() %}{{ b() }}{% endmacro %}{% macro b() %}hi{% endmacro %}`)
	reg, err := Collect(nodes)
	require.NoError(t, err)
	assert.NoError(t, reg.CheckRecursion())
}

func TestImportScopesNames(t *testing.T) {
	otherNodes := parse(t, `{% macro greet() %}hi{% endmacro %}`)
	other, err := Collect(otherNodes)
	require.NoError(t, err)

	r := NewRegistry()
	require.NoError(t, r.Import(other, "shared", nil))

	_, ok := r.Get("shared.greet")
	assert.True(t, ok)
}
