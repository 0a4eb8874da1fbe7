package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseywise/tmplc/parser"
)

func TestCompileWildcard(t *testing.T) {
	c, err := Compile(parser.PatWildcard{})
	require.NoError(t, err)
	assert.True(t, c.Wildcard)
	assert.Empty(t, c.Bindings)
}

func TestCompileBareVarBindsAndIsCatchAll(t *testing.T) {
	c, err := Compile(parser.PatVar{Name: "x"})
	require.NoError(t, err)
	assert.True(t, c.Wildcard)
	require.Len(t, c.Bindings, 1)
	assert.Equal(t, "x", c.Bindings[0].Name)
	assert.Empty(t, c.Bindings[0].Path)
}

func TestCompileTupleStructBindsPositionalFields(t *testing.T) {
	pat := parser.PatStruct{
		Path:  []string{"Status", "Err"},
		Elems: []parser.Pattern{parser.PatVar{Name: "msg"}},
	}
	c, err := Compile(pat)
	require.NoError(t, err)
	assert.Equal(t, []string{"Status", "Err"}, c.TypePath)
	require.Len(t, c.Bindings, 1)
	assert.Equal(t, "msg", c.Bindings[0].Name)
	require.Len(t, c.Bindings[0].Path, 1)
	assert.Equal(t, AccessElem, c.Bindings[0].Path[0].Kind)
	assert.Equal(t, 0, c.Bindings[0].Path[0].Index)
}

func TestCompileNamedStructBindsFields(t *testing.T) {
	pat := parser.PatStruct{
		Path:   []string{"Point"},
		Fields: map[string]parser.Pattern{"x": parser.PatVar{Name: "px"}},
	}
	c, err := Compile(pat)
	require.NoError(t, err)
	require.Len(t, c.Bindings, 1)
	assert.Equal(t, "px", c.Bindings[0].Name)
	assert.Equal(t, AccessField, c.Bindings[0].Path[0].Kind)
	assert.Equal(t, "x", c.Bindings[0].Path[0].Field)
}

func TestCompileDuplicateBindingErrors(t *testing.T) {
	pat := parser.PatTuple{Elems: []parser.Pattern{
		parser.PatVar{Name: "x"},
		parser.PatVar{Name: "x"},
	}}
	_, err := Compile(pat)
	assert.Error(t, err)
}

func TestValidateArmsCatchAllMustBeLast(t *testing.T) {
	arms := []parser.MatchArm{
		{Pattern: parser.PatVar{Name: "x"}},
		{Pattern: parser.PatWildcard{}},
	}
	err := ValidateArms(arms)
	assert.Error(t, err)
}

func TestValidateArmsCatchAllLastIsFine(t *testing.T) {
	arms := []parser.MatchArm{
		{Pattern: parser.PatLit{Value: &parser.LitInt{Value: 1}}},
		{Pattern: parser.PatWildcard{}},
	}
	err := ValidateArms(arms)
	assert.NoError(t, err)
}

func TestValidateArmsGuardedCatchAllDoesNotCount(t *testing.T) {
	arms := []parser.MatchArm{
		{Pattern: parser.PatVar{Name: "x"}, Guard: &parser.LitBool{Value: true}},
		{Pattern: parser.PatWildcard{}},
	}
	err := ValidateArms(arms)
	assert.NoError(t, err)
}
