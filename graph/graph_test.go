package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseywise/tmplc/lexer"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadResolvesFromSearchDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.html", "hello")

	g := New([]string{dir}, nil, lexer.DefaultSyntax())
	tmpl, err := g.Load("base.html")
	require.NoError(t, err)
	require.Len(t, tmpl.Children, 1)
}

func TestLoadTriesConfiguredExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.txt", "hello")

	g := New([]string{dir}, []string{".txt"}, lexer.DefaultSyntax())
	tmpl, err := g.Load("base")
	require.NoError(t, err)
	require.Len(t, tmpl.Children, 1)
}

func TestLoadMissingPathIsSemanticError(t *testing.T) {
	dir := t.TempDir()
	g := New([]string{dir}, nil, lexer.DefaultSyntax())
	_, err := g.Load("nope.html")
	require.Error(t, err)
	var graphErr *Error
	assert.ErrorAs(t, err, &graphErr)
	assert.True(t, os.IsNotExist(err) == false)
}

func TestLoadMemoizesSecondCall(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.html", "v1")

	g := New([]string{dir}, nil, lexer.DefaultSyntax())
	first, err := g.Load("base.html")
	require.NoError(t, err)

	// Mutate the file on disk; a memoized Graph must not re-read it.
	writeFile(t, dir, "base.html", "v2 is a longer literal than v1")

	second, err := g.Load("base.html")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
