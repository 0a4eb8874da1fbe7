package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseywise/tmplc/whitespace"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"templates"}, cfg.Dirs)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tmplc.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.DefaultSyntax)
	assert.Equal(t, "trim_lines", cfg.Strip)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmplc.yaml")
	src := `
default_syntax: default
dirs:
  - templates
  - partials
escapers:
  html: html
  txt: none
strip: eager
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"templates", "partials"}, cfg.Dirs)
	assert.Equal(t, "none", cfg.Escapers["txt"])
	assert.Equal(t, "eager", cfg.Strip)
}

func TestLoadRejectsUnknownDefaultSyntax(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmplc.yaml")
	src := "default_syntax: bogus\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSyntaxMergesOverridesOntoDefaults(t *testing.T) {
	cfg := Default()
	cfg.Syntaxes["custom"] = SyntaxConfig{ExprStart: "<%=", ExprEnd: "%>"}

	syn, err := cfg.Syntax("custom")
	require.NoError(t, err)
	assert.Equal(t, "<%=", syn.ExprStart)
	assert.Equal(t, "%>", syn.ExprEnd)
	assert.Equal(t, "{%", syn.BlockStart)
}

func TestSyntaxUnknownNameErrors(t *testing.T) {
	cfg := Default()
	_, err := cfg.Syntax("nope")
	assert.Error(t, err)
}

func TestStripPolicyResolves(t *testing.T) {
	cfg := Default()
	cfg.Strip = "eager"
	policy, err := cfg.StripPolicy()
	require.NoError(t, err)
	assert.Equal(t, whitespace.StripEager, policy)
}

func TestStripPolicyRejectsUnknown(t *testing.T) {
	cfg := Default()
	cfg.Strip = "bogus"
	_, err := cfg.StripPolicy()
	assert.Error(t, err)
}
