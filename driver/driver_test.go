package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseywise/tmplc/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCompileRendersSimpleRecord(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.html", "<h1>{{ Title }}</h1>")

	cfg := config.Default()
	cfg.Dirs = []string{dir}

	spec := &RecordSpec{
		Name:         "Report",
		Package:      "example",
		Fields:       map[string]string{"Title": "string"},
		TemplatePath: "report.html",
		Extension:    "html",
	}

	f, err := Compile(spec, cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Contains(t, f.GoString(), "func (v *Report) Render")
	assert.Contains(t, f.GoString(), "func (v *Report) String")
	assert.Contains(t, f.GoString(), `ReportExtension = "html"`)
	assert.Contains(t, f.GoString(), "_ReportEscaper")
}

func TestCompileUnknownTemplateIsWrappedError(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dirs = []string{dir}

	spec := &RecordSpec{
		Name:         "Missing",
		Package:      "example",
		TemplatePath: "nope.html",
		Extension:    "html",
	}

	_, err := Compile(spec, cfg, nil)
	require.Error(t, err)
}

func TestCompileHonorsBlockAttribute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.html", `{% block body %}base{% endblock %}`)
	writeFile(t, dir, "child.html", `{% extends "base.html" %}{% block body %}child{% endblock %}`)

	cfg := config.Default()
	cfg.Dirs = []string{dir}

	spec := &RecordSpec{
		Name:         "Page",
		Package:      "example",
		TemplatePath: "child.html",
		Extension:    "html",
		Block:        "body",
	}

	f, err := Compile(spec, cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, f.GoString(), `"child"`)
}
