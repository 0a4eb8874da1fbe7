package whitespace

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

func TestParseStrip(t *testing.T) {
	cases := map[string]Strip{
		"":           StripNone,
		"none":       StripNone,
		"tail":       StripTail,
		"trim_lines": StripTrimLines,
		"eager":      StripEager,
	}
	for name, want := range cases {
		got, err := ParseStrip(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStrip("bogus")
	assert.Error(t, err)
}

func TestProcessNodesNoneLeavesTextAlone(t *testing.T) {
	nodes := parse(t, "  hi  \n")
	out := NewProcessor(StripNone).ProcessNodes(nodes)
	require.Len(t, out, 1)
	assert.Equal(t, "  hi  \n", out[0].(*parser.Lit).Text)
}

func TestProcessNodesTailStripsOneTrailingNewline(t *testing.T) {
	nodes := parse(t, "hi\n\n")
	out := NewProcessor(StripTail).ProcessNodes(nodes)
	require.Len(t, out, 1)
	assert.Equal(t, "hi\n", out[0].(*parser.Lit).Text)
}

func TestProcessNodesExplicitDashAlwaysStrips(t *testing.T) {
	nodes := parse(t, "a   \n{%- if x %}b{% endif %}")
	out := NewProcessor(StripNone).ProcessNodes(nodes)
	lit := out[0].(*parser.Lit)
	assert.Equal(t, "a", lit.Text)
}

func TestProcessNodesExplicitPlusNeverStrips(t *testing.T) {
	nodes := parse(t, "a   \n{%+ if x %}b{% endif %}")
	out := NewProcessor(StripTrimLines).ProcessNodes(nodes)
	lit := out[0].(*parser.Lit)
	assert.Equal(t, "a   \n", lit.Text)
}

func TestProcessNodesTrimLinesEatsBlockAdjacentNewline(t *testing.T) {
	nodes := parse(t, "a\n{% if x %}\nb\n{% endif %}\n")
	out := NewProcessor(StripTrimLines).ProcessNodes(nodes)
	lit := out[0].(*parser.Lit)
	assert.Equal(t, "a\n", lit.Text) // nothing after 'a' up to the tag boundary

	ifNode := out[1].(*parser.If)
	body := ifNode.Arms[0].Body
	assert.Equal(t, "b\n", body[0].(*parser.Lit).Text)
}

func TestProcessNodesEagerCollapsesInteriorRuns(t *testing.T) {
	nodes := parse(t, "{% if x %}a    b\t\tc{% endif %}")
	out := NewProcessor(StripEager).ProcessNodes(nodes)
	ifNode := out[0].(*parser.If)
	assert.Equal(t, "a b c", ifNode.Arms[0].Body[0].(*parser.Lit).Text)
}

func TestProcessNodesRecursesIntoForBody(t *testing.T) {
	nodes := parse(t, "{% for x in xs %}{%- if x %}v{% endif -%}{% endfor %}")
	out := NewProcessor(StripNone).ProcessNodes(nodes)
	forNode := out[0].(*parser.For)
	require.Len(t, forNode.Body, 1)
}
