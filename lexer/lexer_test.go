package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, toks []*Token) []TokenType {
	t.Helper()
	out := make([]TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestLexerPlainText(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"simple text", "Hello World", []TokenType{TokenText, TokenEOF}},
		{"text with newlines", "Line 1\nLine 2\nLine 3", []TokenType{TokenText, TokenEOF}},
		{"empty string", "", []TokenType{TokenEOF}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := New(c.input, DefaultSyntax()).Tokenize()
			require.NoError(t, err)
			assert.Equal(t, c.expected, tokenTypes(t, toks))
		})
	}
}

func TestLexerExpression(t *testing.T) {
	toks, err := New("{{ name|upper }}", DefaultSyntax()).Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		TokenExprStart, TokenIdentifier, TokenPipe, TokenIdentifier, TokenExprEnd, TokenEOF,
	}, tokenTypes(t, toks))
}

func TestLexerWhitespaceTrim(t *testing.T) {
	toks, err := New("{%- if x -%}a{% endif %}", DefaultSyntax()).Tokenize()
	require.NoError(t, err)
	require.True(t, len(toks) > 2)
	assert.Equal(t, TokenBlockStartTrim, toks[0].Type)
	assert.True(t, toks[0].TrimRight)
}

func TestLexerOperators(t *testing.T) {
	toks, err := New("{{ a == b and c <= d or e != f }}", DefaultSyntax()).Tokenize()
	require.NoError(t, err)
	types := tokenTypes(t, toks)
	assert.Contains(t, types, TokenEq)
	assert.Contains(t, types, TokenAndAnd)
	assert.Contains(t, types, TokenLe)
	assert.Contains(t, types, TokenOrOr)
	assert.Contains(t, types, TokenNe)
}

func TestLexerTryAndSafe(t *testing.T) {
	toks, err := New("{{ parse()?|safe }}", DefaultSyntax()).Tokenize()
	require.NoError(t, err)
	types := tokenTypes(t, toks)
	assert.Contains(t, types, TokenQuestion)
}

func TestLexerStringEscapes(t *testing.T) {
	toks, err := New(`{{ "a\nb\x41\u{1F600}" }}`, DefaultSyntax()).Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, TokenString, toks[1].Type)
	assert.Equal(t, "a\nbA\U0001F600", toks[1].Value)
}

func TestLexerCharLiteral(t *testing.T) {
	toks, err := New(`{{ 'x' }}`, DefaultSyntax()).Tokenize()
	require.NoError(t, err)
	assert.Equal(t, TokenChar, toks[1].Type)
	assert.Equal(t, "x", toks[1].Value)
}

func TestLexerUnterminatedComment(t *testing.T) {
	_, err := New("{# oops", DefaultSyntax()).Tokenize()
	require.Error(t, err)
}

func TestLexerCustomSyntax(t *testing.T) {
	syn := Syntax{
		Name: "brackets",
		ExprStart: "<$", ExprEnd: "$>",
		BlockStart: "<%", BlockEnd: "%>",
		CommentStart: "<#", CommentEnd: "#>",
	}
	require.NoError(t, syn.Validate())
	toks, err := New("<$ name $>", syn).Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{TokenExprStart, TokenIdentifier, TokenExprEnd, TokenEOF}, tokenTypes(t, toks))
}

func TestSyntaxValidateRejectsAmbiguous(t *testing.T) {
	syn := Syntax{
		ExprStart: "{{", ExprEnd: "}}",
		BlockStart: "{{", BlockEnd: "}}", // collides with expr
		CommentStart: "{#", CommentEnd: "#}",
	}
	assert.Error(t, syn.Validate())
}
