package lexer

import "fmt"

// ParseError is a single, unrecoverable lexical or grammatical fault tied
// to a span in the original template source. The lexer and parser share
// this type since tokenization is fused into parsing: either stage can
// be the one that first notices a malformed template.
type ParseError struct {
	Message string
	Span    Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}
