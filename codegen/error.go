package codegen

import (
	"fmt"

	"github.com/caseywise/tmplc/parser"
)

// Error reports a template construct codegen could not lower: an
// expression shape it does not support, or a semantic inconsistency
// (unknown macro, unknown escaper) caught only once generation begins
// walking the flattened node list.
type Error struct {
	Span    parser.Span
	Message string
}

func (e *Error) Error() string {
	if e.Span == (parser.Span{}) {
		return "codegen: " + e.Message
	}
	return fmt.Sprintf("codegen: %d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}
