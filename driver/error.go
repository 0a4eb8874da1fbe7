package driver

import "fmt"

// Error wraps a failure from any compile stage with the record it was
// compiling, so cmd/tmplc can report which record a given template
// error came from without every downstream package needing to know
// about records at all.
type Error struct {
	Record string
	Stage  string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("tmplc: %s: %s: %v", e.Record, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
