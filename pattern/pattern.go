// Package pattern compiles Match-arm patterns into the accessor paths
// and binding names the generator needs to emit a Go type switch over
// a scrutinee value, and validates arm ordering/exhaustiveness hints
// before codegen ever sees them.
package pattern

import (
	"fmt"

	"github.com/caseywise/tmplc/parser"
)

// Error reports a pattern that cannot be compiled: a name bound twice
// within one arm, or a non-catch-all arm following a catch-all arm.
type Error struct {
	Message string
}

func (e *Error) Error() string { return "pattern: " + e.Message }

// AccessorKind distinguishes how a Step reaches a sub-value from its
// parent during match lowering.
type AccessorKind int

const (
	// AccessField reads a named struct field.
	AccessField AccessorKind = iota
	// AccessElem reads a positional tuple/slice element.
	AccessElem
)

// Step is one hop in the path from a match scrutinee down to a bound
// variable or a literal comparison, e.g. `.Args[1].Field("msg")`.
type Step struct {
	Kind  AccessorKind
	Field string // set when Kind == AccessField
	Index int    // set when Kind == AccessElem
}

// Binding is one name a pattern introduces into its arm's body scope,
// together with the path codegen walks from the scrutinee to reach it.
type Binding struct {
	Name string
	Path []Step
}

// Literal is one literal comparison a pattern requires, together with
// the path to the value being compared.
type Literal struct {
	Path  []Step
	Value parser.Expr
}

// Compiled is the lowering plan for one arm's pattern: every variable it
// binds and every literal equality it requires, both expressed as paths
// relative to the arm's scrutinee value.
type Compiled struct {
	// TypePath, when non-empty, names the path (e.g. the tuple-struct
	// variant) codegen must type-assert the scrutinee against before
	// walking Bindings/Literals. Empty for Var/Wildcard/Tuple/Lit
	// patterns that need no type assertion of their own.
	TypePath  []string
	Bindings  []Binding
	Literals  []Literal
	Wildcard  bool // PatWildcard or bare PatVar: matches unconditionally
}

// Compile walks pat and produces its lowering plan, rooted at a
// zero-length path (the scrutinee itself).
func Compile(pat parser.Pattern) (*Compiled, error) {
	c := &Compiled{}
	if err := compileInto(pat, nil, c); err != nil {
		return nil, err
	}
	return c, nil
}

func compileInto(pat parser.Pattern, path []Step, c *Compiled) error {
	switch pt := pat.(type) {
	case parser.PatWildcard:
		if len(path) == 0 {
			c.Wildcard = true
		}
	case parser.PatVar:
		if len(path) == 0 {
			c.Wildcard = true
		}
		for _, b := range c.Bindings {
			if b.Name == pt.Name {
				return &Error{Message: fmt.Sprintf("variable %q bound more than once in this pattern", pt.Name)}
			}
		}
		c.Bindings = append(c.Bindings, Binding{Name: pt.Name, Path: path})
	case parser.PatLit:
		c.Literals = append(c.Literals, Literal{Path: path, Value: pt.Value})
	case parser.PatTuple:
		for i, elem := range pt.Elems {
			elemPath := append(append([]Step{}, path...), Step{Kind: AccessElem, Index: i})
			if err := compileInto(elem, elemPath, c); err != nil {
				return err
			}
		}
	case parser.PatPath:
		if len(path) != 0 {
			return &Error{Message: "nested path patterns are not supported"}
		}
		c.TypePath = pt.Segments
	case parser.PatStruct:
		if len(path) != 0 {
			return &Error{Message: "nested struct patterns are not supported"}
		}
		c.TypePath = pt.Path
		if pt.Elems != nil {
			for i, elem := range pt.Elems {
				if err := compileInto(elem, []Step{{Kind: AccessElem, Index: i}}, c); err != nil {
					return err
				}
			}
		} else {
			for name, elem := range pt.Fields {
				if err := compileInto(elem, []Step{{Kind: AccessField, Field: name}}, c); err != nil {
					return err
				}
			}
		}
	default:
		return &Error{Message: fmt.Sprintf("unsupported pattern shape %T", pat)}
	}
	return nil
}

// ValidateArms checks a Match's arm list for the one structural rule
// codegen depends on: a catch-all arm (wildcard `_` or a bare binding
// variable) may only appear last, since a Go type switch emits arms in
// source order and a catch-all any earlier would make every following
// arm unreachable.
func ValidateArms(arms []parser.MatchArm) error {
	for i, arm := range arms {
		if isCatchAll(arm.Pattern) && arm.Guard == nil && i != len(arms)-1 {
			return &Error{Message: fmt.Sprintf("catch-all pattern %q must be the last arm", parser.PatternString(arm.Pattern))}
		}
	}
	return nil
}

func isCatchAll(pat parser.Pattern) bool {
	switch pat.(type) {
	case parser.PatWildcard, parser.PatVar:
		return true
	default:
		return false
	}
}
