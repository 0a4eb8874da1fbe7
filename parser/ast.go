// Package parser turns a token stream into the template AST: two node
// families (statements and expressions), every node carrying a
// byte-offset span into the owning source.
package parser

import (
	"fmt"
	"strings"

	"github.com/caseywise/tmplc/lexer"
)

// Span re-exports lexer.Span so callers never need to import lexer just
// to read a node's position.
type Span = lexer.Span

// ParseError is the parser's single, unrecoverable error per compilation:
// no error recovery is attempted.
type ParseError = lexer.ParseError

// Node is implemented by every statement AST node.
type Node interface {
	Span() Span
	node()
}

// Expr is implemented by every expression AST node.
type Expr interface {
	Span() Span
	expr()
}

type base struct{ span Span }

func (b base) Span() Span { return b.span }

// TrimFlag records which whitespace-control marker, if any, followed a
// delimiter.
type TrimFlag int

const (
	TrimDefault TrimFlag = iota // use the active Strip policy
	TrimSuppress                // '-' : always strip
	TrimPreserve                // '+' : never strip
)

// Trim carries the whitespace-control markers read off a tag's own pair
// of delimiters: Pre governs the literal text immediately preceding the
// tag, Post governs the literal text immediately following it. Every
// node produced by a "{%...%}" or "{{...}}"
// tag embeds Trim; Lit itself does not, since it owns no delimiters.
type Trim struct {
	Pre, Post TrimFlag
}

func (t Trim) trim() Trim { return t }

// trimmed is implemented by every tag-producing node via the embedded
// Trim field; the whitespace package uses it to read markers off
// whichever neighbor of a Lit happens to be a tag.
type trimmed interface{ trim() Trim }

// TrimOf returns the whitespace-control markers carried by n's own
// delimiters, if n is a tag-producing node.
func TrimOf(n Node) (Trim, bool) {
	if t, ok := n.(trimmed); ok {
		return t.trim(), true
	}
	return Trim{}, false
}

// closeTrimmed is implemented by nodes with an independent opening and
// closing delimiter pair (For/Match/BlockDef/Macro/Call/Filter/Raw): the
// embedded Trim carries the opening tag's markers, CloseTrim the
// closing tag's. If has no such pair (its "opening" tag is its first
// arm), so it does not implement this.
type closeTrimmed interface{ closeTrim() Trim }

// CloseTrimOf returns the markers carried by n's closing delimiter, for
// node kinds that have one distinct from their opening delimiter.
func CloseTrimOf(n Node) (Trim, bool) {
	if t, ok := n.(closeTrimmed); ok {
		return t.closeTrim(), true
	}
	return Trim{}, false
}

// Template is the root of one parsed file's AST.
type Template struct {
	base
	Name     string
	Children []Node
}

func (t *Template) node() {}

// ---- Statement nodes ----

// Lit is raw literal text between tags. It owns no delimiters of its
// own; whitespace trimming at its edges is driven by the Trim markers
// of whichever tag node precedes or follows it.
type Lit struct {
	base
	Text string
}

func (*Lit) node() {}

// ExprStmt prints a value; subject to context escaping.
type ExprStmt struct {
	base
	Trim
	Value Expr
}

func (*ExprStmt) node() {}

// Let introduces one or more local bindings.
type Let struct {
	base
	Trim
	Target Pattern
	Value  Expr // nil for "let x;" with no initializer
}

func (*Let) node() {}

// CondKind distinguishes the three shapes an If arm's head can take.
type CondKind int

const (
	CondExpr CondKind = iota // {% if cond %} / {% elif cond %}
	CondLet                  // {% if let cond = expr %}
	CondElse                 // {% else %}
)

// Cond is one arm of an If chain. Trim carries the markers from this
// arm's own opening tag (if/elif/else); If.Trim carries the closing
// endif tag's markers instead.
type Cond struct {
	Trim
	Kind      CondKind
	Expr      Expr    // set when Kind == CondExpr or CondLet (the scrutinee)
	LetTarget Pattern // set when Kind == CondLet
	Body      []Node
	Span      Span
}

// If is a chain of conditional arms, evaluated in order; the first
// truthy arm wins. Trim holds the endif tag's own markers.
type If struct {
	base
	Trim
	Arms []Cond
}

func (*If) node() {}

// LoopVars is the shape of the `loop` record exposed inside a For body.
type LoopVars struct {
	Index, Index0   string
	First, Last     string
}

// For iterates over Iter, binding Target on each pass; Else runs when
// the iterable is empty. Trim carries the for-tag's own markers;
// ElseTrim carries the else tag's (meaningful only when Else is
// non-empty); CloseTrim carries the endfor tag's.
type For struct {
	base
	Trim
	ElseTrim  Trim
	CloseTrim Trim
	Target    Pattern
	Iter      Expr
	Body      []Node
	Else      []Node
}

func (*For) node() {}

func (n *For) closeTrim() Trim { return n.CloseTrim }

// MatchArm is one `when pattern [if guard] => body` arm.
type MatchArm struct {
	Trim
	Pattern Pattern
	Guard   Expr // optional
	Body    []Node
	Span    Span
}

// Match compiles to a structural match over Scrutinee; exhaustiveness
// has no static check the way a closed enum match would, so it falls
// back to a runtime error when no arm matches. Trim holds the match
// tag's own markers; CloseTrim holds the endmatch tag's.
type Match struct {
	base
	Trim
	CloseTrim Trim
	Scrutinee Expr
	Arms      []MatchArm
}

func (*Match) node() {}

func (n *Match) closeTrim() Trim { return n.CloseTrim }

// BlockDef is a named, overridable region. Trim carries the block-tag's
// own markers; CloseTrim carries the endblock tag's.
type BlockDef struct {
	base
	Trim
	CloseTrim Trim
	Name      string
	Body      []Node
}

func (*BlockDef) node() {}

func (n *BlockDef) closeTrim() Trim { return n.CloseTrim }

// Include inlines another template's rendered output at this point.
type Include struct {
	base
	Trim
	Path          Expr
	IgnoreMissing bool
}

func (*Include) node() {}

// Extends declares the parent template; at most one per file, must be
// the first significant node.
type Extends struct {
	base
	Trim
	Path Expr
}

func (*Extends) node() {}

// Import brings another file's macros into Scope.
type Import struct {
	base
	Trim
	Path  Expr
	Scope string
}

func (*Import) node() {}

// MacroParam is one formal parameter of a Macro, with an optional
// default value expression.
type MacroParam struct {
	Name    string
	Default Expr
}

// Macro is a parameterized, in-language subroutine. Trim carries the
// macro-tag's own markers; CloseTrim carries the endmacro tag's.
type Macro struct {
	base
	Trim
	CloseTrim Trim
	Name      string
	Params    []MacroParam
	Body      []Node
}

func (*Macro) node() {}

func (n *Macro) closeTrim() Trim { return n.CloseTrim }

// Call invokes a macro; Scope is empty for an own-file macro, or the
// name bound by an Import for `scope.name(...)`. Trim carries the
// call-tag's own markers; CloseTrim carries the endcall tag's (only
// meaningful when Body is non-nil).
type Call struct {
	base
	Trim
	CloseTrim Trim
	Scope     string
	Name      string
	Args      []Expr
	NamedArgs map[string]Expr
	ArgOrder  []string // named-arg keys in source order, for diagnostics
	Body      []Node   // non-nil for {% call %}...{% endcall %} forwarding a caller() block
}

func (*Call) node() {}

func (n *Call) closeTrim() Trim { return n.CloseTrim }

// Filter applies a named filter to the rendered text of Body. Trim
// carries the filter-tag's own markers; CloseTrim carries the
// endfilter tag's.
type Filter struct {
	base
	Trim
	CloseTrim Trim
	Name      string
	Args      []Expr
	Body      []Node
}

func (*Filter) node() {}

func (n *Filter) closeTrim() Trim { return n.CloseTrim }

// Comment is an AST shape for a template comment. The lexer drops
// comments before parsing, so Parse never produces a Comment node.
type Comment struct {
	base
	Text string
}

func (*Comment) node() {}

// Raw is emitted verbatim; delimiters inside are not interpreted. Trim
// carries the raw-tag's own markers; CloseTrim carries the endraw tag's.
type Raw struct {
	base
	Trim
	CloseTrim Trim
	Text      string
}

func (*Raw) node() {}

func (n *Raw) closeTrim() Trim { return n.CloseTrim }

// Break exits the nearest enclosing For loop.
type Break struct {
	base
	Trim
}

func (*Break) node() {}

// Continue skips to the next iteration of the nearest enclosing For loop.
type Continue struct {
	base
	Trim
}

func (*Continue) node() {}

// ---- Expression nodes ----

type LitBool struct {
	base
	Value bool
}

func (*LitBool) expr() {}

type LitInt struct {
	base
	Value int64
	Raw   string
}

func (*LitInt) expr() {}

type LitFloat struct {
	base
	Value float64
	Raw   string
}

func (*LitFloat) expr() {}

type LitString struct {
	base
	Value string
}

func (*LitString) expr() {}

type LitChar struct {
	base
	Value rune
}

func (*LitChar) expr() {}

// Var resolves to a local, a loop variable, or a record field `self.name`.
type Var struct {
	base
	Name string
}

func (*Var) expr() {}

// Path is a qualified name, e.g. a module constant or associated item:
// `mod.Kind.Variant`.
type Path struct {
	base
	Segments []string
}

func (*Path) expr() {}

type Attr struct {
	base
	Object Expr
	Name   string
}

func (*Attr) expr() {}

type Index struct {
	base
	Object Expr
	Key    Expr
}

func (*Index) expr() {}

type CallExpr struct {
	base
	Callee    Expr
	Args      []Expr
	NamedArgs map[string]Expr
}

func (*CallExpr) expr() {}

type MethodCall struct {
	base
	Receiver Expr
	Name     string
	Args     []Expr
}

func (*MethodCall) expr() {}

// FilterExpr is the pipeline form `value|name(args)` used inline within
// an expression (as opposed to the statement-level Filter block).
type FilterExpr struct {
	base
	Value Expr
	Name  string
	Args  []Expr
}

func (*FilterExpr) expr() {}

type Unary struct {
	base
	Op      string
	Operand Expr
}

func (*Unary) expr() {}

type Binary struct {
	base
	Op          string
	Left, Right Expr
}

func (*Binary) expr() {}

type Range struct {
	base
	Start, End Expr // either may be nil
	Inclusive  bool
}

func (*Range) expr() {}

type Tuple struct {
	base
	Elems []Expr
}

func (*Tuple) expr() {}

type Array struct {
	base
	Elems []Expr
}

func (*Array) expr() {}

// Group preserves author-intent parentheses so an unparser can
// reproduce them.
type Group struct {
	base
	Inner Expr
}

func (*Group) expr() {}

// HostExpr is `host!(...)`: an opaque token range forwarded verbatim to
// the generated Go source. The parser records only the span and raw
// token text; it never interprets the contents.
type HostExpr struct {
	base
	Tokens string
}

func (*HostExpr) expr() {}

// Try is `expr?`: propagates an error out of the render routine.
type Try struct {
	base
	Inner Expr
}

func (*Try) expr() {}

// ---- Patterns (Match arms) ----

type Pattern interface {
	pattern()
}

type PatWildcard struct{}

func (PatWildcard) pattern() {}

type PatVar struct{ Name string }

func (PatVar) pattern() {}

type PatLit struct{ Value Expr }

func (PatLit) pattern() {}

type PatTuple struct{ Elems []Pattern }

func (PatTuple) pattern() {}

// PatPath is a qualified pattern like `some.Kind.Variant`.
type PatPath struct{ Segments []string }

func (PatPath) pattern() {}

// PatStruct covers both named-field struct patterns (`Point{x, y}`) and
// tuple-struct patterns (`Some(x)`); Fields is nil for the tuple-struct
// form, Elems is nil for the named form.
type PatStruct struct {
	Path   []string
	Fields map[string]Pattern
	Elems  []Pattern
}

func (PatStruct) pattern() {}

// PatternString renders a debug form of a pattern; used by diagnostics, not by
// code generation.
func PatternString(p Pattern) string {
	switch pt := p.(type) {
	case PatWildcard:
		return "_"
	case PatVar:
		return pt.Name
	case PatLit:
		return fmt.Sprintf("%v", pt.Value)
	case PatTuple:
		parts := make([]string, len(pt.Elems))
		for i, e := range pt.Elems {
			parts[i] = PatternString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case PatPath:
		return strings.Join(pt.Segments, ".")
	case PatStruct:
		name := strings.Join(pt.Path, ".")
		if pt.Elems != nil {
			parts := make([]string, len(pt.Elems))
			for i, e := range pt.Elems {
				parts[i] = PatternString(e)
			}
			return name + "(" + strings.Join(parts, ", ") + ")"
		}
		parts := make([]string, 0, len(pt.Fields))
		for k, v := range pt.Fields {
			parts = append(parts, k+": "+PatternString(v))
		}
		return name + "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<pattern>"
	}
}
