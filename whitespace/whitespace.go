// Package whitespace normalizes the literal text between tags according
// to the active Strip policy and the per-tag trim markers recorded by
// the parser.
package whitespace

import (
	"strings"

	"github.com/caseywise/tmplc/parser"
)

// Strip is the whitespace-normalization mode applied across a template.
// A tag's own '-'/'+' marker always overrides the active Strip for that
// tag's own boundary; Strip only governs boundaries left at default.
type Strip int

const (
	StripNone      Strip = iota // literal bytes preserved exactly
	StripTail                   // strip exactly one trailing '\n' of the whole template
	StripTrimLines              // at default tag boundaries only: drop the blank rest of the line after a tag (with its newline) and the blank start of the line before a tag; other lines are not trimmed and empty lines are kept
	StripEager                  // TrimLines, plus collapse interior whitespace runs to one space
)

// UnknownStripError is returned by ParseStrip for an unrecognized policy name.
type UnknownStripError struct{ Name string }

func (e *UnknownStripError) Error() string { return "unknown strip policy: " + e.Name }

// ParseStrip maps a config value to a Strip policy.
func ParseStrip(name string) (Strip, error) {
	switch name {
	case "", "none":
		return StripNone, nil
	case "tail":
		return StripTail, nil
	case "trim_lines":
		return StripTrimLines, nil
	case "eager":
		return StripEager, nil
	default:
		return StripNone, &UnknownStripError{Name: name}
	}
}

// Processor applies a Strip policy to a parsed node tree, honoring each
// tag's own Trim overrides along the way.
type Processor struct {
	policy Strip
}

// NewProcessor builds a Processor for the given Strip policy.
func NewProcessor(policy Strip) *Processor {
	return &Processor{policy: policy}
}

// ProcessNodes rewrites a top-level (or block-body) node list in place,
// trimming the Lit nodes adjacent to every tag according to that tag's
// own Trim markers and the active Strip policy, then applies the Tail
// policy's whole-template trailing-newline rule to the last leaf Lit.
func (p *Processor) ProcessNodes(nodes []parser.Node) []parser.Node {
	out := p.processSiblings(nodes, parser.TrimDefault, parser.TrimDefault)
	if p.policy == StripTail {
		stripTailNewline(out)
	}
	if p.policy == StripEager {
		collapseBody(out)
	}
	return out
}

// processSiblings handles one list of sibling nodes: it rewrites
// neighboring Lit text according to adjacent tags' Trim fields, and
// recurses into every compound node's own child lists. lead and trail
// are the boundary markers an enclosing construct's own opening and
// closing tags impose on this list's first and last Lit respectively;
// at the top level both are TrimDefault since there is no enclosing tag.
func (p *Processor) processSiblings(nodes []parser.Node, lead, trail parser.TrimFlag) []parser.Node {
	for i, n := range nodes {
		switch lit := n.(type) {
		case *parser.Lit:
			text := lit.Text
			if i > 0 {
				text = p.trimLeading(text, boundaryAction(nodes[i-1], false))
			} else {
				text = p.trimLeading(text, lead)
			}
			if i < len(nodes)-1 {
				text = p.trimTrailing(text, boundaryAction(nodes[i+1], true))
			} else {
				text = p.trimTrailing(text, trail)
			}
			lit.Text = text
		default:
			p.processCompound(n)
		}
	}
	return nodes
}

// boundaryAction reads the Trim marker the neighbor contributes at this
// boundary: pre=true means we want the neighbor's Pre (it follows the
// Lit), pre=false means we want its Post (it precedes the Lit).
//
// Most tag-producing nodes have one delimiter pair and the embedded
// Trim covers both sides. Nodes with independent opening/closing
// delimiters (For, Match, BlockDef, Macro, Call, Filter, Raw) instead
// need the closing tag's own Post for the trailing boundary, which
// CloseTrimOf supplies. If is the odd one out: it has no delimiter of
// its own (its "opening" tag is its first arm), so its embedded Trim
// holds the endif tag's markers outright, and the leading boundary must
// come from the first arm's own Trim.Pre instead.
func boundaryAction(neighbor parser.Node, pre bool) parser.TrimFlag {
	if pre {
		if ifNode, ok := neighbor.(*parser.If); ok && len(ifNode.Arms) > 0 {
			return ifNode.Arms[0].Trim.Pre
		}
		trim, ok := parser.TrimOf(neighbor)
		if !ok {
			return parser.TrimDefault
		}
		return trim.Pre
	}
	if close, ok := parser.CloseTrimOf(neighbor); ok {
		return close.Post
	}
	trim, ok := parser.TrimOf(neighbor)
	if !ok {
		return parser.TrimDefault
	}
	return trim.Post
}

func (p *Processor) trimLeading(text string, action parser.TrimFlag) string {
	switch action {
	case parser.TrimSuppress:
		return strings.TrimLeft(text, " \t\r\n")
	case parser.TrimPreserve:
		return text
	default:
		return p.defaultTrimLeading(text)
	}
}

func (p *Processor) trimTrailing(text string, action parser.TrimFlag) string {
	switch action {
	case parser.TrimSuppress:
		return strings.TrimRight(text, " \t\r\n")
	case parser.TrimPreserve:
		return text
	default:
		return p.defaultTrimTrailing(text)
	}
}

// defaultTrimLeading applies the active Strip policy's own idea of a
// default tag boundary: TrimLines/Eager eat one leading blank line the
// way Jinja's lstrip_blocks does; None and Tail leave interior
// boundaries alone (Tail only governs the template's final newline).
func (p *Processor) defaultTrimLeading(text string) string {
	if p.policy != StripTrimLines && p.policy != StripEager {
		return text
	}
	trimmed := strings.TrimLeft(text, " \t")
	if strings.HasPrefix(trimmed, "\n") {
		return trimmed[1:]
	}
	return text
}

func (p *Processor) defaultTrimTrailing(text string) string {
	if p.policy != StripTrimLines && p.policy != StripEager {
		return text
	}
	idx := strings.LastIndexByte(text, '\n')
	rest := text[idx+1:]
	if strings.TrimRight(rest, " \t") == "" {
		return text[:idx+1]
	}
	return text
}

// processCompound recurses into a tag-producing node's own child lists
// and, for Eager, collapses interior whitespace runs in its literals.
func (p *Processor) processCompound(n parser.Node) {
	switch node := n.(type) {
	case *parser.If:
		for i := range node.Arms {
			trail := node.Trim.Pre
			if i < len(node.Arms)-1 {
				trail = node.Arms[i+1].Trim.Pre
			}
			node.Arms[i].Body = p.processSiblings(node.Arms[i].Body, node.Arms[i].Trim.Post, trail)
		}
	case *parser.For:
		bodyTrail := node.CloseTrim.Pre
		if len(node.Else) > 0 {
			bodyTrail = node.ElseTrim.Pre
		}
		node.Body = p.processSiblings(node.Body, node.Trim.Post, bodyTrail)
		node.Else = p.processSiblings(node.Else, node.ElseTrim.Post, node.CloseTrim.Pre)
	case *parser.Match:
		for i := range node.Arms {
			trail := node.CloseTrim.Pre
			if i < len(node.Arms)-1 {
				trail = node.Arms[i+1].Trim.Pre
			}
			node.Arms[i].Body = p.processSiblings(node.Arms[i].Body, node.Arms[i].Trim.Post, trail)
		}
	case *parser.BlockDef:
		node.Body = p.processSiblings(node.Body, node.Trim.Post, node.CloseTrim.Pre)
	case *parser.Macro:
		node.Body = p.processSiblings(node.Body, node.Trim.Post, node.CloseTrim.Pre)
	case *parser.Call:
		if node.Body != nil {
			node.Body = p.processSiblings(node.Body, node.Trim.Post, node.CloseTrim.Pre)
		}
	case *parser.Filter:
		node.Body = p.processSiblings(node.Body, node.Trim.Post, node.CloseTrim.Pre)
	}
	if p.policy == StripEager {
		for _, body := range childBodies(n) {
			collapseBody(body)
		}
	}
}

// collapseBody applies the Eager policy's "collapse interior runs of
// whitespace to a single space per line" rule to every Lit in body,
// recursing through nested compound nodes.
func collapseBody(body []parser.Node) {
	for _, child := range body {
		if lit, ok := child.(*parser.Lit); ok {
			lit.Text = collapseLine(lit.Text)
			continue
		}
		for _, nested := range childBodies(child) {
			collapseBody(nested)
		}
	}
}

func childBodies(n parser.Node) [][]parser.Node {
	switch node := n.(type) {
	case *parser.If:
		bodies := make([][]parser.Node, len(node.Arms))
		for i := range node.Arms {
			bodies[i] = node.Arms[i].Body
		}
		return bodies
	case *parser.For:
		return [][]parser.Node{node.Body, node.Else}
	case *parser.Match:
		bodies := make([][]parser.Node, len(node.Arms))
		for i := range node.Arms {
			bodies[i] = node.Arms[i].Body
		}
		return bodies
	case *parser.BlockDef:
		return [][]parser.Node{node.Body}
	case *parser.Macro:
		return [][]parser.Node{node.Body}
	case *parser.Call:
		if node.Body != nil {
			return [][]parser.Node{node.Body}
		}
	case *parser.Filter:
		return [][]parser.Node{node.Body}
	}
	return nil
}

// collapseLine collapses runs of horizontal whitespace within each line
// to a single space, leaving line breaks intact.
func collapseLine(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = collapseSpaces(line)
	}
	return strings.Join(lines, "\n")
}

func collapseSpaces(line string) string {
	var b strings.Builder
	inRun := false
	for _, r := range line {
		if r == ' ' || r == '\t' {
			if inRun {
				continue
			}
			inRun = true
			b.WriteByte(' ')
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// stripTailNewline removes exactly one trailing '\n' from the last Lit
// reachable in document order, implementing the Tail policy.
func stripTailNewline(nodes []parser.Node) {
	last := lastLit(nodes)
	if last != nil {
		last.Text = strings.TrimSuffix(last.Text, "\n")
	}
}

func lastLit(nodes []parser.Node) *parser.Lit {
	for i := len(nodes) - 1; i >= 0; i-- {
		if lit, ok := nodes[i].(*parser.Lit); ok {
			return lit
		}
		bodies := childBodies(nodes[i])
		for j := len(bodies) - 1; j >= 0; j-- {
			if found := lastLit(bodies[j]); found != nil {
				return found
			}
		}
	}
	return nil
}
