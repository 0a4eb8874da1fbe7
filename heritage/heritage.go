// Package heritage resolves the `extends`/`block`/`super()` chain (and
// flattens `include`) into the single flat node list the generator
// compiles.
package heritage

import (
	"fmt"

	"github.com/caseywise/tmplc/parser"
)

// Loader resolves a template path (an extends/include target) to its
// parsed form. graph.Graph implements this.
type Loader interface {
	Load(path string) (*parser.Template, error)
}

// Error reports a heritage-resolution failure: a missing parent, a
// missing include target without ignore_missing, or a non-literal
// extends/include path: these must be statically known.
type Error struct {
	Template string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("heritage: %s: %s", e.Template, e.Message)
}

// block is one `{% block name %}...{% endblock %}` definition, linked to
// the same-named block one level up the ancestor chain so `super()` can
// walk it.
type block struct {
	name   string
	body   []parser.Node
	parent *block
}

// Chain is one template's position in its extends ancestry: its own
// blocks, and a link to the parent's Chain.
type Chain struct {
	Name   string
	Tmpl   *parser.Template
	Parent *Chain
	blocks map[string]*block
}

// Resolve walks tmpl's `extends` chain back to its root, collecting
// every block definition at every level and linking same-named blocks
// across levels so `super()` resolves correctly in a child override.
func Resolve(loader Loader, tmpl *parser.Template, name string) (*Chain, error) {
	c := &Chain{Name: name, Tmpl: tmpl, blocks: make(map[string]*block)}
	if err := collectBlocks(tmpl.Children, c.blocks); err != nil {
		return nil, err
	}

	ext := findExtends(tmpl.Children)
	if ext == nil {
		return c, nil
	}
	parentName, err := literalPath(ext.Path)
	if err != nil {
		return nil, &Error{Template: name, Message: "extends path must be a literal string: " + err.Error()}
	}
	parentTmpl, err := loader.Load(parentName)
	if err != nil {
		return nil, &Error{Template: name, Message: fmt.Sprintf("loading parent %q: %v", parentName, err)}
	}
	parentChain, err := Resolve(loader, parentTmpl, parentName)
	if err != nil {
		return nil, err
	}
	c.Parent = parentChain

	for bname, parentBlock := range parentChain.blocks {
		if childBlock, ok := c.blocks[bname]; ok {
			childBlock.parent = parentBlock
		} else {
			c.blocks[bname] = parentBlock
		}
	}
	return c, nil
}

// Flatten produces the final node list for the whole chain: the root
// ancestor's own shape, with every block replaced by its most-derived
// override (super() calls within an override resolved against the
// override's own parent block), and every include expanded in place.
func (c *Chain) Flatten(loader Loader) ([]parser.Node, error) {
	root := c
	for root.Parent != nil {
		root = root.Parent
	}
	return resolveNodes(root.Tmpl.Children, c.blocks, loader)
}

// FlattenBlock produces the resolved node list for a single named block
// instead of the whole chain, for a directive that names a `block="..."`
// render entry point rather than the full template.
func (c *Chain) FlattenBlock(loader Loader, name string) ([]parser.Node, error) {
	b, ok := c.blocks[name]
	if !ok {
		return nil, &Error{Template: c.Name, Message: "no such block: " + name}
	}
	return resolveBlockBody(b, c.blocks, loader)
}

func resolveNodes(nodes []parser.Node, blocks map[string]*block, loader Loader) ([]parser.Node, error) {
	out := make([]parser.Node, 0, len(nodes))
	for _, n := range nodes {
		switch node := n.(type) {
		case *parser.Extends:
			continue // consumed by Resolve; never appears in flattened output
		case *parser.BlockDef:
			b, ok := blocks[node.Name]
			if !ok {
				b = &block{name: node.Name, body: node.Body}
			}
			resolved, err := resolveBlockBody(b, blocks, loader)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved...)
		case *parser.Include:
			included, err := resolveInclude(node, blocks, loader)
			if err != nil {
				return nil, err
			}
			out = append(out, included...)
		default:
			resolved, err := resolveChildren(n, blocks, loader)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
	}
	return out, nil
}

// resolveBlockBody expands a block's body, substituting super() calls
// with the linked parent block's own (already-resolved) content.
func resolveBlockBody(b *block, blocks map[string]*block, loader Loader) ([]parser.Node, error) {
	out := make([]parser.Node, 0, len(b.body))
	for _, n := range b.body {
		if isSuperCall(n) {
			if b.parent == nil {
				continue // no ancestor block: super() contributes nothing
			}
			parentContent, err := resolveBlockBody(b.parent, blocks, loader)
			if err != nil {
				return nil, err
			}
			out = append(out, parentContent...)
			continue
		}
		switch node := n.(type) {
		case *parser.Include:
			included, err := resolveInclude(node, blocks, loader)
			if err != nil {
				return nil, err
			}
			out = append(out, included...)
		case *parser.BlockDef:
			// A nested block definition inside a block body is its own
			// override point; resolve it against the same chain.
			nb, ok := blocks[node.Name]
			if !ok {
				nb = &block{name: node.Name, body: node.Body}
			}
			resolved, err := resolveBlockBody(nb, blocks, loader)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved...)
		default:
			resolved, err := resolveChildren(n, blocks, loader)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
	}
	return out, nil
}

func resolveInclude(n *parser.Include, blocks map[string]*block, loader Loader) ([]parser.Node, error) {
	path, err := literalPath(n.Path)
	if err != nil {
		return nil, &Error{Message: "include path must be a literal string: " + err.Error()}
	}
	tmpl, err := loader.Load(path)
	if err != nil {
		if n.IgnoreMissing {
			return nil, nil
		}
		return nil, &Error{Template: path, Message: fmt.Sprintf("loading include: %v", err)}
	}
	return resolveNodes(tmpl.Children, map[string]*block{}, loader)
}

// resolveChildren rewrites n's own nested body lists in place (If arms,
// For body/else, Match arms, Macro/Call/Filter bodies) and returns n.
// These constructs carry no block-override semantics of their own, but
// an include or a nested block may still appear inside them.
func resolveChildren(n parser.Node, blocks map[string]*block, loader Loader) (parser.Node, error) {
	var err error
	switch node := n.(type) {
	case *parser.If:
		for i := range node.Arms {
			node.Arms[i].Body, err = resolveNodes(node.Arms[i].Body, blocks, loader)
			if err != nil {
				return nil, err
			}
		}
	case *parser.For:
		node.Body, err = resolveNodes(node.Body, blocks, loader)
		if err != nil {
			return nil, err
		}
		node.Else, err = resolveNodes(node.Else, blocks, loader)
		if err != nil {
			return nil, err
		}
	case *parser.Match:
		for i := range node.Arms {
			node.Arms[i].Body, err = resolveNodes(node.Arms[i].Body, blocks, loader)
			if err != nil {
				return nil, err
			}
		}
	case *parser.Macro:
		node.Body, err = resolveNodes(node.Body, blocks, loader)
		if err != nil {
			return nil, err
		}
	case *parser.Call:
		if node.Body != nil {
			node.Body, err = resolveNodes(node.Body, blocks, loader)
			if err != nil {
				return nil, err
			}
		}
	case *parser.Filter:
		node.Body, err = resolveNodes(node.Body, blocks, loader)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

// collectBlocks walks nodes recursively, recording every block
// definition reachable from the template's top level.
func collectBlocks(nodes []parser.Node, into map[string]*block) error {
	for _, n := range nodes {
		switch node := n.(type) {
		case *parser.BlockDef:
			into[node.Name] = &block{name: node.Name, body: node.Body}
			if err := collectBlocks(node.Body, into); err != nil {
				return err
			}
		case *parser.If:
			for _, arm := range node.Arms {
				if err := collectBlocks(arm.Body, into); err != nil {
					return err
				}
			}
		case *parser.For:
			if err := collectBlocks(node.Body, into); err != nil {
				return err
			}
			if err := collectBlocks(node.Else, into); err != nil {
				return err
			}
		case *parser.Match:
			for _, arm := range node.Arms {
				if err := collectBlocks(arm.Body, into); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func findExtends(nodes []parser.Node) *parser.Extends {
	for _, n := range nodes {
		if ext, ok := n.(*parser.Extends); ok {
			return ext
		}
	}
	return nil
}

func literalPath(e parser.Expr) (string, error) {
	lit, ok := e.(*parser.LitString)
	if !ok {
		return "", fmt.Errorf("expected a string literal, got %T", e)
	}
	return lit.Value, nil
}

// isSuperCall reports whether n is a bare `{{ super() }}` expression
// statement, the marker the parser produces for TokenSuper.
func isSuperCall(n parser.Node) bool {
	stmt, ok := n.(*parser.ExprStmt)
	if !ok {
		return false
	}
	call, ok := stmt.Value.(*parser.CallExpr)
	if !ok || len(call.Args) > 0 || len(call.NamedArgs) > 0 {
		return false
	}
	v, ok := call.Callee.(*parser.Var)
	return ok && v.Name == "super"
}
