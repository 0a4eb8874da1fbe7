// Package macros resolves macro definitions and call sites at compile
// time: arity and named-argument validation against each macro's formal
// parameter list, and rejection of direct or indirect macro recursion,
// since the generator emits one non-recursive Go function per macro and
// has no runtime call stack to unwind a cycle on.
package macros

import "github.com/caseywise/tmplc/parser"

// Error reports a macro resolution failure: an unknown macro, a bad
// call site, or a recursive call cycle.
type Error struct {
	Macro   string
	Message string
}

func (e *Error) Error() string {
	if e.Macro == "" {
		return "macros: " + e.Message
	}
	return "macros: " + e.Macro + ": " + e.Message
}

// Registry is the set of macros visible to one compiled template,
// keyed by their call name (scope-prefixed for `{% import ... as scope %}`
// imports, bare for macros defined in the same file).
type Registry struct {
	macros map[string]*parser.Macro
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{macros: make(map[string]*parser.Macro)}
}

// Collect walks a template's top-level node list and registers every
// macro definition found, under its bare name.
func Collect(nodes []parser.Node) (*Registry, error) {
	r := NewRegistry()
	for _, n := range nodes {
		m, ok := n.(*parser.Macro)
		if !ok {
			continue
		}
		if _, exists := r.macros[m.Name]; exists {
			return nil, &Error{Macro: m.Name, Message: "macro redefined in the same template"}
		}
		r.macros[m.Name] = m
	}
	return r, nil
}

// Import copies every macro from other into r under scope ("" for a
// bare `{% import "file.html" %}`, the alias for `... as scope`). names,
// when non-empty, restricts the import to exactly those macro names.
func (r *Registry) Import(other *Registry, scope string, names []string) error {
	pick := func(name string) bool {
		if len(names) == 0 {
			return true
		}
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
	for name, m := range other.macros {
		if !pick(name) {
			continue
		}
		key := name
		if scope != "" {
			key = scope + "." + name
		}
		r.macros[key] = m
	}
	if len(names) > 0 {
		for _, n := range names {
			if _, ok := other.macros[n]; !ok {
				return &Error{Macro: n, Message: "not found in imported template"}
			}
		}
	}
	return nil
}

// Get looks up a macro by its call name.
func (r *Registry) Get(name string) (*parser.Macro, bool) {
	m, ok := r.macros[name]
	return m, ok
}

// ValidateCall checks a call site's positional and named arguments
// against the target macro's formal parameter list: every named
// argument must name a real parameter, every parameter without a
// default must be satisfied by a positional slot or a named argument,
// and there must be no more positional arguments than parameters.
func (r *Registry) ValidateCall(name string, args []parser.Expr, namedArgs map[string]parser.Expr) error {
	m, ok := r.macros[name]
	if !ok {
		return &Error{Macro: name, Message: "undefined macro"}
	}
	if len(args) > len(m.Params) {
		return &Error{Macro: name, Message: "too many positional arguments"}
	}
	paramIndex := make(map[string]int, len(m.Params))
	for i, p := range m.Params {
		paramIndex[p.Name] = i
	}
	for key := range namedArgs {
		if _, ok := paramIndex[key]; !ok {
			return &Error{Macro: name, Message: "unknown named argument " + key}
		}
	}
	for i, p := range m.Params {
		if i < len(args) {
			continue
		}
		if _, ok := namedArgs[p.Name]; ok {
			continue
		}
		if p.Default != nil {
			continue
		}
		return &Error{Macro: name, Message: "missing required argument " + p.Name}
	}
	return nil
}

// CheckRecursion builds the macro call graph (every macro this
// registry defines, and which other registered macros its body calls)
// and rejects any cycle, direct or indirect.
func (r *Registry) CheckRecursion() error {
	graph := make(map[string][]string, len(r.macros))
	for name, m := range r.macros {
		graph[name] = calledMacros(m.Body, r)
	}

	visited := make(map[string]bool)
	inStack := make(map[string]bool)

	var visit func(string) error
	visit = func(name string) error {
		visited[name] = true
		inStack[name] = true
		for _, callee := range graph[name] {
			if inStack[callee] {
				return &Error{Macro: name, Message: "recursive call to " + callee}
			}
			if !visited[callee] {
				if err := visit(callee); err != nil {
					return err
				}
			}
		}
		inStack[name] = false
		return nil
	}

	for name := range graph {
		if !visited[name] {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// calledMacros scans body for call sites naming a macro this registry
// knows about, recursing into every nested node list.
func calledMacros(body []parser.Node, r *Registry) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if _, ok := r.macros[name]; ok && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	var walkExpr func(parser.Expr)
	walkExpr = func(e parser.Expr) {
		switch ex := e.(type) {
		case *parser.CallExpr:
			if v, ok := ex.Callee.(*parser.Var); ok {
				add(v.Name)
			}
			walkExpr(ex.Callee)
			for _, a := range ex.Args {
				walkExpr(a)
			}
			for _, a := range ex.NamedArgs {
				walkExpr(a)
			}
		case *parser.Binary:
			walkExpr(ex.Left)
			walkExpr(ex.Right)
		case *parser.Unary:
			walkExpr(ex.Operand)
		case *parser.FilterExpr:
			walkExpr(ex.Value)
			for _, a := range ex.Args {
				walkExpr(a)
			}
		case *parser.Try:
			walkExpr(ex.Inner)
		case *parser.Index:
			walkExpr(ex.Object)
			walkExpr(ex.Key)
		case *parser.Attr:
			walkExpr(ex.Object)
		case *parser.MethodCall:
			walkExpr(ex.Receiver)
			for _, a := range ex.Args {
				walkExpr(a)
			}
		}
	}

	var walk func([]parser.Node)
	walk = func(nodes []parser.Node) {
		for _, n := range nodes {
			switch node := n.(type) {
			case *parser.ExprStmt:
				walkExpr(node.Value)
			case *parser.Let:
				if node.Value != nil {
					walkExpr(node.Value)
				}
			case *parser.Call:
				add(node.Name)
				walk(node.Body)
			case *parser.If:
				for _, arm := range node.Arms {
					if arm.Expr != nil {
						walkExpr(arm.Expr)
					}
					walk(arm.Body)
				}
			case *parser.For:
				walkExpr(node.Iter)
				walk(node.Body)
				walk(node.Else)
			case *parser.Match:
				walkExpr(node.Scrutinee)
				for _, arm := range node.Arms {
					walk(arm.Body)
				}
			case *parser.BlockDef:
				walk(node.Body)
			case *parser.Filter:
				walk(node.Body)
			}
		}
	}
	walk(body)
	return out
}
