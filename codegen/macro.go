package codegen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/caseywise/tmplc/parser"
)

// emitMacro hoists a top-level Macro node out of the flattened template
// body into its own Go function, since Go has no nested function
// declarations and every macro call site needs a stable name to call.
func (g *Generator) emitMacro(f *jen.File, m *parser.Macro) error {
	fnScope := newScope(nil)
	params := []jen.Code{jen.Id("w").Qual("io", "Writer")}
	for _, p := range m.Params {
		ident := fnScope.bind(p.Name)
		params = append(params, jen.Id(ident).Interface())
	}
	usesCaller := macroUsesCaller(m.Body)
	if usesCaller {
		callerIdent := fnScope.bind("caller")
		params = append(params, jen.Id(callerIdent).Func().Params().Error())
	}

	var bodyErr error
	f.Func().Id(g.macroFuncName(m.Name)).Params(params...).Error().BlockFunc(func(grp *jen.Group) {
		if err := g.lowerBody(grp, fnScope, m.Body); err != nil {
			bodyErr = err
			return
		}
		grp.Return(jen.Nil())
	})
	return bodyErr
}

// lowerCall emits a call to a hoisted macro function, validating the
// call against the macro registry the way macros.ValidateCall already
// does for arity and default-filling, then forwarding a {% call
// %}...{% endcall %} body as a func() error closure when present.
func (g *Generator) lowerCall(group *jen.Group, sc *scope, n *parser.Call) error {
	lookupName := n.Name
	if n.Scope != "" {
		lookupName = n.Scope + "." + n.Name
	}
	def, ok := g.macros.Get(lookupName)
	if !ok {
		return &Error{Span: n.Span(), Message: "call to undefined macro " + lookupName}
	}
	if err := g.macros.ValidateCall(lookupName, n.Args, n.NamedArgs); err != nil {
		return &Error{Span: n.Span(), Message: err.Error()}
	}

	args := []jen.Code{jen.Id("w")}
	for i, p := range def.Params {
		if i < len(n.Args) {
			code, err := g.lowerExpr(group, sc, n.Args[i])
			if err != nil {
				return err
			}
			args = append(args, code)
			continue
		}
		if named, ok := n.NamedArgs[p.Name]; ok {
			code, err := g.lowerExpr(group, sc, named)
			if err != nil {
				return err
			}
			args = append(args, code)
			continue
		}
		if p.Default != nil {
			code, err := g.lowerExpr(group, sc, p.Default)
			if err != nil {
				return err
			}
			args = append(args, code)
			continue
		}
		return &Error{Span: n.Span(), Message: "missing argument for macro parameter " + p.Name}
	}

	if n.Body != nil {
		callerScope := newScope(sc)
		var bodyErr error
		closure := jen.Func().Params().Error().BlockFunc(func(grp *jen.Group) {
			if err := g.lowerBody(grp, callerScope, n.Body); err != nil {
				bodyErr = err
				return
			}
			grp.Return(jen.Nil())
		})
		if bodyErr != nil {
			return bodyErr
		}
		args = append(args, closure)
	}

	group.If(
		jen.Id("err").Op(":=").Id(g.macroFuncName(lookupName)).Call(args...),
		jen.Id("err").Op("!=").Nil(),
	).Block(jen.Return(jen.Id("err")))
	return nil
}

func (g *Generator) macroFuncName(name string) string {
	return g.opts.RecordType + "Macro_" + strings.ReplaceAll(name, ".", "_")
}

// macroUsesCaller walks a macro body looking for a bare `caller()`
// expression, mirroring the shape of macros.calledMacros's walk so the
// two stay in lockstep as new node/expr kinds are added.
func macroUsesCaller(body []parser.Node) bool {
	for _, n := range body {
		if nodeUsesCaller(n) {
			return true
		}
	}
	return false
}

func nodeUsesCaller(n parser.Node) bool {
	switch node := n.(type) {
	case *parser.ExprStmt:
		return exprUsesCaller(node.Value)
	case *parser.Let:
		return node.Value != nil && exprUsesCaller(node.Value)
	case *parser.If:
		for _, arm := range node.Arms {
			if arm.Expr != nil && exprUsesCaller(arm.Expr) {
				return true
			}
			if nodesUseCaller(arm.Body) {
				return true
			}
		}
		return false
	case *parser.For:
		return exprUsesCaller(node.Iter) || nodesUseCaller(node.Body) || nodesUseCaller(node.Else)
	case *parser.Match:
		for _, arm := range node.Arms {
			if arm.Guard != nil && exprUsesCaller(arm.Guard) {
				return true
			}
			if nodesUseCaller(arm.Body) {
				return true
			}
		}
		return false
	case *parser.Call:
		for _, a := range node.Args {
			if exprUsesCaller(a) {
				return true
			}
		}
		return nodesUseCaller(node.Body)
	case *parser.Filter:
		return nodesUseCaller(node.Body)
	}
	return false
}

func nodesUseCaller(nodes []parser.Node) bool {
	for _, n := range nodes {
		if nodeUsesCaller(n) {
			return true
		}
	}
	return false
}

func exprUsesCaller(e parser.Expr) bool {
	switch ex := e.(type) {
	case *parser.CallExpr:
		if v, ok := ex.Callee.(*parser.Var); ok && v.Name == "caller" && len(ex.Args) == 0 {
			return true
		}
		if exprUsesCaller(ex.Callee) {
			return true
		}
		for _, a := range ex.Args {
			if exprUsesCaller(a) {
				return true
			}
		}
		return false
	case *parser.MethodCall:
		if exprUsesCaller(ex.Receiver) {
			return true
		}
		for _, a := range ex.Args {
			if exprUsesCaller(a) {
				return true
			}
		}
		return false
	case *parser.FilterExpr:
		if exprUsesCaller(ex.Value) {
			return true
		}
		for _, a := range ex.Args {
			if exprUsesCaller(a) {
				return true
			}
		}
		return false
	case *parser.Try:
		return exprUsesCaller(ex.Inner)
	case *parser.Unary:
		return exprUsesCaller(ex.Operand)
	case *parser.Binary:
		return exprUsesCaller(ex.Left) || exprUsesCaller(ex.Right)
	case *parser.Attr:
		return exprUsesCaller(ex.Object)
	case *parser.Index:
		return exprUsesCaller(ex.Object) || exprUsesCaller(ex.Key)
	case *parser.Group:
		return exprUsesCaller(ex.Inner)
	}
	return false
}
