package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/caseywise/tmplc/parser"
	"github.com/caseywise/tmplc/pattern"
)

func (g *Generator) lowerBody(group *jen.Group, sc *scope, nodes []parser.Node) error {
	for _, n := range nodes {
		if err := g.lowerNode(group, sc, n); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) lowerNode(group *jen.Group, sc *scope, n parser.Node) error {
	switch node := n.(type) {
	case *parser.Lit:
		return g.lowerLiteralWrite(group, node.Text)
	case *parser.Raw:
		return g.lowerLiteralWrite(group, node.Text)
	case *parser.Comment:
		return nil
	case *parser.ExprStmt:
		return g.lowerExprStmt(group, sc, node)
	case *parser.Let:
		return g.lowerLet(group, sc, node)
	case *parser.If:
		return g.lowerIf(group, sc, node)
	case *parser.For:
		return g.lowerFor(group, sc, node)
	case *parser.Match:
		return g.lowerMatch(group, sc, node)
	case *parser.Break:
		group.Add(jen.Break())
		return nil
	case *parser.Continue:
		group.Add(jen.Continue())
		return nil
	case *parser.Call:
		return g.lowerCall(group, sc, node)
	case *parser.Filter:
		return g.lowerFilterBlock(group, sc, node)
	case *parser.Macro:
		return &Error{Span: node.Span(), Message: "macro definitions are only supported at template top level"}
	default:
		return &Error{Span: n.Span(), Message: fmt.Sprintf("unsupported node %T", n)}
	}
}

func (g *Generator) lowerLiteralWrite(group *jen.Group, text string) error {
	if text == "" {
		return nil
	}
	group.If(
		jen.List(jen.Id("_"), jen.Id("err")).Op(":=").Qual("io", "WriteString").Call(jen.Id("w"), jen.Lit(text)),
		jen.Id("err").Op("!=").Nil(),
	).Block(jen.Return(jen.Id("err")))
	return nil
}

func (g *Generator) lowerExprStmt(group *jen.Group, sc *scope, n *parser.ExprStmt) error {
	if isCallerCall(n.Value) {
		ident, ok := sc.resolve("caller")
		if !ok {
			return &Error{Span: n.Span(), Message: "caller() used outside a {% call %}...{% endcall %} block"}
		}
		group.If(
			jen.Id("err").Op(":=").Id(ident).Call(),
			jen.Id("err").Op("!=").Nil(),
		).Block(jen.Return(jen.Id("err")))
		return nil
	}
	valCode, err := g.lowerExpr(group, sc, n.Value)
	if err != nil {
		return err
	}
	group.If(
		jen.Id("err").Op(":=").Id(g.writeFunc()).Call(jen.Id("w"), valCode),
		jen.Id("err").Op("!=").Nil(),
	).Block(jen.Return(jen.Id("err")))
	return nil
}

func (g *Generator) lowerLet(group *jen.Group, sc *scope, n *parser.Let) error {
	compiled, err := pattern.Compile(n.Target)
	if err != nil {
		return &Error{Span: n.Span(), Message: err.Error()}
	}
	if n.Value == nil {
		for _, b := range compiled.Bindings {
			ident := sc.bind(b.Name)
			group.Var().Id(ident).Interface()
		}
		return nil
	}
	valCode, err := g.lowerExpr(group, sc, n.Value)
	if err != nil {
		return err
	}
	if len(compiled.Bindings) == 1 && len(compiled.Bindings[0].Path) == 0 {
		ident := sc.bind(compiled.Bindings[0].Name)
		group.Id(ident).Op(":=").Add(valCode)
		return nil
	}
	tmp := g.newTemp("v")
	group.Id(tmp).Op(":=").Add(valCode)
	g.emitBindings(group, sc, compiled, jen.Id(tmp))
	return nil
}

func (g *Generator) emitBindings(group *jen.Group, sc *scope, compiled *pattern.Compiled, source jen.Code) {
	for _, b := range compiled.Bindings {
		ident := sc.bind(b.Name)
		group.Id(ident).Op(":=").Add(g.accessPath(source, b.Path))
	}
}

func (g *Generator) accessPath(source jen.Code, steps []pattern.Step) *jen.Statement {
	code := jen.Add(source)
	for _, s := range steps {
		switch s.Kind {
		case pattern.AccessField:
			code = code.Dot(s.Field)
		case pattern.AccessElem:
			code = code.Index(jen.Lit(s.Index))
		}
	}
	return code
}

func isCallerCall(e parser.Expr) bool {
	call, ok := e.(*parser.CallExpr)
	if !ok || len(call.Args) > 0 || len(call.NamedArgs) > 0 {
		return false
	}
	v, ok := call.Callee.(*parser.Var)
	return ok && v.Name == "caller"
}
