package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/caseywise/tmplc/parser"
)

// lowerFilterBlock lowers a `{% filter name %}...{% endfilter %}` block.
// Writes inside the body are redirected to a local buffer by shadowing
// the `w` identifier in a nested Go block, then the named filter runs
// against the buffered text and the result is written through the
// normal write<Type> helper against the real outer writer.
func (g *Generator) lowerFilterBlock(group *jen.Group, sc *scope, n *parser.Filter) error {
	bufTmp := g.newTemp("buf")
	group.Var().Id(bufTmp).Qual("bytes", "Buffer")

	bodyScope := newScope(sc)
	var bodyErr error
	group.BlockFunc(func(inner *jen.Group) {
		inner.Id("w").Op(":=").Op("&").Id(bufTmp)
		if err := g.lowerBody(inner, bodyScope, n.Body); err != nil {
			bodyErr = err
		}
	})
	if bodyErr != nil {
		return bodyErr
	}

	argCodes, err := g.lowerExprs(group, sc, n.Args)
	if err != nil {
		return err
	}
	callArgs := append([]jen.Code{jen.Lit(n.Name), jen.Id(bufTmp).Dot("String").Call()}, argCodes...)

	vTmp := g.newTemp("f")
	eTmp := g.newTemp("fe")
	group.List(jen.Id(vTmp), jen.Id(eTmp)).Op(":=").Id(g.filterVar()).Dot("Apply").Call(callArgs...)
	group.If(jen.Id(eTmp).Op("!=").Nil()).Block(jen.Return(jen.Id(eTmp)))

	group.If(
		jen.Id("err").Op(":=").Id(g.writeFunc()).Call(jen.Id("w"), jen.Id(vTmp)),
		jen.Id("err").Op("!=").Nil(),
	).Block(jen.Return(jen.Id("err")))
	return nil
}
