package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/caseywise/tmplc/parser"
	"github.com/caseywise/tmplc/pattern"
)

// lowerFor compiles a For node to a Go range loop. The `loop` record
// (index/index0/first/last) is synthesized fresh each iteration as an
// anonymous-struct value rather than threaded in from a shared
// runtime.Context, since every binding codegen produces is a plain Go
// local, never a value looked up through an interface at render time.
func (g *Generator) lowerFor(group *jen.Group, sc *scope, n *parser.For) error {
	iterCode, err := g.lowerExpr(group, sc, n.Iter)
	if err != nil {
		return err
	}
	compiled, err := pattern.Compile(n.Target)
	if err != nil {
		return &Error{Span: n.Span(), Message: err.Error()}
	}

	itemsTmp := g.newTemp("items")
	group.Id(itemsTmp).Op(":=").Add(iterCode)

	if len(n.Else) > 0 {
		elseScope := newScope(sc)
		var elseErr error
		group.If(jen.Len(jen.Id(itemsTmp)).Op("==").Lit(0)).BlockFunc(func(grp *jen.Group) {
			if err := g.lowerBody(grp, elseScope, n.Else); err != nil {
				elseErr = err
			}
		})
		if elseErr != nil {
			return elseErr
		}
	}

	idxTmp := g.newTemp("i")
	itemTmp := g.newTemp("item")
	bodyScope := newScope(sc)
	var bodyErr error

	group.For(
		jen.List(jen.Id(idxTmp), jen.Id(itemTmp)).Op(":=").Range().Id(itemsTmp),
	).BlockFunc(func(grp *jen.Group) {
		g.emitBindings(grp, bodyScope, compiled, jen.Id(itemTmp))

		loopIdent := bodyScope.bind("loop")
		grp.Id(loopIdent).Op(":=").Add(jen.Struct(
			jen.Id("Index").Int(),
			jen.Id("Index0").Int(),
			jen.Id("First").Bool(),
			jen.Id("Last").Bool(),
		).Values(jen.Dict{
			jen.Id("Index"):  jen.Id(idxTmp).Op("+").Lit(1),
			jen.Id("Index0"): jen.Id(idxTmp),
			jen.Id("First"):  jen.Id(idxTmp).Op("==").Lit(0),
			jen.Id("Last"):   jen.Id(idxTmp).Op("==").Len(jen.Id(itemsTmp)).Op("-").Lit(1),
		}))

		if err := g.lowerBody(grp, bodyScope, n.Body); err != nil {
			bodyErr = err
		}
	})
	return bodyErr
}
