package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/caseywise/tmplc/parser"
	"github.com/caseywise/tmplc/pattern"
)

// lowerIf builds the Go if/else-if/else chain for an If node, working
// backwards from the last arm so each arm's generated code can be
// threaded in as the previous arm's else branch.
func (g *Generator) lowerIf(group *jen.Group, sc *scope, n *parser.If) error {
	var chain jen.Code
	for i := len(n.Arms) - 1; i >= 0; i-- {
		code, err := g.lowerCondArm(group, sc, n.Arms[i], chain)
		if err != nil {
			return err
		}
		chain = code
	}
	if chain != nil {
		group.Add(chain)
	}
	return nil
}

func (g *Generator) lowerCondArm(outer *jen.Group, sc *scope, arm parser.Cond, elseCode jen.Code) (jen.Code, error) {
	switch arm.Kind {
	case parser.CondElse:
		armScope := newScope(sc)
		var bodyErr error
		block := jen.BlockFunc(func(grp *jen.Group) {
			if err := g.lowerBody(grp, armScope, arm.Body); err != nil {
				bodyErr = err
			}
		})
		if bodyErr != nil {
			return nil, bodyErr
		}
		return block, nil

	case parser.CondExpr:
		condCode, err := g.lowerExpr(outer, sc, arm.Expr)
		if err != nil {
			return nil, err
		}
		armScope := newScope(sc)
		var bodyErr error
		st := jen.If(g.truthy(arm.Expr, condCode)).BlockFunc(func(grp *jen.Group) {
			if err := g.lowerBody(grp, armScope, arm.Body); err != nil {
				bodyErr = err
			}
		})
		if bodyErr != nil {
			return nil, bodyErr
		}
		if elseCode != nil {
			st = st.Else().Add(elseCode)
		}
		return st, nil

	case parser.CondLet:
		compiled, err := pattern.Compile(arm.LetTarget)
		if err != nil {
			return nil, &Error{Span: arm.Span, Message: err.Error()}
		}
		valCode, err := g.lowerExpr(outer, sc, arm.Expr)
		if err != nil {
			return nil, err
		}
		armScope := newScope(sc)
		tmp := g.newTemp("c")
		var bodyErr error

		if len(compiled.TypePath) == 0 {
			// A bare-var/wildcard target always matches: `if let` here
			// is just a destructuring binding, not a conditional.
			block := jen.BlockFunc(func(grp *jen.Group) {
				grp.Id(tmp).Op(":=").Add(valCode)
				g.emitBindings(grp, armScope, compiled, jen.Id(tmp))
				if err := g.lowerBody(grp, armScope, arm.Body); err != nil {
					bodyErr = err
				}
			})
			if bodyErr != nil {
				return nil, bodyErr
			}
			return block, nil
		}

		okIdent := tmp + "Ok"
		st := jen.If(
			jen.List(jen.Id(tmp), jen.Id(okIdent)).Op(":=").Add(valCode).Assert(g.typePathCode(compiled.TypePath)),
			jen.Id(okIdent),
		).BlockFunc(func(grp *jen.Group) {
			g.emitBindings(grp, armScope, compiled, jen.Id(tmp))
			if err := g.lowerBody(grp, armScope, arm.Body); err != nil {
				bodyErr = err
			}
		})
		if bodyErr != nil {
			return nil, bodyErr
		}
		if elseCode != nil {
			st = st.Else().Add(elseCode)
		}
		return st, nil
	}
	return nil, &Error{Span: arm.Span, Message: "unknown conditional arm kind"}
}

// truthy decides whether code already evaluates to a Go bool (a
// comparison, a logical combination, a negation, a bool literal) or
// needs filters.ToBool's looser "is this empty/zero" truthiness rule
// for a plain value condition (`{% if items %}`).
func (g *Generator) truthy(expr parser.Expr, code jen.Code) jen.Code {
	switch e := expr.(type) {
	case *parser.Binary:
		switch e.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return code
		}
	case *parser.Unary:
		if e.Op == "!" {
			return code
		}
	case *parser.LitBool:
		return code
	case *parser.Group:
		return g.truthy(e.Inner, code)
	}
	return jen.Qual(filtersPkg, "ToBool").Call(code)
}

// typePathCode resolves a pattern's TypePath to the Go type a match arm
// asserts the scrutinee against. Only the final segment is used: match
// scrutinees are expected to be sum-type variants declared in the same
// package as the record being rendered, so a deeper qualifying prefix
// (e.g. a `some.Kind.Variant` path) names no additional package lookup.
func (g *Generator) typePathCode(segments []string) jen.Code {
	if len(segments) == 0 {
		return jen.Interface()
	}
	return jen.Id(segments[len(segments)-1])
}
