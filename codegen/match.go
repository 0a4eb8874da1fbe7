package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/caseywise/tmplc/parser"
	"github.com/caseywise/tmplc/pattern"
)

// lowerMatch compiles a Match node to a sequence of guarded attempts,
// each wrapped in `if !matched { ... }` so source order decides
// precedence the same way it does for an If chain's "first truthy arm
// wins" rule, and pattern.ValidateArms has already rejected an
// unreachable-by-construction catch-all. Exhaustiveness itself is
// delegated to a runtime fallback error rather than the host Go
// compiler, since interface type-switches carry no static
// exhaustiveness check the way a closed enum match would.
func (g *Generator) lowerMatch(group *jen.Group, sc *scope, n *parser.Match) error {
	if err := pattern.ValidateArms(n.Arms); err != nil {
		return &Error{Span: n.Span(), Message: err.Error()}
	}

	scrutCode, err := g.lowerExpr(group, sc, n.Scrutinee)
	if err != nil {
		return err
	}
	scrutTmp := g.newTemp("m")
	group.Id(scrutTmp).Op(":=").Add(scrutCode)
	matchedTmp := g.newTemp("matched")
	group.Id(matchedTmp).Op(":=").Lit(false)

	for _, arm := range n.Arms {
		compiled, err := pattern.Compile(arm.Pattern)
		if err != nil {
			return &Error{Span: arm.Span, Message: err.Error()}
		}
		armScope := newScope(sc)
		var bodyErr error

		group.If(jen.Op("!").Id(matchedTmp)).BlockFunc(func(attempt *jen.Group) {
			switch {
			case len(compiled.TypePath) > 0:
				valTmp := g.newTemp("v")
				attempt.If(
					jen.List(jen.Id(valTmp), jen.Id(valTmp+"Ok")).Op(":=").Id(scrutTmp).Assert(g.typePathCode(compiled.TypePath)),
					jen.Id(valTmp+"Ok"),
				).BlockFunc(func(inner *jen.Group) {
					g.emitMatchArmBody(inner, armScope, compiled, jen.Id(valTmp), arm, matchedTmp, &bodyErr)
				})

			case len(compiled.Literals) > 0:
				var combined jen.Code
				for _, lit := range compiled.Literals {
					litCode, lerr := g.lowerExpr(attempt, sc, lit.Value)
					if lerr != nil {
						bodyErr = lerr
						return
					}
					cmp := jen.Add(g.accessPath(jen.Id(scrutTmp), lit.Path)).Op("==").Add(litCode)
					if combined == nil {
						combined = cmp
					} else {
						combined = jen.Add(combined).Op("&&").Add(cmp)
					}
				}
				attempt.If(combined).BlockFunc(func(inner *jen.Group) {
					g.emitMatchArmBody(inner, armScope, compiled, jen.Id(scrutTmp), arm, matchedTmp, &bodyErr)
				})

			default:
				// Wildcard or bare-var catch-all: matches unconditionally.
				g.emitMatchArmBody(attempt, armScope, compiled, jen.Id(scrutTmp), arm, matchedTmp, &bodyErr)
			}
		})
		if bodyErr != nil {
			return bodyErr
		}
	}

	group.If(jen.Op("!").Id(matchedTmp)).Block(
		jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("no match arm matched"))),
	)
	return nil
}

func (g *Generator) emitMatchArmBody(grp *jen.Group, armScope *scope, compiled *pattern.Compiled, source jen.Code, arm parser.MatchArm, matchedTmp string, bodyErr *error) {
	g.emitBindings(grp, armScope, compiled, source)

	if arm.Guard != nil {
		guardCode, err := g.lowerExpr(grp, armScope, arm.Guard)
		if err != nil {
			*bodyErr = err
			return
		}
		grp.If(g.truthy(arm.Guard, guardCode)).BlockFunc(func(inner *jen.Group) {
			inner.Id(matchedTmp).Op("=").Lit(true)
			if err := g.lowerBody(inner, armScope, arm.Body); err != nil {
				*bodyErr = err
			}
		})
		return
	}

	grp.Id(matchedTmp).Op("=").Lit(true)
	if err := g.lowerBody(grp, armScope, arm.Body); err != nil {
		*bodyErr = err
	}
}
