package codegen

import (
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/caseywise/tmplc/parser"
)

// lowerExpr turns one expression node into a Go expression. group is
// the enclosing statement group: a filter application or a `?`
// propagation needs to hoist an intermediate `value, err :=` assignment
// and error check ahead of whatever statement is using the resulting
// value, since Go has no expression-level error handling.
func (g *Generator) lowerExpr(group *jen.Group, sc *scope, e parser.Expr) (jen.Code, error) {
	switch ex := e.(type) {
	case *parser.LitBool:
		return jen.Lit(ex.Value), nil
	case *parser.LitInt:
		return jen.Lit(ex.Value), nil
	case *parser.LitFloat:
		return jen.Lit(ex.Value), nil
	case *parser.LitString:
		return jen.Lit(ex.Value), nil
	case *parser.LitChar:
		return jen.Id("rune").Call(jen.Lit(int32(ex.Value))), nil

	case *parser.Var:
		if ident, ok := sc.resolve(ex.Name); ok {
			return jen.Id(ident), nil
		}
		return jen.Id("v").Dot(capitalizeFirst(ex.Name)), nil

	case *parser.Path:
		if len(ex.Segments) == 0 {
			return nil, &Error{Span: ex.Span(), Message: "empty path expression"}
		}
		code := jen.Id(ex.Segments[0])
		for _, seg := range ex.Segments[1:] {
			code = code.Dot(seg)
		}
		return code, nil

	case *parser.Attr:
		objCode, err := g.lowerExpr(group, sc, ex.Object)
		if err != nil {
			return nil, err
		}
		return jen.Add(objCode).Dot(capitalizeFirst(ex.Name)), nil

	case *parser.Index:
		objCode, err := g.lowerExpr(group, sc, ex.Object)
		if err != nil {
			return nil, err
		}
		keyCode, err := g.lowerExpr(group, sc, ex.Key)
		if err != nil {
			return nil, err
		}
		return jen.Add(objCode).Index(keyCode), nil

	case *parser.CallExpr:
		calleeCode, err := g.lowerExpr(group, sc, ex.Callee)
		if err != nil {
			return nil, err
		}
		args, err := g.lowerExprs(group, sc, ex.Args)
		if err != nil {
			return nil, err
		}
		return jen.Add(calleeCode).Call(args...), nil

	case *parser.MethodCall:
		recvCode, err := g.lowerExpr(group, sc, ex.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := g.lowerExprs(group, sc, ex.Args)
		if err != nil {
			return nil, err
		}
		return jen.Add(recvCode).Dot(capitalizeFirst(ex.Name)).Call(args...), nil

	case *parser.FilterExpr:
		return g.lowerFilterExpr(group, sc, ex)

	case *parser.Unary:
		operandCode, err := g.lowerExpr(group, sc, ex.Operand)
		if err != nil {
			return nil, err
		}
		return jen.Op(ex.Op).Add(operandCode), nil

	case *parser.Binary:
		leftCode, err := g.lowerExpr(group, sc, ex.Left)
		if err != nil {
			return nil, err
		}
		rightCode, err := g.lowerExpr(group, sc, ex.Right)
		if err != nil {
			return nil, err
		}
		if ex.Op == "~" {
			// String concatenation, distinct from "+" which stays numeric.
			return jen.Qual("fmt", "Sprint").Call(leftCode).Op("+").Qual("fmt", "Sprint").Call(rightCode), nil
		}
		return jen.Add(leftCode).Op(ex.Op).Add(rightCode), nil

	case *parser.Range:
		if ex.Start == nil || ex.End == nil {
			return nil, &Error{Span: ex.Span(), Message: "open-ended ranges are not supported"}
		}
		startCode, err := g.lowerExpr(group, sc, ex.Start)
		if err != nil {
			return nil, err
		}
		endCode, err := g.lowerExpr(group, sc, ex.End)
		if err != nil {
			return nil, err
		}
		return jen.Id(g.rangeFunc()).Call(startCode, endCode, jen.Lit(ex.Inclusive)), nil

	case *parser.Tuple:
		elems, err := g.lowerExprs(group, sc, ex.Elems)
		if err != nil {
			return nil, err
		}
		return jen.Index().Interface().Values(elems...), nil

	case *parser.Array:
		elems, err := g.lowerExprs(group, sc, ex.Elems)
		if err != nil {
			return nil, err
		}
		return jen.Index().Interface().Values(elems...), nil

	case *parser.Group:
		inner, err := g.lowerExpr(group, sc, ex.Inner)
		if err != nil {
			return nil, err
		}
		return jen.Parens(inner), nil

	case *parser.HostExpr:
		return jen.Op(ex.Tokens), nil

	case *parser.Try:
		return g.lowerTry(group, sc, ex)

	default:
		return nil, &Error{Span: e.Span(), Message: "unsupported expression shape"}
	}
}

func (g *Generator) lowerExprs(group *jen.Group, sc *scope, exprs []parser.Expr) ([]jen.Code, error) {
	out := make([]jen.Code, 0, len(exprs))
	for _, e := range exprs {
		code, err := g.lowerExpr(group, sc, e)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, nil
}

// lowerFilterExpr hoists a `value|name(args)` pipeline into a
// registry.Apply call plus an error check ahead of the statement using
// its result, since the filter registry's FilterFunc signature always
// returns (interface{}, error).
func (g *Generator) lowerFilterExpr(group *jen.Group, sc *scope, ex *parser.FilterExpr) (jen.Code, error) {
	valCode, err := g.lowerExpr(group, sc, ex.Value)
	if err != nil {
		return nil, err
	}
	argCodes, err := g.lowerExprs(group, sc, ex.Args)
	if err != nil {
		return nil, err
	}
	callArgs := append([]jen.Code{jen.Lit(ex.Name), valCode}, argCodes...)

	vTmp := g.newTemp("f")
	eTmp := g.newTemp("fe")
	group.List(jen.Id(vTmp), jen.Id(eTmp)).Op(":=").Id(g.filterVar()).Dot("Apply").Call(callArgs...)
	group.If(jen.Id(eTmp).Op("!=").Nil()).Block(jen.Return(jen.Id(eTmp)))
	return jen.Id(vTmp), nil
}

// lowerTry hoists `expr?`'s two-value propagation. A FilterExpr operand
// has already hoisted and checked its own error above, so `?` applied
// to one is a pass-through rather than a second hoist.
func (g *Generator) lowerTry(group *jen.Group, sc *scope, ex *parser.Try) (jen.Code, error) {
	if _, ok := ex.Inner.(*parser.FilterExpr); ok {
		return g.lowerExpr(group, sc, ex.Inner)
	}
	innerCode, err := g.lowerExpr(group, sc, ex.Inner)
	if err != nil {
		return nil, err
	}
	vTmp := g.newTemp("t")
	eTmp := g.newTemp("te")
	group.List(jen.Id(vTmp), jen.Id(eTmp)).Op(":=").Add(innerCode)
	group.If(jen.Id(eTmp).Op("!=").Nil()).Block(jen.Return(jen.Id(eTmp)))
	return jen.Id(vTmp), nil
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
