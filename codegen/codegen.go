// Package codegen lowers a heritage-flattened template node list into a
// Go source file, built as a jennifer jen.File tree rather than string
// concatenation. One Generator handles exactly one record: the
// generated surface is Render, String, and three descriptor constants,
// all name-prefixed since Go has no per-type associated-constant
// namespace.
package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/caseywise/tmplc/escape"
	"github.com/caseywise/tmplc/macros"
	"github.com/caseywise/tmplc/parser"
)

const (
	escapePkg  = "github.com/caseywise/tmplc/escape"
	filtersPkg = "github.com/caseywise/tmplc/filters"
)

// Options describes the one record a Generate call emits code for.
type Options struct {
	Package     string
	RecordType  string            // the Go struct name, e.g. "Report"
	Extension   string            // the template's file extension, e.g. "html"
	MIMEType    string
	SizeHint    int
	EscaperName string            // resolved via escape.ForExtension before Generate runs
	Fields      map[string]string // field name -> Go type string; visibility only
}

// Generator lowers one record's flattened node list into a jen.File.
// It is not safe for concurrent use: one driver.Compile invocation,
// one Generator per record, never shared across goroutines.
type Generator struct {
	opts   Options
	macros *macros.Registry
	tmp    int
}

// New builds a Generator for one record. macroReg must already contain
// every macro visible to this template (own-file plus imports),
// resolved by the heritage/macros stage before codegen runs.
func New(opts Options, macroReg *macros.Registry) *Generator {
	return &Generator{opts: opts, macros: macroReg}
}

func (g *Generator) newTemp(prefix string) string {
	g.tmp++
	return fmt.Sprintf("_%s%d", prefix, g.tmp)
}

func (g *Generator) escaperVar() string { return "_" + g.opts.RecordType + "Escaper" }
func (g *Generator) filterVar() string  { return "_" + g.opts.RecordType + "Filters" }
func (g *Generator) writeFunc() string  { return "write" + g.opts.RecordType }
func (g *Generator) rangeFunc() string  { return "_" + g.opts.RecordType + "Range" }

// Generate lowers nodes (the body heritage.Chain.Flatten produced for
// opts.RecordType) into the complete generated surface: Render, String,
// and the record's descriptor constants.
func (g *Generator) Generate(nodes []parser.Node) (*jen.File, error) {
	if _, ok := escape.Get(g.opts.EscaperName); !ok {
		return nil, &Error{Message: fmt.Sprintf("unknown escaper %q", g.opts.EscaperName)}
	}

	f := jen.NewFile(g.opts.Package)
	f.HeaderComment("Code generated by tmplc. DO NOT EDIT.")

	f.Var().Id(g.escaperVar()).Op("=").Qual(escapePkg, "MustGet").Call(jen.Lit(g.opts.EscaperName))
	f.Var().Id(g.filterVar()).Op("=").Qual(filtersPkg, "NewRegistry").Call()

	f.Const().Id(g.opts.RecordType + "Extension").Op("=").Lit(g.opts.Extension)
	f.Const().Id(g.opts.RecordType + "SizeHint").Op("=").Lit(g.opts.SizeHint)
	f.Const().Id(g.opts.RecordType + "MIMEType").Op("=").Lit(g.opts.MIMEType)

	var macroDefs []*parser.Macro
	var body []parser.Node
	for _, n := range nodes {
		if m, ok := n.(*parser.Macro); ok {
			macroDefs = append(macroDefs, m)
			continue
		}
		body = append(body, n)
	}

	for _, m := range macroDefs {
		if err := g.emitMacro(f, m); err != nil {
			return nil, err
		}
	}

	if err := g.emitRender(f, body); err != nil {
		return nil, err
	}
	g.emitString(f)
	g.emitWriteHelper(f)
	g.emitRangeHelper(f)

	return f, nil
}

func (g *Generator) emitRender(f *jen.File, body []parser.Node) error {
	var bodyErr error
	f.Func().Params(jen.Id("v").Op("*").Id(g.opts.RecordType)).Id("Render").
		Params(jen.Id("w").Qual("io", "Writer")).Error().
		BlockFunc(func(group *jen.Group) {
			sc := newScope(nil)
			if err := g.lowerBody(group, sc, body); err != nil {
				bodyErr = err
				return
			}
			group.Return(jen.Nil())
		})
	return bodyErr
}

func (g *Generator) emitString(f *jen.File) {
	f.Func().Params(jen.Id("v").Op("*").Id(g.opts.RecordType)).Id("String").Params().String().
		BlockFunc(func(group *jen.Group) {
			group.Var().Id("buf").Qual("bytes", "Buffer")
			group.If(
				jen.Id("err").Op(":=").Id("v").Dot("Render").Call(jen.Op("&").Id("buf")),
				jen.Id("err").Op("!=").Nil(),
			).Block(
				jen.Return(jen.Lit("render error: ").Op("+").Id("err").Dot("Error").Call()),
			)
			group.Return(jen.Id("buf").Dot("String").Call())
		})
}

// emitWriteHelper emits the per-record write<Type> function: the single
// chokepoint every ExprStmt and Filter block writes through, so the
// SafeValue-vs-escape decision lives in one place per generated file.
func (g *Generator) emitWriteHelper(f *jen.File) {
	f.Func().Id(g.writeFunc()).Params(
		jen.Id("w").Qual("io", "Writer"),
		jen.Id("v").Interface(),
	).Error().BlockFunc(func(group *jen.Group) {
		group.If(
			jen.List(jen.Id("sv"), jen.Id("ok")).Op(":=").Id("v").Assert(jen.Qual(filtersPkg, "SafeValue")),
			jen.Id("ok"),
		).Block(
			jen.List(jen.Id("_"), jen.Id("err")).Op(":=").Qual("io", "WriteString").Call(jen.Id("w"), jen.Id("sv").Dot("String").Call()),
			jen.Return(jen.Id("err")),
		)
		group.List(jen.Id("_"), jen.Id("err")).Op(":=").Qual("io", "WriteString").Call(
			jen.Id("w"),
			jen.Id(g.escaperVar()).Dot("Escape").Call(jen.Qual(filtersPkg, "ToString").Call(jen.Id("v"))),
		)
		group.Return(jen.Id("err"))
	})
}

// emitRangeHelper emits the per-record range-expansion helper backing
// `a..b` / `a..=b` range expressions used as a For loop's iterable.
func (g *Generator) emitRangeHelper(f *jen.File) {
	f.Func().Id(g.rangeFunc()).Params(
		jen.Id("start").Int(),
		jen.Id("end").Int(),
		jen.Id("inclusive").Bool(),
	).Index().Int().BlockFunc(func(group *jen.Group) {
		group.If(jen.Id("inclusive")).Block(jen.Id("end").Op("++"))
		group.If(jen.Id("end").Op("<").Id("start")).Block(
			jen.Return(jen.Index().Int().Values()),
		)
		group.Id("out").Op(":=").Make(jen.Index().Int(), jen.Id("end").Op("-").Id("start"))
		group.For(
			jen.Id("i").Op(":=").Id("start"),
			jen.Id("i").Op("<").Id("end"),
			jen.Id("i").Op("++"),
		).Block(
			jen.Id("out").Index(jen.Id("i").Op("-").Id("start")).Op("=").Id("i"),
		)
		group.Return(jen.Id("out"))
	})
}
