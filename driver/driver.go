// Package driver orchestrates one record's compilation end to end:
// resolve its syntax and search directories from Config, build a
// template graph, resolve extends/block inheritance, collect and
// import macros, normalize whitespace, and hand the result to codegen.
// Everything above this package is pure and logger-free; driver and
// cmd/tmplc are the only places that log.
package driver

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/caseywise/tmplc/codegen"
	"github.com/caseywise/tmplc/config"
	"github.com/caseywise/tmplc/escape"
	"github.com/caseywise/tmplc/graph"
	"github.com/caseywise/tmplc/heritage"
	"github.com/caseywise/tmplc/macros"
	"github.com/caseywise/tmplc/parser"
	"github.com/caseywise/tmplc/whitespace"
)

// DefaultSizeHint is the SizeHint every compiled record gets: RecordSpec
// has no attribute that sets one, and the value is not derived from the
// template's contents. codegen emits it as the record's <T>SizeHint
// constant; the generated String method does not use it.
const DefaultSizeHint = 512

// Compile runs the full pipeline for one record and returns the
// generated jen.File ready for rendering to Go source. log may be nil,
// in which case compilation proceeds silently.
func Compile(spec *RecordSpec, cfg *config.Config, log *zap.Logger) (*jen.File, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("record", spec.Name))
	log.Debug("compiling record", zap.String("template", spec.TemplatePath))

	if spec.ConfigPath != "" {
		recordCfg, err := config.Load(spec.ConfigPath)
		if err != nil {
			return nil, wrap(spec.Name, "config", err)
		}
		cfg = recordCfg
	}

	syntaxName := spec.SyntaxName
	if syntaxName == "" {
		syntaxName = cfg.DefaultSyntax
	}
	syntax, err := cfg.Syntax(syntaxName)
	if err != nil {
		return nil, wrap(spec.Name, "syntax", err)
	}

	g := graph.New(cfg.Dirs, nil, syntax)

	tmpl, err := g.Load(spec.TemplatePath)
	if err != nil {
		return nil, wrap(spec.Name, "load", err)
	}

	chain, err := heritage.Resolve(g, tmpl, spec.TemplatePath)
	if err != nil {
		return nil, wrap(spec.Name, "heritage", err)
	}

	var flat []parser.Node
	if spec.Block != "" {
		flat, err = chain.FlattenBlock(g, spec.Block)
	} else {
		flat, err = chain.Flatten(g)
	}
	if err != nil {
		return nil, wrap(spec.Name, "heritage", err)
	}

	registry, err := resolveMacros(g, flat)
	if err != nil {
		return nil, wrap(spec.Name, "macros", err)
	}
	if err := registry.CheckRecursion(); err != nil {
		return nil, wrap(spec.Name, "macros", err)
	}

	stripPolicy, err := cfg.StripPolicy()
	if err != nil {
		return nil, wrap(spec.Name, "whitespace", err)
	}
	flat = whitespace.NewProcessor(stripPolicy).ProcessNodes(flat)

	escaperName := spec.EscapeName
	if escaperName == "" {
		escaperName = escape.ForExtension(spec.Extension, cfg.Escapers)
	}

	sizeHint := DefaultSizeHint
	mimeType := mimeForExtension(spec.Extension)

	opts := codegen.Options{
		Package:     spec.Package,
		RecordType:  spec.Name,
		Extension:   spec.Extension,
		MIMEType:    mimeType,
		SizeHint:    sizeHint,
		EscaperName: escaperName,
		Fields:      spec.Fields,
	}

	f, err := codegen.New(opts, registry).Generate(flat)
	if err != nil {
		return nil, wrap(spec.Name, "codegen", err)
	}

	log.Info("record compiled", zap.String("escaper", escaperName))
	return f, nil
}

// resolveMacros collects the record's own top-level macros and imports
// every top-level Import directive's macros under its bound scope.
// Imported templates are loaded and flattened through the same graph so
// an imported macro library can itself extend or include other files.
func resolveMacros(loader heritage.Loader, flat []parser.Node) (*macros.Registry, error) {
	registry, err := macros.Collect(flat)
	if err != nil {
		return nil, err
	}
	for _, n := range flat {
		imp, ok := n.(*parser.Import)
		if !ok {
			continue
		}
		path, ok := imp.Path.(*parser.LitString)
		if !ok {
			return nil, fmt.Errorf("import path must be a literal string")
		}
		importedTmpl, err := loader.Load(path.Value)
		if err != nil {
			return nil, fmt.Errorf("loading import %q: %w", path.Value, err)
		}
		importedChain, err := heritage.Resolve(loader, importedTmpl, path.Value)
		if err != nil {
			return nil, err
		}
		importedFlat, err := importedChain.Flatten(loader)
		if err != nil {
			return nil, err
		}
		importedRegistry, err := macros.Collect(importedFlat)
		if err != nil {
			return nil, err
		}
		if err := registry.Import(importedRegistry, imp.Scope, nil); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func mimeForExtension(ext string) string {
	switch ext {
	case "html", "htm":
		return "text/html; charset=utf-8"
	case "xml":
		return "application/xml; charset=utf-8"
	case "json":
		return "application/json"
	case "txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func wrap(record, stage string, err error) error {
	return errors.Wrapf(&Error{Record: record, Stage: stage, Err: err}, "%s compile", record)
}
