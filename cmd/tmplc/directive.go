package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/caseywise/tmplc/driver"
)

// directivePrefix is the magic comment every annotated struct carries.
const directivePrefix = "//tmplc:template"

// specWithDir pairs a discovered RecordSpec with the directory its
// owning package's source files live in, so the generated sibling file
// lands next to the struct it describes.
type specWithDir struct {
	spec *driver.RecordSpec
	dir  string
}

// discoverRecords loads every Go package under pattern and returns one
// RecordSpec per struct type carrying a directivePrefix comment,
// reading field names with go/ast rather than reflect since the struct
// being described has not been compiled into any running binary yet.
func discoverRecords(pattern string) ([]*specWithDir, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", pattern, err)
	}

	var specs []*specWithDir
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			return nil, fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		dir := ""
		if len(pkg.GoFiles) > 0 {
			dir = filepath.Dir(pkg.GoFiles[0])
		}
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok.String() != "type" {
					continue
				}
				for _, spec := range gd.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					st, ok := ts.Type.(*ast.StructType)
					if !ok {
						continue
					}
					directive := findDirective(gd.Doc, ts.Doc)
					if directive == "" {
						continue
					}
					rs, err := buildRecordSpec(pkg.Name, ts.Name.Name, st, directive)
					if err != nil {
						return nil, fmt.Errorf("%s.%s: %w", pkg.PkgPath, ts.Name.Name, err)
					}
					specs = append(specs, &specWithDir{spec: rs, dir: dir})
				}
			}
		}
	}
	return specs, nil
}

func findDirective(groups ...*ast.CommentGroup) string {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if strings.HasPrefix(c.Text, directivePrefix) {
				return strings.TrimSpace(strings.TrimPrefix(c.Text, directivePrefix))
			}
		}
	}
	return ""
}

// buildRecordSpec parses the directive's key="value" attribute pairs
// (source/path, ext, escape, syntax, block, config) and the struct's
// own field list into a driver.RecordSpec.
func buildRecordSpec(pkgName, typeName string, st *ast.StructType, directive string) (*driver.RecordSpec, error) {
	attrs, err := parseAttrs(directive)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(st.Fields.List))
	for _, f := range st.Fields.List {
		typeStr := exprString(f.Type)
		for _, name := range f.Names {
			fields[name.Name] = typeStr
		}
	}

	path := attrs["path"]
	if path == "" {
		path = attrs["source"]
	}
	if path == "" {
		return nil, fmt.Errorf("directive missing path= (or source=) attribute")
	}

	return &driver.RecordSpec{
		Name:         typeName,
		Package:      pkgName,
		Fields:       fields,
		TemplatePath: path,
		Extension:    attrs["ext"],
		EscapeName:   attrs["escape"],
		SyntaxName:   attrs["syntax"],
		Block:        attrs["block"],
		ConfigPath:   attrs["config"],
	}, nil
}

// parseAttrs parses a `key="value" key2="value2"` attribute list.
func parseAttrs(s string) (map[string]string, error) {
	attrs := make(map[string]string)
	rest := strings.TrimSpace(s)
	for rest != "" {
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return nil, fmt.Errorf("malformed directive attribute near %q", rest)
		}
		key := strings.TrimSpace(rest[:eq])
		rest = strings.TrimSpace(rest[eq+1:])
		if len(rest) == 0 || rest[0] != '"' {
			return nil, fmt.Errorf("attribute %q value must be quoted", key)
		}
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return nil, fmt.Errorf("unterminated quoted value for %q", key)
		}
		value, err := strconv.Unquote(rest[:end+2])
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", key, err)
		}
		attrs[key] = value
		rest = strings.TrimSpace(rest[end+2:])
	}
	return attrs, nil
}

func exprString(e ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, token.NewFileSet(), e); err != nil {
		return fmt.Sprintf("%T", e)
	}
	return buf.String()
}
