// Package graph builds the template dependency graph: it resolves
// template paths named by extends/include/import against a set of
// search directories, parses each one exactly once, and memoizes the
// result for the lifetime of a single driver.Compile invocation. File
// reads are never cached across invocations.
package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/caseywise/tmplc/lexer"
	"github.com/caseywise/tmplc/parser"
)

// Error reports a template resolution failure: a path that does not
// exist under any configured search directory, or a parse error in an
// otherwise-found file.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("graph: %s: %s", e.Path, e.Message)
}

// entry is one path's memoized load result, computed at most once.
type entry struct {
	once sync.Once
	tmpl *parser.Template
	err  error
}

// Graph resolves and parses templates by path, memoizing each distinct
// path's file read and parse for the Graph's lifetime.
type Graph struct {
	dirs       []string
	extensions []string
	syntax     lexer.Syntax

	mu      sync.Mutex
	entries map[string]*entry
}

// New builds a Graph that searches dirs (in order) for template paths,
// trying each of extensions in turn when a bare name has no extension
// of its own, and parsing every file with syntax.
func New(dirs []string, extensions []string, syntax lexer.Syntax) *Graph {
	if len(extensions) == 0 {
		extensions = []string{".html", ".txt", ".xml"}
	}
	return &Graph{
		dirs:       dirs,
		extensions: extensions,
		syntax:     syntax,
		entries:    make(map[string]*entry),
	}
}

// Load resolves path against the Graph's search directories and
// returns its parsed Template, reading and parsing the file only on
// the first call for a given path; later calls return the memoized
// result (or memoized error).
func (g *Graph) Load(path string) (*parser.Template, error) {
	g.mu.Lock()
	e, ok := g.entries[path]
	if !ok {
		e = &entry{}
		g.entries[path] = e
	}
	g.mu.Unlock()

	e.once.Do(func() {
		resolved, err := g.resolve(path)
		if err != nil {
			e.err = err
			return
		}
		src, err := os.ReadFile(resolved)
		if err != nil {
			e.err = &Error{Path: path, Message: "reading file: " + err.Error()}
			return
		}
		tmpl, err := parser.Parse(path, string(src), g.syntax)
		if err != nil {
			e.err = &Error{Path: path, Message: "parsing: " + err.Error()}
			return
		}
		e.tmpl = tmpl
	})
	return e.tmpl, e.err
}

// resolve finds path on disk under one of the Graph's search
// directories, trying each configured extension when path has none of
// its own. A path absent from every directory is a semantic error, not
// a raw os.ErrNotExist, so a driver failure reads as a template
// resolution problem rather than a filesystem one.
func (g *Graph) resolve(path string) (string, error) {
	candidates := []string{path}
	if filepath.Ext(path) == "" {
		for _, ext := range g.extensions {
			candidates = append(candidates, path+ext)
		}
	}
	for _, dir := range g.dirs {
		for _, c := range candidates {
			full := filepath.Join(dir, c)
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				return full, nil
			}
		}
	}
	return "", &Error{Path: path, Message: "not found in any template directory"}
}
