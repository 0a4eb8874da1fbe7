// Package escape is the capability registry for output escaping: a
// name-keyed dictionary of Escaper implementations, resolved once at
// generated-file init() time and referenced by the generated Render
// method rather than re-looked-up on every call.
package escape

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
)

// Escaper transforms a rendered value into one safe to embed in the
// record's output format.
type Escaper interface {
	// Name is the registry key this escaper was registered under.
	Name() string
	// Escape returns s rewritten so it is safe to embed verbatim.
	Escape(s string) string
}

// RegistryError reports a lookup or registration failure against the
// escaper registry, naming the offending escaper for error messages that
// can point back at a //tmplc:template escape="..." attribute.
type RegistryError struct {
	Name    string
	Message string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("escaper %q: %s", e.Name, e.Message)
}

type htmlEscaper struct{}

func (htmlEscaper) Name() string        { return "html" }
func (htmlEscaper) Escape(s string) string { return html.EscapeString(s) }

type xmlEscaper struct{}

func (xmlEscaper) Name() string { return "xml" }
func (xmlEscaper) Escape(s string) string {
	r := strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
		`"`, "&quot;",
		`'`, "&apos;",
	)
	return r.Replace(s)
}

type jsonEscaper struct{}

func (jsonEscaper) Name() string { return "json" }

// Escape marshals s as a JSON string literal and strips the surrounding
// quotes, since it is interpolated into a larger JSON or JS context
// rather than standing alone. This escaper only ever sees the raw
// value, never a value a prior `|safe` has already marked, so there is
// no double-escaping to guard against.
func (jsonEscaper) Escape(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(b[1 : len(b)-1])
}

type urlEscaper struct{}

func (urlEscaper) Name() string            { return "url" }
func (urlEscaper) Escape(s string) string { return url.QueryEscape(s) }

type noneEscaper struct{}

func (noneEscaper) Name() string            { return "none" }
func (noneEscaper) Escape(s string) string { return s }

// Registry resolves escaper names (from a //tmplc:template escape="..."
// attribute, or the config file's per-extension default) to Escaper
// implementations.
type Registry struct {
	escapers map[string]Escaper
}

// NewRegistry builds a Registry pre-populated with the default escaper
// set (html, xml, json, url, none).
func NewRegistry() *Registry {
	r := &Registry{escapers: make(map[string]Escaper)}
	for _, e := range []Escaper{htmlEscaper{}, xmlEscaper{}, jsonEscaper{}, urlEscaper{}, noneEscaper{}} {
		r.escapers[e.Name()] = e
	}
	return r
}

// Register adds or replaces a named escaper, letting a host program
// extend the registry beyond the defaults.
func (r *Registry) Register(e Escaper) {
	r.escapers[e.Name()] = e
}

// Get looks up an escaper by name.
func (r *Registry) Get(name string) (Escaper, bool) {
	e, ok := r.escapers[name]
	return e, ok
}

// MustGet looks up an escaper by name, panicking if it is unregistered.
// Generated code calls this at package init() time, where the name is a
// compile-time constant baked in from the directive attribute, so a
// missing escaper indicates a configuration bug caught at program
// startup rather than per-render.
func (r *Registry) MustGet(name string) Escaper {
	e, ok := r.escapers[name]
	if !ok {
		panic(&RegistryError{Name: name, Message: "not registered"})
	}
	return e
}

// defaultRegistry is the package-level registry generated code resolves
// against via escape.MustGet, matching the default escaper set a
// driver.Compile invocation assumes absent an explicit config override.
var defaultRegistry = NewRegistry()

// MustGet resolves name against the default registry.
func MustGet(name string) Escaper { return defaultRegistry.MustGet(name) }

// Get resolves name against the default registry.
func Get(name string) (Escaper, bool) { return defaultRegistry.Get(name) }

// Register adds e to the default registry.
func Register(e Escaper) { defaultRegistry.Register(e) }

// ForExtension maps a template file extension to its default escaper
// name, per the config file's `escapers:` table. Unknown extensions
// fall back to "none" rather than failing closed, since an
// unrecognized extension is more likely a custom format than untrusted
// HTML.
func ForExtension(ext string, overrides map[string]string) string {
	if name, ok := overrides[ext]; ok {
		return name
	}
	switch ext {
	case "html", "htm":
		return "html"
	case "xml":
		return "xml"
	case "json":
		return "json"
	default:
		return "none"
	}
}
