package filters

import (
	"bytes"
	"fmt"

	"github.com/russross/blackfriday/v2"
	"github.com/yuin/goldmark"
)

// goldmarkRenderer is shared across calls; goldmark's default instance
// is safe for concurrent Convert calls and carries no per-template state.
var goldmarkRenderer = goldmark.New()

// MarkdownFilter renders CommonMark via goldmark. The result is marked
// SafeValue since Markdown output is itself HTML and a second escaper
// pass would turn every generated tag back into text.
func MarkdownFilter(value interface{}, args ...interface{}) (interface{}, error) {
	src := ToString(value)
	var buf bytes.Buffer
	if err := goldmarkRenderer.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}
	return SafeValue{Value: buf.String()}, nil
}

// MarkdownLegacyFilter renders with blackfriday/v2, for templates
// migrating off an older renderer whose output byte-for-byte a
// goldmark swap would not reproduce (heading ID generation, loose vs.
// tight list rules, and a few extension default differ between the
// two libraries).
func MarkdownLegacyFilter(value interface{}, args ...interface{}) (interface{}, error) {
	src := ToString(value)
	out := blackfriday.Run([]byte(src))
	return SafeValue{Value: string(out)}, nil
}
