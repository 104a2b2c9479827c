// Package markdown renders content bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML with GFM extensions. It is safe for
// concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// New builds a renderer. With allowHTML false, raw HTML in the source is
// dropped from the output.
func New(allowHTML bool) *Renderer {
	options := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if allowHTML {
		options = append(options, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	return &Renderer{engine: goldmark.New(options...)}
}

func (r *Renderer) Render(source string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// HTML renders source for direct use in a template. A render failure falls
// back to the escaped source.
func (r *Renderer) HTML(source string) template.HTML {
	out, err := r.Render(source)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(out)
}
