package converter

import (
	"github.com/gerunddev/notehtml/internal/markdown"
	"github.com/gerunddev/notehtml/internal/render"
)

// Converter turns markdown notes into HTML by parsing and rendering
type Converter struct{}

// NewConverter creates a new converter instance
func NewConverter() *Converter {
	return &Converter{}
}

// MarkdownToHTML parses mdContent and renders it to HTML.
// The parsed document is discarded once rendered.
func (c *Converter) MarkdownToHTML(mdContent string) string {
	return render.Render(markdown.Parse(mdContent))
}
