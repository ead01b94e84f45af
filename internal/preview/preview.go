package preview

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word wrap used when no width is configured
const DefaultWidth = 100

// Render renders markdown for the terminal with glamour.
// If glamour cannot render, the markdown is returned unchanged.
func Render(md string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return rendered
}

// Plain renders markdown without color, for logs and non-terminal output
func Plain(md string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return rendered
}
