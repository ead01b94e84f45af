// Package render serializes a parsed markdown document to HTML.
//
// Output is deterministic and compact: no whitespace is inserted between
// elements, so "# Title\n\nHello *world*" renders as
// <h1>Title</h1><p>Hello <em>world</em></p>.
package render

import (
	"strconv"
	"strings"

	"github.com/gerunddev/notehtml/internal/markdown"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape replaces &, <, > and " with their HTML entities
func Escape(s string) string {
	return escaper.Replace(s)
}

// Render converts doc to an HTML string. It never fails; an empty document
// renders as the empty string.
func Render(doc markdown.Document) string {
	var b strings.Builder
	writeBlocks(&b, doc.Blocks)
	return b.String()
}

func writeBlocks(b *strings.Builder, blocks []markdown.Block) {
	for i := 0; i < len(blocks); i++ {
		if _, ok := blocks[i].(markdown.ListItem); ok {
			j := i
			for j < len(blocks) {
				if _, ok := blocks[j].(markdown.ListItem); !ok {
					break
				}
				j++
			}
			writeList(b, blocks[i:j])
			i = j - 1
			continue
		}
		writeBlock(b, blocks[i])
	}
}

func writeBlock(b *strings.Builder, block markdown.Block) {
	switch v := block.(type) {
	case markdown.Paragraph:
		b.WriteString("<p>")
		writeInlines(b, v.Inlines)
		b.WriteString("</p>")

	case markdown.Heading:
		level := strconv.Itoa(clampLevel(v.Level))
		b.WriteString("<h" + level + ">")
		writeInlines(b, v.Inlines)
		b.WriteString("</h" + level + ">")

	case markdown.CodeBlock:
		b.WriteString("<pre><code")
		if v.Language != "" {
			b.WriteString(` class="language-`)
			b.WriteString(Escape(v.Language))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		if v.Text != "" {
			b.WriteString(Escape(v.Text))
			b.WriteString("\n")
		}
		b.WriteString("</code></pre>")

	case markdown.Blockquote:
		b.WriteString("<blockquote>")
		writeBlocks(b, v.Blocks)
		b.WriteString("</blockquote>")

	case markdown.ThematicBreak:
		b.WriteString("<hr>")

	case markdown.ListItem:
		writeList(b, []markdown.Block{v})
	}
}

// listFrame is one open <ul> or <ol> whose last <li> is still open
type listFrame struct {
	ordered bool
	depth   int
}

// writeList renders a run of consecutive list items. Items of the same kind
// and depth share a list element; a deeper item opens a nested list inside
// the open <li>, a shallower one closes lists until the depth fits.
func writeList(b *strings.Builder, items []markdown.Block) {
	var stack []listFrame

	closeTop := func() {
		top := stack[len(stack)-1]
		b.WriteString("</li>")
		b.WriteString(closeTag(top.ordered))
		stack = stack[:len(stack)-1]
	}

	for _, block := range items {
		item := block.(markdown.ListItem)

		for len(stack) > 0 && stack[len(stack)-1].depth > item.Depth {
			closeTop()
		}
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.depth == item.Depth && top.ordered != item.Ordered {
				closeTop()
			}
		}

		if len(stack) > 0 && stack[len(stack)-1].depth == item.Depth {
			b.WriteString("</li>")
		} else {
			b.WriteString(openTag(item))
			stack = append(stack, listFrame{ordered: item.Ordered, depth: item.Depth})
		}

		b.WriteString("<li>")
		writeInlines(b, item.Inlines)
	}

	for len(stack) > 0 {
		closeTop()
	}
}

func openTag(item markdown.ListItem) string {
	if !item.Ordered {
		return "<ul>"
	}
	if item.Number != 1 {
		return `<ol start="` + strconv.Itoa(item.Number) + `">`
	}
	return "<ol>"
}

func closeTag(ordered bool) string {
	if ordered {
		return "</ol>"
	}
	return "</ul>"
}

func writeInlines(b *strings.Builder, inlines []markdown.Inline) {
	for _, in := range inlines {
		switch v := in.(type) {
		case markdown.Text:
			b.WriteString(Escape(v.Value))

		case markdown.Emphasis:
			b.WriteString("<em>")
			writeInlines(b, v.Children)
			b.WriteString("</em>")

		case markdown.Strong:
			b.WriteString("<strong>")
			writeInlines(b, v.Children)
			b.WriteString("</strong>")

		case markdown.CodeSpan:
			b.WriteString("<code>")
			b.WriteString(Escape(v.Value))
			b.WriteString("</code>")

		case markdown.Link:
			b.WriteString(`<a href="`)
			b.WriteString(Escape(v.Destination))
			b.WriteString(`"`)
			if v.Title != "" {
				b.WriteString(` title="`)
				b.WriteString(Escape(v.Title))
				b.WriteString(`"`)
			}
			b.WriteString(">")
			writeInlines(b, v.Children)
			b.WriteString("</a>")
		}
	}
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	}
	return level
}
