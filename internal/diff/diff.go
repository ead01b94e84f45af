package diff

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/notehtml/internal/note"
	"github.com/gerunddev/notehtml/internal/preview"
)

// Field selects which side of a note is compared
type Field int

const (
	// FieldHTML diffs the rendered HTML (default)
	FieldHTML Field = iota
	// FieldMarkdown diffs the raw markdown
	FieldMarkdown
)

// Unified returns a unified diff between two texts, or "" when they are equal
func Unified(oldName, newName, oldText, newText string) string {
	edits := myers.ComputeEdits(span.URIFromPath(oldName), oldText, newText)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, oldText, edits))
}

// Notes diffs the selected field of two notes. HTML is split at tag
// boundaries first so the diff is line-oriented.
func Notes(oldName, newName string, oldNote, newNote note.Note, field Field) (string, error) {
	switch field {
	case FieldHTML:
		return Unified(oldName, newName, splitTags(oldNote.HTML), splitTags(newNote.HTML)), nil
	case FieldMarkdown:
		return Unified(oldName, newName, withNewline(oldNote.RawMarkdown), withNewline(newNote.RawMarkdown)), nil
	default:
		return "", fmt.Errorf("unsupported diff field: %d", field)
	}
}

// Render wraps a unified diff in a diff code fence and renders it for the
// terminal. An empty diff renders as "".
func Render(unified string, width int) string {
	if unified == "" {
		return ""
	}
	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	return preview.Render(fmt.Sprintf("```diff\n%s```\n", unified), width)
}

// splitTags puts every block-level closing tag on its own line
func splitTags(html string) string {
	out := make([]byte, 0, len(html)+len(html)/8)
	for i := 0; i < len(html); i++ {
		out = append(out, html[i])
		if html[i] == '>' && isBlockEnd(html[:i+1]) {
			out = append(out, '\n')
		}
	}
	return withNewline(string(out))
}

var blockEnds = []string{
	"</p>", "</h1>", "</h2>", "</h3>", "</h4>", "</h5>", "</h6>",
	"</li>", "</ul>", "</ol>", "</pre>", "</blockquote>", "<hr>",
	"<ul>", "<ol>", "<blockquote>",
}

func isBlockEnd(prefix string) bool {
	for _, end := range blockEnds {
		if len(prefix) >= len(end) && prefix[len(prefix)-len(end):] == end {
			return true
		}
	}
	return false
}

func withNewline(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}
