package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/gerunddev/notehtml/internal/diff"
	"github.com/gerunddev/notehtml/internal/export"
	"github.com/gerunddev/notehtml/internal/note"
	"github.com/gerunddev/notehtml/internal/preview"
	"github.com/gerunddev/notehtml/internal/styles"
)

// Render prints the HTML for a payload file to stdout
func Render(args []string) {
	files := positional(args)
	if len(files) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: notehtml render <payload>")
		os.Exit(1)
	}

	e := loadEnv()
	defer e.cleanup()

	n, err := e.loadNote(files[0])
	if err != nil {
		e.cleanup()
		failNote(files[0], err)
	}

	fmt.Println(n.HTML)
}

// Preview renders the markdown of a payload file in the terminal
func Preview(args []string) {
	files := positional(args)
	if len(files) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: notehtml preview <payload> [--plain]")
		os.Exit(1)
	}

	e := loadEnv()
	defer e.cleanup()

	n, err := e.loadNote(files[0])
	if err != nil {
		e.cleanup()
		failNote(files[0], err)
	}

	if hasFlag(args, "--plain") {
		fmt.Print(preview.Plain(n.RawMarkdown, e.cfg.PreviewWidth))
		return
	}
	fmt.Print(preview.Render(n.RawMarkdown, e.cfg.PreviewWidth))
	fmt.Println(styles.DimStyle.Render(fmt.Sprintf("  revision %s · %d bytes of HTML", n.Revision, len(n.HTML))))
}

// Export writes a payload file as a standalone HTML page
func Export(args []string) {
	files := positional(args, "--out")
	if len(files) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: notehtml export <payload> [--out file.html] [--raw] [--minify]")
		os.Exit(1)
	}

	e := loadEnv()
	defer e.cleanup()

	opts := export.Options{
		Sanitize: e.cfg.Sanitize && !hasFlag(args, "--raw"),
		Minify:   e.cfg.Minify || hasFlag(args, "--minify"),
	}

	out, ok := flagValue(args, "--out")
	if !ok {
		out = export.PathFor(e.cfg.ExportDir, files[0])
	}

	n, err := e.loadNote(files[0])
	if err != nil {
		e.cleanup()
		failNote(files[0], err)
	}

	if err := export.NewExporter(opts, e.log).WriteFile(out, n); err != nil {
		e.cleanup()
		fail("Failed to export", err)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Exported " + out))
}

// Diff shows what changes between the notes built from two payload files
func Diff(args []string) {
	files := positional(args)
	if len(files) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: notehtml diff <old-payload> <new-payload> [--markdown]")
		os.Exit(1)
	}

	e := loadEnv()
	defer e.cleanup()

	oldNote, err := e.loadNote(files[0])
	if err != nil {
		e.cleanup()
		failNote(files[0], err)
	}
	newNote, err := e.loadNote(files[1])
	if err != nil {
		e.cleanup()
		failNote(files[1], err)
	}

	field := diff.FieldHTML
	if hasFlag(args, "--markdown") {
		field = diff.FieldMarkdown
	}

	unified, err := diff.Notes(files[0], files[1], oldNote, newNote, field)
	if err != nil {
		e.cleanup()
		fail("Failed to diff", err)
	}
	if unified == "" {
		fmt.Println(styles.DimStyle.Render("No differences"))
		return
	}

	fmt.Print(diff.Render(unified, e.cfg.PreviewWidth))
}

func failNote(path string, err error) {
	switch {
	case errors.Is(err, note.ErrMissingField):
		fail("Payload has no markdown", err)
	case errors.Is(err, note.ErrInvalidField):
		fail("Payload markdown is not text", err)
	default:
		fail("Failed to load "+path, err)
	}
}
