package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"

	"github.com/gerunddev/notehtml/internal/logger"
	"github.com/gerunddev/notehtml/internal/note"
	"github.com/gerunddev/notehtml/internal/render"
)

// ErrEmptyNote is returned when exporting a note that was never set up
var ErrEmptyNote = errors.New("note is empty")

const defaultTitle = "Untitled note"

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="generator" content="notehtml">
<meta name="revision" content="%s">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

var languageClass = regexp.MustCompile(`^language-[\w+#.-]+$`)

// Options controls how a page is built
type Options struct {
	Sanitize bool // run the body through a UGC sanitizer
	Minify   bool // minify the whole page
}

// Exporter writes notes as standalone HTML pages
type Exporter struct {
	opts     Options
	log      *logger.Logger
	policy   *bluemonday.Policy
	minifier *minify.M
}

// NewExporter creates an exporter
func NewExporter(opts Options, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Discard()
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(languageClass).OnElements("code")

	m := minify.New()
	m.AddFunc("text/html", mhtml.Minify)

	return &Exporter{
		opts:     opts,
		log:      log,
		policy:   policy,
		minifier: m,
	}
}

// Page builds the HTML document for n
func (e *Exporter) Page(n note.Note) ([]byte, error) {
	if n.Empty() {
		return nil, ErrEmptyNote
	}

	body := n.HTML
	if e.opts.Sanitize {
		body = e.policy.Sanitize(body)
	}

	page := fmt.Sprintf(pageTemplate,
		n.Revision.String(),
		render.Escape(Title(n.HTML)),
		body)

	if !e.opts.Minify {
		return []byte(page), nil
	}

	out, err := e.minifier.String("text/html", page)
	if err != nil {
		return nil, fmt.Errorf("failed to minify page: %w", err)
	}
	return []byte(out), nil
}

// WriteFile writes the page for n to path, creating parent directories
func (e *Exporter) WriteFile(path string, n note.Note) error {
	page, err := e.Page(n)
	if err != nil {
		e.log.ExportError(path, err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.log.ExportError(path, err)
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(path, page, 0644); err != nil {
		e.log.ExportError(path, err)
		return fmt.Errorf("failed to write export: %w", err)
	}

	e.log.ExportWritten(path, n.Revision.String(), len(page))
	return nil
}

// PathFor returns the export path for a payload file inside dir
func PathFor(dir, payloadPath string) string {
	base := filepath.Base(payloadPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+".html")
}

// Title returns the text of the first heading in fragment, or a default
func Title(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return defaultTitle
	}

	title := strings.TrimSpace(doc.Find("h1, h2, h3, h4, h5, h6").First().Text())
	if title == "" {
		return defaultTitle
	}
	return title
}
