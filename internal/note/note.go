package note

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/notehtml/internal/logger"
)

// Note pairs raw markdown with its HTML rendering.
// A Note obtained from a Store is a snapshot; HTML is always the rendering
// of RawMarkdown.
type Note struct {
	Revision    uuid.UUID // uuid.Nil until the first update
	UpdatedAt   time.Time
	RawMarkdown string
	HTML        string
}

// Empty reports whether n is the initial note
func (n Note) Empty() bool {
	return n.Revision == uuid.Nil
}

// Converter renders markdown to HTML
type Converter interface {
	MarkdownToHTML(md string) string
}

// Store owns the current note. Reads are lock-free snapshots; updates are
// serialized and published with a single pointer swap.
type Store struct {
	conv Converter
	key  string
	log  *logger.Logger

	current atomic.Pointer[Note]
	mu      sync.Mutex // serializes publishes so UpdatedAt follows publish order
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store's logger
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMarkdownKey sets the payload key holding the markdown
func WithMarkdownKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// NewStore creates a store holding an empty note
func NewStore(conv Converter, opts ...Option) *Store {
	s := &Store{
		conv: conv,
		key:  DefaultMarkdownKey,
		log:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Note{})
	return s
}

// Current returns the note as of the most recent completed update
func (s *Store) Current() Note {
	return *s.current.Load()
}

// Populated reports whether any update has succeeded
func (s *Store) Populated() bool {
	return !s.Current().Empty()
}

// MarkdownKey returns the payload key the store reads
func (s *Store) MarkdownKey() string {
	return s.key
}

// Setup replaces the current note with one built from payload.
// If the payload has no usable markdown value the current note is kept and
// the error wraps ErrMissingField or ErrInvalidField.
func (s *Store) Setup(payload map[string]any) error {
	p, err := DecodePayload(payload, s.key)
	if err != nil {
		s.log.PayloadRejected(s.key, err)
		return err
	}

	start := time.Now()
	next := &Note{
		Revision:    uuid.New(),
		RawMarkdown: p.Markdown,
		HTML:        s.conv.MarkdownToHTML(p.Markdown),
	}

	s.mu.Lock()
	next.UpdatedAt = time.Now()
	s.current.Store(next)
	s.mu.Unlock()

	s.log.NoteUpdated(next.Revision.String(), len(next.RawMarkdown), len(next.HTML), time.Since(start))
	return nil
}
