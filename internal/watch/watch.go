package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/gerunddev/notehtml/internal/export"
	"github.com/gerunddev/notehtml/internal/logger"
	"github.com/gerunddev/notehtml/internal/note"
	"github.com/gerunddev/notehtml/internal/payload"
	"github.com/gerunddev/notehtml/internal/state"
)

// Options configures a Watcher
type Options struct {
	Path      string // payload file to watch
	StatePath string // where state is persisted; empty keeps it in memory
	ExportDir string // where pages are written; empty disables export
}

// Watcher republishes a payload file into a note store whenever it changes
type Watcher struct {
	opts     Options
	store    *note.Store
	state    *state.State
	exporter *export.Exporter
	log      *logger.Logger
}

// NewWatcher creates a new watcher instance
func NewWatcher(opts Options, store *note.Store, st *state.State, exp *export.Exporter, log *logger.Logger) *Watcher {
	if log == nil {
		log = logger.Discard()
	}
	if st == nil {
		st = state.NewState()
	}
	return &Watcher{
		opts:     opts,
		store:    store,
		state:    st,
		exporter: exp,
		log:      log,
	}
}

// PollResult represents the result of a single poll
type PollResult struct {
	Changed    bool
	Note       note.Note
	ExportPath string
	Err        error
	StartTime  time.Time
	EndTime    time.Time
}

// Poll checks the payload file once and publishes it if it changed.
// A payload that fails to read or decode is recorded as seen so it is not
// retried until the file changes again; the store keeps its previous note.
func (w *Watcher) Poll() *PollResult {
	result := &PollResult{StartTime: time.Now()}
	defer func() {
		result.EndTime = time.Now()
		result.Note = w.store.Current()
	}()

	changed, err := w.state.HasChanged(w.opts.Path)
	if err != nil {
		result.Err = fmt.Errorf("failed to check payload: %w", err)
		w.log.PayloadError(w.opts.Path, err)
		return result
	}
	if !changed {
		w.log.Skipped(w.opts.Path, "unchanged")
		return result
	}

	raw, err := payload.ReadFile(w.opts.Path, w.store.MarkdownKey())
	if err == nil {
		err = w.store.Setup(raw)
	}
	if err != nil {
		result.Err = err
		w.log.PayloadError(w.opts.Path, err)
		if terr := w.state.Touch(w.opts.Path); terr != nil {
			w.log.StateError("touch", terr)
		}
		w.saveState()
		return result
	}

	result.Changed = true
	current := w.store.Current()

	if w.exporter != nil && w.opts.ExportDir != "" {
		path := export.PathFor(w.opts.ExportDir, w.opts.Path)
		if err := w.exporter.WriteFile(path, current); err != nil {
			result.Err = err
		} else {
			result.ExportPath = path
		}
	}

	if err := w.state.Update(w.opts.Path, current.Revision.String(), result.ExportPath); err != nil {
		w.log.StateError("update", err)
	}
	w.saveState()

	return result
}

// Run polls every interval until ctx is done. onResult, if set, receives
// every poll result that changed the note or failed.
func (w *Watcher) Run(ctx context.Context, interval time.Duration, onResult func(*PollResult)) error {
	w.log.WatchStarted(w.opts.Path, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result := w.Poll()
		if onResult != nil && (result.Changed || result.Err != nil) {
			onResult(result)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Watcher) saveState() {
	if w.opts.StatePath == "" {
		return
	}
	if err := w.state.Save(w.opts.StatePath); err != nil {
		w.log.StateError("save", err)
	}
}

// String returns a human-readable summary of the poll result
func (r *PollResult) String() string {
	duration := r.EndTime.Sub(r.StartTime).Round(time.Microsecond)
	switch {
	case r.Err != nil:
		return fmt.Sprintf("Update failed: %v (took %v)", r.Err, duration)
	case r.Changed:
		return fmt.Sprintf("Note updated: revision %s, %d bytes of HTML (took %v)",
			r.Note.Revision, len(r.Note.HTML), duration)
	default:
		return fmt.Sprintf("No changes (took %v)", duration)
	}
}
