package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gerunddev/notehtml/internal/converter"
	"github.com/gerunddev/notehtml/internal/export"
	"github.com/gerunddev/notehtml/internal/note"
	"github.com/gerunddev/notehtml/internal/state"
)

// writePayload writes content and moves the mtime forward so the change is
// visible at one-second mtime resolution
func writePayload(t *testing.T, path, content string, step int) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write payload: %v", err)
	}
	ts := time.Now().Add(time.Duration(step) * 10 * time.Second)
	if err := os.Chtimes(path, ts, ts); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}
}

func newTestWatcher(t *testing.T) (*Watcher, *note.Store, Options) {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		Path:      filepath.Join(dir, "note.json"),
		StatePath: filepath.Join(dir, "state", "state.json"),
		ExportDir: filepath.Join(dir, "export"),
	}
	store := note.NewStore(converter.NewConverter())
	exp := export.NewExporter(export.Options{}, nil)
	return NewWatcher(opts, store, state.NewState(), exp, nil), store, opts
}

func TestPollPublishesAndExports(t *testing.T) {
	w, store, opts := newTestWatcher(t)
	writePayload(t, opts.Path, `{"markdown": "# Title\n\nHello *world*"}`, 1)

	result := w.Poll()
	if result.Err != nil {
		t.Fatalf("Poll() error = %v", result.Err)
	}
	if !result.Changed {
		t.Fatal("first poll should publish the note")
	}
	if got := store.Current().HTML; got != "<h1>Title</h1><p>Hello <em>world</em></p>" {
		t.Errorf("HTML = %q", got)
	}
	if result.ExportPath != filepath.Join(opts.ExportDir, "note.html") {
		t.Errorf("ExportPath = %q", result.ExportPath)
	}
	if _, err := os.Stat(result.ExportPath); err != nil {
		t.Errorf("export not written: %v", err)
	}

	loaded, err := state.Load(opts.StatePath)
	if err != nil {
		t.Fatalf("state not saved: %v", err)
	}
	if fs := loaded.Files[opts.Path]; fs == nil || fs.Revision != store.Current().Revision.String() {
		t.Errorf("state does not record the published revision: %+v", fs)
	}
}

func TestPollSkipsUnchanged(t *testing.T) {
	w, store, opts := newTestWatcher(t)
	writePayload(t, opts.Path, `{"markdown": "one"}`, 1)

	if r := w.Poll(); !r.Changed {
		t.Fatalf("first poll should publish, err = %v", r.Err)
	}
	rev := store.Current().Revision

	r := w.Poll()
	if r.Changed || r.Err != nil {
		t.Errorf("second poll should be a no-op, got changed=%v err=%v", r.Changed, r.Err)
	}
	if store.Current().Revision != rev {
		t.Error("revision changed without a payload change")
	}
}

func TestPollRejectedPayloadKeepsNote(t *testing.T) {
	w, store, opts := newTestWatcher(t)
	writePayload(t, opts.Path, `{"markdown": "kept"}`, 1)
	if r := w.Poll(); !r.Changed {
		t.Fatalf("first poll should publish, err = %v", r.Err)
	}
	before := store.Current()

	writePayload(t, opts.Path, `{"title": "no body"}`, 2)
	r := w.Poll()
	if !errors.Is(r.Err, note.ErrMissingField) {
		t.Fatalf("Poll() error = %v, want ErrMissingField", r.Err)
	}
	if r.Changed {
		t.Error("rejected payload should not count as a change")
	}
	if store.Current() != before {
		t.Error("rejected payload replaced the note")
	}

	// not retried until the file changes again
	if r := w.Poll(); r.Err != nil || r.Changed {
		t.Errorf("rejected payload was retried: changed=%v err=%v", r.Changed, r.Err)
	}

	writePayload(t, opts.Path, `{"markdown": "fixed"}`, 3)
	if r := w.Poll(); !r.Changed || r.Note.RawMarkdown != "fixed" {
		t.Errorf("fixed payload not published: changed=%v note=%+v err=%v", r.Changed, r.Note, r.Err)
	}
}

func TestPollMissingFile(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	if r := w.Poll(); r.Err == nil {
		t.Error("Poll() should fail when the payload file is missing")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, _, opts := newTestWatcher(t)
	writePayload(t, opts.Path, `{"markdown": "- a\n- b"}`, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *PollResult, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, 10*time.Millisecond, func(r *PollResult) {
			select {
			case results <- r:
			default:
			}
		})
	}()

	select {
	case r := <-results:
		if r.Note.HTML != "<ul><li>a</li><li>b</li></ul>" {
			t.Errorf("HTML = %q", r.Note.HTML)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no poll result")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}
