package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.Files == nil {
		t.Error("Files map should be initialized")
	}
	if len(s.Files) != 0 {
		t.Error("Files map should be empty")
	}
}

func TestSaveAndLoad(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")

	state := NewState()
	state.Files["note.json"] = &FileState{
		MTime:    123456789,
		Hash:     "sha256:abc123",
		Revision: "0b6c1f0e-2d38-4a8e-9d4b-5f1a2c3d4e5f",
		Export:   "/tmp/export/note.html",
	}

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	if len(loaded.Files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(loaded.Files))
	}

	fileState := loaded.Files["note.json"]
	if fileState == nil {
		t.Fatal("File state not found")
	}
	if fileState.MTime != 123456789 {
		t.Errorf("MTime mismatch: got %d, want 123456789", fileState.MTime)
	}
	if fileState.Hash != "sha256:abc123" {
		t.Errorf("Hash mismatch: got %s, want sha256:abc123", fileState.Hash)
	}
	if fileState.Revision != "0b6c1f0e-2d38-4a8e-9d4b-5f1a2c3d4e5f" {
		t.Errorf("Revision mismatch: got %s", fileState.Revision)
	}
	if fileState.Export != "/tmp/export/note.html" {
		t.Errorf("Export mismatch: got %s", fileState.Export)
	}
}

func TestLoadNonExistent(t *testing.T) {
	state, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}
	if state == nil {
		t.Fatal("State should not be nil")
	}
	if len(state.Files) != 0 {
		t.Error("State should be empty")
	}
}

func TestLoadCorrupt(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(statePath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write state: %v", err)
	}

	if _, err := Load(statePath); err == nil {
		t.Error("Load should fail on corrupt state")
	}
}

func TestComputeHash(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.json")

	if err := os.WriteFile(testFile, []byte(`{"markdown": "# Hi"}`), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	hash, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	if len(hash) < 7 || hash[:7] != "sha256:" {
		t.Errorf("Hash should start with 'sha256:', got: %s", hash)
	}

	hash2, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Second ComputeHash failed: %v", err)
	}
	if hash != hash2 {
		t.Error("Hash should be deterministic")
	}

	if err := os.WriteFile(testFile, []byte(`{"markdown": "# Bye"}`), 0644); err != nil {
		t.Fatalf("Failed to update test file: %v", err)
	}
	hash3, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Third ComputeHash failed: %v", err)
	}
	if hash == hash3 {
		t.Error("Hash should change when content changes")
	}
}

func TestHasChanged(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.json")

	if err := os.WriteFile(testFile, []byte("Initial content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	state := NewState()

	changed, err := state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("New file should be marked as changed")
	}

	if err := state.Update(testFile, "rev-1", ""); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Unchanged file should not be marked as changed")
	}

	// Move mtime forward without touching content
	later := time.Now().Add(10 * time.Second)
	if err := os.Chtimes(testFile, later, later); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after touch: %v", err)
	}
	if changed {
		t.Error("File with only mtime change should not be marked as changed")
	}

	if err := os.WriteFile(testFile, []byte("New content"), 0644); err != nil {
		t.Fatalf("Failed to update file: %v", err)
	}
	evenLater := later.Add(10 * time.Second)
	if err := os.Chtimes(testFile, evenLater, evenLater); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after content change: %v", err)
	}
	if !changed {
		t.Error("File with content change should be marked as changed")
	}
}

func TestHasChangedMissingFile(t *testing.T) {
	state := NewState()
	if _, err := state.HasChanged(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("HasChanged should fail for a missing file")
	}
}

func TestUpdate(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.json")

	if err := os.WriteFile(testFile, []byte("Test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	state := NewState()
	if err := state.Update(testFile, "rev-1", "/tmp/out.html"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fileState := state.Files[testFile]
	if fileState == nil {
		t.Fatal("File state not found after update")
	}
	if fileState.MTime == 0 {
		t.Error("MTime should be set")
	}
	if fileState.Hash == "" {
		t.Error("Hash should be set")
	}
	if fileState.Revision != "rev-1" {
		t.Errorf("Revision mismatch: got %s, want rev-1", fileState.Revision)
	}
	if fileState.Export != "/tmp/out.html" {
		t.Errorf("Export mismatch: got %s", fileState.Export)
	}
}

func TestTouchKeepsRevision(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(testFile, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	state := NewState()
	if err := state.Update(testFile, "rev-1", "/tmp/out.html"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := os.WriteFile(testFile, []byte("v2"), 0644); err != nil {
		t.Fatalf("Failed to rewrite test file: %v", err)
	}
	if err := state.Touch(testFile); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	fileState := state.Files[testFile]
	if fileState.Revision != "rev-1" {
		t.Errorf("Touch should keep revision, got %s", fileState.Revision)
	}
	changed, err := state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Touched file should not be marked as changed")
	}
}

func TestGetMTime(t *testing.T) {
	state := NewState()

	if mtime := state.GetMTime("nonexistent.json"); !mtime.IsZero() {
		t.Error("MTime for non-existent file should be zero")
	}

	state.Files["test.json"] = &FileState{
		MTime: 1234567890,
		Hash:  "sha256:test",
	}

	if mtime := state.GetMTime("test.json"); mtime.Unix() != 1234567890 {
		t.Errorf("MTime mismatch: got %d, want 1234567890", mtime.Unix())
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

	state := NewState()
	state.Files["note.json"] = &FileState{
		MTime: 123,
		Hash:  "sha256:test",
	}

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		t.Error("State file was not created")
	}
}
