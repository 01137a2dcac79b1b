package state

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.Pages == nil {
		t.Error("Pages map should be initialized")
	}
	if len(s.Pages) != 0 {
		t.Error("Pages map should be empty")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nested", "state.json")

	state := NewState()
	state.Update("/out/astrolabes.html", "Astrolabes", "uid-1", []byte("<p>hi</p>"))

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	if len(loaded.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(loaded.Pages))
	}

	ps := loaded.Pages["/out/astrolabes.html"]
	if ps == nil {
		t.Fatal("Page state not found")
	}
	if ps.Title != "Astrolabes" || ps.UID != "uid-1" {
		t.Errorf("page state = %+v", ps)
	}
	if ps.Hash != HashBytes([]byte("<p>hi</p>")) {
		t.Errorf("Hash = %q", ps.Hash)
	}
}

func TestLoadNonExistent(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if s.Pages == nil || len(s.Pages) != 0 {
		t.Error("Load() of a missing file should return an empty state")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of invalid JSON succeeded")
	}
}

func TestLoadNullPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"pages": null}`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Pages == nil {
		t.Error("Pages should be initialized")
	}
}

func TestHashBytes(t *testing.T) {
	hash := HashBytes([]byte("test content"))
	if !strings.HasPrefix(hash, "sha256:") {
		t.Errorf("Hash should start with 'sha256:', got %q", hash)
	}
	if len(hash) != len("sha256:")+64 {
		t.Errorf("Hash has wrong length: %q", hash)
	}
	if hash == HashBytes([]byte("other content")) {
		t.Error("Different content should hash differently")
	}
}

func TestComputeHashMatchesHashBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	content := []byte("test content")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	hash, err := ComputeHash(path)
	if err != nil {
		t.Fatalf("ComputeHash() error = %v", err)
	}
	if hash != HashBytes(content) {
		t.Errorf("ComputeHash() = %q, HashBytes() = %q", hash, HashBytes(content))
	}

	if _, err := ComputeHash(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ComputeHash() of a missing file succeeded")
	}
}

func TestUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	content := []byte("<p>page</p>")

	s := NewState()
	if s.Unchanged(path, content) {
		t.Error("unknown page reported unchanged")
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	s.Update(path, "Page", "uid", content)

	if !s.Unchanged(path, content) {
		t.Error("written page reported changed")
	}
	if s.Unchanged(path, []byte("<p>new</p>")) {
		t.Error("new content reported unchanged")
	}

	// Edited on disk after the build
	if err := os.WriteFile(path, []byte("edited"), 0644); err != nil {
		t.Fatal(err)
	}
	if s.Unchanged(path, content) {
		t.Error("page edited on disk reported unchanged")
	}

	// Removed on disk after the build
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if s.Unchanged(path, content) {
		t.Error("removed page reported unchanged")
	}
}

func TestRemoveAndPaths(t *testing.T) {
	s := NewState()
	s.Update("/out/b.html", "B", "b", nil)
	s.Update("/out/a.html", "A", "a", nil)
	s.Update("/out/c.html", "C", "c", nil)
	s.Remove("/out/c.html")

	expected := []string{"/out/a.html", "/out/b.html"}
	if got := s.Paths(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Paths() = %v, want %v", got, expected)
	}
}

func TestGetWritten(t *testing.T) {
	s := NewState()

	if !s.GetWritten("/out/missing.html").IsZero() {
		t.Error("GetWritten() of an unknown page should be zero")
	}

	before := time.Now().Add(-time.Second)
	s.Update("/out/page.html", "Page", "uid", nil)
	if got := s.GetWritten("/out/page.html"); got.Before(before) {
		t.Errorf("GetWritten() = %v, want after %v", got, before)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := NewState()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := filepath.Join("/out", strings.Repeat("x", i+1)+".html")
			s.Update(path, "Page", "uid", []byte(path))
		}(i)
	}
	wg.Wait()

	if got := len(s.Paths()); got != 50 {
		t.Errorf("len(Paths()) = %d, want 50", got)
	}
}
