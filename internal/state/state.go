package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// PageState records one written page
type PageState struct {
	Hash    string `json:"hash"`
	Title   string `json:"title"`
	UID     string `json:"uid"`
	Written int64  `json:"written"`
}

// State records the pages written by previous builds, keyed by absolute
// output path. It is safe for concurrent use.
type State struct {
	mu    sync.Mutex
	Pages map[string]*PageState `json:"pages"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Pages: make(map[string]*PageState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}

	if state.Pages == nil {
		state.Pages = make(map[string]*PageState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// HashBytes computes the SHA256 hash of data
func HashBytes(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// Unchanged reports whether the file at path already holds data as written
// by the last build. A file edited or removed since then counts as changed.
func (s *State) Unchanged(path string, data []byte) bool {
	s.mu.Lock()
	ps, exists := s.Pages[path]
	s.mu.Unlock()

	if !exists || ps.Hash != HashBytes(data) {
		return false
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return false
	}
	return hash == ps.Hash
}

// Update records data as written to path
func (s *State) Update(path, title, uid string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Pages[path] = &PageState{
		Hash:    HashBytes(data),
		Title:   title,
		UID:     uid,
		Written: time.Now().Unix(),
	}
}

// Remove forgets the page at path
func (s *State) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.Pages, path)
}

// Paths returns the recorded output paths, sorted
func (s *State) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.Pages))
	for p := range s.Pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// GetWritten returns when the page at path was last written
func (s *State) GetWritten(path string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ps, exists := s.Pages[path]; exists {
		return time.Unix(ps.Written, 0)
	}
	return time.Time{}
}
