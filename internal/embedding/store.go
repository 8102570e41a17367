package embedding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is an in-memory matrix of embedding vectors keyed by entity ID, with
// JSON persistence. Row i of the matrix always belongs to ids[i]; every
// mutation goes through one lock so the two can never drift apart.
type Store struct {
	mu      sync.RWMutex
	dim     int
	ids     []string
	vectors [][]float32
	rowByID map[string]int
	path    string
}

type storeFile struct {
	Dim     int         `json:"dim"`
	IDs     []string    `json:"ids"`
	Vectors [][]float32 `json:"vectors"`
}

// NewStore creates an empty Store persisting to path. Dim fixes the expected
// vector length; zero disables the check until the first append.
func NewStore(path string, dim int) *Store {
	return &Store{
		dim:     dim,
		rowByID: make(map[string]int),
		path:    path,
	}
}

// Load reads the persisted matrix from disk. A missing file leaves the store
// empty; a corrupt or misaligned file is an error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read embedding store %s: %w", s.path, err)
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode embedding store %s: %w", s.path, err)
	}
	if len(f.IDs) != len(f.Vectors) {
		return fmt.Errorf("embedding store %s misaligned: %d ids, %d vectors", s.path, len(f.IDs), len(f.Vectors))
	}
	for i, vec := range f.Vectors {
		if f.Dim > 0 && len(vec) != f.Dim {
			return fmt.Errorf("embedding store %s: row %d has dimension %d, want %d", s.path, i, len(vec), f.Dim)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dim = f.Dim
	s.ids = f.IDs
	s.vectors = f.Vectors
	s.rowByID = make(map[string]int, len(f.IDs))
	for i, id := range f.IDs {
		s.rowByID[id] = i
	}
	return nil
}

// Save writes the matrix to disk atomically (temp file plus rename).
func (s *Store) Save() error {
	s.mu.RLock()
	f := storeFile{Dim: s.dim, IDs: s.ids, Vectors: s.vectors}
	data, err := json.Marshal(f)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode embedding store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create embedding store dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write embedding store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace embedding store: %w", err)
	}
	return nil
}

// Append adds or replaces the vector for id.
func (s *Store) Append(id string, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(vec)
	}
	if len(vec) != s.dim {
		return fmt.Errorf("vector for %s has dimension %d, want %d", id, len(vec), s.dim)
	}

	if row, ok := s.rowByID[id]; ok {
		s.vectors[row] = vec
		return nil
	}

	s.rowByID[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.vectors = append(s.vectors, vec)
	return nil
}

// Remove drops the vector for id, keeping every remaining row aligned with
// its ID. Removing an unknown ID is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rowByID[id]
	if !ok {
		return
	}

	last := len(s.ids) - 1
	if row != last {
		s.ids[row] = s.ids[last]
		s.vectors[row] = s.vectors[last]
		s.rowByID[s.ids[row]] = row
	}
	s.ids = s.ids[:last]
	s.vectors = s.vectors[:last]
	delete(s.rowByID, id)
}

// Lookup returns the vector stored for id.
func (s *Store) Lookup(id string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rowByID[id]
	if !ok {
		return nil, false
	}
	return s.vectors[row], true
}

// Similarity holds one ID with its cosine similarity to a query vector.
type Similarity struct {
	ID    string
	Score float64
}

// Similarities scores every stored vector against query. The result order
// follows storage order; callers sort as needed.
func (s *Store) Similarities(query []float32) []Similarity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Similarity, len(s.ids))
	for i, id := range s.ids {
		out[i] = Similarity{ID: id, Score: Cosine(query, s.vectors[i])}
	}
	return out
}

// Len returns the number of stored vectors.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Dim returns the vector dimension.
func (s *Store) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}
