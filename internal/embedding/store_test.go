package embedding

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"mismatched lengths", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNormalize(t *testing.T) {
	vec := []float32{3, 4}
	Normalize(vec)
	assert.InDelta(t, 0.6, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vec[1]), 1e-6)

	zero := []float32{0, 0}
	Normalize(zero)
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestStoreAppendLookupRemove(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "vecs.json"), 2)

	require.NoError(t, s.Append("a", []float32{1, 0}))
	require.NoError(t, s.Append("b", []float32{0, 1}))
	require.NoError(t, s.Append("c", []float32{1, 1}))
	assert.Equal(t, 3, s.Len())

	vec, ok := s.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1}, vec)

	// Removing a middle row must not break the ID to row alignment.
	s.Remove("a")
	assert.Equal(t, 2, s.Len())
	_, ok = s.Lookup("a")
	assert.False(t, ok)

	vec, ok = s.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 1}, vec)

	s.Remove("never-existed")
	assert.Equal(t, 2, s.Len())
}

func TestStoreAppendReplaces(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "vecs.json"), 2)
	require.NoError(t, s.Append("a", []float32{1, 0}))
	require.NoError(t, s.Append("a", []float32{0, 1}))

	assert.Equal(t, 1, s.Len())
	vec, _ := s.Lookup("a")
	assert.Equal(t, []float32{0, 1}, vec)
}

func TestStoreRejectsWrongDimension(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "vecs.json"), 2)
	require.NoError(t, s.Append("a", []float32{1, 0}))
	assert.Error(t, s.Append("b", []float32{1, 0, 0}))
}

func TestStoreSimilarities(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "vecs.json"), 2)
	require.NoError(t, s.Append("same", []float32{1, 0}))
	require.NoError(t, s.Append("orthogonal", []float32{0, 1}))

	sims := s.Similarities([]float32{1, 0})
	require.Len(t, sims, 2)

	byID := map[string]float64{}
	for _, sim := range sims {
		byID[sim.ID] = sim.Score
	}
	assert.InDelta(t, 1, byID["same"], 1e-9)
	assert.InDelta(t, 0, byID["orthogonal"], 1e-9)
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vecs.json")

	s := NewStore(path, 3)
	require.NoError(t, s.Append("x", []float32{1, 0, 0}))
	require.NoError(t, s.Append("y", []float32{0, 1, 0}))
	require.NoError(t, s.Save())

	loaded := NewStore(path, 0)
	require.NoError(t, loaded.Load())

	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, 3, loaded.Dim())

	vec, ok := loaded.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1, 0}, vec)
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope.json"), 2)
	require.NoError(t, s.Load())
	assert.Zero(t, s.Len())
}

func TestCosineOfUnitVectorsMatchesDot(t *testing.T) {
	a := []float32{3, 4}
	b := []float32{5, 12}
	Normalize(a)
	Normalize(b)

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	assert.InDelta(t, dot, Cosine(a, b), 1e-9)
	assert.True(t, math.Abs(Cosine(a, a)-1) < 1e-6)
}
