package rag

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// MemoryStore is a brute-force in-memory ChunkStore. It backs the server
// when no database is configured (retrieval then does not survive restarts)
// and the unit tests.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string][]models.EmbeddedChunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string][]models.EmbeddedChunk)}
}

func (m *MemoryStore) ReplaceChunks(_ context.Context, siren string, chunks []models.EmbeddedChunk) error {
	cp := make([]models.EmbeddedChunk, len(chunks))
	copy(cp, chunks)
	m.mu.Lock()
	m.chunks[siren] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) SearchChunks(_ context.Context, siren string, query []float32, k int) ([]models.ScoredChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.chunks[siren]
	scored := make([]models.ScoredChunk, 0, len(stored))
	for _, c := range stored {
		scored = append(scored, models.ScoredChunk{
			EmbeddedChunk: c,
			Distance:      CosineDistance(query, c.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// CosineDistance returns 1 - cosine similarity of a and b. Zero vectors and
// mismatched dimensions are maximally distant.
func CosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

var _ ChunkStore = (*MemoryStore)(nil)
