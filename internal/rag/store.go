package rag

import (
	"context"

	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// ChunkStore persists embedded chunks and supports similarity search scoped
// to one company. Implementations: Postgres with pgvector, and the
// in-memory store used in tests and in database-less degraded mode.
type ChunkStore interface {
	// ReplaceChunks atomically swaps all chunks for a siren with the
	// given set. Re-generating a report must not leave stale chunks.
	ReplaceChunks(ctx context.Context, siren string, chunks []models.EmbeddedChunk) error

	// SearchChunks returns at most k chunks for siren ordered by
	// ascending cosine distance to the query vector. No chunks for the
	// siren is a normal empty result.
	SearchChunks(ctx context.Context, siren string, query []float32, k int) ([]models.ScoredChunk, error)
}
