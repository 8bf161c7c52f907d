package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// DefaultTopK bounds how many chunks a retrieval returns by default, enough
// context for a downstream answer generator without blowing up its prompt.
const DefaultTopK = 5

// Retriever answers "which stored chunks are closest to this query" for one
// company.
type Retriever struct {
	embedder models.Embedder
	store    ChunkStore
	timeout  time.Duration
}

func NewRetriever(embedder models.Embedder, store ChunkStore, timeout time.Duration) *Retriever {
	return &Retriever{embedder: embedder, store: store, timeout: timeout}
}

// Retrieve embeds the query and returns the k nearest chunks for siren,
// nearest first. k <= 0 selects DefaultTopK. No chunks for the siren is a
// normal empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, siren, query string, k int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	embedCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		embedCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	vec, err := r.embedder.Embed(embedCtx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := r.store.SearchChunks(ctx, siren, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	return chunks, nil
}
