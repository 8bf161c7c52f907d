package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// Ingestor embeds a completed report's sections and persists the chunks for
// later retrieval.
type Ingestor struct {
	embedder models.Embedder
	store    ChunkStore
	timeout  time.Duration
	maxLen   int
}

// NewIngestor creates an Ingestor. timeout bounds each embedding call;
// <= 0 disables the per-call bound.
func NewIngestor(embedder models.Embedder, store ChunkStore, timeout time.Duration) *Ingestor {
	return &Ingestor{
		embedder: embedder,
		store:    store,
		timeout:  timeout,
		maxLen:   DefaultMaxChunkLen,
	}
}

// IngestReport chunks every section payload, embeds each chunk and replaces
// the stored chunk set for the siren. Error-flagged sections and blank
// payloads are skipped. Any failure aborts the whole ingest so the stored
// set stays consistent with a single report generation.
func (in *Ingestor) IngestReport(ctx context.Context, siren string, sections []models.Section) error {
	var chunks []models.EmbeddedChunk
	for _, sec := range sections {
		if sec.Error != "" {
			continue
		}
		for i, content := range Chunk(string(sec.Payload), in.maxLen) {
			vec, err := in.embed(ctx, content)
			if err != nil {
				return fmt.Errorf("embed chunk %d of %s section: %w", i, sec.Kind, err)
			}
			chunks = append(chunks, models.EmbeddedChunk{
				Siren:       siren,
				SectionKind: sec.Kind,
				ChunkIndex:  i,
				Content:     content,
				Embedding:   vec,
			})
		}
	}
	if len(chunks) == 0 {
		return nil
	}

	if err := in.store.ReplaceChunks(ctx, siren, chunks); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	slog.Info("report embedded", "siren", siren, "chunks", len(chunks))
	return nil
}

func (in *Ingestor) embed(ctx context.Context, text string) ([]float32, error) {
	if in.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.timeout)
		defer cancel()
	}
	return in.embedder.Embed(ctx, text)
}
