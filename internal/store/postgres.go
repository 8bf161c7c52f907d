// Package store is the Postgres persistence layer for embedded report chunks.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// PostgresStore persists embedded chunks in a pgvector table and answers
// similarity searches with the cosine distance operator.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ReplaceChunks swaps all stored chunks for a siren in one transaction, so
// a re-generated report never leaves stale chunks behind.
func (s *PostgresStore) ReplaceChunks(ctx context.Context, siren string, chunks []models.EmbeddedChunk) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace chunks: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM document_embeddings WHERE siren = $1`, siren); err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}

	for _, c := range chunks {
		if _, err := tx.Exec(ctx,
			`INSERT INTO document_embeddings (siren, section_kind, chunk_index, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			c.Siren, c.SectionKind, c.ChunkIndex, c.Content, pgvector.NewVector(c.Embedding),
		); err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.ChunkIndex, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace chunks: %w", err)
	}
	return nil
}

// SearchChunks returns at most k chunks for siren ordered by cosine distance
// to the query vector, nearest first.
func (s *PostgresStore) SearchChunks(ctx context.Context, siren string, query []float32, k int) ([]models.ScoredChunk, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT siren, section_kind, chunk_index, content, embedding <=> $2 AS distance
		 FROM document_embeddings
		 WHERE siren = $1
		 ORDER BY embedding <=> $2
		 LIMIT $3`,
		siren, pgvector.NewVector(query), k)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.ScoredChunk
	for rows.Next() {
		var c models.ScoredChunk
		if err := rows.Scan(&c.Siren, &c.SectionKind, &c.ChunkIndex, &c.Content, &c.Distance); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}
