package models

// EmbeddedChunk is a piece of report text plus its vector representation,
// persisted after a report completes and queried for RAG retrieval.
// Immutable once written.
type EmbeddedChunk struct {
	Siren       string    `json:"siren"`
	SectionKind string    `json:"section_kind"`
	ChunkIndex  int       `json:"chunk_index"`
	Content     string    `json:"content"`
	Embedding   []float32 `json:"-"`
}

// ScoredChunk pairs a retrieved chunk with its cosine distance to the query
// vector. Smaller distance means more similar.
type ScoredChunk struct {
	EmbeddedChunk
	Distance float64 `json:"distance"`
}
