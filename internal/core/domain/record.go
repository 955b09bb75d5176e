package domain

// VectorRecord is one stored entry in the vector index: an embedding
// alongside the chunk text and its sanitized metadata. Records are
// written on upsert and never mutated in place.
type VectorRecord struct {
	// ID is the record identifier. IDs are content-addressed (UUIDv5
	// over document URI and chunk text), so re-ingesting an unchanged
	// page overwrites the same records instead of growing the index.
	ID string

	// Embedding is the vector representation. Its length equals the
	// collection's configured dimension.
	Embedding []float32

	// Text is the chunk text the embedding was computed from.
	Text string

	// Metadata is the sanitized chunk metadata.
	Metadata Metadata
}

// ScoredRecord is a retrieval hit: a stored record with its similarity
// to the query embedding.
type ScoredRecord struct {
	// Record is the matched vector record.
	Record VectorRecord

	// Score is the cosine similarity to the query, higher is closer.
	Score float64
}
