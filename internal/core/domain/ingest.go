package domain

// IngestResult reports the outcome of one ingestion run.
// A run that fetched nothing is a valid result, not an error.
type IngestResult struct {
	// DocumentsFetched is the number of pages retrieved from the
	// content source.
	DocumentsFetched int

	// ChunksStored is the number of vector records actually written,
	// accumulated across batches. Failed batches reduce this count
	// but never abort the run.
	ChunksStored int

	// ChunksTotal is the number of chunks produced by splitting.
	ChunksTotal int

	// Summary is the generated content summary, or a fixed sentinel
	// when generation failed or nothing was fetched.
	Summary string
}

// Answer is the outcome of one query run: the generated answer plus
// the retrieved context it was grounded in.
type Answer struct {
	// Text is the answer shown to the user. On retrieval misses or
	// generation failure this is a fixed sentinel string.
	Text string

	// Sources are the retrieved records the answer was grounded in,
	// in descending similarity order. Empty when retrieval missed.
	Sources []ScoredRecord
}
