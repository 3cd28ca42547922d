package vectorstore

import "context"

// Candidate is a retrieval hit: a section index paired with its cosine
// similarity to the query vector. Candidates are returned in descending
// score order, ties broken by ascending section index.
type Candidate struct {
	SectionIndex int
	Score        float64
}

// Store persists section embeddings namespaced by run ID and supports
// top-k cosine similarity search. Entries for a run are written once
// before any query for that run and dropped when the run completes, so
// stale entries from a previous document can never surface as candidates.
type Store interface {
	// Upsert registers one embedding under (runID, sectionIndex).
	// Re-indexing the same section of the same run replaces the entry.
	Upsert(ctx context.Context, runID string, sectionIndex int, vector []float64) error

	// QueryTopK returns up to k candidates for the run, best first.
	// An empty namespace yields an empty slice, not an error.
	QueryTopK(ctx context.Context, runID string, vector []float64, k int) ([]Candidate, error)

	// DeleteRun removes all entries for a run.
	DeleteRun(ctx context.Context, runID string) error
}
