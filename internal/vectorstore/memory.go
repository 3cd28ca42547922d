package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

type memoryEntry struct {
	sectionIndex int
	vector       []float64
}

// MemoryStore is an in-process Store using brute-force cosine similarity.
// It is the default backend when no Postgres DSN is configured, and the
// test double of choice for the analyzer.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	runs      map[string][]memoryEntry
}

// NewMemoryStore creates an empty in-memory store for vectors of the
// given dimension.
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{
		dimension: dimension,
		runs:      make(map[string][]memoryEntry),
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, runID string, sectionIndex int, vector []float64) error {
	if len(vector) != s.dimension {
		return fmt.Errorf("vector dimension %d, store expects %d", len(vector), s.dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.runs[runID]
	for i := range entries {
		if entries[i].sectionIndex == sectionIndex {
			entries[i].vector = vector
			return nil
		}
	}
	s.runs[runID] = append(entries, memoryEntry{sectionIndex: sectionIndex, vector: vector})
	return nil
}

func (s *MemoryStore) QueryTopK(ctx context.Context, runID string, vector []float64, k int) ([]Candidate, error) {
	if k <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.runs[runID]
	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, Candidate{
			SectionIndex: e.sectionIndex,
			Score:        cosine(e.vector, vector),
		})
	}
	// Descending score; equal scores resolve to the earlier section so
	// results are deterministic regardless of insertion order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].SectionIndex < candidates[j].SectionIndex
	})
	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k], nil
}

func (s *MemoryStore) DeleteRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
