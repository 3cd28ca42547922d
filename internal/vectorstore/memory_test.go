package vectorstore

import (
	"context"
	"math"
	"testing"
)

func TestMemoryStoreTopKOrdering(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	// Section 0 points away from the query, 1 is aligned, 2 is diagonal.
	mustUpsert(t, s, "run", 0, []float64{0, 1})
	mustUpsert(t, s, "run", 1, []float64{1, 0})
	mustUpsert(t, s, "run", 2, []float64{1, 1})

	got, err := s.QueryTopK(ctx, "run", []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("QueryTopK() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].SectionIndex != 1 || got[1].SectionIndex != 2 {
		t.Errorf("order = [%d %d], want [1 2]", got[0].SectionIndex, got[1].SectionIndex)
	}
	if got[0].Score < got[1].Score {
		t.Errorf("scores not descending: %v then %v", got[0].Score, got[1].Score)
	}
}

func TestMemoryStoreTieBreaksOnSectionIndex(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	// Inserted out of order with identical vectors.
	mustUpsert(t, s, "run", 3, []float64{1, 0})
	mustUpsert(t, s, "run", 1, []float64{1, 0})
	mustUpsert(t, s, "run", 2, []float64{1, 0})

	got, err := s.QueryTopK(ctx, "run", []float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("QueryTopK() error = %v", err)
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].SectionIndex != want {
			t.Errorf("candidate %d = section %d, want %d", i, got[i].SectionIndex, want)
		}
	}
}

func TestMemoryStoreUpsertReplaces(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	mustUpsert(t, s, "run", 0, []float64{0, 1})
	mustUpsert(t, s, "run", 0, []float64{1, 0})

	got, err := s.QueryTopK(ctx, "run", []float64{1, 0}, 10)
	if err != nil {
		t.Fatalf("QueryTopK() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates after re-upsert, want 1", len(got))
	}
	if math.Abs(got[0].Score-1) > 1e-9 {
		t.Errorf("score = %v, want 1 (vector replaced)", got[0].Score)
	}
}

func TestMemoryStoreRunsAreIsolated(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	mustUpsert(t, s, "run-a", 0, []float64{1, 0})
	mustUpsert(t, s, "run-b", 0, []float64{1, 0})

	got, err := s.QueryTopK(ctx, "run-a", []float64{1, 0}, 10)
	if err != nil {
		t.Fatalf("QueryTopK() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("run-a sees %d candidates, want only its own", len(got))
	}

	if err := s.DeleteRun(ctx, "run-a"); err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	got, err = s.QueryTopK(ctx, "run-a", []float64{1, 0}, 10)
	if err != nil {
		t.Fatalf("QueryTopK() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("run-a has %d candidates after delete, want 0", len(got))
	}
	got, err = s.QueryTopK(ctx, "run-b", []float64{1, 0}, 10)
	if err != nil {
		t.Fatalf("QueryTopK() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("run-b lost its entries: %d candidates", len(got))
	}
}

func TestMemoryStoreDimensionMismatch(t *testing.T) {
	s := NewMemoryStore(2)
	if err := s.Upsert(context.Background(), "run", 0, []float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong vector dimension")
	}
}

func TestMemoryStoreEmptyRun(t *testing.T) {
	s := NewMemoryStore(2)
	got, err := s.QueryTopK(context.Background(), "missing", []float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("QueryTopK() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates from empty run, want 0", len(got))
	}
}

func mustUpsert(t *testing.T, s *MemoryStore, runID string, idx int, vec []float64) {
	t.Helper()
	if err := s.Upsert(context.Background(), runID, idx, vec); err != nil {
		t.Fatalf("Upsert(%s, %d) error = %v", runID, idx, err)
	}
}
