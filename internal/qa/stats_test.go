package qa

import (
	"testing"
	"time"
)

func TestStatsEmpty(t *testing.T) {
	s := NewStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected empty snapshot, got count %d", snap.Count)
	}
}

func TestStatsAggregates(t *testing.T) {
	s := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400} {
		s.Record(ms)
	}

	snap := s.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("count = %d, want 4", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 400 {
		t.Errorf("min/max = %d/%d, want 100/400", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 250 {
		t.Errorf("avg = %v, want 250", snap.AvgMs)
	}
	if snap.P50Ms != 250 {
		t.Errorf("p50 = %v, want 250", snap.P50Ms)
	}
}

func TestStatsNegativeClamped(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(-5)
	snap := s.Snapshot()
	if snap.MinMs != 0 {
		t.Errorf("min = %d, want 0", snap.MinMs)
	}
}

func TestStatsPrunesOldSamples(t *testing.T) {
	s := NewStats(10 * time.Millisecond)
	s.Record(100)
	time.Sleep(25 * time.Millisecond)
	s.Record(200)

	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("count = %d, want 1 after prune", snap.Count)
	}
	if snap.MinMs != 200 {
		t.Errorf("min = %d, want 200", snap.MinMs)
	}
}

func TestPercentileInterpolates(t *testing.T) {
	values := []int64{0, 100}
	if got := percentile(values, 50); got != 50 {
		t.Errorf("p50 = %v, want 50", got)
	}
	if got := percentile(values, 0); got != 0 {
		t.Errorf("p0 = %v, want 0", got)
	}
	if got := percentile(values, 100); got != 100 {
		t.Errorf("p100 = %v, want 100", got)
	}
}
