package pipeline

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/policyaudit/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator() *Orchestrator {
	cfg := config.Config{
		MaxQueueSize: 4,
		WorkerCount:  1,
		JobTTL:       time.Hour,
	}
	return NewOrchestrator(cfg, nil, testLogger())
}

func TestOrchestrator_SubmitAfterStopRejected(t *testing.T) {
	o := newTestOrchestrator()
	o.Stop()

	job := &Job{ID: "late-1", Status: StatusQueued, UpdatedAt: time.Now()}
	if err := o.Submit(job); err == nil {
		t.Fatal("expected error submitting to a stopped pipeline")
	}
	if got := o.GetJob("late-1"); got == nil || got.Status != StatusFailed {
		t.Errorf("expected job marked failed, got %+v", got)
	}
}

func TestOrchestrator_StopIdempotent(t *testing.T) {
	o := newTestOrchestrator()
	o.Stop()
	o.Stop()
}

func TestOrchestrator_SubmitQueueFull(t *testing.T) {
	o := newTestOrchestrator()
	for i := range o.cfg.MaxQueueSize {
		job := &Job{ID: NewJobID(), Status: StatusQueued, UpdatedAt: time.Now()}
		if err := o.Submit(job); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}
	overflow := &Job{ID: "overflow", Status: StatusQueued, UpdatedAt: time.Now()}
	if err := o.Submit(overflow); err == nil {
		t.Fatal("expected error when queue is full")
	}
	if got := o.GetJob("overflow"); got == nil || got.Status != StatusFailed {
		t.Errorf("expected overflow job marked failed, got %+v", got)
	}
}
