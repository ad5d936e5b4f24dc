package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"weather-reporter/internal/job"
)

func result(id string, finished time.Time) job.RunResult {
	return job.RunResult{RunID: id, FinishedAt: finished, Stage: job.StageDone}
}

func TestLatestEmptyHistory(t *testing.T) {
	h := NewRunHistory(10, 0)

	if _, err := h.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLatestReturnsNewest(t *testing.T) {
	h := NewRunHistory(10, 0)
	now := time.Now()
	h.Add(result("a", now.Add(-time.Minute)))
	h.Add(result("b", now))

	latest, err := h.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.RunID != "b" {
		t.Fatalf("latest = %s, want b", latest.RunID)
	}
}

func TestRetentionByCount(t *testing.T) {
	h := NewRunHistory(3, 0)
	now := time.Now()
	for i := 0; i < 5; i++ {
		h.Add(result(fmt.Sprintf("run-%d", i), now))
	}

	runs := h.List(0)
	if len(runs) != 3 {
		t.Fatalf("retained = %d, want 3", len(runs))
	}
	if runs[0].RunID != "run-4" || runs[2].RunID != "run-2" {
		t.Fatalf("oldest runs should be dropped first; got %s..%s", runs[0].RunID, runs[2].RunID)
	}
}

func TestRetentionByAge(t *testing.T) {
	h := NewRunHistory(0, time.Hour)
	now := time.Now()
	h.Add(result("stale", now.Add(-2*time.Hour)))
	h.Add(result("fresh", now))

	runs := h.List(0)
	if len(runs) != 1 || runs[0].RunID != "fresh" {
		t.Fatalf("stale run should be dropped; got %d runs", len(runs))
	}
}

func TestListLimitNewestFirst(t *testing.T) {
	h := NewRunHistory(10, 0)
	now := time.Now()
	for i := 0; i < 4; i++ {
		h.Add(result(fmt.Sprintf("run-%d", i), now))
	}

	runs := h.List(2)
	if len(runs) != 2 {
		t.Fatalf("list length = %d, want 2", len(runs))
	}
	if runs[0].RunID != "run-3" || runs[1].RunID != "run-2" {
		t.Fatalf("list order = [%s, %s], want newest first", runs[0].RunID, runs[1].RunID)
	}
}
