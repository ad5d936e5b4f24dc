package store

import (
	"errors"
	"sync"
	"time"

	"weather-reporter/internal/job"
)

var (
	// ErrNotFound is returned when no run has been recorded yet.
	ErrNotFound = errors.New("no runs recorded")
)

// RunHistory is a concurrency-safe in-memory record of recent job runs.
// It is written by the job and read by the status API.
type RunHistory struct {
	mu sync.RWMutex

	// runs in completion order, oldest first
	runs []job.RunResult

	// retention configuration
	maxRuns int           // max number of retained results
	maxAge  time.Duration // optional max age for results
}

// NewRunHistory creates a RunHistory with optional limits.
// If maxRuns is <= 0, it is treated as unlimited.
func NewRunHistory(maxRuns int, maxAge time.Duration) *RunHistory {
	return &RunHistory{
		maxRuns: maxRuns,
		maxAge:  maxAge,
	}
}

// Add appends a completed run result and enforces retention.
func (h *RunHistory) Add(res job.RunResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.runs = append(h.runs, res)

	// Enforce retention by count.
	if h.maxRuns > 0 && len(h.runs) > h.maxRuns {
		over := len(h.runs) - h.maxRuns
		h.runs = h.runs[over:]
	}

	// Enforce retention by age.
	if h.maxAge > 0 {
		cutoff := time.Now().Add(-h.maxAge)
		i := 0
		for ; i < len(h.runs); i++ {
			if !h.runs[i].FinishedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			h.runs = h.runs[i:]
		}
	}
}

// Latest returns the most recently completed run.
func (h *RunHistory) Latest() (job.RunResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.runs) == 0 {
		return job.RunResult{}, ErrNotFound
	}
	return h.runs[len(h.runs)-1], nil
}

// List returns up to limit results, newest first. limit <= 0 returns all.
func (h *RunHistory) List(limit int) []job.RunResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.runs)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]job.RunResult, 0, n)
	for i := len(h.runs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.runs[i])
	}
	return out
}
