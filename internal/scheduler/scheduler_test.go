package scheduler

import (
	"context"
	"testing"
	"time"

	"weather-reporter/internal/job"
)

type fakeRunner struct {
	runs int
}

func (r *fakeRunner) Run(ctx context.Context) (job.RunResult, error) {
	r.runs++
	return job.RunResult{RunID: "test", Stage: job.StageDone}, nil
}

func TestStartRejectsMalformedFireTime(t *testing.T) {
	s := New("not-a-time", time.Minute, &fakeRunner{})
	defer s.Stop()

	if err := s.Start(); err == nil {
		t.Fatal("expected error for malformed fire time")
	}
}

func TestStartSchedulesDailyAtFireTime(t *testing.T) {
	s := New("07:00", time.Minute, &fakeRunner{})

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	jobs := s.scheduler.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("registered jobs = %d, want 1", len(jobs))
	}

	// The next trigger must land on the fire time within the coming day.
	next := jobs[0].NextRun()
	now := time.Now()
	if next.Before(now) || next.After(now.Add(24*time.Hour)) {
		t.Fatalf("next run %v not within the coming day", next)
	}
	if next.Hour() != 7 || next.Minute() != 0 || next.Second() != 0 {
		t.Fatalf("next run %v not at the 07:00 fire time", next)
	}
}

func TestRunTimeoutScalesWithCityCount(t *testing.T) {
	// Short lists sit on the floor.
	small := RunTimeout(2, 2*time.Second, 10*time.Second)
	if small != minRunTimeout {
		t.Fatalf("small list timeout = %v, want %v", small, minRunTimeout)
	}

	// Large lists get a full lookup-plus-spacing budget per city.
	large := RunTimeout(500, 2*time.Second, 10*time.Second)
	want := 500*12*time.Second + mailSlack
	if large != want {
		t.Fatalf("large list timeout = %v, want %v", large, want)
	}
}
