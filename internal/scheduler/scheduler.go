package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weather-reporter/internal/job"
)

const (
	// minRunTimeout keeps short city lists from racing the mail transmission.
	minRunTimeout = 10 * time.Minute

	// mailSlack covers writing and mailing the report after collection.
	mailSlack = 5 * time.Minute
)

// RunTimeout bounds one job invocation: one lookup with its spacing per city,
// plus slack for writing and mailing the report.
func RunTimeout(cities int, fetchDelay, httpTimeout time.Duration) time.Duration {
	d := time.Duration(cities)*(httpTimeout+fetchDelay) + mailSlack
	if d < minRunTimeout {
		d = minRunTimeout
	}
	return d
}

// Runner is the unit of work triggered once per day.
type Runner interface {
	Run(ctx context.Context) (job.RunResult, error)
}

// Scheduler fires the daily report job at a fixed local time of day.
// Days on which the process is not running at the fire time are skipped;
// there is no catch-up.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	runner     Runner
	fireAt     string // "HH:MM" local time
	runTimeout time.Duration
}

// New creates a Scheduler firing at fireAt in the process's local time zone.
func New(fireAt string, runTimeout time.Duration, runner Runner) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	// A run that overruns the next trigger delays it rather than overlapping it.
	s.SingletonModeAll()

	return &Scheduler{
		scheduler:  s,
		runner:     runner,
		fireAt:     fireAt,
		runTimeout: runTimeout,
	}
}

// Start registers the daily trigger and starts the underlying scheduler.
// A malformed fire time is reported here.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.fireAt).Do(func() {
		log.Printf("scheduler: running daily report job")

		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		res, err := s.runner.Run(ctx)
		if err != nil {
			log.Printf("scheduler: daily report job skipped: %v", err)
			return
		}
		log.Printf("scheduler: daily report job %s finished in stage %s", res.RunID, res.Stage)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future triggers.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
