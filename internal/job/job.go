package job

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"weather-reporter/internal/weather"
)

// ErrRunInProgress is returned when a run is requested while another one,
// scheduled or manual, is still in flight.
var ErrRunInProgress = errors.New("a run is already in progress")

// Stage identifies the step a run last reached.
type Stage string

const (
	StageCollecting Stage = "collecting"
	StageWriting    Stage = "writing"
	StageMailing    Stage = "mailing"
	StageDone       Stage = "done"
)

// RunResult is the observable outcome of one collect -> write -> mail cycle.
// Failures are reported here rather than only in logs.
type RunResult struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Records    int       `json:"records"`
	FilePath   string    `json:"filePath,omitempty"`
	Mailed     bool      `json:"mailed"`
	Stage      Stage     `json:"stage"`
	Error      string    `json:"error,omitempty"`
}

// Collector gathers the batch for one run.
type Collector interface {
	Collect(ctx context.Context) weather.Batch
}

// Writer persists a batch and returns the report path.
type Writer interface {
	Write(batch weather.Batch) (string, error)
}

// Mailer transmits the written report.
type Mailer interface {
	Send(path string) error
}

// History receives the result of every completed run.
type History interface {
	Add(res RunResult)
}

// Job composes collector, writer, and mailer into one unit of work.
// At most one run is in flight at a time, whichever caller triggers it.
type Job struct {
	collector Collector
	writer    Writer
	mailer    Mailer
	history   History
	running   *atomic.Bool
}

func New(collector Collector, writer Writer, mailer Mailer, history History) *Job {
	return &Job{
		collector: collector,
		writer:    writer,
		mailer:    mailer,
		history:   history,
		running:   atomic.NewBool(false),
	}
}

// Run executes the stages strictly in order. An empty batch or a failed stage
// ends the run; nothing is retried and no failure escalates past the run.
// A second Run while one is in flight returns ErrRunInProgress.
func (j *Job) Run(ctx context.Context) (RunResult, error) {
	if !j.running.CAS(false, true) {
		return RunResult{}, ErrRunInProgress
	}
	defer j.running.Store(false)

	res := RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Stage:     StageCollecting,
	}
	log.Printf("job %s: collecting weather data", res.RunID)

	batch := j.collector.Collect(ctx)
	res.Records = len(batch)
	if len(batch) == 0 {
		log.Printf("job %s: no records collected; nothing to report", res.RunID)
		return j.finish(res), nil
	}

	res.Stage = StageWriting
	path, err := j.writer.Write(batch)
	if err != nil {
		log.Printf("job %s: writing report failed: %v", res.RunID, err)
		res.Error = err.Error()
		return j.finish(res), nil
	}
	res.FilePath = path

	res.Stage = StageMailing
	if err := j.mailer.Send(path); err != nil {
		log.Printf("job %s: sending report %s failed: %v", res.RunID, path, err)
		res.Error = err.Error()
		return j.finish(res), nil
	}
	res.Mailed = true
	res.Stage = StageDone
	log.Printf("job %s: report %s sent (%d records)", res.RunID, path, res.Records)

	return j.finish(res), nil
}

func (j *Job) finish(res RunResult) RunResult {
	res.FinishedAt = time.Now()
	if j.history != nil {
		j.history.Add(res)
	}
	return res
}
