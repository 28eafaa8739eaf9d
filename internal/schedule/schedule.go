// Package schedule runs periodic rebuilds.
package schedule

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Scheduler runs one task at a fixed interval. A run that is still going when
// the next is due is skipped rather than stacked.
type Scheduler struct {
	scheduler gocron.Scheduler
	job       gocron.Job
}

// New schedules task every interval. The scheduler is idle until Start.
func New(interval time.Duration, task func()) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.ValidationError("rebuild interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create scheduler").Build()
	}
	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to schedule rebuild").
			WithContext("interval", interval.String()).
			Build()
	}
	return &Scheduler{scheduler: s, job: job}, nil
}

// Start begins running the task.
func (s *Scheduler) Start() {
	slog.Info("Starting rebuild scheduler")
	s.scheduler.Start()
}

// NextRun returns when the task runs next.
func (s *Scheduler) NextRun() (time.Time, error) {
	return s.job.NextRun()
}

// Stop shuts the scheduler down and waits for a running task to return.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping rebuild scheduler")
	if err := s.scheduler.Shutdown(); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to stop scheduler").Build()
	}
	return nil
}
