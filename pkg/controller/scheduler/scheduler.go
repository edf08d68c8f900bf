// Package scheduler drives the runner on a fixed interval. Mutual exclusion
// of overlapping runs lives in the runner itself; the scheduler only ticks.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/domain/types"
)

const defaultInterval = 3 * time.Hour

// Scheduler triggers runs on a fixed interval.
type Scheduler struct {
	runner     interfaces.Runner
	interval   time.Duration
	runOnStart bool
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithInterval sets the tick interval.
func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithRunOnStart triggers one run immediately when Start is called instead
// of waiting for the first tick.
func WithRunOnStart(enabled bool) Option {
	return func(s *Scheduler) {
		s.runOnStart = enabled
	}
}

// New creates a Scheduler.
func New(runner interfaces.Runner, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:   runner,
		interval: defaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start blocks, triggering a run every interval until ctx is cancelled.
// Run failures are logged and do not stop the schedule.
func (s *Scheduler) Start(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	logger.Info("Scheduler started",
		"interval", s.interval.String(),
		"run_on_start", s.runOnStart,
	)

	if s.runOnStart {
		s.trigger(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	logger := ctxlog.From(ctx)

	record, err := s.runner.Execute(ctx, model.TriggerSchedule)
	switch {
	case errors.Is(err, types.ErrRunInFlight):
		// Already logged by the runner.
	case err != nil:
		logger.Error("Scheduled run failed",
			"run_id", record.ID,
			"status", record.Status,
			"error", err,
		)
	}
}
