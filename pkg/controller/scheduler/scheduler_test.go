package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/yatagai/antenna/pkg/controller/scheduler"
	"github.com/yatagai/antenna/pkg/domain/model"
)

type countingRunner struct {
	mu    sync.Mutex
	count int
	err   error
}

func (r *countingRunner) Execute(ctx context.Context, trigger model.RunTrigger) (*model.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return &model.RunRecord{ID: "test", Trigger: trigger, Status: model.RunStatusSucceeded}, r.err
}

func (r *countingRunner) Busy() bool { return false }

func (r *countingRunner) executions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func TestScheduler_TicksUntilCancelled(t *testing.T) {
	runner := &countingRunner{}
	s := scheduler.New(runner, scheduler.WithInterval(20*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	err := s.Start(ctx)
	gt.True(t, errors.Is(err, context.DeadlineExceeded))

	// ~5 ticks in 110ms at 20ms interval; allow slack for slow CI.
	gt.Number(t, runner.executions()).GreaterOrEqual(2)
}

func TestScheduler_RunOnStart(t *testing.T) {
	runner := &countingRunner{}
	s := scheduler.New(runner,
		scheduler.WithInterval(time.Hour),
		scheduler.WithRunOnStart(true),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_ = s.Start(ctx)
	gt.Number(t, runner.executions()).Equal(1)
}

func TestScheduler_RunFailureDoesNotStopSchedule(t *testing.T) {
	runner := &countingRunner{err: errors.New("task failed")}
	s := scheduler.New(runner, scheduler.WithInterval(20*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Millisecond)
	defer cancel()

	_ = s.Start(ctx)
	gt.Number(t, runner.executions()).GreaterOrEqual(2)
}
