package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/domain/types"
)

const (
	defaultBudget   = 30 * time.Minute
	defaultTimezone = "Asia/Shanghai"
)

type runner struct {
	task          interfaces.Task
	gitRepo       interfaces.GitRepository
	artifactStore interfaces.ArtifactStore
	runRepo       interfaces.RunRepository
	notifier      interfaces.Notifier

	workdir    string
	budget     time.Duration
	timezone   string
	token      string
	patterns   []string
	bundleName string
	push       bool

	// channelCount reports the kept-channel count of the last task run.
	// Nil for external tasks.
	channelCount func() int

	// mu is the run lock: overlapping triggers are skipped, not queued.
	mu sync.Mutex
}

// RunnerOption configures the runner.
type RunnerOption func(*runner)

// WithBudget sets the wall-clock budget of one run.
func WithBudget(budget time.Duration) RunnerOption {
	return func(r *runner) {
		if budget > 0 {
			r.budget = budget
		}
	}
}

// WithTimezone sets the TZ value injected into the task env.
func WithTimezone(tz string) RunnerOption {
	return func(r *runner) {
		if tz != "" {
			r.timezone = tz
		}
	}
}

// WithToken sets the access token injected into the task env for the
// duration of the invocation.
func WithToken(token string) RunnerOption {
	return func(r *runner) {
		r.token = token
	}
}

// WithArtifactPatterns overrides the collected workdir globs.
func WithArtifactPatterns(patterns []string) RunnerOption {
	return func(r *runner) {
		if len(patterns) > 0 {
			r.patterns = patterns
		}
	}
}

// WithBundleName overrides the artifact bundle name.
func WithBundleName(name string) RunnerOption {
	return func(r *runner) {
		if name != "" {
			r.bundleName = name
		}
	}
}

// WithPush enables pushing after a commit.
func WithPush(push bool) RunnerOption {
	return func(r *runner) {
		r.push = push
	}
}

// WithChannelCounter wires the kept-channel count reported by the built-in
// collect task into run records.
func WithChannelCounter(fn func() int) RunnerOption {
	return func(r *runner) {
		r.channelCount = fn
	}
}

// NewRunner creates the scheduled runner. gitRepo, artifactStore and
// notifier may be nil to disable the corresponding step.
func NewRunner(
	task interfaces.Task,
	gitRepo interfaces.GitRepository,
	artifactStore interfaces.ArtifactStore,
	runRepo interfaces.RunRepository,
	notifier interfaces.Notifier,
	workdir string,
	opts ...RunnerOption,
) interfaces.Runner {
	r := &runner{
		task:          task,
		gitRepo:       gitRepo,
		artifactStore: artifactStore,
		runRepo:       runRepo,
		notifier:      notifier,
		workdir:       workdir,
		budget:        defaultBudget,
		timezone:      defaultTimezone,
		patterns:      model.DefaultArtifactPatterns,
		bundleName:    model.DefaultBundleName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Busy reports whether a run currently holds the run lock.
func (r *runner) Busy() bool {
	if r.mu.TryLock() {
		r.mu.Unlock()
		return false
	}
	return true
}

// Execute runs one automation cycle: task, artifact collection, commit and
// push. Every failure is fatal to the run; there is no retry.
func (r *runner) Execute(ctx context.Context, trigger model.RunTrigger) (*model.RunRecord, error) {
	logger := ctxlog.From(ctx)

	if !r.mu.TryLock() {
		record := &model.RunRecord{
			ID:         uuid.NewString(),
			Trigger:    trigger,
			Status:     model.RunStatusSkipped,
			StartedAt:  time.Now().UTC(),
			FinishedAt: time.Now().UTC(),
			Error:      types.ErrRunInFlight.Error(),
		}
		r.saveRecord(ctx, record)
		observeRun(record)
		logger.Warn("Skipping run: another run is in flight", "trigger", trigger)
		return record, types.ErrRunInFlight
	}
	defer r.mu.Unlock()

	record := &model.RunRecord{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	r.saveRecord(ctx, record)

	logger.Info("Run started",
		"run_id", record.ID,
		"trigger", trigger,
		"budget", r.budget.String(),
	)

	// Every step below shares the budget: a stalled push or upload must not
	// outlive the run either.
	runCtx, cancel := context.WithTimeout(ctx, r.budget)
	defer cancel()

	if err := r.task.Run(runCtx, r.taskEnv()); err != nil {
		record.Status = runStatusForError(runCtx, err)
		return r.finish(ctx, record, err)
	}

	if r.channelCount != nil {
		record.ChannelCount = r.channelCount()
	}

	bundle, err := r.collectArtifacts(runCtx, record.ID)
	if err != nil {
		record.Status = runStatusForError(runCtx, err)
		return r.finish(ctx, record, err)
	}
	if bundle != nil {
		record.ArtifactFiles = bundle.Files
	}

	committed, message, err := r.persist(runCtx)
	if err != nil {
		record.Status = runStatusForError(runCtx, err)
		return r.finish(ctx, record, err)
	}
	if committed {
		record.CommitMessage = message
	}

	record.Status = model.RunStatusSucceeded
	return r.finish(ctx, record, nil)
}

// runStatusForError maps a step failure to the run status: budget expiry
// is a timeout, everything else a plain failure.
func runStatusForError(ctx context.Context, err error) model.RunStatus {
	if ctx.Err() == context.DeadlineExceeded || goerr.HasTag(err, types.ErrTagTimeout) {
		return model.RunStatusTimeout
	}
	return model.RunStatusFailed
}

// taskEnv builds the environment injected into the task: time zone,
// unbuffered output, and the access token scoped to the invocation.
func (r *runner) taskEnv() map[string]string {
	env := map[string]string{
		"TZ":               r.timezone,
		"PYTHONUNBUFFERED": "1",
	}
	if r.token != "" {
		env[TokenEnvKey] = r.token
	}
	return env
}

// collectArtifacts bundles the matching output files and stores them.
// Missing files are not an error; only bundling or store failures are.
func (r *runner) collectArtifacts(ctx context.Context, runID string) (*model.ArtifactBundle, error) {
	if r.artifactStore == nil {
		return nil, nil
	}

	bundle, err := buildBundle(r.workdir, r.patterns, r.bundleName, runID)
	if err != nil {
		return nil, err
	}

	if bundle.IsEmpty() {
		ctxlog.From(ctx).Info("No artifact files matched, skipping upload",
			"patterns", r.patterns,
		)
		return bundle, nil
	}

	if err := r.artifactStore.Put(ctx, bundle); err != nil {
		return nil, err
	}

	return bundle, nil
}

// persist commits and pushes working-tree changes. A clean tree is a
// deterministic no-op, not a failure.
func (r *runner) persist(ctx context.Context) (bool, string, error) {
	if r.gitRepo == nil {
		return false, "", nil
	}

	logger := ctxlog.From(ctx)

	changed, err := r.gitRepo.HasChanges(ctx)
	if err != nil {
		return false, "", err
	}
	if !changed {
		logger.Info("Working tree is clean, nothing to commit")
		return false, "", nil
	}

	message := fmt.Sprintf("Update IPTV data: %s", time.Now().UTC().Format(time.RFC3339))
	if err := r.gitRepo.CommitAll(ctx, message); err != nil {
		return false, "", err
	}

	if r.push {
		if err := r.gitRepo.Push(ctx); err != nil {
			return false, "", err
		}
	}

	return true, message, nil
}

// finish closes out the record, persists it, notifies, and updates metrics.
func (r *runner) finish(ctx context.Context, record *model.RunRecord, runErr error) (*model.RunRecord, error) {
	logger := ctxlog.From(ctx)

	record.FinishedAt = time.Now().UTC()
	if runErr != nil {
		record.Error = runErr.Error()
	}

	r.saveRecord(ctx, record)
	observeRun(record)

	if r.notifier != nil {
		if err := r.notifier.NotifyRun(ctx, record); err != nil {
			logger.Warn("Failed to send run notification", "error", err)
		}
	}

	logger.Info("Run finished",
		"run_id", record.ID,
		"status", record.Status,
		"duration", record.Duration().String(),
		"channel_count", record.ChannelCount,
		"error", record.Error,
	)

	return record, runErr
}

func (r *runner) saveRecord(ctx context.Context, record *model.RunRecord) {
	if r.runRepo == nil {
		return
	}
	if err := r.runRepo.Save(ctx, record); err != nil {
		ctxlog.From(ctx).Warn("Failed to save run record",
			"run_id", record.ID,
			"error", err,
		)
	}
}
