package usecase

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/types"
)

// TokenEnvKey is the env entry carrying the access token for the task.
const TokenEnvKey = "GH_TOKEN"

type execTask struct {
	workdir string
	argv    []string
}

// NewExecTask creates a Task running an external command (e.g. the legacy
// Python pipeline) as a blocking subprocess in the workdir. The command is
// killed when the run context expires.
func NewExecTask(workdir string, argv []string) (interfaces.Task, error) {
	if len(argv) == 0 {
		return nil, goerr.New("task command is empty", goerr.T(types.ErrTagConfig))
	}
	return &execTask{workdir: workdir, argv: argv}, nil
}

func (t *execTask) Run(ctx context.Context, env map[string]string) error {
	logger := ctxlog.From(ctx)

	cmd := exec.CommandContext(ctx, t.argv[0], t.argv[1:]...)
	cmd.Dir = t.workdir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	logger.Info("Starting task command", "argv", t.argv, "workdir", t.workdir)

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return goerr.Wrap(err, "task exceeded its time budget",
				goerr.T(types.ErrTagTimeout), goerr.V("argv", t.argv))
		}

		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return goerr.Wrap(err, "task command failed",
			goerr.T(types.ErrTagTask),
			goerr.V("argv", t.argv),
			goerr.V("exit_code", exitCode),
		)
	}

	logger.Info("Task command finished", "argv", t.argv)
	return nil
}

// CollectTask adapts the built-in Collector to the Task interface. The
// access token is taken from the injected env, mirroring how the external
// script reads it.
type CollectTask struct {
	collector interfaces.Collector

	// LastChannelCount is the kept-channel count of the most recent
	// successful collection. Only read between runs.
	LastChannelCount int
}

// NewCollectTask creates the built-in collection task.
func NewCollectTask(collector interfaces.Collector) *CollectTask {
	return &CollectTask{collector: collector}
}

// Run executes one collection cycle.
func (t *CollectTask) Run(ctx context.Context, env map[string]string) error {
	report, err := t.collector.Collect(ctx, env[TokenEnvKey])
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return goerr.Wrap(err, "collection exceeded its time budget", goerr.T(types.ErrTagTimeout))
		}
		return goerr.Wrap(err, "collection pipeline failed", goerr.T(types.ErrTagTask))
	}

	t.LastChannelCount = report.KeptCount
	return nil
}
