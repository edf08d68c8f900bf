package cli

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/yatagai/antenna/pkg/cli/config"
	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/infra/fetch"
	"github.com/yatagai/antenna/pkg/infra/git"
	"github.com/yatagai/antenna/pkg/infra/github"
	"github.com/yatagai/antenna/pkg/infra/notify"
	"github.com/yatagai/antenna/pkg/usecase"
)

// runtimeConfig gathers everything needed to assemble a runner. Both the
// one-shot command and the daemon share it.
type runtimeConfig struct {
	runnerCfg    config.Runner
	githubCfg    config.GitHub
	gitCfg       config.Git
	collectorCfg config.Collector
	storageCfg   config.Storage
	historyCfg   config.History
	slackCfg     config.Slack
}

func (x *runtimeConfig) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.runnerCfg.Flags()...)
	flags = append(flags, x.githubCfg.Flags()...)
	flags = append(flags, x.gitCfg.Flags()...)
	flags = append(flags, x.collectorCfg.Flags()...)
	flags = append(flags, x.storageCfg.Flags()...)
	flags = append(flags, x.historyCfg.Flags()...)
	flags = append(flags, x.slackCfg.Flags()...)
	return flags
}

// buildTask picks the external command when one is configured, the
// built-in collection pipeline otherwise. The returned counter reports
// the kept-channel count and is nil for external tasks.
func (x *runtimeConfig) buildTask() (interfaces.Task, func() int, error) {
	if len(x.runnerCfg.TaskCommand) > 0 {
		task, err := usecase.NewExecTask(x.runnerCfg.Workdir, x.runnerCfg.TaskCommand)
		if err != nil {
			return nil, nil, err
		}
		return task, nil, nil
	}

	srcCfg, err := x.collectorCfg.Load()
	if err != nil {
		return nil, nil, err
	}

	newFinder := func(token string) interfaces.SourceFinder {
		return github.NewClient(token)
	}

	collector, err := usecase.NewCollector(
		newFinder,
		fetch.NewClient(),
		x.runnerCfg.Workdir,
		srcCfg,
		usecase.WithWorkers(x.collectorCfg.FetchWorkers, x.collectorCfg.ProbeWorkers),
	)
	if err != nil {
		return nil, nil, err
	}

	task := usecase.NewCollectTask(collector)
	return task, func() int { return task.LastChannelCount }, nil
}

// buildRunner wires the full run pipeline. The run repository is returned
// separately so the HTTP API can serve run history from the same store.
func (x *runtimeConfig) buildRunner(ctx context.Context) (interfaces.Runner, interfaces.RunRepository, error) {
	task, counter, err := x.buildTask()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to build task")
	}

	var gitRepo interfaces.GitRepository
	if x.gitCfg.Commit {
		gitRepo = git.New(x.runnerCfg.Workdir,
			git.WithAuthor(x.gitCfg.AuthorName, x.gitCfg.AuthorEmail),
			git.WithRemote(x.gitCfg.Remote),
		)
	}

	store, err := x.storageCfg.Build(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to build artifact store")
	}

	runRepo, err := x.historyCfg.Build(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to build run history")
	}

	var notifier interfaces.Notifier
	if x.slackCfg.WebhookURL != "" {
		notifier = notify.NewSlack(x.slackCfg.WebhookURL)
	}

	opts := []usecase.RunnerOption{
		usecase.WithBudget(x.runnerCfg.Budget),
		usecase.WithTimezone(x.runnerCfg.Timezone),
		usecase.WithToken(x.githubCfg.Token),
		usecase.WithArtifactPatterns(x.runnerCfg.Patterns),
		usecase.WithBundleName(x.runnerCfg.BundleName),
		usecase.WithPush(x.gitCfg.Push),
	}
	if counter != nil {
		opts = append(opts, usecase.WithChannelCounter(counter))
	}

	runner := usecase.NewRunner(task, gitRepo, store, runRepo, notifier,
		x.runnerCfg.Workdir, opts...)
	return runner, runRepo, nil
}

// captureError reports an error to Sentry if it is initialized.
func captureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
