package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/yatagai/antenna/pkg/domain/model"
)

func cmdRun() *cli.Command {
	var cfg runtimeConfig

	return &cli.Command{
		Name:  "run",
		Usage: "Execute one collection run and exit",
		Flags: cfg.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			runner, _, err := cfg.buildRunner(ctx)
			if err != nil {
				return err
			}

			record, err := runner.Execute(ctx, model.TriggerManual)
			if record != nil {
				printRunSummary(record)
			}
			captureError(err)
			return err
		},
	}
}

func printRunSummary(record *model.RunRecord) {
	status := color.New(color.FgGreen, color.Bold)
	switch record.Status {
	case model.RunStatusFailed, model.RunStatusTimeout:
		status = color.New(color.FgRed, color.Bold)
	case model.RunStatusSkipped:
		status = color.New(color.FgYellow, color.Bold)
	}

	fmt.Printf("Run %s: %s (%s)\n",
		record.ID,
		status.Sprint(record.Status),
		record.Duration().Round(time.Second),
	)
	if record.ChannelCount > 0 {
		fmt.Printf("  channels kept: %d\n", record.ChannelCount)
	}
	if len(record.ArtifactFiles) > 0 {
		fmt.Printf("  artifacts: %v\n", record.ArtifactFiles)
	}
	if record.CommitMessage != "" {
		fmt.Printf("  commit: %s\n", record.CommitMessage)
	}
	if record.Error != "" {
		color.Red("  error: %s", record.Error)
	}
}
