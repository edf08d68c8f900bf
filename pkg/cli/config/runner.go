package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/yatagai/antenna/pkg/domain/model"
)

// Runner holds run execution configuration
type Runner struct {
	Workdir     string
	Budget      time.Duration
	Timezone    string
	Interval    time.Duration
	RunOnStart  bool
	TaskCommand []string
	Patterns    []string
	BundleName  string
}

// Flags returns CLI flags for runner configuration
func (c *Runner) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workdir",
			Usage:       "Working directory the task runs in and outputs land in",
			Value:       ".",
			Destination: &c.Workdir,
			Sources:     cli.EnvVars("ANTENNA_WORKDIR"),
		},
		&cli.DurationFlag{
			Name:        "budget",
			Usage:       "Wall-clock budget of one run",
			Value:       30 * time.Minute,
			Destination: &c.Budget,
			Sources:     cli.EnvVars("ANTENNA_BUDGET"),
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "TZ value injected into the task environment",
			Value:       "Asia/Shanghai",
			Destination: &c.Timezone,
			Sources:     cli.EnvVars("ANTENNA_TIMEZONE"),
		},
		&cli.DurationFlag{
			Name:        "interval",
			Usage:       "Schedule interval between runs",
			Value:       3 * time.Hour,
			Destination: &c.Interval,
			Sources:     cli.EnvVars("ANTENNA_INTERVAL"),
		},
		&cli.BoolFlag{
			Name:        "run-on-start",
			Usage:       "Trigger a run immediately when the scheduler starts",
			Value:       false,
			Destination: &c.RunOnStart,
			Sources:     cli.EnvVars("ANTENNA_RUN_ON_START"),
		},
		&cli.StringSliceFlag{
			Name:        "task-command",
			Usage:       "External task command and arguments; empty uses the built-in collector",
			Destination: &c.TaskCommand,
			Sources:     cli.EnvVars("ANTENNA_TASK_COMMAND"),
		},
		&cli.StringSliceFlag{
			Name:        "artifact-pattern",
			Usage:       "Workdir globs collected into the artifact bundle",
			Value:       model.DefaultArtifactPatterns,
			Destination: &c.Patterns,
			Sources:     cli.EnvVars("ANTENNA_ARTIFACT_PATTERNS"),
		},
		&cli.StringFlag{
			Name:        "bundle-name",
			Usage:       "Artifact bundle name",
			Value:       model.DefaultBundleName,
			Destination: &c.BundleName,
			Sources:     cli.EnvVars("ANTENNA_BUNDLE_NAME"),
		},
	}
}
