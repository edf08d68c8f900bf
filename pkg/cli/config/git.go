package config

import "github.com/urfave/cli/v3"

// Git holds commit-and-push configuration
type Git struct {
	Commit      bool
	Push        bool
	AuthorName  string
	AuthorEmail string
	Remote      string
}

// Flags returns CLI flags for git configuration
func (c *Git) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "git-commit",
			Usage:       "Commit workdir changes after a successful run",
			Value:       true,
			Destination: &c.Commit,
			Sources:     cli.EnvVars("ANTENNA_GIT_COMMIT"),
		},
		&cli.BoolFlag{
			Name:        "git-push",
			Usage:       "Push after committing",
			Value:       true,
			Destination: &c.Push,
			Sources:     cli.EnvVars("ANTENNA_GIT_PUSH"),
		},
		&cli.StringFlag{
			Name:        "git-author-name",
			Usage:       "Commit author name",
			Value:       "antenna-bot",
			Destination: &c.AuthorName,
			Sources:     cli.EnvVars("ANTENNA_GIT_AUTHOR_NAME"),
		},
		&cli.StringFlag{
			Name:        "git-author-email",
			Usage:       "Commit author email",
			Value:       "antenna-bot@users.noreply.github.com",
			Destination: &c.AuthorEmail,
			Sources:     cli.EnvVars("ANTENNA_GIT_AUTHOR_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "git-remote",
			Usage:       "Push remote",
			Value:       "origin",
			Destination: &c.Remote,
			Sources:     cli.EnvVars("ANTENNA_GIT_REMOTE"),
		},
	}
}
