package config

import "github.com/urfave/cli/v3"

// GitHub holds GitHub access configuration
type GitHub struct {
	Token string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub access token injected into the task for playlist discovery",
			Destination: &c.Token,
			Sources:     cli.EnvVars("ANTENNA_GITHUB_TOKEN", "GH_TOKEN"),
		},
	}
}
