package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/domain/types"
)

// Collector holds built-in collector configuration
type Collector struct {
	SourcesPath  string
	FetchWorkers int
	ProbeWorkers int
}

// Flags returns CLI flags for collector configuration
func (c *Collector) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sources",
			Usage:       "Path to a TOML source config; empty uses the built-in source set",
			Destination: &c.SourcesPath,
			Sources:     cli.EnvVars("ANTENNA_SOURCES"),
		},
		&cli.IntFlag{
			Name:        "fetch-workers",
			Usage:       "Concurrent playlist fetches",
			Value:       5,
			Destination: &c.FetchWorkers,
			Sources:     cli.EnvVars("ANTENNA_FETCH_WORKERS"),
		},
		&cli.IntFlag{
			Name:        "probe-workers",
			Usage:       "Concurrent stream reachability probes",
			Value:       3,
			Destination: &c.ProbeWorkers,
			Sources:     cli.EnvVars("ANTENNA_PROBE_WORKERS"),
		},
	}
}

// Load reads the source config. Without a path the built-in defaults are
// used; with one, the file fully replaces them.
func (c *Collector) Load() (*model.SourceConfig, error) {
	if c.SourcesPath == "" {
		return model.DefaultSourceConfig(), nil
	}

	raw, err := os.ReadFile(c.SourcesPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read source config",
			goerr.T(types.ErrTagConfig), goerr.V("path", c.SourcesPath))
	}

	var cfg model.SourceConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse source config",
			goerr.T(types.ErrTagConfig), goerr.V("path", c.SourcesPath))
	}

	return &cfg, nil
}
