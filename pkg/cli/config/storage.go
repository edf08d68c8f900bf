package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/infra/storage"
)

// Storage holds artifact store configuration
type Storage struct {
	GCSBucket string
	GCSPrefix string
	LocalDir  string
}

// Flags returns CLI flags for artifact storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "artifact-bucket",
			Usage:       "GCS bucket for artifact bundles; empty disables GCS upload",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("ANTENNA_ARTIFACT_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "artifact-prefix",
			Usage:       "Object prefix inside the artifact bucket",
			Value:       "antenna",
			Destination: &c.GCSPrefix,
			Sources:     cli.EnvVars("ANTENNA_ARTIFACT_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "artifact-dir",
			Usage:       "Local directory for artifact bundles; empty disables local bundling",
			Destination: &c.LocalDir,
			Sources:     cli.EnvVars("ANTENNA_ARTIFACT_DIR"),
		},
	}
}

// Build creates the artifact store, or nil when artifact collection is
// disabled. GCS takes precedence over the local directory.
func (c *Storage) Build(ctx context.Context) (interfaces.ArtifactStore, error) {
	if c.GCSBucket != "" {
		return storage.NewGCS(ctx, c.GCSBucket, c.GCSPrefix)
	}
	if c.LocalDir != "" {
		return storage.NewLocal(c.LocalDir), nil
	}
	return nil, nil
}
