package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/infra/firestore"
	"github.com/yatagai/antenna/pkg/infra/memory"
)

// History holds run history persistence configuration
type History struct {
	FirestoreProject    string
	FirestoreCollection string
	Capacity            int
}

// Flags returns CLI flags for run history configuration
func (c *History) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project for Firestore run history; empty keeps history in memory",
			Destination: &c.FirestoreProject,
			Sources:     cli.EnvVars("ANTENNA_FIRESTORE_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding run records",
			Value:       "antenna_runs",
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("ANTENNA_FIRESTORE_COLLECTION"),
		},
		&cli.IntFlag{
			Name:        "history-capacity",
			Usage:       "Run records kept by the in-memory history",
			Value:       100,
			Destination: &c.Capacity,
			Sources:     cli.EnvVars("ANTENNA_HISTORY_CAPACITY"),
		},
	}
}

// Build creates the run repository: Firestore when a project is
// configured, an in-memory ring otherwise.
func (c *History) Build(ctx context.Context) (interfaces.RunRepository, error) {
	if c.FirestoreProject == "" {
		return memory.NewRunRepository(c.Capacity), nil
	}
	return firestore.NewRunRepository(ctx, c.FirestoreProject, []firestore.Option{
		firestore.WithCollection(c.FirestoreCollection),
	})
}
