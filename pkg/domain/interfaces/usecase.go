package interfaces

import (
	"context"

	"github.com/yatagai/antenna/pkg/domain/model"
)

// Runner executes one automation cycle: task, artifact collection, commit.
type Runner interface {
	// Execute runs one cycle and returns its record. Overlapping triggers
	// return types.ErrRunInFlight together with a skipped record.
	Execute(ctx context.Context, trigger model.RunTrigger) (*model.RunRecord, error)

	// Busy reports whether a run currently holds the run lock.
	Busy() bool
}

// Collector runs the built-in playlist collection pipeline.
type Collector interface {
	// Collect gathers, filters and validates channels and writes the output
	// files into the workdir. The returned report backs report.json/html.
	Collect(ctx context.Context, token string) (*model.CollectReport, error)
}
