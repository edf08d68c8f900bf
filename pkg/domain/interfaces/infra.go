package interfaces

import (
	"context"

	"github.com/yatagai/antenna/pkg/domain/model"
)

// Task is the capability interface for the unit of work one run executes.
// env carries the process environment injected for the invocation only
// (time zone, unbuffered-output flag, access token).
type Task interface {
	Run(ctx context.Context, env map[string]string) error
}

// SourceFinder discovers playlist source URLs from GitHub.
type SourceFinder interface {
	// FindPlaylistURLs searches repositories for the keyword and returns raw
	// file URLs of playlist-like files found in their root contents.
	FindPlaylistURLs(ctx context.Context, keyword string, limit int) ([]string, error)
}

// GitRepository defines the git operations the runner persists changes with.
type GitRepository interface {
	// HasChanges reports whether the working tree differs from HEAD.
	HasChanges(ctx context.Context) (bool, error)

	// CommitAll stages all working-tree changes and commits them.
	CommitAll(ctx context.Context, message string) error

	// Push pushes the current branch to the default remote.
	Push(ctx context.Context) error
}

// ArtifactStore persists artifact bundles produced by a run.
type ArtifactStore interface {
	Put(ctx context.Context, bundle *model.ArtifactBundle) error
}

// RunRepository stores run records.
type RunRepository interface {
	Save(ctx context.Context, record *model.RunRecord) error
	List(ctx context.Context, limit int) ([]*model.RunRecord, error)
}

// Notifier reports a finished run to an external channel.
type Notifier interface {
	NotifyRun(ctx context.Context, record *model.RunRecord) error
}
