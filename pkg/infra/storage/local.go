// Package storage persists artifact bundles. Two backends exist: a local
// directory for single-host deployments and Google Cloud Storage.
package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/domain/types"
)

type localStore struct {
	baseDir string
}

// NewLocal creates an ArtifactStore writing bundles under baseDir as
// <baseDir>/<run-id>/<bundle-name>.zip.
func NewLocal(baseDir string) interfaces.ArtifactStore {
	return &localStore{baseDir: baseDir}
}

func (s *localStore) Put(ctx context.Context, bundle *model.ArtifactBundle) error {
	dir := filepath.Join(s.baseDir, bundle.RunID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create artifact directory",
			goerr.T(types.ErrTagArtifact), goerr.V("dir", dir))
	}

	path := filepath.Join(dir, bundle.Name+".zip")
	if err := os.WriteFile(path, bundle.Data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write artifact bundle",
			goerr.T(types.ErrTagArtifact), goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("Stored artifact bundle",
		"path", path,
		"files", len(bundle.Files),
		"size_bytes", len(bundle.Data),
	)

	return nil
}
