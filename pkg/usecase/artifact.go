package usecase

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/domain/types"
)

// buildBundle zips the workdir files matching the patterns. Patterns without
// matches contribute nothing; duplicates across patterns are added once.
func buildBundle(workdir string, patterns []string, name, runID string) (*model.ArtifactBundle, error) {
	bundle := &model.ArtifactBundle{
		Name:  name,
		RunID: runID,
	}

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(workdir, pattern))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid artifact pattern",
				goerr.T(types.ErrTagArtifact), goerr.V("pattern", pattern))
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			paths = append(paths, match)
		}
	}

	if len(paths) == 0 {
		return bundle, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, path := range paths {
		if err := addToZip(zw, path); err != nil {
			return nil, goerr.Wrap(err, "failed to add file to bundle",
				goerr.T(types.ErrTagArtifact), goerr.V("path", path))
		}
		bundle.Files = append(bundle.Files, filepath.Base(path))
	}
	if err := zw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize bundle", goerr.T(types.ErrTagArtifact))
	}

	bundle.Data = buf.Bytes()
	return bundle, nil
}

func addToZip(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}

	_, err = io.Copy(w, f)
	return err
}
