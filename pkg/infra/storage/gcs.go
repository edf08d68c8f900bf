package storage

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/domain/types"
)

type gcsStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS creates an ArtifactStore uploading bundles to a Cloud Storage
// bucket under <prefix>/<run-id>/<bundle-name>.zip.
func NewGCS(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (interfaces.ArtifactStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client", goerr.T(types.ErrTagArtifact))
	}

	return &gcsStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *gcsStore) Put(ctx context.Context, bundle *model.ArtifactBundle) error {
	key := path.Join(s.prefix, bundle.RunID, bundle.Name+".zip")

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/zip"

	if _, err := w.Write(bundle.Data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to upload artifact bundle",
			goerr.T(types.ErrTagArtifact),
			goerr.V("bucket", s.bucket),
			goerr.V("key", key),
		)
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize artifact upload",
			goerr.T(types.ErrTagArtifact),
			goerr.V("bucket", s.bucket),
			goerr.V("key", key),
		)
	}

	ctxlog.From(ctx).Info("Uploaded artifact bundle",
		"bucket", s.bucket,
		"key", key,
		"files", len(bundle.Files),
		"size_bytes", len(bundle.Data),
	)

	return nil
}
