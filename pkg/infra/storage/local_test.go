package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/infra/storage"
)

func TestLocalStore_Put(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()

	store := storage.NewLocal(baseDir)

	bundle := &model.ArtifactBundle{
		Name:  model.DefaultBundleName,
		RunID: "run-123",
		Files: []string{"epg.xml"},
		Data:  []byte("zip-bytes"),
	}

	gt.NoError(t, store.Put(ctx, bundle))

	content := gt.R1(os.ReadFile(filepath.Join(baseDir, "run-123", "iptv-outputs.zip"))).NoError(t)
	gt.String(t, string(content)).Equal("zip-bytes")
}
