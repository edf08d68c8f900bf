// Package firestore persists run records to Cloud Firestore for deployments
// where run history must survive restarts.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
)

const defaultCollection = "runs"

type runRepository struct {
	client     *firestore.Client
	collection string
}

// Option configures the repository.
type Option func(*runRepository)

// WithCollection overrides the Firestore collection name.
func WithCollection(name string) Option {
	return func(r *runRepository) {
		r.collection = name
	}
}

// NewRunRepository creates a Firestore-backed RunRepository.
func NewRunRepository(ctx context.Context, projectID string, opts []Option, clientOpts ...option.ClientOption) (interfaces.RunRepository, error) {
	client, err := firestore.NewClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client", goerr.V("project_id", projectID))
	}

	repo := &runRepository{
		client:     client,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(repo)
	}

	return repo, nil
}

// Save upserts the record keyed by run ID.
func (r *runRepository) Save(ctx context.Context, record *model.RunRecord) error {
	_, err := r.client.Collection(r.collection).Doc(record.ID).Set(ctx, record)
	if err != nil {
		return goerr.Wrap(err, "failed to save run record", goerr.V("run_id", record.ID))
	}
	return nil
}

// List returns up to limit records ordered by start time, newest first.
func (r *runRepository) List(ctx context.Context, limit int) ([]*model.RunRecord, error) {
	query := r.client.Collection(r.collection).
		OrderBy("started_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []*model.RunRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate run records")
		}

		var record model.RunRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode run record", goerr.V("doc_id", doc.Ref.ID))
		}
		records = append(records, &record)
	}

	return records, nil
}
