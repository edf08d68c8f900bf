// Package memory provides the default in-process run repository: a bounded
// ring of the most recent run records.
package memory

import (
	"context"
	"sync"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
)

const defaultCapacity = 100

type runRepository struct {
	mu       sync.RWMutex
	records  []*model.RunRecord
	capacity int
}

// NewRunRepository creates an in-memory RunRepository retaining up to
// capacity records. capacity <= 0 uses the default.
func NewRunRepository(capacity int) interfaces.RunRepository {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &runRepository{capacity: capacity}
}

// Save upserts a record by ID. New records are prepended; the oldest record
// is dropped once the capacity is exceeded.
func (r *runRepository) Save(ctx context.Context, record *model.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *record
	for i, existing := range r.records {
		if existing.ID == record.ID {
			r.records[i] = &clone
			return nil
		}
	}

	r.records = append([]*model.RunRecord{&clone}, r.records...)
	if len(r.records) > r.capacity {
		r.records = r.records[:r.capacity]
	}

	return nil
}

// List returns up to limit records, newest first.
func (r *runRepository) List(ctx context.Context, limit int) ([]*model.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}

	out := make([]*model.RunRecord, limit)
	for i := 0; i < limit; i++ {
		clone := *r.records[i]
		out[i] = &clone
	}
	return out, nil
}
