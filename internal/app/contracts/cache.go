package contracts

import (
	"context"
	"jaspel-service/internal/app/models"
	"time"
)

// AggregateCache maintains advisory per-beneficiary fee aggregates. The
// cache is never a source of truth; every value can be recomputed from the
// fee record store.
type AggregateCache interface {
	// IncrementOnCreate bumps the aggregate counters for the record's
	// settlement month and day buckets.
	IncrementOnCreate(ctx context.Context, record *models.FeeRecord) error

	// DecrementOnDelete reverses IncrementOnCreate, flooring at zero.
	DecrementOnDelete(ctx context.Context, record *models.FeeRecord) error

	// Invalidate drops the beneficiary's aggregates for the given months
	// plus the beneficiary-level summary keys.
	Invalidate(ctx context.Context, beneficiaryID string, months ...time.Time) error
}
