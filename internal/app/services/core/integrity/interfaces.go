package integrity

import (
	"context"
	"jaspel-service/internal/app/models"
)

// UpdateOptions tunes a single guarded update.
type UpdateOptions struct {
	// BypassImmutability lifts the settled-record protection. The only
	// callers allowed to set it are the procedure rejection cascade,
	// where the parent rejection always wins over a settled child record,
	// and the audit status reset.
	BypassImmutability bool
}

// Guard is the synchronous gate every FeeRecord mutation passes before it
// is persisted. A guard failure must abort the whole write.
type Guard interface {
	// ValidateCreate applies silent defaults (pending status, total from
	// nominal, creator from actor), enforces the create rules and runs
	// anomaly detection. The record is mutated in place.
	ValidateCreate(ctx context.Context, actor *models.Actor, record *models.FeeRecord) error

	// ValidateUpdate enforces the settled-data protections between the
	// stored original and the proposed updated record, and stamps the
	// validator on an approval. The updated record is mutated in place.
	ValidateUpdate(ctx context.Context, actor *models.Actor, original, updated *models.FeeRecord, opts UpdateOptions) error

	// ValidateDelete rejects deletion of settled records.
	ValidateDelete(ctx context.Context, original *models.FeeRecord) error
}
