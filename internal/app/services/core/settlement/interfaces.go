package settlement

import (
	"context"
	"jaspel-service/internal/pkg/dto/requests"
	"jaspel-service/internal/pkg/dto/responses"
)

// Usecase settles approved daily patient counts into fee records.
type Usecase interface {
	// ProcessSettlement runs one settlement job to completion. Every
	// precondition is re-checked here, so processing the same job twice
	// is harmless. A returned error means the job scheduler should retry.
	ProcessSettlement(ctx context.Context, patientCountID string) error

	// RecalculateSettlement drops the beneficiary's aggregate caches for
	// the range and re-queues settlement for approved counts that never
	// produced a fee record.
	RecalculateSettlement(ctx context.Context, request *requests.RecalculateSettlementRequest) (*responses.RecalculateSettlementResponse, error)
}
