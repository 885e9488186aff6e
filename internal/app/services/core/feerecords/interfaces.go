package feerecords

import (
	"context"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/dto/requests"
	"jaspel-service/internal/pkg/dto/responses"
)

// Usecase is the fee-record mutation surface. Every write runs the same
// pipeline: integrity guard, persist, emit, cache invalidation.
type Usecase interface {
	CreateFeeRecord(ctx context.Context, actor *models.Actor, request *requests.CreateFeeRecordRequest) (*responses.FeeRecordResponse, error)
	UpdateFeeRecord(ctx context.Context, actor *models.Actor, request *requests.UpdateFeeRecordRequest) (*responses.FeeRecordResponse, error)
	DeleteFeeRecord(ctx context.Context, actor *models.Actor, feeRecordID string) error

	// ResetFeeRecordStatus restores a settled record to pending on behalf
	// of the external audit workflow. Requires the reset_fee capability.
	ResetFeeRecordStatus(ctx context.Context, actor *models.Actor, feeRecordID string) (*responses.FeeRecordResponse, error)
}
