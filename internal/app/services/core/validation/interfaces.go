package validation

import (
	"context"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/dto/requests"
	"jaspel-service/internal/pkg/dto/responses"
)

// Usecase drives the procedure validation state machine and the
// non-persisting fee preview.
type Usecase interface {
	// SubmitProcedureValidation transitions a procedure to approved or
	// rejected. Approval settles a fee record per eligible performer;
	// rejection cascades to every linked fee record, settled or not.
	SubmitProcedureValidation(ctx context.Context, actor *models.Actor, request *requests.SubmitProcedureValidationRequest) (*responses.SubmitProcedureValidationResponse, error)

	// PreviewFee computes the amount a settlement would produce without
	// writing anything.
	PreviewFee(ctx context.Context, request *requests.PreviewFeeRequest) (*responses.PreviewFeeResponse, error)
}
