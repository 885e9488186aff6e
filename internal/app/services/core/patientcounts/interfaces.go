package patientcounts

import (
	"context"
	"jaspel-service/internal/app/models"
)

// Usecase approves daily patient counts. Approval is what arms the
// asynchronous settlement job; the fee itself is never computed here.
type Usecase interface {
	ApprovePatientCount(ctx context.Context, actor *models.Actor, patientCountID string) (*models.DailyPatientCount, error)
}
