package contracts

import (
	"context"
	"jaspel-service/internal/app/models"
)

type ProcedureRepository interface {
	FindByID(ctx context.Context, procedureID string) (*models.Procedure, error)

	// UpdateStatus performs an optimistic compare-and-swap on the
	// procedure's status: the write only succeeds when the stored version
	// still matches expectedVersion. matched is false on a lost race.
	UpdateStatus(ctx context.Context, procedure *models.Procedure, expectedVersion int64) (matched bool, err error)
}

type ProcedureTypeRepository interface {
	FindByID(ctx context.Context, procedureTypeID string) (*models.ProcedureType, error)
}
