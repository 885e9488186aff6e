package contracts

import (
	"context"
	"jaspel-service/internal/app/models"
	"time"
)

type FeeRecordRepository interface {
	// Insert persists a new record. When the record collides with one of
	// the unique natural keys (procedure+beneficiary, or
	// beneficiary+date+category for patient-count settlement) the insert
	// is a no-op and inserted is false. This is the storage-level
	// idempotency guarantee settlement relies on.
	Insert(ctx context.Context, record *models.FeeRecord) (inserted bool, err error)

	FindByID(ctx context.Context, feeRecordID string) (*models.FeeRecord, error)
	FindByProcedureAndBeneficiary(ctx context.Context, procedureID, beneficiaryID string) (*models.FeeRecord, error)
	FindByBeneficiaryDateCategory(ctx context.Context, beneficiaryID string, date time.Time, category models.FeeCategory) (*models.FeeRecord, error)
	FindByProcedure(ctx context.Context, procedureID string) ([]models.FeeRecord, error)

	// FindDuplicateShape reports whether another record already exists with
	// the same beneficiary, settlement date, category and nominal.
	FindDuplicateShape(ctx context.Context, record *models.FeeRecord) (bool, error)

	Update(ctx context.Context, record *models.FeeRecord) error
	Delete(ctx context.Context, feeRecordID string) error
}
