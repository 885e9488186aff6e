package contracts

import (
	"context"
	"jaspel-service/internal/app/models"
	"time"
)

type DailyPatientCountRepository interface {
	FindByID(ctx context.Context, patientCountID string) (*models.DailyPatientCount, error)
	FindApprovedByDoctorAndRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.DailyPatientCount, error)
	Approve(ctx context.Context, patientCountID, approverID string, approvedAt time.Time) error
}
