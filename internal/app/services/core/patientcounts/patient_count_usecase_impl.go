package patientcounts

import (
	"context"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"jaspel-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type patientCountUsecase struct {
	PatientCountRepository contracts.DailyPatientCountRepository
	Enqueuer               contracts.SettlementEnqueuer
	Log                    *zap.Logger
	now                    func() time.Time
}

var (
	patientCountUsecaseInstance Usecase
	oncePatientCountUsecase     sync.Once
)

func NewPatientCountUsecase(
	patientCountRepository contracts.DailyPatientCountRepository,
	enqueuer contracts.SettlementEnqueuer,
	logger *zap.Logger,
) Usecase {
	oncePatientCountUsecase.Do(func() {
		patientCountUsecaseInstance = &patientCountUsecase{
			PatientCountRepository: patientCountRepository,
			Enqueuer:               enqueuer,
			Log:                    logger,
			now:                    time.Now,
		}
	})
	return patientCountUsecaseInstance
}

func (uc *patientCountUsecase) ApprovePatientCount(ctx context.Context, actor *models.Actor, patientCountID string) (*models.DailyPatientCount, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("patientCountUsecase.ApprovePatientCount called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientCountIDKey, patientCountID),
	)

	if !actor.HasCapability(constvars.CapabilityValidateFee) {
		return nil, exceptions.ErrUnauthorizedCapability(constvars.CapabilityValidateFee)
	}

	count, err := uc.PatientCountRepository.FindByID(ctx, patientCountID)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, exceptions.ErrPatientCountNotFound(patientCountID)
	}

	now := uc.now()
	if count.Status != constvars.ValidationStatusApproved {
		if err := uc.PatientCountRepository.Approve(ctx, patientCountID, actor.ID, now); err != nil {
			return nil, err
		}
		count.Status = constvars.ValidationStatusApproved
		count.ApprovedBy = actor.ID
		count.ApprovedAt = &now
	}

	// Enqueue even on re-approval: the settlement job re-checks
	// idempotency itself, and a lost earlier job must be recoverable by
	// approving again.
	if err := uc.Enqueuer.Enqueue(ctx, patientCountID); err != nil {
		return nil, err
	}

	uc.Log.Info("patientCountUsecase.ApprovePatientCount enqueued settlement",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientCountIDKey, patientCountID),
		zap.String(constvars.LoggingValidatorKey, actor.ID),
	)
	return count, nil
}
