package feerecords

import (
	"context"
	"fmt"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/app/services/core/integrity"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/dto/requests"
	"jaspel-service/internal/pkg/dto/responses"
	"jaspel-service/internal/pkg/exceptions"
	"jaspel-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type feeRecordUsecase struct {
	FeeRecordRepository contracts.FeeRecordRepository
	Guard               integrity.Guard
	AggregateCache      contracts.AggregateCache
	EventPublisher      contracts.EventPublisher
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
	now                 func() time.Time
}

var (
	feeRecordUsecaseInstance Usecase
	onceFeeRecordUsecase     sync.Once
)

func NewFeeRecordUsecase(
	feeRecordRepository contracts.FeeRecordRepository,
	guard integrity.Guard,
	aggregateCache contracts.AggregateCache,
	eventPublisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) Usecase {
	onceFeeRecordUsecase.Do(func() {
		feeRecordUsecaseInstance = &feeRecordUsecase{
			FeeRecordRepository: feeRecordRepository,
			Guard:               guard,
			AggregateCache:      aggregateCache,
			EventPublisher:      eventPublisher,
			InternalConfig:      internalConfig,
			Log:                 logger,
			now:                 time.Now,
		}
	})
	return feeRecordUsecaseInstance
}

func (uc *feeRecordUsecase) CreateFeeRecord(ctx context.Context, actor *models.Actor, request *requests.CreateFeeRecordRequest) (*responses.FeeRecordResponse, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("feeRecordUsecase.CreateFeeRecord called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryIDKey, request.BeneficiaryID),
		zap.String(constvars.LoggingCategoryKey, request.Category),
		zap.Int64(constvars.LoggingNominalKey, request.Nominal),
	)

	settlementDate, err := time.Parse("2006-01-02", request.SettlementDate)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	record := models.FeeRecord{
		BeneficiaryID:  request.BeneficiaryID,
		ProcedureID:    request.ProcedureID,
		SettlementDate: settlementDate,
		Category:       models.FeeCategory(request.Category),
		Nominal:        request.Nominal,
		Total:          request.Total,
		Note:           request.Note,
	}
	if err := uc.Guard.ValidateCreate(ctx, actor, &record); err != nil {
		return nil, err
	}

	inserted, err := uc.FeeRecordRepository.Insert(ctx, &record)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, exceptions.ErrDuplicateFeeRecord()
	}

	if err := uc.AggregateCache.IncrementOnCreate(ctx, &record); err != nil {
		uc.Log.Warn("feeRecordUsecase.CreateFeeRecord aggregate increment failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
			zap.Error(err),
		)
	}
	uc.publishCreated(ctx, &record)

	return responses.NewFeeRecordResponse(&record), nil
}

func (uc *feeRecordUsecase) UpdateFeeRecord(ctx context.Context, actor *models.Actor, request *requests.UpdateFeeRecordRequest) (*responses.FeeRecordResponse, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("feeRecordUsecase.UpdateFeeRecord called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingFeeRecordIDKey, request.FeeRecordID),
	)

	original, err := uc.FeeRecordRepository.FindByID(ctx, request.FeeRecordID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, exceptions.ErrFeeRecordNotFound(request.FeeRecordID)
	}

	updated := *original
	if request.Nominal != nil {
		updated.Nominal = *request.Nominal
		updated.Total = *request.Nominal
	}
	if request.Status != "" {
		updated.Status = request.Status
	}
	if request.Category != "" {
		updated.Category = models.FeeCategory(request.Category)
	}
	if request.Note != nil {
		updated.Note = *request.Note
	}

	if err := uc.Guard.ValidateUpdate(ctx, actor, original, &updated, integrity.UpdateOptions{}); err != nil {
		return nil, err
	}
	if err := uc.FeeRecordRepository.Update(ctx, &updated); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, &updated)
	return responses.NewFeeRecordResponse(&updated), nil
}

func (uc *feeRecordUsecase) DeleteFeeRecord(ctx context.Context, actor *models.Actor, feeRecordID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("feeRecordUsecase.DeleteFeeRecord called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingFeeRecordIDKey, feeRecordID),
	)

	original, err := uc.FeeRecordRepository.FindByID(ctx, feeRecordID)
	if err != nil {
		return err
	}
	if original == nil {
		return exceptions.ErrFeeRecordNotFound(feeRecordID)
	}

	if err := uc.Guard.ValidateDelete(ctx, original); err != nil {
		return err
	}
	if err := uc.FeeRecordRepository.Delete(ctx, feeRecordID); err != nil {
		return err
	}

	if err := uc.AggregateCache.DecrementOnDelete(ctx, original); err != nil {
		uc.Log.Warn("feeRecordUsecase.DeleteFeeRecord aggregate decrement failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBeneficiaryIDKey, original.BeneficiaryID),
			zap.Error(err),
		)
	}
	return nil
}

func (uc *feeRecordUsecase) ResetFeeRecordStatus(ctx context.Context, actor *models.Actor, feeRecordID string) (*responses.FeeRecordResponse, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("feeRecordUsecase.ResetFeeRecordStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingFeeRecordIDKey, feeRecordID),
	)

	if !actor.HasCapability(constvars.CapabilityResetFee) {
		return nil, exceptions.ErrUnauthorizedCapability(constvars.CapabilityResetFee)
	}

	original, err := uc.FeeRecordRepository.FindByID(ctx, feeRecordID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, exceptions.ErrFeeRecordNotFound(feeRecordID)
	}

	updated := *original
	updated.Status = constvars.ValidationStatusPending
	updated.ValidatedBy = ""
	updated.ValidatedAt = nil
	note := fmt.Sprintf("status reset by %s", actor.ID)
	if updated.Note != "" {
		note = updated.Note + "; " + note
	}
	updated.Note = note

	// The audit reset is the sanctioned re-entry into pending for a
	// settled record.
	opts := integrity.UpdateOptions{BypassImmutability: true}
	if err := uc.Guard.ValidateUpdate(ctx, actor, original, &updated, opts); err != nil {
		return nil, err
	}
	if err := uc.FeeRecordRepository.Update(ctx, &updated); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, &updated)
	return responses.NewFeeRecordResponse(&updated), nil
}

func (uc *feeRecordUsecase) invalidate(ctx context.Context, record *models.FeeRecord) {
	if err := uc.AggregateCache.Invalidate(ctx, record.BeneficiaryID, uc.now(), record.SettlementDate); err != nil {
		uc.Log.Warn("feeRecordUsecase cache invalidation failed",
			zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(ctx)),
			zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
			zap.Error(err),
		)
	}
}

func (uc *feeRecordUsecase) publishCreated(ctx context.Context, record *models.FeeRecord) {
	event := models.Event{
		ID:         uuid.NewString(),
		Type:       constvars.EventFeeRecordCreated,
		OccurredAt: uc.now(),
		Payload: models.FeeRecordCreatedPayload{
			BeneficiaryID: record.BeneficiaryID,
			Amount:        record.Nominal,
			Category:      record.Category,
			ProcedureID:   record.ProcedureID,
		},
	}
	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		uc.Log.Warn("feeRecordUsecase.publishCreated failed",
			zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(ctx)),
			zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
			zap.Error(err),
		)
	}
}
