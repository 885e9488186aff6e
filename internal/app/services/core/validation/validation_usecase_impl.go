package validation

import (
	"context"
	"fmt"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/app/services/core/feecalc"
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

type validationUsecase struct {
	ProcedureRepository     contracts.ProcedureRepository
	ProcedureTypeRepository contracts.ProcedureTypeRepository
	FeeRecordRepository     contracts.FeeRecordRepository
	PatientCountRepository  contracts.DailyPatientCountRepository
	FormulaSelector         *feecalc.FormulaSelector
	Guard                   integrity.Guard
	AggregateCache          contracts.AggregateCache
	EventPublisher          contracts.EventPublisher
	InternalConfig          *config.InternalConfig
	Log                     *zap.Logger
	now                     func() time.Time
}

var (
	validationUsecaseInstance Usecase
	onceValidationUsecase     sync.Once
)

func NewValidationUsecase(
	procedureRepository contracts.ProcedureRepository,
	procedureTypeRepository contracts.ProcedureTypeRepository,
	feeRecordRepository contracts.FeeRecordRepository,
	patientCountRepository contracts.DailyPatientCountRepository,
	formulaSelector *feecalc.FormulaSelector,
	guard integrity.Guard,
	aggregateCache contracts.AggregateCache,
	eventPublisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) Usecase {
	onceValidationUsecase.Do(func() {
		validationUsecaseInstance = &validationUsecase{
			ProcedureRepository:     procedureRepository,
			ProcedureTypeRepository: procedureTypeRepository,
			FeeRecordRepository:     feeRecordRepository,
			PatientCountRepository:  patientCountRepository,
			FormulaSelector:         formulaSelector,
			Guard:                   guard,
			AggregateCache:          aggregateCache,
			EventPublisher:          eventPublisher,
			InternalConfig:          internalConfig,
			Log:                     logger,
			now:                     time.Now,
		}
	})
	return validationUsecaseInstance
}

func (uc *validationUsecase) SubmitProcedureValidation(ctx context.Context, actor *models.Actor, request *requests.SubmitProcedureValidationRequest) (*responses.SubmitProcedureValidationResponse, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("validationUsecase.SubmitProcedureValidation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProcedureIDKey, request.ProcedureID),
		zap.String(constvars.LoggingDecisionKey, request.Decision),
	)

	if !actor.HasCapability(constvars.CapabilityValidateFee) {
		return nil, exceptions.ErrUnauthorizedCapability(constvars.CapabilityValidateFee)
	}

	procedure, err := uc.ProcedureRepository.FindByID(ctx, request.ProcedureID)
	if err != nil {
		return nil, err
	}
	if procedure == nil {
		return nil, exceptions.ErrProcedureNotFound(request.ProcedureID)
	}

	switch request.Decision {
	case constvars.ValidationDecisionApprove:
		return uc.approve(ctx, actor, procedure)
	case constvars.ValidationDecisionReject:
		return uc.reject(ctx, actor, procedure, request.Comment)
	default:
		return nil, exceptions.ErrInvalidDecision(nil)
	}
}

func (uc *validationUsecase) approve(ctx context.Context, actor *models.Actor, procedure *models.Procedure) (*responses.SubmitProcedureValidationResponse, error) {
	requestID := utils.RequestIDFromContext(ctx)
	now := uc.now()
	expectedVersion := procedure.Version

	procedure.Status = constvars.ValidationStatusApproved
	procedure.ValidatedBy = actor.ID
	procedure.ValidatedAt = &now

	matched, err := uc.ProcedureRepository.UpdateStatus(ctx, procedure, expectedVersion)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, exceptions.ErrProcedureVersionConflict(procedure.ID)
	}

	// The status flip above is durable; from here on a settlement failure
	// (missing procedure type, bad percentage, a guard rejection) leaves the
	// procedure approved but unsettled rather than failing the approval.
	settled, err := uc.settlePerformers(ctx, procedure)
	if err != nil {
		uc.Log.Error("validationUsecase.approve settlement failed after approval",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProcedureIDKey, procedure.ID),
			zap.Error(err),
		)
	}

	uc.finishTransition(ctx, procedure, settled)

	response := &responses.SubmitProcedureValidationResponse{
		ProcedureID: procedure.ID,
		NewStatus:   procedure.Status,
	}
	for i := range settled {
		response.SettledRecords = append(response.SettledRecords, *responses.NewFeeRecordResponse(&settled[i]))
	}
	uc.Log.Info("validationUsecase.approve settled procedure",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProcedureIDKey, procedure.ID),
		zap.Int("settled_count", len(settled)),
	)
	return response, nil
}

// settlePerformers creates one auto-approved fee record per eligible
// performer share. Eligibility is a non-zero share; the settled amount
// itself is the procedure-type percentage of the tariff. The category is
// resolved once per procedure from the highest-priority role present, so a
// doctor-led procedure settles every performer under the doctor category.
func (uc *validationUsecase) settlePerformers(ctx context.Context, procedure *models.Procedure) ([]models.FeeRecord, error) {
	requestID := utils.RequestIDFromContext(ctx)

	shares := procedure.PerformerShares()
	eligible := make([]models.PerformerShare, 0, len(shares))
	for _, share := range shares {
		if share.Fee > 0 {
			eligible = append(eligible, share)
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	procedureType, err := uc.ProcedureTypeRepository.FindByID(ctx, procedure.ProcedureTypeID)
	if err != nil {
		return nil, err
	}
	if procedureType == nil {
		return nil, exceptions.ErrInvalidFormula(fmt.Sprintf("procedure type %s does not exist", procedure.ProcedureTypeID))
	}

	amount, err := feecalc.ComputePercentageFee(procedure.Tariff, procedureType.FeePercentage)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		uc.Log.Warn("validationUsecase.settlePerformers computed zero fee, approving without settlement",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProcedureIDKey, procedure.ID),
			zap.Int64(constvars.LoggingNominalKey, amount),
		)
		return nil, nil
	}

	category := categoryForRole(eligible[0].Role)

	var settled []models.FeeRecord
	for _, share := range eligible {
		existing, err := uc.FeeRecordRepository.FindByProcedureAndBeneficiary(ctx, procedure.ID, share.BeneficiaryID)
		if err != nil {
			return settled, err
		}
		if existing != nil {
			continue
		}

		record := models.FeeRecord{
			BeneficiaryID:  share.BeneficiaryID,
			ProcedureID:    procedure.ID,
			SettlementDate: uc.now(),
			Category:       category,
			Nominal:        amount,
			Status:         constvars.ValidationStatusApproved,
			ValidatedBy:    procedure.ValidatedBy,
			ValidatedAt:    procedure.ValidatedAt,
			CreatedBy:      procedure.ValidatedBy,
		}
		if err := uc.Guard.ValidateCreate(ctx, nil, &record); err != nil {
			return settled, err
		}

		inserted, err := uc.FeeRecordRepository.Insert(ctx, &record)
		if err != nil {
			return settled, err
		}
		if !inserted {
			// Lost a settlement race to a concurrent approval; the other
			// writer's record is the settled one.
			continue
		}

		if err := uc.AggregateCache.IncrementOnCreate(ctx, &record); err != nil {
			uc.Log.Warn("validationUsecase.settlePerformers aggregate increment failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
				zap.Error(err),
			)
		}
		uc.publishEvent(ctx, constvars.EventFeeRecordCreated, models.FeeRecordCreatedPayload{
			BeneficiaryID: record.BeneficiaryID,
			Amount:        record.Nominal,
			Category:      record.Category,
			ProcedureID:   record.ProcedureID,
		})
		settled = append(settled, record)
	}
	return settled, nil
}

func (uc *validationUsecase) reject(ctx context.Context, actor *models.Actor, procedure *models.Procedure, comment string) (*responses.SubmitProcedureValidationResponse, error) {
	requestID := utils.RequestIDFromContext(ctx)
	now := uc.now()
	expectedVersion := procedure.Version

	procedure.Status = constvars.ValidationStatusRejected
	procedure.ValidatedBy = actor.ID
	procedure.ValidatedAt = &now

	matched, err := uc.ProcedureRepository.UpdateStatus(ctx, procedure, expectedVersion)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, exceptions.ErrProcedureVersionConflict(procedure.ID)
	}

	records, err := uc.FeeRecordRepository.FindByProcedure(ctx, procedure.ID)
	if err != nil {
		return nil, err
	}

	rejectedCount := 0
	for i := range records {
		original := records[i]
		if original.Status == constvars.ValidationStatusRejected {
			continue
		}

		updated := original
		updated.Status = constvars.ValidationStatusRejected
		updated.ValidatedBy = actor.ID
		updated.ValidatedAt = &now
		updated.Note = appendAuditNote(original.Note, procedure.ID, comment)

		// The parent rejection wins over the settled-record protection.
		opts := integrity.UpdateOptions{BypassImmutability: true}
		if err := uc.Guard.ValidateUpdate(ctx, actor, &original, &updated, opts); err != nil {
			return nil, err
		}
		if err := uc.FeeRecordRepository.Update(ctx, &updated); err != nil {
			return nil, err
		}
		records[i] = updated
		rejectedCount++
	}

	if rejectedCount > 0 {
		uc.publishEvent(ctx, constvars.EventFeeRecordRejectedCascade, models.FeeRecordRejectedCascadePayload{
			ProcedureID:   procedure.ID,
			AffectedCount: rejectedCount,
		})
	}

	uc.finishTransition(ctx, procedure, records)

	uc.Log.Info("validationUsecase.reject cascaded procedure rejection",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProcedureIDKey, procedure.ID),
		zap.Int("rejected_count", rejectedCount),
	)
	return &responses.SubmitProcedureValidationResponse{
		ProcedureID:   procedure.ID,
		NewStatus:     procedure.Status,
		RejectedCount: rejectedCount,
	}, nil
}

// finishTransition runs the invalidation and notification every transition
// carries: aggregate caches for each touched beneficiary (current month
// plus the record's own settlement month) and the generic
// ProcedureValidationChanged event.
func (uc *validationUsecase) finishTransition(ctx context.Context, procedure *models.Procedure, touched []models.FeeRecord) {
	requestID := utils.RequestIDFromContext(ctx)
	now := uc.now()

	for i := range touched {
		record := &touched[i]
		if err := uc.AggregateCache.Invalidate(ctx, record.BeneficiaryID, now, record.SettlementDate); err != nil {
			uc.Log.Warn("validationUsecase.finishTransition cache invalidation failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
				zap.Error(err),
			)
		}
	}

	uc.publishEvent(ctx, constvars.EventProcedureValidationChanged, models.ProcedureValidationChangedPayload{
		ProcedureID: procedure.ID,
		NewStatus:   procedure.Status,
	})
}

// publishEvent is best-effort: a validation outcome never rolls back
// because the notification queue is down.
func (uc *validationUsecase) publishEvent(ctx context.Context, eventType string, payload interface{}) {
	event := models.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: uc.now(),
		Payload:    payload,
	}
	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		uc.Log.Warn("validationUsecase.publishEvent failed",
			zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(ctx)),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func (uc *validationUsecase) PreviewFee(ctx context.Context, request *requests.PreviewFeeRequest) (*responses.PreviewFeeResponse, error) {
	hasProcedure := request.ProcedureID != ""
	hasPatientCount := request.PatientCountID != ""
	if hasProcedure == hasPatientCount {
		return nil, exceptions.ErrPreviewTarget()
	}

	if hasProcedure {
		return uc.previewProcedureFee(ctx, request)
	}
	return uc.previewPatientCountFee(ctx, request)
}

func (uc *validationUsecase) previewProcedureFee(ctx context.Context, request *requests.PreviewFeeRequest) (*responses.PreviewFeeResponse, error) {
	procedure, err := uc.ProcedureRepository.FindByID(ctx, request.ProcedureID)
	if err != nil {
		return nil, err
	}
	if procedure == nil {
		return nil, exceptions.ErrProcedureNotFound(request.ProcedureID)
	}

	var percentage float64
	if request.Override != nil && request.Override.Percentage != nil {
		percentage = *request.Override.Percentage
	} else {
		procedureType, err := uc.ProcedureTypeRepository.FindByID(ctx, procedure.ProcedureTypeID)
		if err != nil {
			return nil, err
		}
		if procedureType == nil {
			return nil, exceptions.ErrInvalidFormula(fmt.Sprintf("procedure type %s does not exist", procedure.ProcedureTypeID))
		}
		percentage = procedureType.FeePercentage
	}

	amount, err := feecalc.ComputePercentageFee(procedure.Tariff, percentage)
	if err != nil {
		return nil, err
	}
	return &responses.PreviewFeeResponse{Amount: amount}, nil
}

func (uc *validationUsecase) previewPatientCountFee(ctx context.Context, request *requests.PreviewFeeRequest) (*responses.PreviewFeeResponse, error) {
	count, err := uc.PatientCountRepository.FindByID(ctx, request.PatientCountID)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, exceptions.ErrPatientCountNotFound(request.PatientCountID)
	}

	var formula *models.FeeFormula
	if request.Override != nil && request.Override.Window != "" {
		formula, err = uc.FormulaSelector.SelectFormulaForWindow(ctx, request.Override.Window)
	} else {
		formula, err = uc.FormulaSelector.SelectFormula(ctx, uc.now())
	}
	if err != nil {
		return nil, err
	}
	if request.Override != nil {
		patched := *formula
		if request.Override.Threshold != nil {
			patched.Threshold = *request.Override.Threshold
		}
		if request.Override.TierGeneral != nil {
			patched.TierGeneral = *request.Override.TierGeneral
		}
		if request.Override.TierInsurance != nil {
			patched.TierInsurance = *request.Override.TierInsurance
		}
		formula = &patched
	}

	total := count.TotalPatients()
	amount := feecalc.ComputeThresholdFee(total, count.GeneralCount, formula, models.PayerGeneral) +
		feecalc.ComputeThresholdFee(total, count.InsuranceCount, formula, models.PayerInsurance)
	return &responses.PreviewFeeResponse{Amount: amount}, nil
}

func categoryForRole(role models.PerformerRole) models.FeeCategory {
	switch role {
	case models.RoleDoctor:
		return models.CategoryGeneralDoctor
	case models.RoleParamedic:
		return models.CategoryParamedic
	default:
		return models.CategoryNonParamedic
	}
}

func appendAuditNote(existing, procedureID, comment string) string {
	note := fmt.Sprintf("rejected with procedure %s", procedureID)
	if comment != "" {
		note = fmt.Sprintf("%s: %s", note, comment)
	}
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
