package settlement

import (
	"context"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/app/services/core/feecalc"
	"jaspel-service/internal/app/services/core/integrity"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/dto/requests"
	"jaspel-service/internal/pkg/dto/responses"
	"jaspel-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type settlementUsecase struct {
	PatientCountRepository contracts.DailyPatientCountRepository
	FeeRecordRepository    contracts.FeeRecordRepository
	FormulaSelector        *feecalc.FormulaSelector
	Guard                  integrity.Guard
	AggregateCache         contracts.AggregateCache
	EventPublisher         contracts.EventPublisher
	Enqueuer               contracts.SettlementEnqueuer
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
	now                    func() time.Time
}

var (
	settlementUsecaseInstance Usecase
	onceSettlementUsecase     sync.Once
)

func NewSettlementUsecase(
	patientCountRepository contracts.DailyPatientCountRepository,
	feeRecordRepository contracts.FeeRecordRepository,
	formulaSelector *feecalc.FormulaSelector,
	guard integrity.Guard,
	aggregateCache contracts.AggregateCache,
	eventPublisher contracts.EventPublisher,
	enqueuer contracts.SettlementEnqueuer,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) Usecase {
	onceSettlementUsecase.Do(func() {
		settlementUsecaseInstance = &settlementUsecase{
			PatientCountRepository: patientCountRepository,
			FeeRecordRepository:    feeRecordRepository,
			FormulaSelector:        formulaSelector,
			Guard:                  guard,
			AggregateCache:         aggregateCache,
			EventPublisher:         eventPublisher,
			Enqueuer:               enqueuer,
			InternalConfig:         internalConfig,
			Log:                    logger,
		}
	})
	return settlementUsecaseInstance
}

func (uc *settlementUsecase) clock() time.Time {
	if uc.now != nil {
		return uc.now()
	}
	return time.Now()
}

func (uc *settlementUsecase) ProcessSettlement(ctx context.Context, patientCountID string) error {
	uc.Log.Info("settlementUsecase.ProcessSettlement called",
		zap.String(constvars.LoggingPatientCountIDKey, patientCountID),
	)

	count, err := uc.PatientCountRepository.FindByID(ctx, patientCountID)
	if err != nil {
		return err
	}
	if count == nil || count.Status != constvars.ValidationStatusApproved {
		// State moved since the job was enqueued; nothing to settle.
		uc.Log.Info("settlementUsecase.ProcessSettlement skipping unapproved count",
			zap.String(constvars.LoggingPatientCountIDKey, patientCountID),
		)
		return nil
	}

	existing, err := uc.FeeRecordRepository.FindByBeneficiaryDateCategory(ctx, count.DoctorID, count.Date, models.CategoryPatientCountDaily)
	if err != nil {
		return err
	}
	if existing != nil {
		uc.Log.Info("settlementUsecase.ProcessSettlement already settled",
			zap.String(constvars.LoggingPatientCountIDKey, patientCountID),
			zap.String(constvars.LoggingFeeRecordIDKey, existing.ID),
		)
		return nil
	}

	formula, err := uc.FormulaSelector.SelectFormula(ctx, uc.formulaClock(count))
	if err != nil {
		return err
	}

	total := count.TotalPatients()
	amount := feecalc.ComputeThresholdFee(total, count.GeneralCount, formula, models.PayerGeneral) +
		feecalc.ComputeThresholdFee(total, count.InsuranceCount, formula, models.PayerInsurance)
	if amount <= 0 {
		uc.Log.Info("settlementUsecase.ProcessSettlement threshold not met",
			zap.String(constvars.LoggingPatientCountIDKey, patientCountID),
			zap.Int("total_patients", total),
			zap.Int("threshold", formula.Threshold),
		)
		return nil
	}

	record := models.FeeRecord{
		BeneficiaryID:  count.DoctorID,
		SettlementDate: count.Date,
		Category:       models.CategoryPatientCountDaily,
		Nominal:        amount,
		Status:         constvars.ValidationStatusApproved,
		ValidatedBy:    count.ApprovedBy,
		ValidatedAt:    count.ApprovedAt,
		CreatedBy:      count.ApprovedBy,
	}
	if err := uc.Guard.ValidateCreate(ctx, nil, &record); err != nil {
		return err
	}

	inserted, err := uc.FeeRecordRepository.Insert(ctx, &record)
	if err != nil {
		return err
	}
	if !inserted {
		// Lost the settlement race to a concurrent job for the same key.
		return nil
	}

	if err := uc.AggregateCache.IncrementOnCreate(ctx, &record); err != nil {
		uc.Log.Warn("settlementUsecase.ProcessSettlement aggregate increment failed",
			zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
			zap.Error(err),
		)
	}

	event := models.Event{
		ID:         uuid.NewString(),
		Type:       constvars.EventFeeRecordCreated,
		OccurredAt: uc.clock(),
		Payload: models.FeeRecordCreatedPayload{
			BeneficiaryID: record.BeneficiaryID,
			Amount:        record.Nominal,
			Category:      record.Category,
		},
	}
	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		uc.Log.Warn("settlementUsecase.ProcessSettlement event publish failed",
			zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
			zap.Error(err),
		)
	}

	uc.Log.Info("settlementUsecase.ProcessSettlement settled count",
		zap.String(constvars.LoggingPatientCountIDKey, patientCountID),
		zap.String(constvars.LoggingFeeRecordIDKey, record.ID),
		zap.Int64(constvars.LoggingNominalKey, record.Nominal),
	)
	return nil
}

// formulaClock picks the instant formula selection resolves against. The
// historical behavior is the wall clock at processing time, which can pick
// a different shift window than the one the patients were actually seen
// in; settlement_formula_clock=record switches to the count's own date.
func (uc *settlementUsecase) formulaClock(count *models.DailyPatientCount) time.Time {
	if uc.InternalConfig.Jaspel.SettlementFormulaClock == constvars.SettlementFormulaClockRecord {
		return count.Date
	}
	return uc.clock()
}

func (uc *settlementUsecase) RecalculateSettlement(ctx context.Context, request *requests.RecalculateSettlementRequest) (*responses.RecalculateSettlementResponse, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("settlementUsecase.RecalculateSettlement called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryIDKey, request.BeneficiaryID),
	)

	from, err := time.Parse("2006-01-02", request.From)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse("2006-01-02", request.To)
	if err != nil {
		return nil, err
	}

	months := monthsBetween(from, to)
	if err := uc.AggregateCache.Invalidate(ctx, request.BeneficiaryID, months...); err != nil {
		uc.Log.Warn("settlementUsecase.RecalculateSettlement cache invalidation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBeneficiaryIDKey, request.BeneficiaryID),
			zap.Error(err),
		)
	}

	counts, err := uc.PatientCountRepository.FindApprovedByDoctorAndRange(ctx, request.BeneficiaryID, from, to)
	if err != nil {
		return nil, err
	}

	requeued := 0
	for i := range counts {
		count := &counts[i]
		existing, err := uc.FeeRecordRepository.FindByBeneficiaryDateCategory(ctx, count.DoctorID, count.Date, models.CategoryPatientCountDaily)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		if err := uc.Enqueuer.Enqueue(ctx, count.ID); err != nil {
			return nil, err
		}
		requeued++
	}

	uc.Log.Info("settlementUsecase.RecalculateSettlement done",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryIDKey, request.BeneficiaryID),
		zap.Int("requeued_jobs", requeued),
	)
	return &responses.RecalculateSettlementResponse{
		BeneficiaryID: request.BeneficiaryID,
		RequeuedJobs:  requeued,
	}, nil
}

func monthsBetween(from, to time.Time) []time.Time {
	months := []time.Time{from}
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	for {
		cursor = cursor.AddDate(0, 1, 0)
		if cursor.After(to) {
			break
		}
		months = append(months, cursor)
	}
	return months
}
