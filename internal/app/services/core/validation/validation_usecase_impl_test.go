package validation

import (
	"context"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/app/services/core/feecalc"
	"jaspel-service/internal/app/services/core/integrity"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/dto/requests"
	"jaspel-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProcedureRepo struct {
	procedure   *models.Procedure
	matchStatus bool
	updated     *models.Procedure
}

func (f *fakeProcedureRepo) FindByID(ctx context.Context, procedureID string) (*models.Procedure, error) {
	if f.procedure != nil && f.procedure.ID == procedureID {
		return f.procedure, nil
	}
	return nil, nil
}

func (f *fakeProcedureRepo) UpdateStatus(ctx context.Context, procedure *models.Procedure, expectedVersion int64) (bool, error) {
	if !f.matchStatus {
		return false, nil
	}
	f.updated = procedure
	return true, nil
}

type fakeProcedureTypeRepo struct {
	procedureType *models.ProcedureType
}

func (f *fakeProcedureTypeRepo) FindByID(ctx context.Context, procedureTypeID string) (*models.ProcedureType, error) {
	return f.procedureType, nil
}

type fakeFeeRecordStore struct {
	existing []models.FeeRecord
	inserted []models.FeeRecord
	updated  []models.FeeRecord
	// rejectInsert simulates losing the unique-index race.
	rejectInsert bool
}

func (f *fakeFeeRecordStore) Insert(ctx context.Context, record *models.FeeRecord) (bool, error) {
	if f.rejectInsert {
		return false, nil
	}
	f.inserted = append(f.inserted, *record)
	return true, nil
}

func (f *fakeFeeRecordStore) FindByID(ctx context.Context, feeRecordID string) (*models.FeeRecord, error) {
	for i := range f.existing {
		if f.existing[i].ID == feeRecordID {
			return &f.existing[i], nil
		}
	}
	return nil, nil
}

func (f *fakeFeeRecordStore) FindByProcedureAndBeneficiary(ctx context.Context, procedureID, beneficiaryID string) (*models.FeeRecord, error) {
	for i := range f.existing {
		if f.existing[i].ProcedureID == procedureID && f.existing[i].BeneficiaryID == beneficiaryID {
			return &f.existing[i], nil
		}
	}
	return nil, nil
}

func (f *fakeFeeRecordStore) FindByBeneficiaryDateCategory(ctx context.Context, beneficiaryID string, date time.Time, category models.FeeCategory) (*models.FeeRecord, error) {
	return nil, nil
}

func (f *fakeFeeRecordStore) FindByProcedure(ctx context.Context, procedureID string) ([]models.FeeRecord, error) {
	var out []models.FeeRecord
	for _, record := range f.existing {
		if record.ProcedureID == procedureID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeFeeRecordStore) FindDuplicateShape(ctx context.Context, record *models.FeeRecord) (bool, error) {
	return false, nil
}

func (f *fakeFeeRecordStore) Update(ctx context.Context, record *models.FeeRecord) error {
	f.updated = append(f.updated, *record)
	return nil
}

func (f *fakeFeeRecordStore) Delete(ctx context.Context, feeRecordID string) error {
	return nil
}

type fakePatientCountRepo struct {
	count *models.DailyPatientCount
}

func (f *fakePatientCountRepo) FindByID(ctx context.Context, patientCountID string) (*models.DailyPatientCount, error) {
	if f.count != nil && f.count.ID == patientCountID {
		return f.count, nil
	}
	return nil, nil
}

func (f *fakePatientCountRepo) FindApprovedByDoctorAndRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.DailyPatientCount, error) {
	return nil, nil
}

func (f *fakePatientCountRepo) Approve(ctx context.Context, patientCountID, approverID string, approvedAt time.Time) error {
	return nil
}

type fakeFormulaRepo struct {
	formula        *models.FeeFormula
	queriedWindows []string
}

func (f *fakeFormulaRepo) FindActiveByShiftWindow(ctx context.Context, shiftWindow string) (*models.FeeFormula, error) {
	f.queriedWindows = append(f.queriedWindows, shiftWindow)
	return f.formula, nil
}

func (f *fakeFormulaRepo) FindAnyActive(ctx context.Context) (*models.FeeFormula, error) {
	return f.formula, nil
}

// passGuard applies the create defaults and stamps approvals the way the
// real guard does, without the anomaly checks.
type passGuard struct{}

func (passGuard) ValidateCreate(ctx context.Context, actor *models.Actor, record *models.FeeRecord) error {
	if record.Status == "" {
		record.Status = constvars.ValidationStatusPending
	}
	if record.Total == 0 {
		record.Total = record.Nominal
	}
	if record.CreatedBy == "" && actor != nil {
		record.CreatedBy = actor.ID
	}
	return nil
}

func (passGuard) ValidateUpdate(ctx context.Context, actor *models.Actor, original, updated *models.FeeRecord, opts integrity.UpdateOptions) error {
	return nil
}

func (passGuard) ValidateDelete(ctx context.Context, original *models.FeeRecord) error {
	return nil
}

type fakeAggregateCache struct {
	increments  int
	invalidated []string
}

func (f *fakeAggregateCache) IncrementOnCreate(ctx context.Context, record *models.FeeRecord) error {
	f.increments++
	return nil
}

func (f *fakeAggregateCache) DecrementOnDelete(ctx context.Context, record *models.FeeRecord) error {
	return nil
}

func (f *fakeAggregateCache) Invalidate(ctx context.Context, beneficiaryID string, months ...time.Time) error {
	f.invalidated = append(f.invalidated, beneficiaryID)
	return nil
}

type fakeEventPublisher struct {
	events []models.Event
}

func (f *fakeEventPublisher) Publish(ctx context.Context, event models.Event) error {
	f.events = append(f.events, event)
	return nil
}

type validationFixture struct {
	usecase    *validationUsecase
	procedures *fakeProcedureRepo
	records    *fakeFeeRecordStore
	cache      *fakeAggregateCache
	publisher  *fakeEventPublisher
}

func newValidationFixture(procedure *models.Procedure, procedureType *models.ProcedureType) *validationFixture {
	fixture := &validationFixture{
		procedures: &fakeProcedureRepo{procedure: procedure, matchStatus: true},
		records:    &fakeFeeRecordStore{},
		cache:      &fakeAggregateCache{},
		publisher:  &fakeEventPublisher{},
	}
	fixture.usecase = &validationUsecase{
		ProcedureRepository:     fixture.procedures,
		ProcedureTypeRepository: &fakeProcedureTypeRepo{procedureType: procedureType},
		FeeRecordRepository:     fixture.records,
		PatientCountRepository:  &fakePatientCountRepo{},
		FormulaSelector:         feecalc.NewFormulaSelector(&fakeFormulaRepo{}),
		Guard:                   passGuard{},
		AggregateCache:          fixture.cache,
		EventPublisher:          fixture.publisher,
		InternalConfig:          &config.InternalConfig{},
		Log:                     zap.NewNop(),
		now:                     func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
	return fixture
}

func pendingProcedure() *models.Procedure {
	return &models.Procedure{
		ID:              "proc-1",
		PatientID:       "patient-1",
		ProcedureTypeID: "pt-1",
		DoctorID:        "doctor-1",
		ParamedicID:     "nurse-1",
		Tariff:          100_000,
		DoctorFee:       60_000,
		ParamedicFee:    20_000,
		Status:          constvars.ValidationStatusPending,
		Version:         3,
	}
}

func woundCare() *models.ProcedureType {
	return &models.ProcedureType{ID: "pt-1", Name: "wound care", FeePercentage: 40}
}

func TestSubmitProcedureValidationApprove(t *testing.T) {
	actor := &models.Actor{ID: "validator-1", Capabilities: []string{constvars.CapabilityValidateFee}}

	t.Run("settles every performer with a share", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())

		response, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionApprove,
		})
		require.NoError(t, err)

		assert.Equal(t, constvars.ValidationStatusApproved, response.NewStatus)
		require.Len(t, fixture.records.inserted, 2)
		for _, record := range fixture.records.inserted {
			assert.Equal(t, int64(40_000), record.Nominal)
			assert.Equal(t, models.CategoryGeneralDoctor, record.Category)
			assert.Equal(t, constvars.ValidationStatusApproved, record.Status)
			assert.Equal(t, "validator-1", record.ValidatedBy)
			assert.Equal(t, "proc-1", record.ProcedureID)
		}
		assert.Equal(t, "doctor-1", fixture.records.inserted[0].BeneficiaryID)
		assert.Equal(t, "nurse-1", fixture.records.inserted[1].BeneficiaryID)
		assert.Equal(t, 2, fixture.cache.increments)

		var types []string
		for _, event := range fixture.publisher.events {
			types = append(types, event.Type)
		}
		assert.Contains(t, types, constvars.EventFeeRecordCreated)
		assert.Contains(t, types, constvars.EventProcedureValidationChanged)
	})

	t.Run("skips a performer already settled", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		fixture.records.existing = []models.FeeRecord{{
			ID:            "fr-existing",
			ProcedureID:   "proc-1",
			BeneficiaryID: "doctor-1",
			Status:        constvars.ValidationStatusApproved,
		}}

		response, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionApprove,
		})
		require.NoError(t, err)
		require.Len(t, fixture.records.inserted, 1)
		assert.Equal(t, "nurse-1", fixture.records.inserted[0].BeneficiaryID)
		assert.Len(t, response.SettledRecords, 1)
	})

	t.Run("a lost insert race is not an error", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		fixture.records.rejectInsert = true

		response, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionApprove,
		})
		require.NoError(t, err)
		assert.Empty(t, response.SettledRecords)
		assert.Zero(t, fixture.cache.increments)
	})

	t.Run("approves without settlement when the computed fee is zero", func(t *testing.T) {
		procedure := pendingProcedure()
		procedure.Tariff = 0
		fixture := newValidationFixture(procedure, woundCare())

		response, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionApprove,
		})
		require.NoError(t, err)
		assert.Equal(t, constvars.ValidationStatusApproved, response.NewStatus)
		assert.Empty(t, fixture.records.inserted)
	})

	t.Run("a settlement failure never unwinds the approval", func(t *testing.T) {
		badType := woundCare()
		badType.FeePercentage = 150
		fixture := newValidationFixture(pendingProcedure(), badType)

		response, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionApprove,
		})
		require.NoError(t, err)

		require.NotNil(t, fixture.procedures.updated)
		assert.Equal(t, constvars.ValidationStatusApproved, fixture.procedures.updated.Status)
		assert.Equal(t, constvars.ValidationStatusApproved, response.NewStatus)
		assert.Empty(t, response.SettledRecords)
		assert.Empty(t, fixture.records.inserted)

		var types []string
		for _, event := range fixture.publisher.events {
			types = append(types, event.Type)
		}
		assert.Contains(t, types, constvars.EventProcedureValidationChanged)
	})

	t.Run("a missing procedure type approves without settlement", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		fixture.usecase.ProcedureTypeRepository = &fakeProcedureTypeRepo{}

		response, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionApprove,
		})
		require.NoError(t, err)
		assert.Equal(t, constvars.ValidationStatusApproved, response.NewStatus)
		assert.Empty(t, fixture.records.inserted)
	})

	t.Run("a stale version is a conflict", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		fixture.procedures.matchStatus = false

		_, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionApprove,
		})
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})

	t.Run("requires the validate_fee capability", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())

		_, err := fixture.usecase.SubmitProcedureValidation(context.Background(), &models.Actor{ID: "staff-1"}, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionApprove,
		})
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("unknown procedure", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())

		_, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-missing",
			Decision:    constvars.ValidationDecisionApprove,
		})
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestSubmitProcedureValidationReject(t *testing.T) {
	actor := &models.Actor{ID: "validator-1", Capabilities: []string{constvars.CapabilityValidateFee}}

	t.Run("cascades onto settled fee records with an audit note", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		fixture.records.existing = []models.FeeRecord{
			{ID: "fr-1", ProcedureID: "proc-1", BeneficiaryID: "doctor-1", Status: constvars.ValidationStatusApproved, Note: "imported"},
			{ID: "fr-2", ProcedureID: "proc-1", BeneficiaryID: "nurse-1", Status: constvars.ValidationStatusRejected},
		}

		response, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionReject,
			Comment:     "wrong tariff",
		})
		require.NoError(t, err)

		assert.Equal(t, constvars.ValidationStatusRejected, response.NewStatus)
		assert.Equal(t, 1, response.RejectedCount)
		require.Len(t, fixture.records.updated, 1)
		cascaded := fixture.records.updated[0]
		assert.Equal(t, "fr-1", cascaded.ID)
		assert.Equal(t, constvars.ValidationStatusRejected, cascaded.Status)
		assert.Equal(t, "validator-1", cascaded.ValidatedBy)
		assert.Equal(t, "imported; rejected with procedure proc-1: wrong tariff", cascaded.Note)

		var types []string
		for _, event := range fixture.publisher.events {
			types = append(types, event.Type)
		}
		assert.Contains(t, types, constvars.EventFeeRecordRejectedCascade)
	})

	t.Run("rejecting with no fee records publishes no cascade", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())

		response, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    constvars.ValidationDecisionReject,
		})
		require.NoError(t, err)
		assert.Zero(t, response.RejectedCount)
		for _, event := range fixture.publisher.events {
			assert.NotEqual(t, constvars.EventFeeRecordRejectedCascade, event.Type)
		}
	})

	t.Run("unknown decision", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())

		_, err := fixture.usecase.SubmitProcedureValidation(context.Background(), actor, &requests.SubmitProcedureValidationRequest{
			ProcedureID: "proc-1",
			Decision:    "defer",
		})
		assert.Error(t, err)
	})
}

func TestPreviewFee(t *testing.T) {
	t.Run("rejects ambiguous and empty targets", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())

		_, err := fixture.usecase.PreviewFee(context.Background(), &requests.PreviewFeeRequest{})
		assert.Error(t, err)

		_, err = fixture.usecase.PreviewFee(context.Background(), &requests.PreviewFeeRequest{
			ProcedureID:    "proc-1",
			PatientCountID: "pc-1",
		})
		assert.Error(t, err)
	})

	t.Run("procedure preview uses the stored percentage", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())

		response, err := fixture.usecase.PreviewFee(context.Background(), &requests.PreviewFeeRequest{ProcedureID: "proc-1"})
		require.NoError(t, err)
		assert.Equal(t, int64(40_000), response.Amount)
	})

	t.Run("percentage override wins over the procedure type", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		override := 50.0

		response, err := fixture.usecase.PreviewFee(context.Background(), &requests.PreviewFeeRequest{
			ProcedureID: "proc-1",
			Override:    &requests.PreviewFormulaOverride{Percentage: &override},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50_000), response.Amount)
	})

	t.Run("patient-count preview applies the threshold formula", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		fixture.usecase.PatientCountRepository = &fakePatientCountRepo{count: &models.DailyPatientCount{
			ID:             "pc-1",
			GeneralCount:   30,
			InsuranceCount: 20,
		}}
		fixture.usecase.FormulaSelector = feecalc.NewFormulaSelector(&fakeFormulaRepo{
			formula: &models.FeeFormula{Threshold: 40, TierGeneral: 5_000, TierInsurance: 3_000, Active: true},
		})

		response, err := fixture.usecase.PreviewFee(context.Background(), &requests.PreviewFeeRequest{PatientCountID: "pc-1"})
		require.NoError(t, err)
		// 30 general at 5 000 plus 20 insurance at 3 000.
		assert.Equal(t, int64(210_000), response.Amount)
	})

	t.Run("window override selects the formula for that shift", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		fixture.usecase.PatientCountRepository = &fakePatientCountRepo{count: &models.DailyPatientCount{
			ID:             "pc-1",
			GeneralCount:   30,
			InsuranceCount: 20,
		}}
		formulas := &fakeFormulaRepo{
			formula: &models.FeeFormula{Threshold: 40, TierGeneral: 5_000, TierInsurance: 3_000, Active: true},
		}
		fixture.usecase.FormulaSelector = feecalc.NewFormulaSelector(formulas)

		// The fixture clock sits in the morning shift; the override asks
		// for the afternoon formula anyway.
		response, err := fixture.usecase.PreviewFee(context.Background(), &requests.PreviewFeeRequest{
			PatientCountID: "pc-1",
			Override:       &requests.PreviewFormulaOverride{Window: constvars.ShiftWindowAfternoon},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(210_000), response.Amount)
		require.Len(t, formulas.queriedWindows, 1)
		assert.Equal(t, constvars.ShiftWindowAfternoon, formulas.queriedWindows[0])
	})

	t.Run("threshold override can zero out a payout", func(t *testing.T) {
		fixture := newValidationFixture(pendingProcedure(), woundCare())
		fixture.usecase.PatientCountRepository = &fakePatientCountRepo{count: &models.DailyPatientCount{
			ID:             "pc-1",
			GeneralCount:   30,
			InsuranceCount: 20,
		}}
		fixture.usecase.FormulaSelector = feecalc.NewFormulaSelector(&fakeFormulaRepo{
			formula: &models.FeeFormula{Threshold: 40, TierGeneral: 5_000, TierInsurance: 3_000, Active: true},
		})
		threshold := 60

		response, err := fixture.usecase.PreviewFee(context.Background(), &requests.PreviewFeeRequest{
			PatientCountID: "pc-1",
			Override:       &requests.PreviewFormulaOverride{Threshold: &threshold},
		})
		require.NoError(t, err)
		assert.Zero(t, response.Amount)
	})
}
