package feerecords

import (
	"context"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/models"
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

type fakeFeeRecordStore struct {
	records      map[string]*models.FeeRecord
	deleted      []string
	rejectInsert bool
}

func newFakeFeeRecordStore() *fakeFeeRecordStore {
	return &fakeFeeRecordStore{records: make(map[string]*models.FeeRecord)}
}

func (f *fakeFeeRecordStore) Insert(ctx context.Context, record *models.FeeRecord) (bool, error) {
	if f.rejectInsert {
		return false, nil
	}
	if record.ID == "" {
		record.ID = "fr-new"
	}
	stored := *record
	f.records[record.ID] = &stored
	return true, nil
}

func (f *fakeFeeRecordStore) FindByID(ctx context.Context, feeRecordID string) (*models.FeeRecord, error) {
	if record, ok := f.records[feeRecordID]; ok {
		found := *record
		return &found, nil
	}
	return nil, nil
}

func (f *fakeFeeRecordStore) FindByProcedureAndBeneficiary(ctx context.Context, procedureID, beneficiaryID string) (*models.FeeRecord, error) {
	return nil, nil
}

func (f *fakeFeeRecordStore) FindByBeneficiaryDateCategory(ctx context.Context, beneficiaryID string, date time.Time, category models.FeeCategory) (*models.FeeRecord, error) {
	return nil, nil
}

func (f *fakeFeeRecordStore) FindByProcedure(ctx context.Context, procedureID string) ([]models.FeeRecord, error) {
	return nil, nil
}

func (f *fakeFeeRecordStore) FindDuplicateShape(ctx context.Context, record *models.FeeRecord) (bool, error) {
	return false, nil
}

func (f *fakeFeeRecordStore) Update(ctx context.Context, record *models.FeeRecord) error {
	stored := *record
	f.records[record.ID] = &stored
	return nil
}

func (f *fakeFeeRecordStore) Delete(ctx context.Context, feeRecordID string) error {
	delete(f.records, feeRecordID)
	f.deleted = append(f.deleted, feeRecordID)
	return nil
}

type fakeRedisRepo struct{}

func (fakeRedisRepo) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return nil
}

func (fakeRedisRepo) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (fakeRedisRepo) Delete(ctx context.Context, keys ...string) error { return nil }

func (fakeRedisRepo) IncrementWithExpiry(ctx context.Context, key string, exp time.Duration) (int64, error) {
	return 1, nil
}

func (fakeRedisRepo) HashIncrementBy(ctx context.Context, key, field string, delta int64, exp time.Duration) (int64, error) {
	return delta, nil
}

func (fakeRedisRepo) HashSet(ctx context.Context, key, field string, value int64) error { return nil }

func (fakeRedisRepo) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	return true, nil
}

type fakeAggregateCache struct {
	increments  int
	decrements  int
	invalidated int
}

func (f *fakeAggregateCache) IncrementOnCreate(ctx context.Context, record *models.FeeRecord) error {
	f.increments++
	return nil
}

func (f *fakeAggregateCache) DecrementOnDelete(ctx context.Context, record *models.FeeRecord) error {
	f.decrements++
	return nil
}

func (f *fakeAggregateCache) Invalidate(ctx context.Context, beneficiaryID string, months ...time.Time) error {
	f.invalidated++
	return nil
}

type fakeEventPublisher struct {
	events []models.Event
}

func (f *fakeEventPublisher) Publish(ctx context.Context, event models.Event) error {
	f.events = append(f.events, event)
	return nil
}

type feeRecordFixture struct {
	usecase   *feeRecordUsecase
	store     *fakeFeeRecordStore
	cache     *fakeAggregateCache
	publisher *fakeEventPublisher
}

// newFeeRecordFixture wires the usecase against the real integrity guard so
// the immutability rules are exercised end to end.
func newFeeRecordFixture() *feeRecordFixture {
	internalConfig := &config.InternalConfig{}
	internalConfig.App.Env = constvars.AppEnvDevelopment

	fixture := &feeRecordFixture{
		store:     newFakeFeeRecordStore(),
		cache:     &fakeAggregateCache{},
		publisher: &fakeEventPublisher{},
	}
	fixture.usecase = &feeRecordUsecase{
		FeeRecordRepository: fixture.store,
		Guard:               integrity.NewGuard(fixture.store, fakeRedisRepo{}, zap.NewNop(), internalConfig),
		AggregateCache:      fixture.cache,
		EventPublisher:      fixture.publisher,
		InternalConfig:      internalConfig,
		Log:                 zap.NewNop(),
		now:                 time.Now,
	}
	return fixture
}

func TestCreateFeeRecord(t *testing.T) {
	actor := &models.Actor{ID: "staff-1"}

	t.Run("creates a pending record with defaults applied", func(t *testing.T) {
		fixture := newFeeRecordFixture()

		response, err := fixture.usecase.CreateFeeRecord(context.Background(), actor, &requests.CreateFeeRecordRequest{
			BeneficiaryID:  "doctor-1",
			SettlementDate: time.Now().Format("2006-01-02"),
			Category:       string(models.CategoryGeneralDoctor),
			Nominal:        250_500,
		})
		require.NoError(t, err)

		assert.Equal(t, constvars.ValidationStatusPending, response.Status)
		assert.Equal(t, int64(250_500), response.Total)
		assert.Equal(t, 1, fixture.cache.increments)
		require.Len(t, fixture.publisher.events, 1)
		assert.Equal(t, constvars.EventFeeRecordCreated, fixture.publisher.events[0].Type)
	})

	t.Run("a duplicate natural key is a conflict", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		fixture.store.rejectInsert = true

		_, err := fixture.usecase.CreateFeeRecord(context.Background(), actor, &requests.CreateFeeRecordRequest{
			BeneficiaryID:  "doctor-1",
			SettlementDate: time.Now().Format("2006-01-02"),
			Category:       string(models.CategoryGeneralDoctor),
			Nominal:        250_500,
		})
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
		assert.Zero(t, fixture.cache.increments)
	})

	t.Run("rejects a malformed settlement date", func(t *testing.T) {
		fixture := newFeeRecordFixture()

		_, err := fixture.usecase.CreateFeeRecord(context.Background(), actor, &requests.CreateFeeRecordRequest{
			BeneficiaryID:  "doctor-1",
			SettlementDate: "09/03/2025",
			Category:       string(models.CategoryGeneralDoctor),
			Nominal:        250_500,
		})
		assert.Error(t, err)
	})

	t.Run("guard failures abort the write", func(t *testing.T) {
		fixture := newFeeRecordFixture()

		_, err := fixture.usecase.CreateFeeRecord(context.Background(), actor, &requests.CreateFeeRecordRequest{
			BeneficiaryID:  "doctor-1",
			SettlementDate: time.Now().Format("2006-01-02"),
			Category:       "mystery",
			Nominal:        250_500,
		})
		assert.Error(t, err)
		assert.Empty(t, fixture.store.records)
	})
}

func TestUpdateFeeRecord(t *testing.T) {
	actor := &models.Actor{ID: "staff-1"}

	seedPending := func(fixture *feeRecordFixture) {
		fixture.store.records["fr-1"] = &models.FeeRecord{
			ID:             "fr-1",
			BeneficiaryID:  "doctor-1",
			SettlementDate: time.Now(),
			Category:       models.CategoryGeneralDoctor,
			Nominal:        100_500,
			Total:          100_500,
			Status:         constvars.ValidationStatusPending,
			CreatedAt:      time.Now(),
		}
	}

	t.Run("updates nominal and keeps total in sync", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		seedPending(fixture)
		nominal := int64(80_500)

		response, err := fixture.usecase.UpdateFeeRecord(context.Background(), actor, &requests.UpdateFeeRecordRequest{
			FeeRecordID: "fr-1",
			Nominal:     &nominal,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(80_500), response.Nominal)
		assert.Equal(t, int64(80_500), response.Total)
		assert.Equal(t, 1, fixture.cache.invalidated)
	})

	t.Run("unknown record", func(t *testing.T) {
		fixture := newFeeRecordFixture()

		_, err := fixture.usecase.UpdateFeeRecord(context.Background(), actor, &requests.UpdateFeeRecordRequest{FeeRecordID: "fr-missing"})
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("an approved record cannot be edited", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		seedPending(fixture)
		fixture.store.records["fr-1"].Status = constvars.ValidationStatusApproved
		note := "late edit"

		_, err := fixture.usecase.UpdateFeeRecord(context.Background(), actor, &requests.UpdateFeeRecordRequest{
			FeeRecordID: "fr-1",
			Note:        &note,
		})
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})

	t.Run("approval through update requires the capability and stamps the validator", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		seedPending(fixture)

		_, err := fixture.usecase.UpdateFeeRecord(context.Background(), actor, &requests.UpdateFeeRecordRequest{
			FeeRecordID: "fr-1",
			Status:      constvars.ValidationStatusApproved,
		})
		assert.Error(t, err)

		validator := &models.Actor{ID: "validator-1", Capabilities: []string{constvars.CapabilityValidateFee}}
		response, err := fixture.usecase.UpdateFeeRecord(context.Background(), validator, &requests.UpdateFeeRecordRequest{
			FeeRecordID: "fr-1",
			Status:      constvars.ValidationStatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, constvars.ValidationStatusApproved, response.Status)
		assert.Equal(t, "validator-1", response.ValidatedBy)
	})
}

func TestDeleteFeeRecord(t *testing.T) {
	actor := &models.Actor{ID: "staff-1"}

	t.Run("deletes a pending record and reverses the aggregates", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		fixture.store.records["fr-1"] = &models.FeeRecord{
			ID:     "fr-1",
			Status: constvars.ValidationStatusPending,
		}

		require.NoError(t, fixture.usecase.DeleteFeeRecord(context.Background(), actor, "fr-1"))
		assert.Equal(t, []string{"fr-1"}, fixture.store.deleted)
		assert.Equal(t, 1, fixture.cache.decrements)
	})

	t.Run("an approved record cannot be deleted", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		fixture.store.records["fr-1"] = &models.FeeRecord{
			ID:     "fr-1",
			Status: constvars.ValidationStatusApproved,
		}

		assert.Error(t, fixture.usecase.DeleteFeeRecord(context.Background(), actor, "fr-1"))
		assert.Empty(t, fixture.store.deleted)
	})

	t.Run("unknown record", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		assert.Error(t, fixture.usecase.DeleteFeeRecord(context.Background(), actor, "fr-missing"))
	})
}

func TestResetFeeRecordStatus(t *testing.T) {
	auditor := &models.Actor{ID: "auditor-1", Capabilities: []string{constvars.CapabilityResetFee}}

	seedApproved := func(fixture *feeRecordFixture) {
		validatedAt := time.Now().Add(-time.Hour)
		fixture.store.records["fr-1"] = &models.FeeRecord{
			ID:             "fr-1",
			BeneficiaryID:  "doctor-1",
			SettlementDate: time.Now(),
			Category:       models.CategoryGeneralDoctor,
			Nominal:        100_500,
			Total:          100_500,
			Status:         constvars.ValidationStatusApproved,
			ValidatedBy:    "validator-1",
			ValidatedAt:    &validatedAt,
			CreatedAt:      time.Now().Add(-time.Hour),
		}
	}

	t.Run("returns a settled record to pending with an audit note", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		seedApproved(fixture)

		response, err := fixture.usecase.ResetFeeRecordStatus(context.Background(), auditor, "fr-1")
		require.NoError(t, err)

		assert.Equal(t, constvars.ValidationStatusPending, response.Status)
		assert.Empty(t, response.ValidatedBy)
		assert.Contains(t, response.Note, "status reset by auditor-1")
		assert.Equal(t, 1, fixture.cache.invalidated)
	})

	t.Run("requires the reset_fee capability", func(t *testing.T) {
		fixture := newFeeRecordFixture()
		seedApproved(fixture)

		_, err := fixture.usecase.ResetFeeRecordStatus(context.Background(), &models.Actor{ID: "staff-1"}, "fr-1")
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("unknown record", func(t *testing.T) {
		fixture := newFeeRecordFixture()

		_, err := fixture.usecase.ResetFeeRecordStatus(context.Background(), auditor, "fr-missing")
		assert.Error(t, err)
	})
}
