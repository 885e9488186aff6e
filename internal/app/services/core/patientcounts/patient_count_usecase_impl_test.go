package patientcounts

import (
	"context"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePatientCountRepo struct {
	count     *models.DailyPatientCount
	approvals []string
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
	f.approvals = append(f.approvals, patientCountID)
	return nil
}

type fakeEnqueuer struct {
	enqueued []string
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, patientCountID string) error {
	f.enqueued = append(f.enqueued, patientCountID)
	return nil
}

func TestApprovePatientCount(t *testing.T) {
	supervisor := &models.Actor{ID: "supervisor-1", Capabilities: []string{constvars.CapabilityValidateFee}}

	pendingCount := func() *models.DailyPatientCount {
		return &models.DailyPatientCount{
			ID:           "pc-1",
			DoctorID:     "doctor-1",
			GeneralCount: 42,
			Status:       constvars.ValidationStatusPending,
		}
	}

	t.Run("approves and enqueues the settlement job", func(t *testing.T) {
		repo := &fakePatientCountRepo{count: pendingCount()}
		enqueuer := &fakeEnqueuer{}
		usecase := &patientCountUsecase{
			PatientCountRepository: repo,
			Enqueuer:               enqueuer,
			Log:                    zap.NewNop(),
			now:                    time.Now,
		}

		count, err := usecase.ApprovePatientCount(context.Background(), supervisor, "pc-1")
		require.NoError(t, err)

		assert.Equal(t, constvars.ValidationStatusApproved, count.Status)
		assert.Equal(t, "supervisor-1", count.ApprovedBy)
		require.NotNil(t, count.ApprovedAt)
		assert.Equal(t, []string{"pc-1"}, repo.approvals)
		assert.Equal(t, []string{"pc-1"}, enqueuer.enqueued)
	})

	t.Run("re-approval skips the write but re-enqueues", func(t *testing.T) {
		approvedAt := time.Now().Add(-time.Hour)
		count := pendingCount()
		count.Status = constvars.ValidationStatusApproved
		count.ApprovedBy = "supervisor-0"
		count.ApprovedAt = &approvedAt

		repo := &fakePatientCountRepo{count: count}
		enqueuer := &fakeEnqueuer{}
		usecase := &patientCountUsecase{
			PatientCountRepository: repo,
			Enqueuer:               enqueuer,
			Log:                    zap.NewNop(),
			now:                    time.Now,
		}

		result, err := usecase.ApprovePatientCount(context.Background(), supervisor, "pc-1")
		require.NoError(t, err)

		// The original approval stays intact.
		assert.Equal(t, "supervisor-0", result.ApprovedBy)
		assert.Empty(t, repo.approvals)
		assert.Equal(t, []string{"pc-1"}, enqueuer.enqueued)
	})

	t.Run("requires the validate_fee capability", func(t *testing.T) {
		usecase := &patientCountUsecase{
			PatientCountRepository: &fakePatientCountRepo{count: pendingCount()},
			Enqueuer:               &fakeEnqueuer{},
			Log:                    zap.NewNop(),
			now:                    time.Now,
		}

		_, err := usecase.ApprovePatientCount(context.Background(), &models.Actor{ID: "staff-1"}, "pc-1")
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("unknown patient count", func(t *testing.T) {
		usecase := &patientCountUsecase{
			PatientCountRepository: &fakePatientCountRepo{},
			Enqueuer:               &fakeEnqueuer{},
			Log:                    zap.NewNop(),
			now:                    time.Now,
		}

		_, err := usecase.ApprovePatientCount(context.Background(), supervisor, "pc-missing")
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}
