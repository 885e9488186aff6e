package feecalc

import (
	"context"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePercentageFee(t *testing.T) {
	t.Run("computes percentage of tariff", func(t *testing.T) {
		amount, err := ComputePercentageFee(100_000, 40)
		require.NoError(t, err)
		assert.Equal(t, int64(40_000), amount)
	})

	t.Run("rounds half up to whole rupiah", func(t *testing.T) {
		// 12345 * 10% = 1234.5
		amount, err := ComputePercentageFee(12_345, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1_235), amount)

		// 12344 * 10% = 1234.4
		amount, err = ComputePercentageFee(12_344, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1_234), amount)
	})

	t.Run("zero percentage yields zero", func(t *testing.T) {
		amount, err := ComputePercentageFee(100_000, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), amount)
	})

	t.Run("full percentage never exceeds tariff", func(t *testing.T) {
		amount, err := ComputePercentageFee(99_999, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(99_999), amount)
	})

	t.Run("rejects percentage outside range", func(t *testing.T) {
		_, err := ComputePercentageFee(100_000, 100.5)
		assert.Error(t, err)

		_, err = ComputePercentageFee(100_000, -1)
		assert.Error(t, err)
	})

	t.Run("rejects negative tariff", func(t *testing.T) {
		_, err := ComputePercentageFee(-1, 40)
		assert.Error(t, err)
	})
}

func TestComputeThresholdFee(t *testing.T) {
	formula := &models.FeeFormula{
		Threshold:     40,
		TierGeneral:   5_000,
		TierInsurance: 3_000,
	}

	t.Run("pays whole subgroup once combined total crosses threshold", func(t *testing.T) {
		// 30 general + 20 insurance = 50 > 40
		general := ComputeThresholdFee(50, 30, formula, models.PayerGeneral)
		insurance := ComputeThresholdFee(50, 20, formula, models.PayerInsurance)
		assert.Equal(t, int64(150_000), general)
		assert.Equal(t, int64(60_000), insurance)
		assert.Equal(t, int64(210_000), general+insurance)
	})

	t.Run("pays nothing at or below threshold", func(t *testing.T) {
		assert.Equal(t, int64(0), ComputeThresholdFee(35, 25, formula, models.PayerGeneral))
		assert.Equal(t, int64(0), ComputeThresholdFee(40, 40, formula, models.PayerGeneral))
	})

	t.Run("empty subgroup pays nothing", func(t *testing.T) {
		assert.Equal(t, int64(0), ComputeThresholdFee(50, 0, formula, models.PayerInsurance))
	})

	t.Run("nil formula pays nothing", func(t *testing.T) {
		assert.Equal(t, int64(0), ComputeThresholdFee(50, 30, nil, models.PayerGeneral))
	})
}

func TestShiftWindowForTime(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		hour     int
		expected string
	}{
		{7, constvars.ShiftWindowMorning},
		{13, constvars.ShiftWindowMorning},
		{14, constvars.ShiftWindowAfternoon},
		{20, constvars.ShiftWindowAfternoon},
		{21, constvars.ShiftWindowMorning},
		{2, constvars.ShiftWindowMorning},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, ShiftWindowForTime(day.Add(time.Duration(tc.hour)*time.Hour)), "hour %d", tc.hour)
	}
}

type fakeFormulaRepo struct {
	byWindow       map[string]*models.FeeFormula
	anyActive      *models.FeeFormula
	queriedWindows []string
}

func (f *fakeFormulaRepo) FindActiveByShiftWindow(ctx context.Context, shiftWindow string) (*models.FeeFormula, error) {
	f.queriedWindows = append(f.queriedWindows, shiftWindow)
	return f.byWindow[shiftWindow], nil
}

func (f *fakeFormulaRepo) FindAnyActive(ctx context.Context) (*models.FeeFormula, error) {
	return f.anyActive, nil
}

func TestFormulaSelector(t *testing.T) {
	morning := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("prefers the active formula for the shift window", func(t *testing.T) {
		want := &models.FeeFormula{ID: "f1", ShiftWindow: constvars.ShiftWindowMorning, Active: true}
		repo := &fakeFormulaRepo{byWindow: map[string]*models.FeeFormula{constvars.ShiftWindowMorning: want}}
		selector := NewFormulaSelector(repo)

		formula, err := selector.SelectFormula(context.Background(), morning)
		require.NoError(t, err)
		assert.Equal(t, "f1", formula.ID)
		assert.Equal(t, []string{constvars.ShiftWindowMorning}, repo.queriedWindows)
	})

	t.Run("falls back to any active formula", func(t *testing.T) {
		fallback := &models.FeeFormula{ID: "f2", ShiftWindow: constvars.ShiftWindowAfternoon, Active: true}
		repo := &fakeFormulaRepo{byWindow: map[string]*models.FeeFormula{}, anyActive: fallback}
		selector := NewFormulaSelector(repo)

		formula, err := selector.SelectFormula(context.Background(), morning)
		require.NoError(t, err)
		assert.Equal(t, "f2", formula.ID)
	})

	t.Run("errors when no formula is active", func(t *testing.T) {
		selector := NewFormulaSelector(&fakeFormulaRepo{byWindow: map[string]*models.FeeFormula{}})

		_, err := selector.SelectFormula(context.Background(), morning)
		assert.Error(t, err)
	})
}
