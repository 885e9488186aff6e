package feecalc

import (
	"context"
	"fmt"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"math"
	"time"
)

// ComputePercentageFee returns tariff * percentage / 100, rounded
// half-up to the whole rupiah. The result never exceeds the tariff.
func ComputePercentageFee(tariff int64, percentage float64) (int64, error) {
	if tariff < 0 {
		return 0, exceptions.ErrInvalidFormula(fmt.Sprintf("tariff %d is negative", tariff))
	}
	if percentage < 0 || percentage > 100 {
		return 0, exceptions.ErrInvalidFormula(fmt.Sprintf("percentage %v is outside [0,100]", percentage))
	}
	amount := int64(math.Floor(float64(tariff)*percentage/100 + 0.5))
	return amount, nil
}

// ComputeThresholdFee settles one payer subgroup of a daily patient count.
// The threshold is all-or-nothing on the combined total: at or below it the
// fee is zero, above it every patient in the subgroup is paid at the
// subgroup tier, not only the patients beyond the threshold. That asymmetry
// (check the aggregate, pay the whole subgroup) is how the tariff decree is
// written and must not be "corrected".
func ComputeThresholdFee(totalPatients, subgroupCount int, formula *models.FeeFormula, payer models.PayerType) int64 {
	if formula == nil || subgroupCount <= 0 {
		return 0
	}
	if totalPatients <= formula.Threshold {
		return 0
	}
	return int64(subgroupCount) * formula.Tier(payer)
}

// ShiftWindowForTime resolves the shift window from the wall-clock hour:
// 07:00-14:00 is morning, 14:00-21:00 is afternoon, anything else falls
// back to morning.
func ShiftWindowForTime(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= constvars.ShiftMorningStartHour && hour < constvars.ShiftAfternoonStartHour:
		return constvars.ShiftWindowMorning
	case hour >= constvars.ShiftAfternoonStartHour && hour < constvars.ShiftAfternoonEndHour:
		return constvars.ShiftWindowAfternoon
	default:
		return constvars.ShiftWindowMorning
	}
}

// FormulaSelector resolves the active threshold formula for a point in
// time, with fallback to any active formula before giving up.
type FormulaSelector struct {
	FeeFormulaRepository contracts.FeeFormulaRepository
}

func NewFormulaSelector(feeFormulaRepository contracts.FeeFormulaRepository) *FormulaSelector {
	return &FormulaSelector{FeeFormulaRepository: feeFormulaRepository}
}

func (s *FormulaSelector) SelectFormula(ctx context.Context, asOf time.Time) (*models.FeeFormula, error) {
	return s.SelectFormulaForWindow(ctx, ShiftWindowForTime(asOf))
}

// SelectFormulaForWindow resolves the formula for an explicit shift window
// rather than deriving the window from a clock.
func (s *FormulaSelector) SelectFormulaForWindow(ctx context.Context, shiftWindow string) (*models.FeeFormula, error) {
	formula, err := s.FeeFormulaRepository.FindActiveByShiftWindow(ctx, shiftWindow)
	if err != nil {
		return nil, err
	}
	if formula != nil {
		return formula, nil
	}

	formula, err = s.FeeFormulaRepository.FindAnyActive(ctx)
	if err != nil {
		return nil, err
	}
	if formula != nil {
		return formula, nil
	}

	return nil, exceptions.ErrNoActiveFormula()
}
