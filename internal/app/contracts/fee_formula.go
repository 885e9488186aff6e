package contracts

import (
	"context"
	"jaspel-service/internal/app/models"
)

// FeeFormulaRepository is the read-only formula store. Multiple formulas
// may exist per shift window; only one is active at a time.
type FeeFormulaRepository interface {
	FindActiveByShiftWindow(ctx context.Context, shiftWindow string) (*models.FeeFormula, error)
	FindAnyActive(ctx context.Context) (*models.FeeFormula, error)
}
