package models

import "time"

type PayerType string

const (
	PayerGeneral   PayerType = "general"
	PayerInsurance PayerType = "insurance"
)

// FeeFormula is a threshold/tier table for daily patient-count settlement.
// The threshold is checked against the combined patient total; once crossed,
// every patient in a subgroup is paid at that subgroup's tier.
type FeeFormula struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	ShiftWindow   string    `json:"shift_window" bson:"shiftWindow"`
	Threshold     int       `json:"threshold" bson:"threshold"`
	TierGeneral   int64     `json:"tier_general" bson:"tierGeneral"`
	TierInsurance int64     `json:"tier_insurance" bson:"tierInsurance"`
	Active        bool      `json:"active" bson:"active"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}

// Tier returns the per-patient fee for the given payer subgroup.
func (f *FeeFormula) Tier(payer PayerType) int64 {
	if payer == PayerInsurance {
		return f.TierInsurance
	}
	return f.TierGeneral
}
