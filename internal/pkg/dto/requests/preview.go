package requests

// PreviewFeeRequest computes a fee amount without persisting anything.
// Exactly one of ProcedureID or PatientCountID must be set; the optional
// override replaces the stored formula for what-if reporting.
type PreviewFeeRequest struct {
	ProcedureID    string                  `json:"procedure_id,omitempty"`
	PatientCountID string                  `json:"patient_count_id,omitempty"`
	Override       *PreviewFormulaOverride `json:"formula_override,omitempty"`
}

type PreviewFormulaOverride struct {
	Percentage    *float64 `json:"percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Window        string   `json:"window,omitempty" validate:"omitempty,shift_window"`
	Threshold     *int     `json:"threshold,omitempty" validate:"omitempty,gte=0"`
	TierGeneral   *int64   `json:"tier_general,omitempty" validate:"omitempty,gte=0"`
	TierInsurance *int64   `json:"tier_insurance,omitempty" validate:"omitempty,gte=0"`
}
