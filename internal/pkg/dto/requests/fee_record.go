package requests

// CreateFeeRecordRequest carries a manual fee-record submission. Status,
// total and creator are defaulted by the integrity guard when omitted.
type CreateFeeRecordRequest struct {
	BeneficiaryID  string `json:"beneficiary_id" validate:"required"`
	ProcedureID    string `json:"procedure_id,omitempty"`
	SettlementDate string `json:"settlement_date" validate:"required,datetime=2006-01-02"`
	Category       string `json:"category" validate:"required,fee_category"`
	Nominal        int64  `json:"nominal" validate:"required,gt=0"`
	Total          int64  `json:"total,omitempty"`
	Note           string `json:"note,omitempty"`
}

type UpdateFeeRecordRequest struct {
	FeeRecordID string `json:"-"`
	Nominal     *int64 `json:"nominal,omitempty" validate:"omitempty,gt=0"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Category    string `json:"category,omitempty" validate:"omitempty,fee_category"`
	Note        *string `json:"note,omitempty"`
}
