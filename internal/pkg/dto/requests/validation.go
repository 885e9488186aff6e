package requests

// SubmitProcedureValidationRequest drives the procedure validation state
// machine. Comment is carried into the audit note on rejection cascades.
type SubmitProcedureValidationRequest struct {
	ProcedureID string `json:"-"`
	Decision    string `json:"decision" validate:"required,validation_decision"`
	Comment     string `json:"comment,omitempty"`
}

type RecalculateSettlementRequest struct {
	BeneficiaryID string `json:"beneficiary_id" validate:"required"`
	From          string `json:"from" validate:"required,datetime=2006-01-02"`
	To            string `json:"to" validate:"required,datetime=2006-01-02"`
}
