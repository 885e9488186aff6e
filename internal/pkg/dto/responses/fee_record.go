package responses

import "jaspel-service/internal/app/models"

type FeeRecordResponse struct {
	ID             string `json:"id"`
	BeneficiaryID  string `json:"beneficiary_id"`
	ProcedureID    string `json:"procedure_id,omitempty"`
	SettlementDate string `json:"settlement_date"`
	Category       string `json:"category"`
	Nominal        int64  `json:"nominal"`
	Total          int64  `json:"total"`
	Status         string `json:"status"`
	ValidatedBy    string `json:"validated_by,omitempty"`
	Note           string `json:"note,omitempty"`
}

func NewFeeRecordResponse(record *models.FeeRecord) *FeeRecordResponse {
	return &FeeRecordResponse{
		ID:             record.ID,
		BeneficiaryID:  record.BeneficiaryID,
		ProcedureID:    record.ProcedureID,
		SettlementDate: record.SettlementDate.Format("2006-01-02"),
		Category:       string(record.Category),
		Nominal:        record.Nominal,
		Total:          record.Total,
		Status:         record.Status,
		ValidatedBy:    record.ValidatedBy,
		Note:           record.Note,
	}
}

type PreviewFeeResponse struct {
	Amount int64 `json:"amount"`
}

type RecalculateSettlementResponse struct {
	BeneficiaryID string `json:"beneficiary_id"`
	// RequeuedJobs counts the approved patient counts in range that had no
	// settlement record yet and were queued again.
	RequeuedJobs int `json:"requeued_jobs"`
}

type SubmitProcedureValidationResponse struct {
	ProcedureID string `json:"procedure_id"`
	NewStatus   string `json:"new_status"`
	// SettledRecords lists fee records created synchronously by an
	// approval. Patient-count settlement is asynchronous and never
	// appears here.
	SettledRecords []FeeRecordResponse `json:"settled_records,omitempty"`
	RejectedCount  int                 `json:"rejected_count,omitempty"`
}
