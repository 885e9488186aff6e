package models

import "time"

// Event is the envelope published to the notification queue. The
// notification dispatcher consuming these is a separate service.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Payloads for the event types this engine emits.
type (
	FeeRecordCreatedPayload struct {
		BeneficiaryID string      `json:"beneficiary_id"`
		Amount        int64       `json:"amount"`
		Category      FeeCategory `json:"category"`
		ProcedureID   string      `json:"procedure_id,omitempty"`
	}

	ProcedureValidationChangedPayload struct {
		ProcedureID string `json:"procedure_id"`
		NewStatus   string `json:"new_status"`
	}

	FeeRecordRejectedCascadePayload struct {
		ProcedureID   string `json:"procedure_id"`
		AffectedCount int    `json:"affected_count"`
	}
)
