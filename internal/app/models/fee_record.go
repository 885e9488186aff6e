package models

import "time"

type FeeCategory string

// Closed category enum. JASPEL records outside this set are rejected by the
// integrity guard.
const (
	CategoryDoctorShiftMorning   FeeCategory = "doctor-shift-morning"
	CategoryDoctorShiftAfternoon FeeCategory = "doctor-shift-afternoon"
	CategoryDoctorShiftNight     FeeCategory = "doctor-shift-night"
	CategoryEmergencyProcedure   FeeCategory = "emergency-procedure"
	CategorySpecialConsultation  FeeCategory = "special-consultation"
	CategoryParamedic            FeeCategory = "paramedic"
	CategoryNonParamedic         FeeCategory = "non-paramedic"
	CategoryGeneralDoctor        FeeCategory = "general-doctor"
	CategorySpecialistDoctor     FeeCategory = "specialist-doctor"
	CategoryPatientCountDaily    FeeCategory = "patient-count-daily"
)

var feeCategories = map[FeeCategory]bool{
	CategoryDoctorShiftMorning:   true,
	CategoryDoctorShiftAfternoon: true,
	CategoryDoctorShiftNight:     true,
	CategoryEmergencyProcedure:   true,
	CategorySpecialConsultation:  true,
	CategoryParamedic:            true,
	CategoryNonParamedic:         true,
	CategoryGeneralDoctor:        true,
	CategorySpecialistDoctor:     true,
	CategoryPatientCountDaily:    true,
}

func (c FeeCategory) IsValid() bool {
	return feeCategories[c]
}

// FeeRecord is a settled performer-fee entry (JASPEL). It is created either
// by the procedure validation state machine or by the daily patient-count
// settlement job, and it is the only mutable resource this service owns.
type FeeRecord struct {
	ID             string      `json:"id,omitempty" bson:"_id,omitempty"`
	BeneficiaryID  string      `json:"beneficiary_id" bson:"beneficiaryId"`
	ProcedureID    string      `json:"procedure_id,omitempty" bson:"procedureId,omitempty"`
	SettlementDate time.Time   `json:"settlement_date" bson:"settlementDate"`
	Category       FeeCategory `json:"category" bson:"category"`
	Nominal        int64       `json:"nominal" bson:"nominal"`
	Total          int64       `json:"total" bson:"total"`
	Status         string      `json:"status" bson:"status"`
	ValidatedBy    string      `json:"validated_by,omitempty" bson:"validatedBy,omitempty"`
	ValidatedAt    *time.Time  `json:"validated_at,omitempty" bson:"validatedAt,omitempty"`
	CreatedBy      string      `json:"created_by,omitempty" bson:"createdBy,omitempty"`
	Note           string      `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt      time.Time   `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updatedAt"`
}

// SettlementMonth returns the yyyy-mm bucket the record settles into.
func (f *FeeRecord) SettlementMonth() string {
	return f.SettlementDate.Format("2006-01")
}
