package models

import "time"

type PerformerRole string

const (
	RoleDoctor       PerformerRole = "doctor"
	RoleParamedic    PerformerRole = "paramedic"
	RoleNonParamedic PerformerRole = "non-paramedic"
)

// PerformerShare pairs a performer reference with its fee share. Shares are
// read from the procedure in role-priority order (doctor first).
type PerformerShare struct {
	Role          PerformerRole
	BeneficiaryID string
	Fee           int64
}

// Procedure is a performed medical act owned by the clinical-intake
// subsystem. This engine only reads it and transitions its validation
// status. Version guards against concurrent approve/reject races.
type Procedure struct {
	ID              string     `json:"id,omitempty" bson:"_id,omitempty"`
	PatientID       string     `json:"patient_id" bson:"patientId"`
	ProcedureTypeID string     `json:"procedure_type_id" bson:"procedureTypeId"`
	DoctorID        string     `json:"doctor_id,omitempty" bson:"doctorId,omitempty"`
	ParamedicID     string     `json:"paramedic_id,omitempty" bson:"paramedicId,omitempty"`
	NonParamedicID  string     `json:"non_paramedic_id,omitempty" bson:"nonParamedicId,omitempty"`
	Tariff          int64      `json:"tariff" bson:"tariff"`
	DoctorFee       int64      `json:"doctor_fee" bson:"doctorFee"`
	ParamedicFee    int64      `json:"paramedic_fee" bson:"paramedicFee"`
	NonParamedicFee int64      `json:"non_paramedic_fee" bson:"nonParamedicFee"`
	Status          string     `json:"status" bson:"status"`
	ValidatedBy     string     `json:"validated_by,omitempty" bson:"validatedBy,omitempty"`
	ValidatedAt     *time.Time `json:"validated_at,omitempty" bson:"validatedAt,omitempty"`
	Version         int64      `json:"version" bson:"version"`
	CreatedAt       time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updatedAt"`
}

// PerformerShares lists the performers carrying a fee share, in the
// doctor > paramedic > non-paramedic priority order used for settlement.
func (p *Procedure) PerformerShares() []PerformerShare {
	shares := make([]PerformerShare, 0, 3)
	if p.DoctorID != "" {
		shares = append(shares, PerformerShare{Role: RoleDoctor, BeneficiaryID: p.DoctorID, Fee: p.DoctorFee})
	}
	if p.ParamedicID != "" {
		shares = append(shares, PerformerShare{Role: RoleParamedic, BeneficiaryID: p.ParamedicID, Fee: p.ParamedicFee})
	}
	if p.NonParamedicID != "" {
		shares = append(shares, PerformerShare{Role: RoleNonParamedic, BeneficiaryID: p.NonParamedicID, Fee: p.NonParamedicFee})
	}
	return shares
}
