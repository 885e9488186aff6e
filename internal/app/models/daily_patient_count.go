package models

import "time"

// DailyPatientCount is a per-doctor, per-day patient tally submitted by
// front-line staff and approved by a supervisor. Approval triggers the
// asynchronous threshold settlement job.
type DailyPatientCount struct {
	ID             string     `json:"id,omitempty" bson:"_id,omitempty"`
	Date           time.Time  `json:"date" bson:"date"`
	DoctorID       string     `json:"doctor_id" bson:"doctorId"`
	PoliUnit       string     `json:"poli_unit" bson:"poliUnit"`
	GeneralCount   int        `json:"general_count" bson:"generalCount"`
	InsuranceCount int        `json:"insurance_count" bson:"insuranceCount"`
	Status         string     `json:"status" bson:"status"`
	ApprovedBy     string     `json:"approved_by,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty" bson:"approvedAt,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updatedAt"`
}

func (d *DailyPatientCount) TotalPatients() int {
	return d.GeneralCount + d.InsuranceCount
}
