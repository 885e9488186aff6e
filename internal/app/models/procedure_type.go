package models

import "time"

// ProcedureType defines the default tariff and the percentage formula for a
// class of procedures. Read-only from this engine's perspective.
type ProcedureType struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string    `json:"name" bson:"name"`
	DefaultTariff int64     `json:"default_tariff" bson:"defaultTariff"`
	FeePercentage float64   `json:"fee_percentage" bson:"feePercentage"`
	Category      string    `json:"category" bson:"category"`
	Active        bool      `json:"active" bson:"active"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}
