// school-erp/models/fee_type.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FrequencyOneTime   = "one_time"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// FeeType is a specific chargeable item belonging to one fee group and one
// session. Amount is the nominal price; the per-class price lives in
// FeeMaster. LateFeeFormula, when set, is a govaluate expression over
// `amount` and `days_overdue` evaluated at invoice time.
type FeeType struct {
	gorm.Model
	Name           string     `json:"name" gorm:"not null"`
	FeeGroupID     uint       `json:"fee_group_id" gorm:"not null"`
	SessionID      uint       `json:"session_id" gorm:"not null"`
	Amount         float64    `json:"amount" gorm:"type:numeric(12,2)"`
	Frequency      string     `json:"frequency" gorm:"default:'one_time'"`
	DueDate        *time.Time `json:"due_date"`
	IsActive       *bool      `json:"is_active" gorm:"default:true"`
	LateFeeFormula string     `json:"late_fee_formula"`

	FeeGroup FeeGroup `json:"fee_group,omitempty" gorm:"foreignKey:FeeGroupID"`
	Session  Session  `json:"session,omitempty" gorm:"foreignKey:SessionID"`
}

// ValidFrequency reports whether f is one of the accepted billing frequencies.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// FeeTypeInput binds the create/update request body.
type FeeTypeInput struct {
	Name           string  `json:"name" binding:"required"`
	FeeGroupID     uint    `json:"fee_group_id" binding:"required"`
	SessionID      uint    `json:"session_id" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Frequency      string  `json:"frequency" binding:"omitempty,oneof=one_time monthly quarterly yearly"`
	DueDate        string  `json:"due_date"`
	IsActive       *bool   `json:"is_active"`
	LateFeeFormula string  `json:"late_fee_formula"`
}
