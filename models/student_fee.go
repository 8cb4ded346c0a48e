// school-erp/models/student_fee.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FeeStatusPending = "pending"
	FeeStatusPartial = "partial"
	FeeStatusPaid    = "paid"
	FeeStatusOverdue = "overdue"
)

// StudentFee is the per-student invoice line: one row per (student, fee_type,
// session). AmountPaid never exceeds AmountDue; payment submission is
// rejected before it would.
type StudentFee struct {
	gorm.Model
	StudentID  uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_student_fee_unique"`
	FeeTypeID  uint       `json:"fee_type_id" gorm:"not null;uniqueIndex:idx_student_fee_unique"`
	SessionID  uint       `json:"session_id" gorm:"not null;uniqueIndex:idx_student_fee_unique"`
	AmountDue  float64    `json:"amount_due" gorm:"type:numeric(12,2);not null"`
	AmountPaid float64    `json:"amount_paid" gorm:"type:numeric(12,2);default:0"`
	Status     string     `json:"status" gorm:"default:'pending'"`
	DueDate    *time.Time `json:"due_date"`
	Notes      string     `json:"notes"`

	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	FeeType FeeType `json:"fee_type,omitempty" gorm:"foreignKey:FeeTypeID"`
	Session Session `json:"session,omitempty" gorm:"foreignKey:SessionID"`
}

// Remaining returns the outstanding balance on the line.
func (sf *StudentFee) Remaining() float64 {
	return sf.AmountDue - sf.AmountPaid
}

// RecomputeStatus derives Status from the paid/due amounts and the due date.
// Note the asymmetry: the overdue check only applies while nothing has been
// paid, so a partial payment made after the due date stays "partial". This
// mirrors the historical billing behavior.
func (sf *StudentFee) RecomputeStatus(now time.Time) {
	switch {
	case sf.AmountPaid >= sf.AmountDue:
		sf.Status = FeeStatusPaid
	case sf.AmountPaid > 0:
		sf.Status = FeeStatusPartial
	case sf.DueDate != nil && sf.DueDate.Before(now):
		sf.Status = FeeStatusOverdue
	default:
		sf.Status = FeeStatusPending
	}
}
