// school-erp/models/fee_transaction.go
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	PaymentModeCash         = "cash"
	PaymentModeOnline       = "online"
	PaymentModeCheque       = "cheque"
	PaymentModeBankTransfer = "bank_transfer"
)

// FeeTransaction is one immutable payment-ledger entry against a
// (student, fee_type, session). Rows are only ever inserted.
type FeeTransaction struct {
	gorm.Model
	StudentID    uint      `json:"student_id" gorm:"not null;index"`
	FeeTypeID    uint      `json:"fee_type_id" gorm:"not null;index"`
	SessionID    uint      `json:"session_id" gorm:"not null;index"`
	StudentFeeID uint      `json:"student_fee_id" gorm:"not null;index"`
	AmountPaid   float64   `json:"amount_paid" gorm:"type:numeric(12,2);not null"`
	PaymentDate  time.Time `json:"payment_date" gorm:"not null"`
	PaymentMode  string    `json:"payment_mode" gorm:"not null"`
	ReceiptNo    string    `json:"receipt_no" gorm:"unique;not null"`
	CollectedBy  uint      `json:"collected_by" gorm:"not null"`
	Notes        string    `json:"notes"`
	ReferenceNo  string    `json:"reference_no"`

	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	FeeType FeeType `json:"fee_type,omitempty" gorm:"foreignKey:FeeTypeID"`
	Session Session `json:"session,omitempty" gorm:"foreignKey:SessionID"`
}

// ValidPaymentMode reports whether m is an accepted payment mode.
func ValidPaymentMode(m string) bool {
	switch m {
	case PaymentModeCash, PaymentModeOnline, PaymentModeCheque, PaymentModeBankTransfer:
		return true
	}
	return false
}

// receiptPrefix builds the "RCPT" + year + month prefix for the given time.
func receiptPrefix(now time.Time) string {
	return fmt.Sprintf("RCPT%d%02d", now.Year(), int(now.Month()))
}

// NextReceiptNo generates the next receipt number for the calendar month of
// now: the sequence increments per year-month prefix, resets each month and
// is padded to 4 digits. It looks up the highest existing suffix inside the
// caller's transaction so the insert that follows sees a consistent
// sequence. Ordering by length first keeps the sequence counting once a
// month outgrows the pad width, where plain string order would pin the max
// at 9999.
func NextReceiptNo(tx *gorm.DB, now time.Time) (string, error) {
	prefix := receiptPrefix(now)

	var last string
	err := tx.Model(&FeeTransaction{}).
		Where("receipt_no LIKE ?", prefix+"%").
		Order("LENGTH(receipt_no) DESC, receipt_no DESC").
		Limit(1).
		Pluck("receipt_no", &last).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		suffix := strings.TrimPrefix(last, prefix)
		if n, err := strconv.Atoi(suffix); err == nil {
			seq = n + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}
