package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeStatus(t *testing.T) {
	now := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	tests := []struct {
		name string
		fee  StudentFee
		want string
	}{
		{"unpaid before due date", StudentFee{AmountDue: 2000, AmountPaid: 0, DueDate: &future}, FeeStatusPending},
		{"unpaid without due date", StudentFee{AmountDue: 2000, AmountPaid: 0}, FeeStatusPending},
		{"unpaid past due date", StudentFee{AmountDue: 2000, AmountPaid: 0, DueDate: &past}, FeeStatusOverdue},
		{"partially paid", StudentFee{AmountDue: 2000, AmountPaid: 500, DueDate: &future}, FeeStatusPartial},
		// A partial payment after the due date stays partial, it is never
		// reclassified overdue.
		{"partially paid past due date", StudentFee{AmountDue: 2000, AmountPaid: 500, DueDate: &past}, FeeStatusPartial},
		{"fully paid", StudentFee{AmountDue: 2000, AmountPaid: 2000}, FeeStatusPaid},
		{"fully paid past due date", StudentFee{AmountDue: 2000, AmountPaid: 2000, DueDate: &past}, FeeStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fee.RecomputeStatus(now)
			assert.Equal(t, tt.want, tt.fee.Status)
		})
	}
}

func TestRemaining(t *testing.T) {
	fee := StudentFee{AmountDue: 2000, AmountPaid: 750}
	assert.Equal(t, 1250.0, fee.Remaining())
}

func TestValidPaymentMode(t *testing.T) {
	for _, mode := range []string{PaymentModeCash, PaymentModeOnline, PaymentModeCheque, PaymentModeBankTransfer} {
		assert.True(t, ValidPaymentMode(mode), mode)
	}
	assert.False(t, ValidPaymentMode("crypto"))
	assert.False(t, ValidPaymentMode(""))
}

func TestValidFrequency(t *testing.T) {
	for _, f := range []string{FrequencyOneTime, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly} {
		assert.True(t, ValidFrequency(f), f)
	}
	assert.False(t, ValidFrequency("weekly"))
}
