// school-erp/internal/handlers/invoice_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"school-erp/config"
	"school-erp/models"

	"github.com/Knetic/govaluate"
	"github.com/divan/num2words"
	"github.com/gin-gonic/gin"
)

// InvoiceLine is one fee line on a student invoice.
type InvoiceLine struct {
	FeeTypeID    uint       `json:"fee_type_id"`
	FeeTypeName  string     `json:"fee_type_name"`
	FeeGroupName string     `json:"fee_group_name"`
	AmountDue    float64    `json:"amount_due"`
	AmountPaid   float64    `json:"amount_paid"`
	Remaining    float64    `json:"remaining"`
	LateFee      float64    `json:"late_fee"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date"`
}

// lateFeeFor evaluates the fee type's optional late-fee expression against
// the line. Evaluation failures are logged and treated as zero; an invoice
// must never fail because of a bad formula.
func lateFeeFor(feeType *models.FeeType, fee *models.StudentFee, now time.Time) float64 {
	if feeType.LateFeeFormula == "" || fee.DueDate == nil || !fee.DueDate.Before(now) {
		return 0
	}
	if fee.Status == models.FeeStatusPaid {
		return 0
	}

	expression, err := govaluate.NewEvaluableExpression(feeType.LateFeeFormula)
	if err != nil {
		slog.Warn("Invalid late fee formula", "fee_type_id", feeType.ID, "error", err)
		return 0
	}

	daysOverdue := int(now.Sub(*fee.DueDate).Hours() / 24)
	parameters := map[string]interface{}{
		"amount":       fee.AmountDue,
		"days_overdue": float64(daysOverdue),
	}
	result, err := expression.Evaluate(parameters)
	if err != nil {
		slog.Warn("Late fee formula evaluation failed", "fee_type_id", feeType.ID, "error", err)
		return 0
	}
	value, ok := result.(float64)
	if !ok || value < 0 {
		return 0
	}
	return math.Round(value*100) / 100
}

// loadInvoiceLines fetches a student's fee lines for a session with their
// fee type and group preloaded. Statuses are re-derived against now, so a
// line whose due date passed since the last payment write surfaces as
// overdue without anything touching the row.
func loadInvoiceLines(studentID, sessionID uint, excludePaid bool, now time.Time) ([]InvoiceLine, []models.StudentFee, error) {
	var fees []models.StudentFee
	query := config.DB.Preload("FeeType.FeeGroup").
		Where("student_id = ? AND session_id = ?", studentID, sessionID)
	if excludePaid {
		query = query.Where("status <> ?", models.FeeStatusPaid)
	}
	if err := query.Order("id").Find(&fees).Error; err != nil {
		return nil, nil, err
	}

	lines := make([]InvoiceLine, 0, len(fees))
	for i := range fees {
		fee := &fees[i]
		fee.RecomputeStatus(now)
		lines = append(lines, InvoiceLine{
			FeeTypeID:    fee.FeeTypeID,
			FeeTypeName:  fee.FeeType.Name,
			FeeGroupName: fee.FeeType.FeeGroup.Name,
			AmountDue:    fee.AmountDue,
			AmountPaid:   fee.AmountPaid,
			Remaining:    fee.Remaining(),
			LateFee:      lateFeeFor(&fee.FeeType, fee, now),
			Status:       fee.Status,
			DueDate:      fee.DueDate,
		})
	}
	return lines, fees, nil
}

// GenerateInvoiceHandler produces a student's invoice for a session: every
// fee line with due/paid/remaining amounts, totals and the grand total in
// words. Pass exclude_paid=true to drop fully settled lines.
func GenerateInvoiceHandler(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	sessionID := queryUint(c, "session_id")
	if sessionID == 0 {
		respondValidation(c, map[string]string{"session_id": "required"})
		return
	}

	var student models.Student
	if err := config.DB.Preload("Class").Preload("Section").First(&student, studentID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Student not found")
		return
	}
	if !canViewStudentRecord(c, &student) {
		respondError(c, http.StatusForbidden, "Permission denied")
		return
	}

	now := time.Now()
	lines, _, err := loadInvoiceLines(studentID, sessionID, c.Query("exclude_paid") == "true", now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load fee lines: "+err.Error())
		return
	}

	var totalDue, totalPaid, totalRemaining, totalLateFee float64
	for _, line := range lines {
		totalDue += line.AmountDue
		totalPaid += line.AmountPaid
		totalRemaining += line.Remaining
		totalLateFee += line.LateFee
	}

	// Invoice numbers embed the issue month and the zero-padded student id.
	// Not globally unique across months for the same student, which is fine:
	// an invoice is a point-in-time statement, not a ledger entry.
	invoiceNo := fmt.Sprintf("INV-%s-%06d", now.Format("200601"), student.ID)

	className := ""
	if student.Class != nil {
		className = student.Class.Name
	}
	sectionName := ""
	if student.Section != nil {
		sectionName = student.Section.Name
	}

	respondOK(c, gin.H{
		"invoice_no":   invoiceNo,
		"generated_at": now,
		"student": gin.H{
			"id":           student.ID,
			"admission_no": student.AdmissionNo,
			"name":         student.Name,
			"class_name":   className,
			"section_name": sectionName,
		},
		"session_id":               sessionID,
		"lines":                    lines,
		"total_due":                totalDue,
		"total_paid":               totalPaid,
		"total_remaining":          totalRemaining,
		"total_late_fee":           totalLateFee,
		"total_remaining_in_words": amountInWords(totalRemaining),
	})
}

// amountInWords spells out a monetary amount for invoice printing.
func amountInWords(amount float64) string {
	whole := int(amount)
	cents := int(math.Round((amount - float64(whole)) * 100))
	words := num2words.Convert(whole)
	if cents > 0 {
		return fmt.Sprintf("%s and %02d/100", words, cents)
	}
	return words
}

// GenerateFeeSplitHandler groups a student's fee lines by fee-group name and
// buckets remaining amounts by status, alongside grand totals.
func GenerateFeeSplitHandler(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	sessionID := queryUint(c, "session_id")
	if sessionID == 0 {
		respondValidation(c, map[string]string{"session_id": "required"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, studentID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Student not found")
		return
	}
	if !canViewStudentRecord(c, &student) {
		respondError(c, http.StatusForbidden, "Permission denied")
		return
	}

	lines, _, err := loadInvoiceLines(studentID, sessionID, false, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load fee lines: "+err.Error())
		return
	}

	type groupSplit struct {
		FeeGroupName   string        `json:"fee_group_name"`
		Lines          []InvoiceLine `json:"lines"`
		TotalDue       float64       `json:"total_due"`
		TotalPaid      float64       `json:"total_paid"`
		TotalRemaining float64       `json:"total_remaining"`
	}

	groupIndex := map[string]int{}
	var groups []groupSplit
	statusBuckets := map[string]float64{
		models.FeeStatusPending: 0,
		models.FeeStatusPartial: 0,
		models.FeeStatusPaid:    0,
		models.FeeStatusOverdue: 0,
	}
	var totalDue, totalPaid, totalRemaining float64

	for _, line := range lines {
		idx, seen := groupIndex[line.FeeGroupName]
		if !seen {
			groups = append(groups, groupSplit{FeeGroupName: line.FeeGroupName})
			idx = len(groups) - 1
			groupIndex[line.FeeGroupName] = idx
		}
		groups[idx].Lines = append(groups[idx].Lines, line)
		groups[idx].TotalDue += line.AmountDue
		groups[idx].TotalPaid += line.AmountPaid
		groups[idx].TotalRemaining += line.Remaining

		statusBuckets[line.Status] += line.Remaining
		totalDue += line.AmountDue
		totalPaid += line.AmountPaid
		totalRemaining += line.Remaining
	}

	respondOK(c, gin.H{
		"student_id":      student.ID,
		"session_id":      sessionID,
		"groups":          groups,
		"by_status":       statusBuckets,
		"total_due":       totalDue,
		"total_paid":      totalPaid,
		"total_remaining": totalRemaining,
	})
}
