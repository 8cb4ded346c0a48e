// school-erp/internal/handlers/fee_collection_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CollectPaymentRequest struct {
	StudentID   uint    `json:"student_id" binding:"required"`
	FeeTypeID   uint    `json:"fee_type_id" binding:"required"`
	SessionID   uint    `json:"session_id" binding:"required"`
	AmountPaid  float64 `json:"amount_paid" binding:"required,gt=0"`
	PaymentDate string  `json:"payment_date" binding:"required"`
	PaymentMode string  `json:"payment_mode" binding:"required"`
	Notes       string  `json:"notes"`
	ReferenceNo string  `json:"reference_no"`
}

// CollectPaymentHandler records one payment against a student's assigned
// fee: inserts the immutable ledger entry with a fresh receipt number, bumps
// amount_paid and recomputes the status, all in one transaction.
func CollectPaymentHandler(c *gin.Context) {
	var req CollectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if !models.ValidPaymentMode(req.PaymentMode) {
		respondValidation(c, map[string]string{"payment_mode": "must be cash, online, cheque or bank_transfer"})
		return
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		respondValidation(c, map[string]string{"payment_date": "must be YYYY-MM-DD"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, "Could not start transaction")
		return
	}

	var fee models.StudentFee
	err = tx.Where("student_id = ? AND fee_type_id = ? AND session_id = ?",
		req.StudentID, req.FeeTypeID, req.SessionID).First(&fee).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Fee not assigned to this student")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not look up student fee: "+err.Error())
		return
	}

	remaining := fee.Remaining()
	if req.AmountPaid > remaining {
		tx.Rollback()
		respondError(c, http.StatusUnprocessableEntity, "Payment exceeds the remaining balance")
		return
	}

	receiptNo, err := models.NextReceiptNo(tx, time.Now())
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, "Could not generate receipt number: "+err.Error())
		return
	}

	txn := models.FeeTransaction{
		StudentID:    req.StudentID,
		FeeTypeID:    req.FeeTypeID,
		SessionID:    req.SessionID,
		StudentFeeID: fee.ID,
		AmountPaid:   req.AmountPaid,
		PaymentDate:  paymentDate,
		PaymentMode:  req.PaymentMode,
		ReceiptNo:    receiptNo,
		CollectedBy:  currentUserID(c),
		Notes:        req.Notes,
		ReferenceNo:  req.ReferenceNo,
	}
	if err := tx.Create(&txn).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, "Could not record payment: "+err.Error())
		return
	}

	fee.AmountPaid += req.AmountPaid
	fee.RecomputeStatus(time.Now())
	if err := tx.Model(&fee).Updates(map[string]interface{}{
		"amount_paid": fee.AmountPaid,
		"status":      fee.Status,
	}).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, "Could not update student fee: "+err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not commit transaction")
		return
	}

	slog.Info("Payment collected",
		"receipt_no", receiptNo, "student_id", req.StudentID,
		"fee_type_id", req.FeeTypeID, "amount", req.AmountPaid)

	BroadcastFeeCollected(&txn)

	respondCreated(c, gin.H{
		"receipt_no":  receiptNo,
		"transaction": txn,
		"student_fee": fee,
	}, "Payment recorded")
}

type FeeTransactionRow struct {
	ID          uint      `json:"id"`
	ReceiptNo   string    `json:"receipt_no"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	FeeTypeName string    `json:"fee_type_name"`
	AmountPaid  float64   `json:"amount_paid"`
	PaymentDate time.Time `json:"payment_date"`
	PaymentMode string    `json:"payment_mode"`
	CollectedBy string    `json:"collected_by"`
	ReferenceNo string    `json:"reference_no"`
}

// ListFeeTransactionsHandler returns the payment ledger, filterable by
// student, session and payment-date range.
func ListFeeTransactionsHandler(c *gin.Context) {
	query := config.DB.Table("fee_transactions ft").
		Select(`
            ft.id,
            ft.receipt_no,
            ft.student_id,
            s.name AS student_name,
            fts.name AS fee_type_name,
            ft.amount_paid,
            ft.payment_date,
            ft.payment_mode,
            COALESCE(u.name, '') AS collected_by,
            ft.reference_no
        `).
		Joins("LEFT JOIN students s ON ft.student_id = s.id").
		Joins("LEFT JOIN fee_types fts ON ft.fee_type_id = fts.id").
		Joins("LEFT JOIN users u ON ft.collected_by = u.id").
		Where("ft.deleted_at IS NULL")

	if studentID := queryUint(c, "student_id"); studentID != 0 {
		query = query.Where("ft.student_id = ?", studentID)
	}
	if sessionID := queryUint(c, "session_id"); sessionID != 0 {
		query = query.Where("ft.session_id = ?", sessionID)
	}
	if from := c.Query("from"); from != "" {
		fromDate, err := parseDate(from)
		if err != nil {
			respondValidation(c, map[string]string{"from": "must be YYYY-MM-DD"})
			return
		}
		query = query.Where("ft.payment_date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := parseDate(to)
		if err != nil {
			respondValidation(c, map[string]string{"to": "must be YYYY-MM-DD"})
			return
		}
		query = query.Where("ft.payment_date < ?", toDate.AddDate(0, 0, 1))
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not count transactions")
		return
	}

	var rows []FeeTransactionRow
	if err := query.Scopes(Paginate(c)).Order("ft.payment_date DESC, ft.receipt_no DESC").Scan(&rows).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load transactions")
		return
	}
	if rows == nil {
		rows = make([]FeeTransactionRow, 0)
	}
	respondPaginated(c, rows, totalRows)
}

// ListStudentFeesHandler returns a student's assigned fee lines for a session.
// Statuses are re-derived at read time so aged due dates show as overdue.
func ListStudentFeesHandler(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
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

	query := config.DB.Preload("FeeType.FeeGroup").Where("student_id = ?", studentID)
	if sessionID := queryUint(c, "session_id"); sessionID != 0 {
		query = query.Where("session_id = ?", sessionID)
	}

	var fees []models.StudentFee
	if err := query.Order("id").Find(&fees).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load student fees")
		return
	}
	now := time.Now()
	for i := range fees {
		fees[i].RecomputeStatus(now)
	}
	respondOK(c, fees)
}
