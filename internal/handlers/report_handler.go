// school-erp/internal/handlers/report_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportStudentsHandler streams the filtered student list as an .xlsx file.
func ExportStudentsHandler(c *gin.Context) {
	query := config.DB.Table("students").
		Select(`
            students.id,
            students.admission_no,
            students.name,
            students.email,
            students.phone,
            students.gender,
            COALESCE(class_rooms.name, '') AS class_name,
            COALESCE(sections.name, '') AS section_name,
            students.session_id
        `).
		Joins("LEFT JOIN class_rooms ON students.class_id = class_rooms.id").
		Joins("LEFT JOIN sections ON students.section_id = sections.id").
		Where("students.deleted_at IS NULL")

	if sessionID := queryUint(c, "session_id"); sessionID != 0 {
		query = query.Where("students.session_id = ?", sessionID)
	}
	if classID := queryUint(c, "class_id"); classID != 0 {
		query = query.Where("students.class_id = ?", classID)
	}

	var students []models.StudentListRow
	if err := query.Order("students.name").Scan(&students).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load students for export")
		return
	}

	f := excelize.NewFile()
	sheetName := "Students"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Admission No", "Name", "Email", "Phone", "Gender", "Class", "Section"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for i, s := range students {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.AdmissionNo)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), s.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), s.Gender)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), s.ClassName)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), s.SectionName)
	}

	fileName := fmt.Sprintf("students_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to write Excel file")
	}
}

type collectionReportRow struct {
	ReceiptNo   string    `json:"receipt_no"`
	StudentName string    `json:"student_name"`
	AdmissionNo string    `json:"admission_no"`
	FeeTypeName string    `json:"fee_type_name"`
	AmountPaid  float64   `json:"amount_paid"`
	PaymentDate time.Time `json:"payment_date"`
	PaymentMode string    `json:"payment_mode"`
	CollectedBy string    `json:"collected_by"`
}

// ExportCollectionsHandler streams the fee-transaction ledger as .xlsx,
// filtered by session and an optional payment-date range.
func ExportCollectionsHandler(c *gin.Context) {
	query := config.DB.Table("fee_transactions ft").
		Select(`
            ft.receipt_no,
            s.name AS student_name,
            s.admission_no,
            fts.name AS fee_type_name,
            ft.amount_paid,
            ft.payment_date,
            ft.payment_mode,
            COALESCE(u.name, '') AS collected_by
        `).
		Joins("LEFT JOIN students s ON ft.student_id = s.id").
		Joins("LEFT JOIN fee_types fts ON ft.fee_type_id = fts.id").
		Joins("LEFT JOIN users u ON ft.collected_by = u.id").
		Where("ft.deleted_at IS NULL")

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

	var rows []collectionReportRow
	if err := query.Order("ft.payment_date, ft.receipt_no").Scan(&rows).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load collections for export")
		return
	}

	f := excelize.NewFile()
	sheetName := "Collections"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Receipt No", "Student", "Admission No", "Fee Type", "Amount", "Payment Date", "Mode", "Collected By"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	var total float64
	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ReceiptNo)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.StudentName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.AdmissionNo)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.FeeTypeName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.AmountPaid)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.PaymentDate.Format(dateLayout))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.PaymentMode)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.CollectedBy)
		total += r.AmountPaid
	}
	totalRow := len(rows) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", totalRow), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", totalRow), total)

	fileName := fmt.Sprintf("collections_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to write Excel file")
	}
}
