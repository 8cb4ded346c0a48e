// school-erp/internal/handlers/student_import.go
package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// importHeader is the exact required CSV header, in order.
var importHeader = []string{
	"admission_no", "name", "email", "phone", "dob", "gender", "address",
	"class_name", "section_name",
}

type importRow struct {
	AdmissionNo string
	Name        string
	Email       string
	Phone       string
	DOB         string
	Gender      string
	Address     string
	ClassName   string
	SectionName string
}

// ImportStudentsHandler ingests a CSV upload and creates one user account
// plus one student row per line, bound to the currently active session.
// The whole batch runs in one transaction with a savepoint per row: a bad
// row is rolled back to its savepoint and reported, good rows commit
// together at the end.
func ImportStudentsHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No CSV file provided")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not open upload: "+err.Error())
		return
	}
	defer src.Close()

	reader := csv.NewReader(src)
	header, err := reader.Read()
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "CSV file is empty or unreadable")
		return
	}
	if err := validateImportHeader(header); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	session, err := models.ActiveSession(config.DB)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "No active session to import into")
		return
	}

	batchID := uuid.New().String()
	created := 0
	var rowErrors []string

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		line := 1
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			line++
			if err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
				continue
			}

			row := importRow{
				AdmissionNo: strings.TrimSpace(record[0]),
				Name:        strings.TrimSpace(record[1]),
				Email:       strings.TrimSpace(record[2]),
				Phone:       strings.TrimSpace(record[3]),
				DOB:         strings.TrimSpace(record[4]),
				Gender:      strings.TrimSpace(record[5]),
				Address:     strings.TrimSpace(record[6]),
				ClassName:   strings.TrimSpace(record[7]),
				SectionName: strings.TrimSpace(record[8]),
			}

			sp := fmt.Sprintf("sp_row_%d", line)
			tx.SavePoint(sp)
			if err := importOneStudent(tx, session, row); err != nil {
				tx.RollbackTo(sp)
				rowErrors = append(rowErrors, fmt.Sprintf("row %d (%s): %v", line, row.AdmissionNo, err))
				continue
			}
			created++
		}
		return nil
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Import failed: "+err.Error())
		return
	}

	slog.Info("Student import finished",
		"batch_id", batchID, "created", created, "failed", len(rowErrors))
	respondOK(c, gin.H{
		"batch_id": batchID,
		"created":  created,
		"failed":   len(rowErrors),
		"errors":   rowErrors,
	})
}

func validateImportHeader(header []string) error {
	if len(header) != len(importHeader) {
		return fmt.Errorf("expected %d columns, got %d", len(importHeader), len(header))
	}
	for i, want := range importHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("column %d must be %q", i+1, want)
		}
	}
	return nil
}

func importOneStudent(tx *gorm.DB, session *models.Session, row importRow) error {
	if row.AdmissionNo == "" || row.Name == "" || row.Email == "" {
		return fmt.Errorf("admission_no, name and email are required")
	}
	switch row.Gender {
	case "male", "female", "other", "":
	default:
		return fmt.Errorf("invalid gender %q", row.Gender)
	}

	var class models.ClassRoom
	if err := tx.Where("name = ? AND session_id = ?", row.ClassName, session.ID).First(&class).Error; err != nil {
		return fmt.Errorf("class %q not found in active session", row.ClassName)
	}
	var section models.Section
	if err := tx.Where("name = ? AND class_id = ?", row.SectionName, class.ID).First(&section).Error; err != nil {
		return fmt.Errorf("section %q not found in class %q", row.SectionName, row.ClassName)
	}

	var dup int64
	tx.Model(&models.Student{}).
		Where("(admission_no = ? AND session_id = ?) OR email = ?", row.AdmissionNo, session.ID, row.Email).
		Count(&dup)
	if dup > 0 {
		return fmt.Errorf("duplicate admission number or email")
	}

	student := models.Student{
		AdmissionNo: row.AdmissionNo,
		Name:        row.Name,
		Email:       row.Email,
		Phone:       row.Phone,
		Gender:      row.Gender,
		Address:     row.Address,
		ClassID:     class.ID,
		SectionID:   section.ID,
		SessionID:   session.ID,
	}
	if row.DOB != "" {
		dob, err := time.Parse(dateLayout, row.DOB)
		if err != nil {
			return fmt.Errorf("dob must be YYYY-MM-DD")
		}
		student.DOB = &dob
	}

	user, err := createStudentUser(tx, row.Name, row.Email, row.AdmissionNo)
	if err != nil {
		return err
	}
	student.UserID = &user.ID
	return tx.Create(&student).Error
}
