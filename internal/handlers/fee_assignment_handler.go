// school-erp/internal/handlers/fee_assignment_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
)

type AssignFeesRequest struct {
	ClassID    uint   `json:"class_id" binding:"required"`
	SessionID  uint   `json:"session_id" binding:"required"`
	FeeTypeIDs []uint `json:"fee_type_ids" binding:"required,min=1"`
	SectionID  uint   `json:"section_id"`
	DueDate    string `json:"due_date"`
	Notes      string `json:"notes"`
}

// AssignFeesHandler creates StudentFee rows for the cross product of the
// class's students and the matched fee-master price rows. Pairs already
// assigned for (student, fee_type, session) are skipped and reported; the
// whole batch commits or rolls back as one transaction.
func AssignFeesHandler(c *gin.Context) {
	var req AssignFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var class models.ClassRoom
	if err := config.DB.First(&class, req.ClassID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Class not found")
		return
	}
	var session models.Session
	if err := config.DB.First(&session, req.SessionID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Session not found")
		return
	}
	var typeCount int64
	config.DB.Model(&models.FeeType{}).Where("id IN ?", req.FeeTypeIDs).Count(&typeCount)
	if typeCount != int64(len(req.FeeTypeIDs)) {
		respondError(c, http.StatusNotFound, "One or more fee types not found")
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			respondValidation(c, map[string]string{"due_date": "must be YYYY-MM-DD"})
			return
		}
		// compare calendar dates: the parsed due date is midnight UTC, so
		// build today the same way instead of truncating absolute time
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if due.Before(today) {
			respondValidation(c, map[string]string{"due_date": "must be today or later"})
			return
		}
		dueDate = &due
	}

	studentQuery := config.DB.Where("class_id = ? AND session_id = ?", req.ClassID, req.SessionID)
	if req.SectionID != 0 {
		studentQuery = studentQuery.Where("section_id = ?", req.SectionID)
	}
	var students []models.Student
	if err := studentQuery.Find(&students).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load students: "+err.Error())
		return
	}
	if len(students) == 0 {
		respondError(c, http.StatusUnprocessableEntity, "No students found for the given class and section")
		return
	}

	var masters []models.FeeMaster
	err := config.DB.Preload("FeeType").
		Where("fee_type_id IN ? AND class_id = ? AND session_id = ?", req.FeeTypeIDs, req.ClassID, req.SessionID).
		Find(&masters).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load fee master entries: "+err.Error())
		return
	}
	if len(masters) == 0 {
		respondError(c, http.StatusUnprocessableEntity, "No fee master entries found for the selected fee types in this class and session")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, "Could not start transaction")
		return
	}

	created := 0
	var messages []string
	for _, student := range students {
		for _, master := range masters {
			var existing int64
			if err := tx.Model(&models.StudentFee{}).
				Where("student_id = ? AND fee_type_id = ? AND session_id = ?",
					student.ID, master.FeeTypeID, req.SessionID).
				Count(&existing).Error; err != nil {
				tx.Rollback()
				respondError(c, http.StatusInternalServerError, "Assignment failed: "+err.Error())
				return
			}
			if existing > 0 {
				messages = append(messages, fmt.Sprintf(
					"skipped: %s already has %s assigned", student.Name, master.FeeType.Name))
				continue
			}

			fee := models.StudentFee{
				StudentID: student.ID,
				FeeTypeID: master.FeeTypeID,
				SessionID: req.SessionID,
				AmountDue: master.Amount,
				Status:    models.FeeStatusPending,
				DueDate:   dueDate,
				Notes:     req.Notes,
			}
			if err := tx.Create(&fee).Error; err != nil {
				tx.Rollback()
				respondError(c, http.StatusInternalServerError, "Assignment failed: "+err.Error())
				return
			}
			created++
		}
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not commit transaction")
		return
	}

	slog.Info("Fees assigned",
		"class_id", req.ClassID, "session_id", req.SessionID,
		"created", created, "skipped", len(messages))
	respondOK(c, gin.H{
		"created":  created,
		"skipped":  len(messages),
		"messages": messages,
	})
}
