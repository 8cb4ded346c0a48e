// school-erp/internal/handlers/session_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SessionInput struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func ListSessionsHandler(c *gin.Context) {
	var sessions []models.Session
	if err := config.DB.Order("start_date DESC").Find(&sessions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load sessions")
		return
	}
	respondOK(c, sessions)
}

func GetSessionHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var session models.Session
	if err := config.DB.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Session not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not load session: "+err.Error())
		return
	}
	respondOK(c, session)
}

func CreateSessionHandler(c *gin.Context) {
	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	start, err := parseDate(input.StartDate)
	if err != nil {
		respondValidation(c, map[string]string{"start_date": "must be YYYY-MM-DD"})
		return
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		respondValidation(c, map[string]string{"end_date": "must be YYYY-MM-DD"})
		return
	}
	if !end.After(start) {
		respondValidation(c, map[string]string{"end_date": "must be after start_date"})
		return
	}

	var existing int64
	config.DB.Model(&models.Session{}).Where("name = ?", input.Name).Count(&existing)
	if existing > 0 {
		respondError(c, http.StatusConflict, "A session with this name already exists")
		return
	}

	session := models.Session{
		Name:      input.Name,
		StartDate: start,
		EndDate:   end,
		Status:    models.SessionInactive,
	}
	if err := config.DB.Create(&session).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create session: "+err.Error())
		return
	}
	respondCreated(c, session, "Session created")
}

func UpdateSessionHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var session models.Session
	if err := config.DB.First(&session, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Session not found")
		return
	}

	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	start, err := parseDate(input.StartDate)
	if err != nil {
		respondValidation(c, map[string]string{"start_date": "must be YYYY-MM-DD"})
		return
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		respondValidation(c, map[string]string{"end_date": "must be YYYY-MM-DD"})
		return
	}

	session.Name = input.Name
	session.StartDate = start
	session.EndDate = end
	if err := config.DB.Save(&session).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update session: "+err.Error())
		return
	}
	respondOK(c, session)
}

// ActivateSessionHandler switches the active session: the target becomes
// active and every other session is flipped inactive in the same transaction.
func ActivateSessionHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var session models.Session
	if err := config.DB.First(&session, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Session not found")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).
			Where("id <> ?", session.ID).
			Update("status", models.SessionInactive).Error; err != nil {
			return err
		}
		return tx.Model(&session).Update("status", models.SessionActive).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not activate session: "+err.Error())
		return
	}

	slog.Info("Active session switched", "session_id", session.ID, "name", session.Name)
	respondMessage(c, http.StatusOK, "Session activated")
}

// DeleteSessionHandler removes a session unless any class, student or fee
// record still references it.
func DeleteSessionHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var session models.Session
	if err := config.DB.First(&session, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Session not found")
		return
	}
	if session.Status == models.SessionActive {
		respondError(c, http.StatusUnprocessableEntity, "Cannot delete the active session")
		return
	}

	refs := map[string]interface{}{
		"classes":  &models.ClassRoom{},
		"students": &models.Student{},
		"fees":     &models.StudentFee{},
	}
	for name, model := range refs {
		var count int64
		config.DB.Model(model).Where("session_id = ?", id).Count(&count)
		if count > 0 {
			respondError(c, http.StatusConflict, "Cannot delete session: "+name+" still reference it")
			return
		}
	}

	if err := config.DB.Delete(&session).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete session: "+err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Session deleted")
}
