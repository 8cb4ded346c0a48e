// school-erp/internal/handlers/class_handler.go
package handlers

import (
	"errors"
	"net/http"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListClassesHandler(c *gin.Context) {
	query := config.DB.Table("class_rooms").
		Select(`
            class_rooms.id,
            class_rooms.name,
            class_rooms.numeric_value,
            class_rooms.session_id,
            COUNT(DISTINCT students.id) AS student_count,
            COUNT(DISTINCT sections.id) AS section_count
        `).
		Joins("LEFT JOIN students ON students.class_id = class_rooms.id AND students.deleted_at IS NULL").
		Joins("LEFT JOIN sections ON sections.class_id = class_rooms.id AND sections.deleted_at IS NULL").
		Where("class_rooms.deleted_at IS NULL").
		Group("class_rooms.id")

	if sessionID := queryUint(c, "session_id"); sessionID != 0 {
		query = query.Where("class_rooms.session_id = ?", sessionID)
	}

	var classes []models.ClassRoomResponse
	if err := query.Order("class_rooms.numeric_value, class_rooms.name").Scan(&classes).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load classes")
		return
	}
	if classes == nil {
		classes = make([]models.ClassRoomResponse, 0)
	}
	respondOK(c, classes)
}

func GetClassHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var class models.ClassRoom
	if err := config.DB.Preload("Session").First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Class not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not load class: "+err.Error())
		return
	}
	respondOK(c, class)
}

func CreateClassHandler(c *gin.Context) {
	var input models.ClassRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var session models.Session
	if err := config.DB.First(&session, input.SessionID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Session not found")
		return
	}

	var existing int64
	config.DB.Model(&models.ClassRoom{}).
		Where("name = ? AND session_id = ?", input.Name, input.SessionID).
		Count(&existing)
	if existing > 0 {
		respondError(c, http.StatusConflict, "A class with this name already exists in the session")
		return
	}

	class := models.ClassRoom{
		Name:         input.Name,
		NumericValue: input.NumericValue,
		SessionID:    input.SessionID,
	}
	if err := config.DB.Create(&class).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create class: "+err.Error())
		return
	}
	respondCreated(c, class, "Class created")
}

func UpdateClassHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var class models.ClassRoom
	if err := config.DB.First(&class, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Class not found")
		return
	}

	var input models.ClassRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var dup int64
	config.DB.Model(&models.ClassRoom{}).
		Where("name = ? AND session_id = ? AND id <> ?", input.Name, input.SessionID, id).
		Count(&dup)
	if dup > 0 {
		respondError(c, http.StatusConflict, "A class with this name already exists in the session")
		return
	}

	class.Name = input.Name
	class.NumericValue = input.NumericValue
	class.SessionID = input.SessionID
	if err := config.DB.Save(&class).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update class: "+err.Error())
		return
	}
	respondOK(c, class)
}

// DeleteClassHandler removes a class unless students or sections still
// reference it.
func DeleteClassHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var class models.ClassRoom
	if err := config.DB.First(&class, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Class not found")
		return
	}

	var studentCount int64
	config.DB.Model(&models.Student{}).Where("class_id = ?", id).Count(&studentCount)
	if studentCount > 0 {
		respondError(c, http.StatusConflict, "Cannot delete class: students are enrolled in it")
		return
	}
	var sectionCount int64
	config.DB.Model(&models.Section{}).Where("class_id = ?", id).Count(&sectionCount)
	if sectionCount > 0 {
		respondError(c, http.StatusConflict, "Cannot delete class: sections still belong to it")
		return
	}

	if err := config.DB.Delete(&class).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete class: "+err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Class deleted")
}
