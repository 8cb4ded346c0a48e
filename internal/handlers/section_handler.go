// school-erp/internal/handlers/section_handler.go
package handlers

import (
	"errors"
	"net/http"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListSectionsHandler(c *gin.Context) {
	query := config.DB.Table("sections").
		Select(`
            sections.id,
            sections.name,
            sections.class_id,
            class_rooms.name AS class_name,
            sections.capacity,
            COUNT(DISTINCT students.id) AS student_count
        `).
		Joins("LEFT JOIN class_rooms ON class_rooms.id = sections.class_id").
		Joins("LEFT JOIN students ON students.section_id = sections.id AND students.deleted_at IS NULL").
		Where("sections.deleted_at IS NULL").
		Group("sections.id, class_rooms.name")

	if classID := queryUint(c, "class_id"); classID != 0 {
		query = query.Where("sections.class_id = ?", classID)
	}

	var sections []models.SectionResponse
	if err := query.Order("class_rooms.name, sections.name").Scan(&sections).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load sections")
		return
	}
	if sections == nil {
		sections = make([]models.SectionResponse, 0)
	}
	respondOK(c, sections)
}

func GetSectionHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var section models.Section
	if err := config.DB.Preload("Class").First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Section not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not load section: "+err.Error())
		return
	}
	respondOK(c, section)
}

func CreateSectionHandler(c *gin.Context) {
	var input models.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var class models.ClassRoom
	if err := config.DB.First(&class, input.ClassID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Class not found")
		return
	}

	var existing int64
	config.DB.Model(&models.Section{}).
		Where("name = ? AND class_id = ?", input.Name, input.ClassID).
		Count(&existing)
	if existing > 0 {
		respondError(c, http.StatusConflict, "A section with this name already exists in the class")
		return
	}

	section := models.Section{
		Name:     input.Name,
		ClassID:  input.ClassID,
		Capacity: input.Capacity,
	}
	if err := config.DB.Create(&section).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create section: "+err.Error())
		return
	}
	respondCreated(c, section, "Section created")
}

func UpdateSectionHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var section models.Section
	if err := config.DB.First(&section, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Section not found")
		return
	}

	var input models.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var dup int64
	config.DB.Model(&models.Section{}).
		Where("name = ? AND class_id = ? AND id <> ?", input.Name, input.ClassID, id).
		Count(&dup)
	if dup > 0 {
		respondError(c, http.StatusConflict, "A section with this name already exists in the class")
		return
	}

	section.Name = input.Name
	section.ClassID = input.ClassID
	section.Capacity = input.Capacity
	if err := config.DB.Save(&section).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update section: "+err.Error())
		return
	}
	respondOK(c, section)
}

func DeleteSectionHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var section models.Section
	if err := config.DB.First(&section, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Section not found")
		return
	}

	var studentCount int64
	config.DB.Model(&models.Student{}).Where("section_id = ?", id).Count(&studentCount)
	if studentCount > 0 {
		respondError(c, http.StatusConflict, "Cannot delete section: students are enrolled in it")
		return
	}

	if err := config.DB.Delete(&section).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete section: "+err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Section deleted")
}
