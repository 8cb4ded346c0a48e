// school-erp/internal/handlers/fee_group_handler.go
package handlers

import (
	"errors"
	"net/http"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListFeeGroupsHandler(c *gin.Context) {
	query := config.DB.Preload("FeeTypes")
	if sessionID := queryUint(c, "session_id"); sessionID != 0 {
		query = query.Where("session_id = ?", sessionID)
	}

	var groups []models.FeeGroup
	if err := query.Order("name").Find(&groups).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load fee groups")
		return
	}
	respondOK(c, groups)
}

func GetFeeGroupHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var group models.FeeGroup
	if err := config.DB.Preload("FeeTypes").First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Fee group not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not load fee group: "+err.Error())
		return
	}
	respondOK(c, group)
}

func CreateFeeGroupHandler(c *gin.Context) {
	var input models.FeeGroupInput
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
	config.DB.Model(&models.FeeGroup{}).
		Where("name = ? AND session_id = ?", input.Name, input.SessionID).
		Count(&existing)
	if existing > 0 {
		respondError(c, http.StatusConflict, "A fee group with this name already exists in the session")
		return
	}

	group := models.FeeGroup{
		Name:        input.Name,
		Description: input.Description,
		SessionID:   input.SessionID,
	}
	if err := config.DB.Create(&group).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create fee group: "+err.Error())
		return
	}
	respondCreated(c, group, "Fee group created")
}

func UpdateFeeGroupHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var group models.FeeGroup
	if err := config.DB.First(&group, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Fee group not found")
		return
	}

	var input models.FeeGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var dup int64
	config.DB.Model(&models.FeeGroup{}).
		Where("name = ? AND session_id = ? AND id <> ?", input.Name, input.SessionID, id).
		Count(&dup)
	if dup > 0 {
		respondError(c, http.StatusConflict, "A fee group with this name already exists in the session")
		return
	}

	group.Name = input.Name
	group.Description = input.Description
	group.SessionID = input.SessionID
	if err := config.DB.Save(&group).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update fee group: "+err.Error())
		return
	}
	respondOK(c, group)
}

// DeleteFeeGroupHandler removes a fee group unless it still owns fee types.
func DeleteFeeGroupHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var group models.FeeGroup
	if err := config.DB.First(&group, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Fee group not found")
		return
	}

	var typeCount int64
	config.DB.Model(&models.FeeType{}).Where("fee_group_id = ?", id).Count(&typeCount)
	if typeCount > 0 {
		respondError(c, http.StatusConflict, "Cannot delete fee group: fee types still belong to it")
		return
	}

	if err := config.DB.Delete(&group).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete fee group: "+err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Fee group deleted")
}
