// school-erp/internal/handlers/fee_type_handler.go
package handlers

import (
	"errors"
	"net/http"

	"school-erp/config"
	"school-erp/models"

	"github.com/Knetic/govaluate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListFeeTypesHandler(c *gin.Context) {
	query := config.DB.Preload("FeeGroup")
	if sessionID := queryUint(c, "session_id"); sessionID != 0 {
		query = query.Where("session_id = ?", sessionID)
	}
	if groupID := queryUint(c, "fee_group_id"); groupID != 0 {
		query = query.Where("fee_group_id = ?", groupID)
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var feeTypes []models.FeeType
	if err := query.Order("name").Find(&feeTypes).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load fee types")
		return
	}
	respondOK(c, feeTypes)
}

func GetFeeTypeHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var feeType models.FeeType
	if err := config.DB.Preload("FeeGroup").First(&feeType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Fee type not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not load fee type: "+err.Error())
		return
	}
	respondOK(c, feeType)
}

// buildFeeType validates the input shared between create and update and
// maps it onto the model.
func buildFeeType(input *models.FeeTypeInput, feeType *models.FeeType) map[string]string {
	fieldErrors := map[string]string{}

	var group models.FeeGroup
	if err := config.DB.First(&group, input.FeeGroupID).Error; err != nil {
		fieldErrors["fee_group_id"] = "fee group not found"
	} else if group.SessionID != input.SessionID {
		fieldErrors["fee_group_id"] = "fee group does not belong to the given session"
	}

	if input.Frequency != "" && !models.ValidFrequency(input.Frequency) {
		fieldErrors["frequency"] = "must be one_time, monthly, quarterly or yearly"
	}

	if input.LateFeeFormula != "" {
		if _, err := govaluate.NewEvaluableExpression(input.LateFeeFormula); err != nil {
			fieldErrors["late_fee_formula"] = "invalid expression: " + err.Error()
		}
	}

	feeType.Name = input.Name
	feeType.FeeGroupID = input.FeeGroupID
	feeType.SessionID = input.SessionID
	feeType.Amount = input.Amount
	if input.Frequency != "" {
		feeType.Frequency = input.Frequency
	}
	feeType.IsActive = input.IsActive
	feeType.LateFeeFormula = input.LateFeeFormula

	if input.DueDate != "" {
		due, err := parseDate(input.DueDate)
		if err != nil {
			fieldErrors["due_date"] = "must be YYYY-MM-DD"
		} else {
			feeType.DueDate = &due
		}
	}

	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

func CreateFeeTypeHandler(c *gin.Context) {
	var input models.FeeTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var feeType models.FeeType
	if fieldErrors := buildFeeType(&input, &feeType); fieldErrors != nil {
		respondValidation(c, fieldErrors)
		return
	}

	if err := config.DB.Create(&feeType).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create fee type: "+err.Error())
		return
	}
	respondCreated(c, feeType, "Fee type created")
}

func UpdateFeeTypeHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var feeType models.FeeType
	if err := config.DB.First(&feeType, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Fee type not found")
		return
	}

	var input models.FeeTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if fieldErrors := buildFeeType(&input, &feeType); fieldErrors != nil {
		respondValidation(c, fieldErrors)
		return
	}

	if err := config.DB.Save(&feeType).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update fee type: "+err.Error())
		return
	}
	respondOK(c, feeType)
}

// DeleteFeeTypeHandler removes a fee type unless any student fee or
// transaction references it.
func DeleteFeeTypeHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var feeType models.FeeType
	if err := config.DB.First(&feeType, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Fee type not found")
		return
	}

	var feeCount int64
	config.DB.Model(&models.StudentFee{}).Where("fee_type_id = ?", id).Count(&feeCount)
	if feeCount > 0 {
		respondError(c, http.StatusConflict, "Cannot delete fee type: student fees reference it")
		return
	}
	var txnCount int64
	config.DB.Model(&models.FeeTransaction{}).Where("fee_type_id = ?", id).Count(&txnCount)
	if txnCount > 0 {
		respondError(c, http.StatusConflict, "Cannot delete fee type: transactions reference it")
		return
	}

	if err := config.DB.Delete(&feeType).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete fee type: "+err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Fee type deleted")
}
