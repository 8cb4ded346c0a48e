// school-erp/internal/handlers/fee_master_handler.go
package handlers

import (
	"errors"
	"net/http"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListFeeMastersHandler(c *gin.Context) {
	query := config.DB.Preload("FeeGroup").Preload("FeeType").Preload("Class")
	if sessionID := queryUint(c, "session_id"); sessionID != 0 {
		query = query.Where("session_id = ?", sessionID)
	}
	if classID := queryUint(c, "class_id"); classID != 0 {
		query = query.Where("class_id = ?", classID)
	}
	if feeTypeID := queryUint(c, "fee_type_id"); feeTypeID != 0 {
		query = query.Where("fee_type_id = ?", feeTypeID)
	}

	var masters []models.FeeMaster
	if err := query.Order("id").Find(&masters).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load fee master entries")
		return
	}
	respondOK(c, masters)
}

func GetFeeMasterHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var master models.FeeMaster
	err := config.DB.Preload("FeeGroup").Preload("FeeType").Preload("Class").First(&master, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Fee master entry not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not load fee master entry: "+err.Error())
		return
	}
	respondOK(c, master)
}

// validateFeeMasterInput checks the referential rules: the fee type must
// belong to the given fee group, and group, type and class must all belong
// to the given session.
func validateFeeMasterInput(input *models.FeeMasterInput) map[string]string {
	fieldErrors := map[string]string{}

	var feeType models.FeeType
	if err := config.DB.First(&feeType, input.FeeTypeID).Error; err != nil {
		fieldErrors["fee_type_id"] = "fee type not found"
	} else {
		if feeType.FeeGroupID != input.FeeGroupID {
			fieldErrors["fee_type_id"] = "fee type does not belong to the given fee group"
		}
		if feeType.SessionID != input.SessionID {
			fieldErrors["session_id"] = "fee type does not belong to the given session"
		}
	}

	var group models.FeeGroup
	if err := config.DB.First(&group, input.FeeGroupID).Error; err != nil {
		fieldErrors["fee_group_id"] = "fee group not found"
	} else if group.SessionID != input.SessionID {
		fieldErrors["fee_group_id"] = "fee group does not belong to the given session"
	}

	var class models.ClassRoom
	if err := config.DB.First(&class, input.ClassID).Error; err != nil {
		fieldErrors["class_id"] = "class not found"
	} else if class.SessionID != input.SessionID {
		fieldErrors["class_id"] = "class does not belong to the given session"
	}

	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

func CreateFeeMasterHandler(c *gin.Context) {
	var input models.FeeMasterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if fieldErrors := validateFeeMasterInput(&input); fieldErrors != nil {
		respondValidation(c, fieldErrors)
		return
	}

	var existing int64
	config.DB.Model(&models.FeeMaster{}).
		Where("fee_type_id = ? AND class_id = ? AND session_id = ?",
			input.FeeTypeID, input.ClassID, input.SessionID).
		Count(&existing)
	if existing > 0 {
		respondError(c, http.StatusConflict, "A fee master entry already exists for this fee type, class and session")
		return
	}

	master := models.FeeMaster{
		FeeGroupID: input.FeeGroupID,
		FeeTypeID:  input.FeeTypeID,
		ClassID:    input.ClassID,
		SessionID:  input.SessionID,
		Amount:     input.Amount,
	}
	if err := config.DB.Create(&master).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create fee master entry: "+err.Error())
		return
	}
	respondCreated(c, master, "Fee master entry created")
}

func UpdateFeeMasterHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var master models.FeeMaster
	if err := config.DB.First(&master, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Fee master entry not found")
		return
	}

	var input models.FeeMasterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if fieldErrors := validateFeeMasterInput(&input); fieldErrors != nil {
		respondValidation(c, fieldErrors)
		return
	}

	var dup int64
	config.DB.Model(&models.FeeMaster{}).
		Where("fee_type_id = ? AND class_id = ? AND session_id = ? AND id <> ?",
			input.FeeTypeID, input.ClassID, input.SessionID, id).
		Count(&dup)
	if dup > 0 {
		respondError(c, http.StatusConflict, "A fee master entry already exists for this fee type, class and session")
		return
	}

	master.FeeGroupID = input.FeeGroupID
	master.FeeTypeID = input.FeeTypeID
	master.ClassID = input.ClassID
	master.SessionID = input.SessionID
	master.Amount = input.Amount
	if err := config.DB.Save(&master).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update fee master entry: "+err.Error())
		return
	}
	respondOK(c, master)
}

// DeleteFeeMasterHandler removes a price-list row unless student fees were
// already derived from it for that class and session.
func DeleteFeeMasterHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var master models.FeeMaster
	if err := config.DB.First(&master, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Fee master entry not found")
		return
	}

	var derived int64
	config.DB.Model(&models.StudentFee{}).
		Joins("JOIN students ON students.id = student_fees.student_id").
		Where("student_fees.fee_type_id = ? AND student_fees.session_id = ? AND students.class_id = ?",
			master.FeeTypeID, master.SessionID, master.ClassID).
		Count(&derived)
	if derived > 0 {
		respondError(c, http.StatusConflict, "Cannot delete fee master entry: student fees were already assigned from it")
		return
	}

	if err := config.DB.Delete(&master).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete fee master entry: "+err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Fee master entry deleted")
}
