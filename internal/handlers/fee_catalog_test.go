package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"school-erp/config"
	"school-erp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFeeGroupBlockedByFeeTypes(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/fee-groups/%d", fx.FeeGroup.ID), token, nil)
	requireStatus(t, w, http.StatusConflict)

	// removing the fee type and its price row unblocks the delete
	require.NoError(t, config.DB.Delete(&fx.Master).Error)
	require.NoError(t, config.DB.Delete(&fx.FeeType).Error)
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/fee-groups/%d", fx.FeeGroup.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestDeleteFeeTypeBlockedByStudentFees(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fees/assign", token, map[string]interface{}{
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"fee_type_ids": []uint{fx.FeeType.ID},
	})
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/fee-types/%d", fx.FeeType.ID), token, nil)
	requireStatus(t, w, http.StatusConflict)
}

func TestDeleteFeeMasterBlockedByDerivedStudentFees(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fees/assign", token, map[string]interface{}{
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"fee_type_ids": []uint{fx.FeeType.ID},
	})
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/fee-master/%d", fx.Master.ID), token, nil)
	requireStatus(t, w, http.StatusConflict)
}

func TestDeleteFeeMasterSucceedsWhenUnreferenced(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/fee-master/%d", fx.Master.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestCreateFeeMasterEnforcesGroupAndSessionMembership(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	otherGroup := models.FeeGroup{Name: "Transport", SessionID: fx.Session.ID}
	require.NoError(t, config.DB.Create(&otherGroup).Error)

	// fee type belongs to the tuition group, not the transport group
	w := doJSON(t, r, http.MethodPost, "/api/fee-master", token, map[string]interface{}{
		"fee_group_id": otherGroup.ID,
		"fee_type_id":  fx.FeeType.ID,
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"amount":       900,
	})
	requireStatus(t, w, http.StatusUnprocessableEntity)
}

func TestCreateFeeMasterRejectsDuplicate(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fee-master", token, map[string]interface{}{
		"fee_group_id": fx.FeeGroup.ID,
		"fee_type_id":  fx.FeeType.ID,
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"amount":       2500,
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestCreateFeeTypeValidatesFormulaAndFrequency(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fee-types", token, map[string]interface{}{
		"name":             "Exam Fee",
		"fee_group_id":     fx.FeeGroup.ID,
		"session_id":       fx.Session.ID,
		"amount":           400,
		"late_fee_formula": "amount * (((",
	})
	requireStatus(t, w, http.StatusUnprocessableEntity)

	w = doJSON(t, r, http.MethodPost, "/api/fee-types", token, map[string]interface{}{
		"name":             "Exam Fee",
		"fee_group_id":     fx.FeeGroup.ID,
		"session_id":       fx.Session.ID,
		"amount":           400,
		"frequency":        "quarterly",
		"late_fee_formula": "amount * 0.01 * days_overdue",
	})
	requireStatus(t, w, http.StatusCreated)
}

func TestInvoiceAppliesLateFeeFormula(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	require.NoError(t, config.DB.Model(&fx.FeeType).
		Update("late_fee_formula", "amount * 0.01").Error)

	pastDue := time.Now().AddDate(0, 0, -30)
	fee := models.StudentFee{
		StudentID: fx.StudentA.ID,
		FeeTypeID: fx.FeeType.ID,
		SessionID: fx.Session.ID,
		AmountDue: 2000,
		Status:    models.FeeStatusOverdue,
		DueDate:   &pastDue,
	}
	require.NoError(t, config.DB.Create(&fee).Error)

	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/students/%d/invoice?session_id=%d", fx.StudentA.ID, fx.Session.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 20.0, data["total_late_fee"])

	lines := data["lines"].([]interface{})
	require.Len(t, lines, 1)
	assert.Equal(t, 20.0, lines[0].(map[string]interface{})["late_fee"])
}
