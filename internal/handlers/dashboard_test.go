package handlers_test

import (
	"net/http"
	"testing"

	"school-erp/config"
	"school-erp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAdminSummary(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard/summary", token, nil)
	requireStatus(t, w, http.StatusOK)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "admin", data["role"])
	assert.Equal(t, 2.0, data["students"])
	assert.Equal(t, 1.0, data["classes"])
	assert.Equal(t, float64(fx.Session.ID), data["active_session"])

	health := data["system_health"].(map[string]interface{})
	assert.Equal(t, "ok", health["database"])
	assert.Equal(t, "disabled", health["cache"])
}

func TestDashboardAccountantSummaryTracksPendingTotal(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fees/assign", token, map[string]interface{}{
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"fee_type_ids": []uint{fx.FeeType.ID},
	})
	requireStatus(t, w, http.StatusOK)
	collectPayment(t, r, token, fx, 500)

	accountantToken := userWithRole(t, models.RoleAccountant, "cashier@example.com")
	w = doJSON(t, r, http.MethodGet, "/api/dashboard/summary", accountantToken, nil)
	requireStatus(t, w, http.StatusOK)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "accountant", data["role"])
	// 2 students x 2000 due, 500 collected
	assert.Equal(t, 3500.0, data["pending_total"])
	assert.Equal(t, 500.0, data["todays_collection"])
}

func TestDashboardStudentSummaryFollowsAccountLink(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fees/assign", token, map[string]interface{}{
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"fee_type_ids": []uint{fx.FeeType.ID},
	})
	requireStatus(t, w, http.StatusOK)

	studentToken := userWithRole(t, models.RoleStudent, "asha.login@example.com")
	var account models.User
	require.NoError(t, config.DB.Where("email = ?", "asha.login@example.com").First(&account).Error)
	require.NoError(t, config.DB.Model(&models.Student{}).
		Where("id = ?", fx.StudentA.ID).Update("user_id", account.ID).Error)

	w = doJSON(t, r, http.MethodGet, "/api/dashboard/summary", studentToken, nil)
	requireStatus(t, w, http.StatusOK)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "student", data["role"])
	assert.Equal(t, float64(fx.StudentA.ID), data["student_id"])
	assert.Equal(t, 2000.0, data["total_due"])
	assert.Equal(t, 2000.0, data["total_remaining"])
}
