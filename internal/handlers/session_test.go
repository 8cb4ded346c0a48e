package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"school-erp/config"
	"school-erp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateSessionFlipsOthersInactive(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/sessions", token, map[string]interface{}{
		"name":       "2026-2027",
		"start_date": "2026-04-01",
		"end_date":   "2027-03-31",
	})
	requireStatus(t, w, http.StatusCreated)
	created := decodeBody(t, w)["data"].(map[string]interface{})
	newID := uint(created["ID"].(float64))

	// new sessions start inactive
	assert.Equal(t, models.SessionInactive, created["status"])

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/sessions/%d/activate", newID), token, nil)
	requireStatus(t, w, http.StatusOK)

	var old, fresh models.Session
	require.NoError(t, config.DB.First(&old, fx.Session.ID).Error)
	require.NoError(t, config.DB.First(&fresh, newID).Error)
	assert.Equal(t, models.SessionInactive, old.Status)
	assert.Equal(t, models.SessionActive, fresh.Status)

	active, err := models.ActiveSession(config.DB)
	require.NoError(t, err)
	assert.Equal(t, newID, active.ID)
}

func TestDeleteActiveSessionRejected(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", fx.Session.ID), token, nil)
	requireStatus(t, w, http.StatusUnprocessableEntity)
}

func TestDeleteSessionBlockedByReferences(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	// inactive but still referenced by classes and students
	require.NoError(t, config.DB.Model(&fx.Session).
		Update("status", models.SessionInactive).Error)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", fx.Session.ID), token, nil)
	requireStatus(t, w, http.StatusConflict)
}

func TestDeleteEmptySessionSucceeds(t *testing.T) {
	r, token := setupApp(t)

	w := doJSON(t, r, http.MethodPost, "/api/sessions", token, map[string]interface{}{
		"name":       "2030-2031",
		"start_date": "2030-04-01",
		"end_date":   "2031-03-31",
	})
	requireStatus(t, w, http.StatusCreated)
	id := uint(decodeBody(t, w)["data"].(map[string]interface{})["ID"].(float64))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", id), token, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestCreateSessionRejectsBadDatesAndDuplicates(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/sessions", token, map[string]interface{}{
		"name":       "Backwards",
		"start_date": "2027-04-01",
		"end_date":   "2026-03-31",
	})
	requireStatus(t, w, http.StatusUnprocessableEntity)

	w = doJSON(t, r, http.MethodPost, "/api/sessions", token, map[string]interface{}{
		"name":       fx.Session.Name,
		"start_date": "2027-04-01",
		"end_date":   "2028-03-31",
	})
	requireStatus(t, w, http.StatusConflict)
}
