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

func TestCreateStudentProvisionsAccount(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/students", token, map[string]interface{}{
		"admission_no": "ADM-010",
		"name":         "Tanvi Kulkarni",
		"email":        "tanvi@example.com",
		"gender":       "female",
		"dob":          "2012-02-20",
		"class_id":     fx.Class.ID,
		"section_id":   fx.Section.ID,
		"session_id":   fx.Session.ID,
	})
	requireStatus(t, w, http.StatusCreated)

	var student models.Student
	require.NoError(t, config.DB.Where("admission_no = ?", "ADM-010").First(&student).Error)
	require.NotNil(t, student.UserID)
	require.NotNil(t, student.DOB)

	var account models.User
	require.NoError(t, config.DB.Preload("Roles").First(&account, *student.UserID).Error)
	assert.Equal(t, "tanvi@example.com", account.Email)
	assert.True(t, account.HasRole(models.RoleStudent))
}

func TestCreateStudentRejectsDuplicatesAndBadEnrollment(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	// fixture already has ADM-001 in this session
	w := doJSON(t, r, http.MethodPost, "/api/students", token, map[string]interface{}{
		"admission_no": "ADM-001",
		"name":         "Clone",
		"email":        "clone@example.com",
		"class_id":     fx.Class.ID,
		"section_id":   fx.Section.ID,
		"session_id":   fx.Session.ID,
	})
	requireStatus(t, w, http.StatusConflict)

	// section from another class
	otherClass := models.ClassRoom{Name: "Class 9", NumericValue: 9, SessionID: fx.Session.ID}
	require.NoError(t, config.DB.Create(&otherClass).Error)
	otherSection := models.Section{Name: "A", ClassID: otherClass.ID}
	require.NoError(t, config.DB.Create(&otherSection).Error)

	w = doJSON(t, r, http.MethodPost, "/api/students", token, map[string]interface{}{
		"admission_no": "ADM-011",
		"name":         "Misfit",
		"email":        "misfit@example.com",
		"class_id":     fx.Class.ID,
		"section_id":   otherSection.ID,
		"session_id":   fx.Session.ID,
	})
	requireStatus(t, w, http.StatusUnprocessableEntity)

	// unknown gender fails body binding
	w = doJSON(t, r, http.MethodPost, "/api/students", token, map[string]interface{}{
		"admission_no": "ADM-012",
		"name":         "Unknown",
		"email":        "unknown@example.com",
		"gender":       "robot",
		"class_id":     fx.Class.ID,
		"section_id":   fx.Section.ID,
		"session_id":   fx.Session.ID,
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestListStudentsSearchAndPagination(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodGet, "/api/students?search=asha", token, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Asha Verma", row["name"])
	assert.Equal(t, "Class 10", row["class_name"])
	assert.Equal(t, "A", row["section_name"])

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/students?session_id=%d&page=1&page_size=1", fx.Session.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	body = decodeBody(t, w)
	require.Len(t, body["data"].([]interface{}), 1)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, 2.0, meta["total_rows"])
	assert.Equal(t, 2.0, meta["total_pages"])
	assert.Equal(t, 1.0, meta["current_page"])
}

func TestDeleteStudentBlockedByFeeRecords(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fees/assign", token, map[string]interface{}{
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"fee_type_ids": []uint{fx.FeeType.ID},
	})
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/students/%d", fx.StudentA.ID), token, nil)
	requireStatus(t, w, http.StatusConflict)
}

func TestClassAndSectionGuards(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	// duplicate class name within the session
	w := doJSON(t, r, http.MethodPost, "/api/classes", token, map[string]interface{}{
		"name":          fx.Class.Name,
		"numeric_value": 10,
		"session_id":    fx.Session.ID,
	})
	requireStatus(t, w, http.StatusConflict)

	// same name is fine in another session
	other := models.Session{Name: "2026-2027"}
	require.NoError(t, config.DB.Create(&other).Error)
	w = doJSON(t, r, http.MethodPost, "/api/classes", token, map[string]interface{}{
		"name":          fx.Class.Name,
		"numeric_value": 10,
		"session_id":    other.ID,
	})
	requireStatus(t, w, http.StatusCreated)

	// class with sections and students cannot be deleted
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/classes/%d", fx.Class.ID), token, nil)
	requireStatus(t, w, http.StatusConflict)

	// section with students cannot be deleted
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/sections/%d", fx.Section.ID), token, nil)
	requireStatus(t, w, http.StatusConflict)

	// class list carries counts
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/classes?session_id=%d", fx.Session.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	classes := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, classes, 1)
	class := classes[0].(map[string]interface{})
	assert.Equal(t, 2.0, class["student_count"])
	assert.Equal(t, 1.0, class["section_count"])
}
