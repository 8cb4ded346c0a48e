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

func TestCreateUserWithRoleAndLogin(t *testing.T) {
	r, token := setupApp(t)

	var teacherRole models.Role
	require.NoError(t, config.DB.Where("name = ?", models.RoleTeacher).First(&teacherRole).Error)

	w := doJSON(t, r, http.MethodPost, "/api/users", token, map[string]interface{}{
		"name":     "Neha Joshi",
		"email":    "neha@example.com",
		"password": "teach-pass",
		"role_id":  teacherRole.ID,
	})
	requireStatus(t, w, http.StatusCreated)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	// the hash must never leak through the envelope
	_, leaked := data["password_hash"]
	assert.False(t, leaked)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "neha@example.com",
		"password": "teach-pass",
	})
	requireStatus(t, w, http.StatusOK)
	user := decodeBody(t, w)["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, models.RoleTeacher, user["role"])
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	r, token := setupApp(t)

	var role models.Role
	require.NoError(t, config.DB.Where("name = ?", models.RoleAdmin).First(&role).Error)

	w := doJSON(t, r, http.MethodPost, "/api/users", token, map[string]interface{}{
		"name":     "Second Admin",
		"email":    "superadmin@school-erp.local",
		"password": "whatever",
		"role_id":  role.ID,
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestDeleteUserGuards(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	var admin models.User
	require.NoError(t, config.DB.Where("email = ?", "superadmin@school-erp.local").First(&admin).Error)

	// self delete
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", admin.ID), token, nil)
	requireStatus(t, w, http.StatusUnprocessableEntity)

	// user linked to a student record
	_ = userWithRole(t, models.RoleStudent, "linked@example.com")
	var linked models.User
	require.NoError(t, config.DB.Where("email = ?", "linked@example.com").First(&linked).Error)
	require.NoError(t, config.DB.Model(&models.Student{}).
		Where("id = ?", fx.StudentA.ID).Update("user_id", linked.ID).Error)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", linked.ID), token, nil)
	requireStatus(t, w, http.StatusConflict)
}

func TestListRolesReturnsCatalog(t *testing.T) {
	r, token := setupApp(t)

	w := doJSON(t, r, http.MethodGet, "/api/roles", token, nil)
	requireStatus(t, w, http.StatusOK)
	roles := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, roles, 5)

	names := make([]string, 0, len(roles))
	for _, raw := range roles {
		names = append(names, raw.(map[string]interface{})["name"].(string))
	}
	assert.Contains(t, names, models.RoleSuperadmin)
	assert.Contains(t, names, models.RoleAccountant)
}
