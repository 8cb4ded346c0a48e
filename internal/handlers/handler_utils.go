// school-erp/internal/handlers/handler_utils.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"school-erp/models"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope:
// { success: bool, data?: ..., message?: string, errors?: {field: message} }.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data, "message": message})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondValidation(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Validation failed", "errors": errors})
}

// paramID parses a numeric :id style path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

// queryUint parses an optional numeric query parameter; 0 means absent.
func queryUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD string.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// currentUserID returns the authenticated user id placed on the context by
// the auth middleware.
func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// currentUserRoles returns the authenticated user's role names.
func currentUserRoles(c *gin.Context) []string {
	if v, ok := c.Get("roles"); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}

func hasRole(c *gin.Context, name string) bool {
	for _, r := range currentUserRoles(c) {
		if r == name {
			return true
		}
	}
	return false
}

// hasPermission reports whether the acting user carries the named
// capability. Superadmin and admin bypass, mirroring the route middleware.
func hasPermission(c *gin.Context, name string) bool {
	if hasRole(c, models.RoleSuperadmin) || hasRole(c, models.RoleAdmin) {
		return true
	}
	if v, ok := c.Get("permissions"); ok {
		if perms, ok := v.([]string); ok {
			for _, p := range perms {
				if p == name {
					return true
				}
			}
		}
	}
	return false
}

// canViewStudentRecord allows staff holding students_view, or the student
// account the record itself is linked to.
func canViewStudentRecord(c *gin.Context, student *models.Student) bool {
	if hasPermission(c, "students_view") {
		return true
	}
	return student.UserID != nil && *student.UserID == currentUserID(c)
}
