// school-erp/internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"school-erp/config"
	"school-erp/internal/middleware"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenLifetime = 24 * time.Hour

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler verifies credentials and issues a bearer token.
func LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.Preload("Roles").Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "Login failed: "+err.Error())
		return
	}

	if user.IsActive != nil && !*user.IsActive {
		respondError(c, http.StatusUnauthorized, "Account is disabled")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(config.JwtKey)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not sign token")
		return
	}

	slog.Info("User logged in", "user_id", user.ID, "email", user.Email)
	respondOK(c, gin.H{
		"token": signed,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.PrimaryRole(),
		},
	})
}

// LogoutHandler drops the cached auth payload. The token itself simply
// expires; there is no server-side token blacklist.
func LogoutHandler(c *gin.Context) {
	middleware.InvalidateUserCache(currentUserID(c))
	respondMessage(c, http.StatusOK, "Logged out")
}

// MeHandler returns the authenticated user's profile with roles and
// resolved permissions.
func MeHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.Preload("Roles.Permissions").First(&user, currentUserID(c)).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	permissionSet := make(map[string]struct{})
	roleNames := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roleNames = append(roleNames, role.Name)
		for _, perm := range role.Permissions {
			permissionSet[perm.Name] = struct{}{}
		}
	}
	permissions := make([]string, 0, len(permissionSet))
	for name := range permissionSet {
		permissions = append(permissions, name)
	}

	respondOK(c, gin.H{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"roles":       roleNames,
		"permissions": permissions,
	})
}
