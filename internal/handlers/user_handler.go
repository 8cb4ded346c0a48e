// school-erp/internal/handlers/user_handler.go
package handlers

import (
	"errors"
	"net/http"

	"school-erp/config"
	"school-erp/internal/middleware"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	RoleID   uint   `json:"role_id" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

func ListUsersHandler(c *gin.Context) {
	var users []models.User
	query := config.DB.Preload("Roles")

	if role := c.Query("role"); role != "" {
		query = query.
			Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Joins("JOIN roles ON roles.id = user_roles.role_id").
			Where("roles.name = ?", role)
	}

	var totalRows int64
	if err := query.Model(&models.User{}).Count(&totalRows).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not count users")
		return
	}
	if err := query.Scopes(Paginate(c)).Order("users.name").Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load users")
		return
	}
	respondPaginated(c, users, totalRows)
}

func GetUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var user models.User
	if err := config.DB.Preload("Roles").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not load user: "+err.Error())
		return
	}
	respondOK(c, user)
}

func CreateUserHandler(c *gin.Context) {
	var input UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if input.Password == "" {
		respondValidation(c, map[string]string{"password": "required"})
		return
	}

	var role models.Role
	if err := config.DB.First(&role, input.RoleID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Role not found")
		return
	}

	var existing int64
	config.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&existing)
	if existing > 0 {
		respondError(c, http.StatusConflict, "A user with this email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not hash password")
		return
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		IsActive:     input.IsActive,
		Roles:        []models.Role{role},
	}
	if err := config.DB.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create user: "+err.Error())
		return
	}
	respondCreated(c, user, "User created")
}

func UpdateUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var user models.User
	if err := config.DB.Preload("Roles").First(&user, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	var input UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var role models.Role
	if err := config.DB.First(&role, input.RoleID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Role not found")
		return
	}

	var dup int64
	config.DB.Model(&models.User{}).Where("email = ? AND id <> ?", input.Email, id).Count(&dup)
	if dup > 0 {
		respondError(c, http.StatusConflict, "A user with this email already exists")
		return
	}

	user.Name = input.Name
	user.Email = input.Email
	if input.IsActive != nil {
		user.IsActive = input.IsActive
	}
	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Could not hash password")
			return
		}
		user.PasswordHash = string(hashedPassword)
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Model(&user).Association("Roles").Replace([]models.Role{role})
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update user: "+err.Error())
		return
	}

	middleware.InvalidateUserCache(user.ID)
	respondOK(c, user)
}

func DeleteUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id == currentUserID(c) {
		respondError(c, http.StatusUnprocessableEntity, "Cannot delete your own account")
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	var studentCount int64
	config.DB.Model(&models.Student{}).Where("user_id = ?", id).Count(&studentCount)
	if studentCount > 0 {
		respondError(c, http.StatusConflict, "Cannot delete user: a student record is linked to it")
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete user: "+err.Error())
		return
	}

	middleware.InvalidateUserCache(id)
	respondMessage(c, http.StatusOK, "User deleted")
}

// ListRolesHandler returns the role catalog with permissions, for the user
// management screens.
func ListRolesHandler(c *gin.Context) {
	var roles []models.Role
	if err := config.DB.Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load roles")
		return
	}
	respondOK(c, roles)
}
