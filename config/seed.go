// school-erp/config/seed.go
package config

import (
	"log/slog"
	"os"

	"school-erp/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultPermissions is the full capability catalog checked by the route
// middleware, grouped by category for the admin UI.
var defaultPermissions = []models.Permission{
	{Name: "sessions_view", Category: "Sessions"},
	{Name: "sessions_manage", Category: "Sessions"},
	{Name: "classes_view", Category: "Classes"},
	{Name: "classes_manage", Category: "Classes"},
	{Name: "students_view", Category: "Students"},
	{Name: "students_manage", Category: "Students"},
	{Name: "students_import", Category: "Students"},
	{Name: "fees_view", Category: "Fees"},
	{Name: "fees_manage", Category: "Fees"},
	{Name: "fees_assign", Category: "Fees"},
	{Name: "fees_collect", Category: "Fees"},
	{Name: "reports_view", Category: "Reports"},
	{Name: "users_view", Category: "Users"},
	{Name: "users_manage", Category: "Users"},
}

// rolePermissions maps each seeded role to its permission names.
// superadmin and admin bypass checks in middleware, so they carry none here.
var rolePermissions = map[string][]string{
	models.RoleSuperadmin: nil,
	models.RoleAdmin:      nil,
	models.RoleTeacher:    {"students_view", "classes_view", "sessions_view"},
	models.RoleAccountant: {"students_view", "classes_view", "sessions_view", "fees_view", "fees_manage", "fees_assign", "fees_collect", "reports_view"},
	models.RoleStudent:    {"fees_view"},
}

// Migrate runs AutoMigrate for every model in dependency order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Session{},
		&models.ClassRoom{},
		&models.Section{},
		&models.Student{},
		&models.FeeGroup{},
		&models.FeeType{},
		&models.FeeMaster{},
		&models.StudentFee{},
		&models.FeeTransaction{},
	)
}

// Seed creates the default roles, permissions and the superadmin account if
// they do not exist yet. Safe to run on every boot.
func Seed(db *gorm.DB) error {
	for i := range defaultPermissions {
		p := defaultPermissions[i]
		if err := db.Where(models.Permission{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}

	for roleName, permNames := range rolePermissions {
		role := models.Role{Name: roleName}
		if err := db.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		if len(permNames) == 0 {
			continue
		}
		var perms []models.Permission
		if err := db.Where("name IN ?", permNames).Find(&perms).Error; err != nil {
			return err
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil
	}

	password := os.Getenv("SUPERADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		slog.Warn("SUPERADMIN_PASSWORD not set, using default password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var superRole models.Role
	if err := db.Where("name = ?", models.RoleSuperadmin).First(&superRole).Error; err != nil {
		return err
	}

	admin := models.User{
		Name:         "Super Admin",
		Email:        "superadmin@school-erp.local",
		PasswordHash: string(hash),
		Roles:        []models.Role{superRole},
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	slog.Info("Seeded superadmin account", "email", admin.Email)
	return nil
}
