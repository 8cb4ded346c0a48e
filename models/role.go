// school-erp/models/role.go
package models

// Role names seeded at boot. Every user holds exactly one of these as its
// primary role; superadmin and admin bypass permission checks.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleTeacher    = "teacher"
	RoleAccountant = "accountant"
	RoleStudent    = "student"
)

// Role defines a role row in the database.
type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"unique;not null"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}
