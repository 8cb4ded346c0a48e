// school-erp/models/user.go
package models

import "gorm.io/gorm"

// User represents an account that can sign in to the system.
// A user has one or more roles; permissions are resolved through them.
type User struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"unique;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	IsActive     *bool  `json:"is_active" gorm:"default:true"`
	Roles        []Role `json:"roles,omitempty" gorm:"many2many:user_roles;"`
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// PrimaryRole returns the first assigned role name, or "" when none.
// Seeded accounts carry exactly one role.
func (u *User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0].Name
}
