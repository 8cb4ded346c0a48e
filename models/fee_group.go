// school-erp/models/fee_group.go
package models

import "gorm.io/gorm"

// FeeGroup is a named category of fees (e.g. "Tuition & Academic Fees")
// scoped to a session. Deleting a group is blocked while it owns fee types.
type FeeGroup struct {
	gorm.Model
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_fee_group_name_session"`
	Description string    `json:"description"`
	SessionID   uint      `json:"session_id" gorm:"not null;uniqueIndex:idx_fee_group_name_session"`
	Session     Session   `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	FeeTypes    []FeeType `json:"fee_types,omitempty" gorm:"foreignKey:FeeGroupID"`
}

// FeeGroupInput binds the create/update request body.
type FeeGroupInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SessionID   uint   `json:"session_id" binding:"required"`
}
