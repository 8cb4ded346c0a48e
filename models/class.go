// school-erp/models/class.go
package models

import "gorm.io/gorm"

// ClassRoom represents the 'class_rooms' table. NumericValue orders classes
// for display (Class 1 before Class 10). Name is unique within a session.
type ClassRoom struct {
	gorm.Model
	Name         string  `json:"name" gorm:"not null;uniqueIndex:idx_class_name_session"`
	NumericValue int     `json:"numeric_value"`
	SessionID    uint    `json:"session_id" gorm:"not null;uniqueIndex:idx_class_name_session"`
	Session      Session `json:"session,omitempty" gorm:"foreignKey:SessionID"`
}

// ClassRoomResponse is the list/detail payload for a class.
type ClassRoomResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	NumericValue int    `json:"numeric_value"`
	SessionID    uint   `json:"session_id"`
	StudentCount int    `json:"student_count"`
	SectionCount int    `json:"section_count"`
}

// ClassRoomInput binds the create/update request body.
type ClassRoomInput struct {
	Name         string `json:"name" binding:"required"`
	NumericValue int    `json:"numeric_value"`
	SessionID    uint   `json:"session_id" binding:"required"`
}
