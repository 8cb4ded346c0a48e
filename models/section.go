// school-erp/models/section.go
package models

import "gorm.io/gorm"

// Section subdivides a class (e.g. "A", "B"). Name is unique within a class.
type Section struct {
	gorm.Model
	Name     string    `json:"name" gorm:"not null;uniqueIndex:idx_section_name_class"`
	ClassID  uint      `json:"class_id" gorm:"not null;uniqueIndex:idx_section_name_class"`
	Capacity int       `json:"capacity" gorm:"default:0"`
	Class    ClassRoom `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// SectionResponse is the list payload for a section.
type SectionResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ClassID      uint   `json:"class_id"`
	ClassName    string `json:"class_name"`
	Capacity     int    `json:"capacity"`
	StudentCount int    `json:"student_count"`
}

// SectionInput binds the create/update request body.
type SectionInput struct {
	Name     string `json:"name" binding:"required"`
	ClassID  uint   `json:"class_id" binding:"required"`
	Capacity int    `json:"capacity"`
}
