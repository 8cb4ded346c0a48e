// school-erp/models/student.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Student represents an enrolled student. A student belongs to exactly one
// class, one section and one session at a time; editing the enrollment
// mutates the row in place, no history is kept.
type Student struct {
	gorm.Model
	AdmissionNo string     `json:"admission_no" gorm:"not null;uniqueIndex:idx_admission_session"`
	UserID      *uint      `json:"user_id"`
	Name        string     `json:"name" gorm:"not null"`
	Email       string     `json:"email" gorm:"unique"`
	Phone       string     `json:"phone"`
	DOB         *time.Time `json:"dob"`
	Gender      string     `json:"gender"`
	Address     string     `json:"address"`
	PhotoURL    string     `json:"photo_url"`

	// guardian block
	FatherName     string `json:"father_name"`
	MotherName     string `json:"mother_name"`
	GuardianName   string `json:"guardian_name"`
	GuardianPhone  string `json:"guardian_phone"`
	GuardianRelate string `json:"guardian_relation"`

	ClassID   uint `json:"class_id" gorm:"not null"`
	SectionID uint `json:"section_id" gorm:"not null"`
	SessionID uint `json:"session_id" gorm:"not null;uniqueIndex:idx_admission_session"`

	User    *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Class   *ClassRoom `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Section *Section   `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	Session *Session   `json:"session,omitempty" gorm:"foreignKey:SessionID"`
}

// StudentInput binds the create/update request body.
type StudentInput struct {
	AdmissionNo    string `json:"admission_no" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	DOB            string `json:"dob"`
	Gender         string `json:"gender" binding:"omitempty,oneof=male female other"`
	Address        string `json:"address"`
	FatherName     string `json:"father_name"`
	MotherName     string `json:"mother_name"`
	GuardianName   string `json:"guardian_name"`
	GuardianPhone  string `json:"guardian_phone"`
	GuardianRelate string `json:"guardian_relation"`
	ClassID        uint   `json:"class_id" binding:"required"`
	SectionID      uint   `json:"section_id" binding:"required"`
	SessionID      uint   `json:"session_id" binding:"required"`
}

// StudentListRow is the flattened list payload produced by the list query.
type StudentListRow struct {
	ID          uint   `json:"id"`
	AdmissionNo string `json:"admission_no"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	ClassName   string `json:"class_name"`
	SectionName string `json:"section_name"`
	SessionID   uint   `json:"session_id"`
}
