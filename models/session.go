// school-erp/models/session.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SessionActive   = "active"
	SessionInactive = "inactive"
)

// Session is an academic year or term. Exactly one session is "active" at a
// time; classes, students and fees are partitioned by session_id. Switching
// the active session is an explicit administrative action, never a
// query-time date comparison.
type Session struct {
	gorm.Model
	Name      string    `json:"name" gorm:"unique;not null"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	Status    string    `json:"status" gorm:"default:'inactive'"`
}

// IsCurrent reports whether the given instant falls inside the session's date
// range. Informational only; scoping always goes through Status.
func (s *Session) IsCurrent(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// ActiveSession returns the session currently flagged active.
func ActiveSession(db *gorm.DB) (*Session, error) {
	var session Session
	if err := db.Where("status = ?", SessionActive).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
