// school-erp/models/fee_master.go
package models

import "gorm.io/gorm"

// FeeMaster is the per-class price list: (fee_group, fee_type, class,
// session) -> amount. At most one row per (fee_type, class, session).
// The fee type must belong to the given group and both to the session;
// the handler enforces that before writing.
type FeeMaster struct {
	gorm.Model
	FeeGroupID uint    `json:"fee_group_id" gorm:"not null"`
	FeeTypeID  uint    `json:"fee_type_id" gorm:"not null;uniqueIndex:idx_fee_master_type_class_session"`
	ClassID    uint    `json:"class_id" gorm:"not null;uniqueIndex:idx_fee_master_type_class_session"`
	SessionID  uint    `json:"session_id" gorm:"not null;uniqueIndex:idx_fee_master_type_class_session"`
	Amount     float64 `json:"amount" gorm:"type:numeric(12,2);not null"`

	FeeGroup FeeGroup  `json:"fee_group,omitempty" gorm:"foreignKey:FeeGroupID"`
	FeeType  FeeType   `json:"fee_type,omitempty" gorm:"foreignKey:FeeTypeID"`
	Class    ClassRoom `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Session  Session   `json:"session,omitempty" gorm:"foreignKey:SessionID"`
}

// FeeMasterInput binds the create/update request body.
type FeeMasterInput struct {
	FeeGroupID uint    `json:"fee_group_id" binding:"required"`
	FeeTypeID  uint    `json:"fee_type_id" binding:"required"`
	ClassID    uint    `json:"class_id" binding:"required"`
	SessionID  uint    `json:"session_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}
