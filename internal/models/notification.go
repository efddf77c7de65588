package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is a delivery record only; dispatch (email/push) happens outside
// this system.
type Notification struct {
	gorm.Model

	UserID  uint   `gorm:"not null;index"`
	IssueID *uint  `gorm:"index"`
	Type    string `gorm:"not null"` // "assigned", "commented"
	Message string `gorm:"not null"`
	ReadAt  *time.Time
	Payload datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	User  User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Issue *Issue `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
