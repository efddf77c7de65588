package models

import "gorm.io/gorm"

type IssueComment struct {
	gorm.Model

	IssueID uint   `gorm:"not null;index"`
	UserID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`

	// Relationships
	Issue Issue `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID"`
}

// IssueAttachment stores only the metadata; the bytes live in external object
// storage and are addressed by FileURL.
type IssueAttachment struct {
	gorm.Model

	IssueID  uint   `gorm:"not null;index"`
	UserID   uint   `gorm:"not null;index"`
	FileName string `gorm:"not null"`
	FileURL  string `gorm:"not null"`
	FileSize int64
	MimeType string

	// Relationships
	Issue Issue `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID"`
}
