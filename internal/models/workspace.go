package models

import "gorm.io/gorm"

type Workspace struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	OwnerID     uint `gorm:"not null;index"`

	// Relationships
	Owner    User                  `gorm:"foreignKey:OwnerID"`
	Members  []WorkspaceMembership `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Projects []Project             `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type WorkspaceMembership struct {
	gorm.Model

	WorkspaceID uint   `gorm:"not null;uniqueIndex:idx_workspace_user"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_workspace_user"`
	Role        string `gorm:"not null"` // "owner", "admin", "member", "viewer"

	// Relationships
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
