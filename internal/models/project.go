package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	WorkspaceID   uint   `gorm:"not null;index"`
	Key           string `gorm:"uniqueIndex;not null"` // uppercase alphanumeric, immutable
	Name          string `gorm:"not null"`
	Description   string
	Type          string `gorm:"not null;default:software"` // "software", "business", "service_desk"
	Status        string `gorm:"not null;default:active"`   // "active", "archived", "on_hold"
	LeadID        *uint  `gorm:"index"`
	StartDate     *datatypes.Date
	TargetEndDate *datatypes.Date

	// Relationships
	Workspace Workspace           `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Lead      *User               `gorm:"foreignKey:LeadID"`
	Members   []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Statuses  []IssueStatus       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Issues    []Issue             `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Sprints   []Sprint            `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Labels    []Label             `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type ProjectMembership struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	Role      string `gorm:"not null"` // "lead", "developer", "tester", "viewer"

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
