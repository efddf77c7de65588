package models

import (
	"time"

	"gorm.io/gorm"
)

type Sprint struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	Goal      string
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Status    string    `gorm:"not null;default:planning"` // "planning", "active", "completed"

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Issues  []Issue `gorm:"foreignKey:SprintID"`
}
