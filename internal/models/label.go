package models

import "gorm.io/gorm"

type Label struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;uniqueIndex:idx_label_project_name"`
	Name      string `gorm:"not null;uniqueIndex:idx_label_project_name"`
	Color     string

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Issues  []Issue `gorm:"many2many:issue_labels"`
}
