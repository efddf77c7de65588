package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IssueStatus is one board column of a project. Column positions are a dense
// zero-based sequence per project.
type IssueStatus struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;uniqueIndex:idx_status_project_name"`
	Name      string `gorm:"not null;uniqueIndex:idx_status_project_name"`
	Category  string `gorm:"not null"` // "todo", "in_progress", "done"
	Color     string
	Position  int `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Issues  []Issue `gorm:"foreignKey:StatusID"`
}

// Issue positions are a dense zero-based sequence per (project, status) bucket.
type Issue struct {
	gorm.Model

	ProjectID   uint   `gorm:"not null;index"`
	IssueNumber int    `gorm:"not null"` // monotonic per project, immutable
	Key         string `gorm:"uniqueIndex;not null"`
	Type        string `gorm:"not null"` // "epic", "story", "task", "bug", "subtask"
	Title       string `gorm:"not null"`
	Description string
	StatusID    uint   `gorm:"not null;index"`
	Priority    string `gorm:"not null;default:medium"`
	AssigneeID  *uint  `gorm:"index"`
	ReporterID  uint   `gorm:"not null;index"`
	SprintID    *uint  `gorm:"index"`
	ParentID    *uint  `gorm:"index"`
	EpicID      *uint  `gorm:"index"`
	StoryPoints *int
	DueDate     *datatypes.Date
	Position    int `gorm:"not null"`

	// Relationships
	Project     Project          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Status      IssueStatus      `gorm:"foreignKey:StatusID"`
	Assignee    *User            `gorm:"foreignKey:AssigneeID"`
	Reporter    User             `gorm:"foreignKey:ReporterID"`
	Sprint      *Sprint          `gorm:"foreignKey:SprintID"`
	Parent      *Issue           `gorm:"foreignKey:ParentID"`
	Epic        *Issue           `gorm:"foreignKey:EpicID"`
	Labels      []Label          `gorm:"many2many:issue_labels"`
	Comments    []IssueComment   `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Attachments []IssueAttachment `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	History     []IssueHistory   `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Watchers    []IssueWatcher   `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// IssueHistory is append-only; one row per changed field per mutation.
type IssueHistory struct {
	gorm.Model

	IssueID   uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	FieldName string `gorm:"not null"`
	OldValue  *string
	NewValue  *string

	// Relationships
	Issue Issue `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID"`
}

type IssueWatcher struct {
	gorm.Model

	IssueID uint `gorm:"not null;uniqueIndex:idx_watcher_issue_user"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_watcher_issue_user"`

	// Relationships
	Issue Issue `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
