package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Global (account-level) roles.
const (
	GlobalRoleAdmin   = "admin"
	GlobalRoleManager = "manager"
	GlobalRoleMember  = "member"
)

// Account statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// Workspace membership roles.
const (
	WorkspaceRoleOwner  = "owner"
	WorkspaceRoleAdmin  = "admin"
	WorkspaceRoleMember = "member"
	WorkspaceRoleViewer = "viewer"
)

// Project membership roles.
const (
	ProjectRoleLead      = "lead"
	ProjectRoleDeveloper = "developer"
	ProjectRoleTester    = "tester"
	ProjectRoleViewer    = "viewer"
)

// Project lifecycle.
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
	ProjectStatusOnHold   = "on_hold"
)

// Board column categories.
const (
	StatusCategoryTodo       = "todo"
	StatusCategoryInProgress = "in_progress"
	StatusCategoryDone       = "done"
)

// Issue types.
const (
	IssueTypeEpic    = "epic"
	IssueTypeStory   = "story"
	IssueTypeTask    = "task"
	IssueTypeBug     = "bug"
	IssueTypeSubtask = "subtask"
)

// Issue priorities.
const (
	PriorityLowest  = "lowest"
	PriorityLow     = "low"
	PriorityMedium  = "medium"
	PriorityHigh    = "high"
	PriorityHighest = "highest"
)

// Sprint lifecycle, strictly forward.
const (
	SprintStatusPlanning  = "planning"
	SprintStatusActive    = "active"
	SprintStatusCompleted = "completed"
)

// Notification kinds.
const (
	NotificationAssigned  = "assigned"
	NotificationCommented = "commented"
)

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
