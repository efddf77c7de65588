// Package permissions collapses the three independent role sources (global
// account role, workspace membership, project membership) into one capability
// level consumed uniformly by every mutating endpoint.
package permissions

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/apperrors"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

type Level int

const (
	LevelNone Level = iota
	LevelMember
	LevelProjectLead
	LevelWorkspaceAdmin
	LevelGlobalAdmin
)

func (l Level) String() string {
	switch l {
	case LevelGlobalAdmin:
		return "global_admin"
	case LevelWorkspaceAdmin:
		return "workspace_admin"
	case LevelProjectLead:
		return "project_lead"
	case LevelMember:
		return "member"
	default:
		return "none"
	}
}

// CanView reports read access.
func (l Level) CanView() bool {
	return l > LevelNone
}

// CanManageProject covers board, labels, members and settings of a project.
func (l Level) CanManageProject() bool {
	return l >= LevelProjectLead
}

// CanManageWorkspace covers workspace membership and every project in the
// workspace.
func (l Level) CanManageWorkspace() bool {
	return l >= LevelWorkspaceAdmin
}

// Resolve computes the capability level from the three role sources. Empty
// strings mean "no membership". Precedence: global admin beats workspace
// owner/admin beats project lead beats any membership.
func Resolve(globalRole, workspaceRole, projectRole string) Level {
	if globalRole == types.GlobalRoleAdmin {
		return LevelGlobalAdmin
	}

	if workspaceRole == types.WorkspaceRoleOwner || workspaceRole == types.WorkspaceRoleAdmin {
		return LevelWorkspaceAdmin
	}

	if projectRole == types.ProjectRoleLead {
		return LevelProjectLead
	}

	if workspaceRole != "" || projectRole != "" {
		return LevelMember
	}

	return LevelNone
}

// ProjectAccess is the resolved capability of one user against one project.
type ProjectAccess struct {
	Level         Level
	Project       *models.Project
	WorkspaceRole string
	ProjectRole   string
}

// ForProject loads the project plus both membership rows and resolves the
// capability level. A missing project yields 404 so existence never leaks.
func ForProject(conn *gorm.DB, userID uint, globalRole string, projectID uint) (*ProjectAccess, error) {
	var project models.Project

	if err := conn.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project not found")
		}
		return nil, err
	}

	workspaceRole, err := workspaceRoleOf(conn, project.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}

	projectRole, err := projectRoleOf(conn, projectID, userID)
	if err != nil {
		return nil, err
	}

	return &ProjectAccess{
		Level:         Resolve(globalRole, workspaceRole, projectRole),
		Project:       &project,
		WorkspaceRole: workspaceRole,
		ProjectRole:   projectRole,
	}, nil
}

// WorkspaceAccess is the resolved capability of one user against one workspace.
type WorkspaceAccess struct {
	Level     Level
	Workspace *models.Workspace
	Role      string
}

// IsOwner reports whether the user holds the owner membership. Only the owner
// may grant or revoke the workspace admin role.
func (a *WorkspaceAccess) IsOwner() bool {
	return a.Role == types.WorkspaceRoleOwner
}

func ForWorkspace(conn *gorm.DB, userID uint, globalRole string, workspaceID uint) (*WorkspaceAccess, error) {
	var workspace models.Workspace

	if err := conn.Where("id = ?", workspaceID).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Workspace not found")
		}
		return nil, err
	}

	role, err := workspaceRoleOf(conn, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	return &WorkspaceAccess{
		Level:     Resolve(globalRole, role, ""),
		Workspace: &workspace,
		Role:      role,
	}, nil
}

// EnsureProjectMembership materializes a viewer membership for a user who may
// already manage the project through workspace or global rights but holds no
// explicit row. Idempotent; invoked deliberately by mutating coordinators,
// never from read paths.
func EnsureProjectMembership(conn *gorm.DB, projectID, userID uint) error {
	membership := models.ProjectMembership{
		ProjectID: projectID,
		UserID:    userID,
	}

	return conn.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Attrs(models.ProjectMembership{Role: types.ProjectRoleViewer}).
		FirstOrCreate(&membership).Error
}

func workspaceRoleOf(conn *gorm.DB, workspaceID, userID uint) (string, error) {
	var membership models.WorkspaceMembership

	err := conn.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return membership.Role, nil
}

func projectRoleOf(conn *gorm.DB, projectID, userID uint) (string, error) {
	var membership models.ProjectMembership

	err := conn.Where("project_id = ? AND user_id = ?", projectID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return membership.Role, nil
}
