package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/apperrors"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

// Project membership mutations keep Project.LeadID in sync with the single
// conceptual lead: promoting a member to lead sets it, demoting or removing
// the current lead clears it. Always one transaction.

// UpsertProjectMember adds the user to the project or updates their role. The
// user must already belong to the project's workspace. Returns the membership
// and whether it was newly created.
func UpsertProjectMember(conn *gorm.DB, project *models.Project, userID uint, role string) (*models.ProjectMembership, bool, error) {
	var workspaceMember models.WorkspaceMembership

	err := conn.Where("workspace_id = ? AND user_id = ?", project.WorkspaceID, userID).First(&workspaceMember).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.BadRequest("User must be a workspace member before adding to project")
	}
	if err != nil {
		return nil, false, err
	}

	var membership models.ProjectMembership
	created := false

	err = conn.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&membership).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			membership = models.ProjectMembership{
				ProjectID: project.ID,
				UserID:    userID,
				Role:      role,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			if err := tx.Model(&membership).Update("role", role).Error; err != nil {
				return err
			}
			membership.Role = role
		}

		return syncProjectLead(tx, project, userID, role)
	})
	if err != nil {
		return nil, false, err
	}

	return &membership, created, nil
}

// UpdateProjectMemberRole changes an existing member's role.
func UpdateProjectMemberRole(conn *gorm.DB, project *models.Project, userID uint, role string) (*models.ProjectMembership, error) {
	var membership models.ProjectMembership

	err := conn.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Member not found")
	}
	if err != nil {
		return nil, err
	}

	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&membership).Update("role", role).Error; err != nil {
			return err
		}
		membership.Role = role

		return syncProjectLead(tx, project, userID, role)
	})
	if err != nil {
		return nil, err
	}

	return &membership, nil
}

// RemoveProjectMember deletes the membership and clears the project lead if
// the departing user held it.
func RemoveProjectMember(conn *gorm.DB, project *models.Project, userID uint) error {
	var membership models.ProjectMembership

	err := conn.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Member not found")
	}
	if err != nil {
		return err
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&membership).Error; err != nil {
			return err
		}

		if project.LeadID != nil && *project.LeadID == userID {
			if err := tx.Model(project).Update("lead_id", nil).Error; err != nil {
				return err
			}
			project.LeadID = nil
		}

		return nil
	})
}

func syncProjectLead(tx *gorm.DB, project *models.Project, userID uint, role string) error {
	if role == types.ProjectRoleLead {
		if err := tx.Model(project).Update("lead_id", userID).Error; err != nil {
			return err
		}
		project.LeadID = &userID
		return nil
	}

	// Re-read inside the transaction: another writer may have moved the lead.
	var current models.Project
	if err := tx.Select("lead_id").Where("id = ?", project.ID).First(&current).Error; err != nil {
		return err
	}

	if current.LeadID != nil && *current.LeadID == userID {
		if err := tx.Model(project).Update("lead_id", nil).Error; err != nil {
			return err
		}
		project.LeadID = nil
	}

	return nil
}

// Workspace membership mutations. The owner membership is immutable through
// these paths: the owner row's role never changes and the owning user cannot
// be removed.

func UpdateWorkspaceMemberRole(conn *gorm.DB, workspace *models.Workspace, userID uint, role string) (*models.WorkspaceMembership, error) {
	if workspace.OwnerID == userID {
		return nil, apperrors.BadRequest("Workspace owner role cannot be modified")
	}

	var membership models.WorkspaceMembership

	err := conn.Where("workspace_id = ? AND user_id = ?", workspace.ID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Member not found")
	}
	if err != nil {
		return nil, err
	}

	if membership.Role == types.WorkspaceRoleOwner {
		return nil, apperrors.BadRequest("Workspace owner role cannot be modified")
	}

	if err := conn.Model(&membership).Update("role", role).Error; err != nil {
		return nil, err
	}
	membership.Role = role

	return &membership, nil
}

func RemoveWorkspaceMember(conn *gorm.DB, workspace *models.Workspace, userID uint) error {
	if workspace.OwnerID == userID {
		return apperrors.BadRequest("Workspace owner cannot be removed")
	}

	var membership models.WorkspaceMembership

	err := conn.Where("workspace_id = ? AND user_id = ?", workspace.ID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Member not found")
	}
	if err != nil {
		return err
	}

	return conn.Delete(&membership).Error
}
