package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/apperrors"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

// defaultStatusColumns seeds every new project's board.
var defaultStatusColumns = []models.IssueStatus{
	{Name: "Backlog", Category: types.StatusCategoryTodo, Color: "#6B6B73", Position: 0},
	{Name: "Selected", Category: types.StatusCategoryTodo, Color: "#A0A0A6", Position: 1},
	{Name: "In Progress", Category: types.StatusCategoryInProgress, Color: "#0066FF", Position: 2},
	{Name: "In Review", Category: types.StatusCategoryInProgress, Color: "#FF991F", Position: 3},
	{Name: "QA", Category: types.StatusCategoryInProgress, Color: "#0052CC", Position: 4},
	{Name: "Done", Category: types.StatusCategoryDone, Color: "#00875A", Position: 5},
}

type CreateProjectInput struct {
	Key         string
	Name        string
	Description string
	Type        string
	LeadID      *uint
}

// CreateProject creates the project, makes the creator its lead member and
// seeds the default board columns, all in one transaction.
func CreateProject(conn *gorm.DB, workspaceID, creatorID uint, in CreateProjectInput) (*models.Project, error) {
	var existing models.Project

	err := conn.Where("key = ?", in.Key).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("Project key already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	leadID := creatorID
	if in.LeadID != nil {
		leadID = *in.LeadID
	}

	var project models.Project

	err = conn.Transaction(func(tx *gorm.DB) error {
		project = models.Project{
			WorkspaceID: workspaceID,
			Key:         in.Key,
			Name:        in.Name,
			Description: in.Description,
			Type:        in.Type,
			Status:      types.ProjectStatusActive,
			LeadID:      &leadID,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		membership := models.ProjectMembership{
			ProjectID: project.ID,
			UserID:    creatorID,
			Role:      types.ProjectRoleLead,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		for _, column := range defaultStatusColumns {
			status := column
			status.ProjectID = project.ID
			if err := tx.Create(&status).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

type CreateWorkspaceInput struct {
	Name        string
	Slug        string
	Description string
}

// CreateWorkspace writes the workspace and its owner membership together so
// Workspace.OwnerID and the owner row can never diverge.
func CreateWorkspace(conn *gorm.DB, ownerID uint, in CreateWorkspaceInput) (*models.Workspace, error) {
	var existing models.Workspace

	err := conn.Where("slug = ?", in.Slug).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("Workspace slug already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var workspace models.Workspace

	err = conn.Transaction(func(tx *gorm.DB) error {
		workspace = models.Workspace{
			Name:        in.Name,
			Slug:        in.Slug,
			Description: in.Description,
			OwnerID:     ownerID,
		}
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}

		membership := models.WorkspaceMembership{
			WorkspaceID: workspace.ID,
			UserID:      ownerID,
			Role:        types.WorkspaceRoleOwner,
		}

		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	return &workspace, nil
}
