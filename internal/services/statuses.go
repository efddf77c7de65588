package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/apperrors"
	"github.com/ahurasense/ahurasense/internal/models"
)

// CreateStatusColumn appends a new board column at the end of the project's
// column order. Column names are unique per project.
func CreateStatusColumn(conn *gorm.DB, projectID uint, name, category, color string) (*models.IssueStatus, error) {
	var status models.IssueStatus

	err := conn.Transaction(func(tx *gorm.DB) error {
		var existing models.IssueStatus

		err := tx.Where("project_id = ? AND name = ?", projectID, name).First(&existing).Error
		if err == nil {
			return apperrors.Conflict("Status already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var max int
		err = tx.Model(&models.IssueStatus{}).
			Where("project_id = ?", projectID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&max).Error
		if err != nil {
			return err
		}

		status = models.IssueStatus{
			ProjectID: projectID,
			Name:      name,
			Category:  category,
			Color:     color,
			Position:  max + 1,
		}

		return tx.Create(&status).Error
	})
	if err != nil {
		return nil, err
	}

	return &status, nil
}

// StatusReorder is one entry of a full or partial board reorder; optional
// fields also rename or recolor the column in the same pass.
type StatusReorder struct {
	ID       uint
	Position int
	Name     string
	Category string
	Color    *string
}

func ReorderStatusColumns(conn *gorm.DB, projectID uint, items []StatusReorder) ([]models.IssueStatus, error) {
	var known []models.IssueStatus

	if err := conn.Where("project_id = ?", projectID).Find(&known).Error; err != nil {
		return nil, err
	}

	valid := make(map[uint]bool, len(known))
	for _, status := range known {
		valid[status.ID] = true
	}
	for _, item := range items {
		if !valid[item.ID] {
			return nil, apperrors.BadRequest("One or more statuses do not belong to this project")
		}
	}

	err := conn.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			updates := map[string]interface{}{"position": item.Position}
			if item.Name != "" {
				updates["name"] = item.Name
			}
			if item.Category != "" {
				updates["category"] = item.Category
			}
			if item.Color != nil {
				updates["color"] = *item.Color
			}

			err := tx.Model(&models.IssueStatus{}).Where("id = ?", item.ID).Updates(updates).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var ordered []models.IssueStatus
	if err := conn.Where("project_id = ?", projectID).Order("position asc").Find(&ordered).Error; err != nil {
		return nil, err
	}

	return ordered, nil
}

// DeleteStatusColumn removes an empty column and renumbers the remaining
// columns to a dense sequence. The last column of a project and any column
// still holding issues are protected.
func DeleteStatusColumn(conn *gorm.DB, projectID, statusID uint) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		var status models.IssueStatus

		err := tx.Where("id = ? AND project_id = ?", statusID, projectID).First(&status).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Status not found")
		}
		if err != nil {
			return err
		}

		var statusCount int64
		if err := tx.Model(&models.IssueStatus{}).Where("project_id = ?", projectID).Count(&statusCount).Error; err != nil {
			return err
		}
		if statusCount <= 1 {
			return apperrors.BadRequest("Project must have at least one status column")
		}

		var issueCount int64
		if err := tx.Model(&models.Issue{}).Where("project_id = ? AND status_id = ?", projectID, statusID).Count(&issueCount).Error; err != nil {
			return err
		}
		if issueCount > 0 {
			return apperrors.BadRequest("Move issues out of this column before deleting it")
		}

		if err := tx.Delete(&status).Error; err != nil {
			return err
		}

		return RenumberStatusColumns(tx, projectID)
	})
}
