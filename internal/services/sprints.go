package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/apperrors"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

// Sprint lifecycle: planning -> active -> completed, strictly forward.

func StartSprint(conn *gorm.DB, sprint *models.Sprint) error {
	if sprint.Status != types.SprintStatusPlanning {
		return apperrors.BadRequest("Only planning sprint can be started")
	}

	if err := conn.Model(sprint).Update("status", types.SprintStatusActive).Error; err != nil {
		return err
	}

	sprint.Status = types.SprintStatusActive
	return nil
}

// CompleteSprint marks the sprint completed and carries over every issue whose
// status category is not "done" to nextSprintID, or to the backlog when
// nextSprintID is nil. Done issues stay attached to the completed sprint as
// the historical record. One transaction.
func CompleteSprint(conn *gorm.DB, sprint *models.Sprint, nextSprintID *uint) error {
	if sprint.Status != types.SprintStatusActive {
		return apperrors.BadRequest("Only active sprint can be completed")
	}

	err := conn.Transaction(func(tx *gorm.DB) error {
		if nextSprintID != nil {
			var next models.Sprint

			err := tx.Where("id = ? AND project_id = ?", *nextSprintID, sprint.ProjectID).First(&next).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.BadRequest("Next sprint is invalid for this project")
			}
			if err != nil {
				return err
			}
			if next.ID == sprint.ID {
				return apperrors.BadRequest("Next sprint is invalid for this project")
			}
		}

		if err := tx.Model(sprint).Update("status", types.SprintStatusCompleted).Error; err != nil {
			return err
		}

		unfinished := tx.Model(&models.IssueStatus{}).
			Select("id").
			Where("project_id = ? AND category <> ?", sprint.ProjectID, types.StatusCategoryDone)

		return tx.Model(&models.Issue{}).
			Where("sprint_id = ? AND status_id IN (?)", sprint.ID, unfinished).
			Update("sprint_id", nextSprintID).Error
	})
	if err != nil {
		return err
	}

	sprint.Status = types.SprintStatusCompleted
	return nil
}

// DeleteSprint is allowed at any status. The sprint's issues move to the
// backlog before the row goes, in one transaction.
func DeleteSprint(conn *gorm.DB, sprint *models.Sprint) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Issue{}).
			Where("sprint_id = ?", sprint.ID).
			Update("sprint_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(sprint).Error
	})
}
