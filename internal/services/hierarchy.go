package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/apperrors"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

// ResolveHierarchy validates the parent/epic linkage for an issue of the given
// type and returns the pair to persist. Epic inheritance: an issue without an
// explicit epic link inherits its parent's epic. Rules run in order; the first
// failure wins. issueID is zero on create and set on update so self-references
// can be rejected. Callers merge unspecified fields from current state before
// calling, so a bare type change revalidates the existing links.
func ResolveHierarchy(tx *gorm.DB, projectID, issueID uint, issueType string, parentID, epicID *uint) (*uint, *uint, error) {
	if issueType == types.IssueTypeEpic {
		if parentID != nil || epicID != nil {
			return nil, nil, apperrors.BadRequest("Epic cannot be linked to parent or epic")
		}
		return nil, nil, nil
	}

	if issueID != 0 {
		if parentID != nil && *parentID == issueID {
			return nil, nil, apperrors.BadRequest("Issue cannot be its own parent")
		}
		if epicID != nil && *epicID == issueID {
			return nil, nil, apperrors.BadRequest("Issue cannot be its own epic")
		}
	}

	if parentID != nil {
		var parent models.Issue

		err := tx.Select("id", "type", "epic_id").
			Where("id = ? AND project_id = ?", *parentID, projectID).
			First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.BadRequest("Invalid parent issue for this project")
		}
		if err != nil {
			return nil, nil, err
		}

		switch issueType {
		case types.IssueTypeTask, types.IssueTypeBug:
			if parent.Type != types.IssueTypeStory {
				return nil, nil, apperrors.BadRequest("Task/Bug parent must be a Story")
			}
		case types.IssueTypeSubtask:
			if parent.Type != types.IssueTypeStory && parent.Type != types.IssueTypeTask && parent.Type != types.IssueTypeBug {
				return nil, nil, apperrors.BadRequest("Subtask parent must be Story/Task/Bug")
			}
		case types.IssueTypeStory:
			return nil, nil, apperrors.BadRequest("Story cannot have a parent issue")
		}

		if epicID == nil && parent.EpicID != nil {
			epicID = parent.EpicID
		}
	} else if issueType == types.IssueTypeSubtask {
		return nil, nil, apperrors.BadRequest("Subtask must have a parent issue")
	}

	if epicID != nil {
		var epic models.Issue

		err := tx.Select("id", "type").
			Where("id = ? AND project_id = ?", *epicID, projectID).
			First(&epic).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && epic.Type != types.IssueTypeEpic) {
			return nil, nil, apperrors.BadRequest("Epic link must reference an Epic issue")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
	}

	return parentID, epicID, nil
}
