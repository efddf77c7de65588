package services

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/apperrors"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

// Issue mutation coordination. Each public operation is a single transaction
// combining hierarchy validation, position maintenance, number allocation and
// the audit trail; partial failure aborts the whole operation.

type CreateIssueInput struct {
	Type        string
	Title       string
	Description string
	StatusID    uint
	Priority    string
	AssigneeID  *uint
	SprintID    *uint
	ParentID    *uint
	EpicID      *uint
	StoryPoints *int
	DueDate     *datatypes.Date
}

func CreateIssue(conn *gorm.DB, project *models.Project, reporterID uint, in CreateIssueInput) (*models.Issue, error) {
	if err := validateStatus(conn, project.ID, in.StatusID); err != nil {
		return nil, err
	}
	if in.AssigneeID != nil {
		if err := validateAssignee(conn, project.ID, *in.AssigneeID); err != nil {
			return nil, err
		}
	}
	if in.SprintID != nil {
		if err := validateSprint(conn, project.ID, *in.SprintID); err != nil {
			return nil, err
		}
	}
	if err := validateStoryPoints(in.StoryPoints); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}

	var issue models.Issue

	err := conn.Transaction(func(tx *gorm.DB) error {
		parentID, epicID, err := ResolveHierarchy(tx, project.ID, 0, in.Type, in.ParentID, in.EpicID)
		if err != nil {
			return err
		}

		number, err := NextIssueNumber(tx, project.ID)
		if err != nil {
			return err
		}

		position, err := NextIssuePosition(tx, project.ID, in.StatusID)
		if err != nil {
			return err
		}

		issue = models.Issue{
			ProjectID:   project.ID,
			IssueNumber: number,
			Key:         IssueKey(project.Key, number),
			Type:        in.Type,
			Title:       in.Title,
			Description: in.Description,
			StatusID:    in.StatusID,
			Priority:    priority,
			AssigneeID:  in.AssigneeID,
			ReporterID:  reporterID,
			SprintID:    in.SprintID,
			ParentID:    parentID,
			EpicID:      epicID,
			StoryPoints: in.StoryPoints,
			DueDate:     in.DueDate,
			Position:    position,
		}

		if err := tx.Create(&issue).Error; err != nil {
			return err
		}

		if err := watchIssue(tx, issue.ID, reporterID); err != nil {
			return err
		}
		if issue.AssigneeID != nil {
			if err := watchIssue(tx, issue.ID, *issue.AssigneeID); err != nil {
				return err
			}
		}

		created := "Issue created"
		return RecordIssueEvent(tx, issue.ID, reporterID, "create", nil, &created)
	})
	if err != nil {
		return nil, err
	}

	return &issue, nil
}

type UpdateIssueInput struct {
	Title       *string
	Description types.OptionalString
	Type        *string
	StatusID    *uint
	Priority    *string
	AssigneeID  types.OptionalUint
	SprintID    types.OptionalUint
	StoryPoints types.OptionalInt
	DueDate     *datatypes.Date
	DueDateSet  bool
	ParentID    types.OptionalUint
	EpicID      types.OptionalUint
}

// UpdateIssue merges the input over the current state, revalidates the
// hierarchy against the merged values, persists, and appends one history row
// per changed tracked field. A status change re-homes the issue at the end of
// the target bucket.
func UpdateIssue(conn *gorm.DB, issue *models.Issue, actorID uint, actorName string, in UpdateIssueInput) (*models.Issue, error) {
	if in.StatusID != nil && *in.StatusID != issue.StatusID {
		if err := validateStatus(conn, issue.ProjectID, *in.StatusID); err != nil {
			return nil, err
		}
	}
	if in.AssigneeID.Set && in.AssigneeID.Value != nil {
		if err := validateAssignee(conn, issue.ProjectID, *in.AssigneeID.Value); err != nil {
			return nil, err
		}
	}
	if in.SprintID.Set && in.SprintID.Value != nil {
		if err := validateSprint(conn, issue.ProjectID, *in.SprintID.Value); err != nil {
			return nil, err
		}
	}
	if in.StoryPoints.Set {
		if err := validateStoryPoints(in.StoryPoints.Value); err != nil {
			return nil, err
		}
	}

	nextType := issue.Type
	if in.Type != nil {
		nextType = *in.Type
	}

	nextParentID := issue.ParentID
	if in.ParentID.Set {
		nextParentID = in.ParentID.Value
	}

	nextEpicID := issue.EpicID
	if in.EpicID.Set {
		nextEpicID = in.EpicID.Value
	}

	before := *issue

	var after models.Issue

	err := conn.Transaction(func(tx *gorm.DB) error {
		parentID, epicID, err := ResolveHierarchy(tx, issue.ProjectID, issue.ID, nextType, nextParentID, nextEpicID)
		if err != nil {
			return err
		}

		after = *issue
		after.Type = nextType
		after.ParentID = parentID
		after.EpicID = epicID

		if in.Title != nil {
			after.Title = *in.Title
		}
		if in.Description.Set {
			if in.Description.Value != nil {
				after.Description = *in.Description.Value
			} else {
				after.Description = ""
			}
		}
		if in.Priority != nil {
			after.Priority = *in.Priority
		}
		if in.AssigneeID.Set {
			after.AssigneeID = in.AssigneeID.Value
		}
		if in.SprintID.Set {
			after.SprintID = in.SprintID.Value
		}
		if in.StoryPoints.Set {
			after.StoryPoints = in.StoryPoints.Value
		}
		if in.DueDateSet {
			after.DueDate = in.DueDate
		}

		if in.StatusID != nil && *in.StatusID != issue.StatusID {
			if err := CloseGap(tx, issue.ProjectID, issue.StatusID, issue.Position); err != nil {
				return err
			}

			position, err := NextIssuePosition(tx, issue.ProjectID, *in.StatusID)
			if err != nil {
				return err
			}

			after.StatusID = *in.StatusID
			after.Position = position
		}

		if err := tx.Save(&after).Error; err != nil {
			return err
		}

		if _, err := RecordIssueDiff(tx, actorID, before, after); err != nil {
			return err
		}

		if assigneeChanged(before.AssigneeID, after.AssigneeID) && after.AssigneeID != nil {
			if err := watchIssue(tx, after.ID, *after.AssigneeID); err != nil {
				return err
			}

			notification := models.Notification{
				UserID:  *after.AssigneeID,
				IssueID: &after.ID,
				Type:    types.NotificationAssigned,
				Message: fmt.Sprintf("%s assigned you to %s", actorName, after.Key),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	*issue = after
	return issue, nil
}

type MoveIssueInput struct {
	StatusID *uint
	SprintID types.OptionalUint
	Position int
}

// MoveIssue places the issue at an explicit index of the target bucket. The
// source bucket closes the gap, the target bucket opens a slot, and the issue
// lands in between; all three writes share one transaction so a bucket is
// never observed half-renumbered.
func MoveIssue(conn *gorm.DB, issue *models.Issue, actorID uint, in MoveIssueInput) (*models.Issue, error) {
	if in.Position < 0 {
		return nil, apperrors.BadRequest("Position must not be negative")
	}

	targetStatusID := issue.StatusID
	if in.StatusID != nil {
		targetStatusID = *in.StatusID
	}

	if targetStatusID != issue.StatusID {
		if err := validateStatus(conn, issue.ProjectID, targetStatusID); err != nil {
			return nil, err
		}
	}
	if in.SprintID.Set && in.SprintID.Value != nil {
		if err := validateSprint(conn, issue.ProjectID, *in.SprintID.Value); err != nil {
			return nil, err
		}
	}

	oldStatusID := issue.StatusID
	oldPosition := issue.Position

	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := CloseGap(tx, issue.ProjectID, oldStatusID, oldPosition); err != nil {
			return err
		}

		size, err := BucketSize(tx, issue.ProjectID, targetStatusID)
		if err != nil {
			return err
		}
		if targetStatusID == oldStatusID {
			// The issue itself still counts in its own bucket.
			size--
		}

		position := in.Position
		if position > size {
			position = size
		}

		if err := OpenSlot(tx, issue.ProjectID, targetStatusID, position); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status_id": targetStatusID,
			"position":  position,
		}
		if in.SprintID.Set {
			updates["sprint_id"] = in.SprintID.Value
		}

		if err := tx.Model(issue).Updates(updates).Error; err != nil {
			return err
		}

		issue.StatusID = targetStatusID
		issue.Position = position
		if in.SprintID.Set {
			issue.SprintID = in.SprintID.Value
		}

		oldValue := fmt.Sprintf("%d:%d", oldStatusID, oldPosition)
		newValue := fmt.Sprintf("%d:%d", targetStatusID, position)
		return RecordIssueEvent(tx, issue.ID, actorID, "move", &oldValue, &newValue)
	})
	if err != nil {
		return nil, err
	}

	return issue, nil
}

// AddComment records the comment, its audit entry and watcher notifications
// in one transaction. Delivery of the notifications is someone else's job.
func AddComment(conn *gorm.DB, issue *models.Issue, actorID uint, actorName, content string) (*models.IssueComment, error) {
	var comment models.IssueComment

	err := conn.Transaction(func(tx *gorm.DB) error {
		comment = models.IssueComment{
			IssueID: issue.ID,
			UserID:  actorID,
			Content: content,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		added := "Added comment"
		if err := RecordIssueEvent(tx, issue.ID, actorID, "comment", nil, &added); err != nil {
			return err
		}

		var watchers []models.IssueWatcher
		if err := tx.Where("issue_id = ?", issue.ID).Find(&watchers).Error; err != nil {
			return err
		}

		for _, watcher := range watchers {
			if watcher.UserID == actorID {
				continue
			}

			notification := models.Notification{
				UserID:  watcher.UserID,
				IssueID: &issue.ID,
				Type:    types.NotificationCommented,
				Message: fmt.Sprintf("%s commented on %s", actorName, issue.Key),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// AddAttachment persists the metadata row for an object already uploaded to
// external storage, plus its audit entry.
func AddAttachment(conn *gorm.DB, issue *models.Issue, actorID uint, fileName, fileURL string, fileSize int64, mimeType string) (*models.IssueAttachment, error) {
	var attachment models.IssueAttachment

	err := conn.Transaction(func(tx *gorm.DB) error {
		attachment = models.IssueAttachment{
			IssueID:  issue.ID,
			UserID:   actorID,
			FileName: fileName,
			FileURL:  fileURL,
			FileSize: fileSize,
			MimeType: mimeType,
		}
		if err := tx.Create(&attachment).Error; err != nil {
			return err
		}

		return RecordIssueEvent(tx, issue.ID, actorID, "attachment", nil, &fileName)
	})
	if err != nil {
		return nil, err
	}

	return &attachment, nil
}

func validateStatus(conn *gorm.DB, projectID, statusID uint) error {
	var status models.IssueStatus

	err := conn.Where("id = ? AND project_id = ?", statusID, projectID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.BadRequest("Invalid status for this project")
	}

	return err
}

func validateAssignee(conn *gorm.DB, projectID, userID uint) error {
	var membership models.ProjectMembership

	err := conn.Where("project_id = ? AND user_id = ?", projectID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.BadRequest("Assignee must be a project member")
	}

	return err
}

func validateSprint(conn *gorm.DB, projectID, sprintID uint) error {
	var sprint models.Sprint

	err := conn.Where("id = ? AND project_id = ?", sprintID, projectID).First(&sprint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.BadRequest("Invalid sprint for this project")
	}

	return err
}

func validateStoryPoints(points *int) error {
	if points != nil && (*points < 0 || *points > 100) {
		return apperrors.BadRequest("Story points must be between 0 and 100")
	}
	return nil
}

func assigneeChanged(before, after *uint) bool {
	if before == nil && after == nil {
		return false
	}
	if before == nil || after == nil {
		return true
	}
	return *before != *after
}

func watchIssue(tx *gorm.DB, issueID, userID uint) error {
	watcher := models.IssueWatcher{
		IssueID: issueID,
		UserID:  userID,
	}

	return tx.Where("issue_id = ? AND user_id = ?", issueID, userID).
		FirstOrCreate(&watcher).Error
}
