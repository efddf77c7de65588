package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/models"
)

// trackedFields is the fixed set diffed on every issue update, in the order
// history rows are written.
var trackedFields = []string{
	"title",
	"type",
	"statusId",
	"priority",
	"assigneeId",
	"sprintId",
	"storyPoints",
	"parentId",
	"epicId",
}

func issueSnapshot(issue models.Issue) map[string]*string {
	return map[string]*string{
		"title":       stringValue(issue.Title),
		"type":        stringValue(issue.Type),
		"statusId":    stringifyUint(&issue.StatusID),
		"priority":    stringValue(issue.Priority),
		"assigneeId":  stringifyUint(issue.AssigneeID),
		"sprintId":    stringifyUint(issue.SprintID),
		"storyPoints": stringifyInt(issue.StoryPoints),
		"parentId":    stringifyUint(issue.ParentID),
		"epicId":      stringifyUint(issue.EpicID),
	}
}

// RecordIssueDiff appends one history row per tracked field whose stringified
// value changed between the two snapshots. Returns the changed field names.
func RecordIssueDiff(tx *gorm.DB, userID uint, before, after models.Issue) ([]string, error) {
	beforeValues := issueSnapshot(before)
	afterValues := issueSnapshot(after)

	var changed []string

	for _, field := range trackedFields {
		if equalValue(beforeValues[field], afterValues[field]) {
			continue
		}

		entry := models.IssueHistory{
			IssueID:   after.ID,
			UserID:    userID,
			FieldName: field,
			OldValue:  beforeValues[field],
			NewValue:  afterValues[field],
		}
		if err := tx.Create(&entry).Error; err != nil {
			return nil, err
		}

		changed = append(changed, field)
	}

	return changed, nil
}

// RecordIssueEvent appends a single descriptive entry for non-diff mutations
// (create, move, comment, attachment).
func RecordIssueEvent(tx *gorm.DB, issueID, userID uint, fieldName string, oldValue, newValue *string) error {
	entry := models.IssueHistory{
		IssueID:   issueID,
		UserID:    userID,
		FieldName: fieldName,
		OldValue:  oldValue,
		NewValue:  newValue,
	}

	return tx.Create(&entry).Error
}

func equalValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func stringValue(v string) *string {
	return &v
}

func stringifyUint(v *uint) *string {
	if v == nil {
		return nil
	}
	s := fmt.Sprintf("%d", *v)
	return &s
}

func stringifyInt(v *int) *string {
	if v == nil {
		return nil
	}
	s := fmt.Sprintf("%d", *v)
	return &s
}
