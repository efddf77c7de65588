package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

func historyFields(t *testing.T, conn *gorm.DB, issueID uint) []string {
	t.Helper()

	var entries []models.IssueHistory
	require.NoError(t, conn.Where("issue_id = ?", issueID).Order("id asc").Find(&entries).Error)

	fields := make([]string, 0, len(entries))
	for _, entry := range entries {
		fields = append(fields, entry.FieldName)
	}
	return fields
}

func TestCreateWritesSingleHistoryEntry(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	issue := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
		Type:     types.IssueTypeTask,
		Title:    "A",
		StatusID: backlog.ID,
	})

	assert.Equal(t, []string{"create"}, historyFields(t, conn, issue.ID))
}

func TestUpdateRecordsExactlyTheChangedFields(t *testing.T) {
	conn, user, workspace, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	assignee := newProjectMember(t, conn, workspace, project, "dev@example.com", types.ProjectRoleDeveloper)

	issue := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
		Type:     types.IssueTypeTask,
		Title:    "A",
		StatusID: backlog.ID,
	})

	_, err := UpdateIssue(conn, issue, user.ID, "Ada Lovelace", UpdateIssueInput{
		Title:       strPtr("A, renamed"),
		Priority:    strPtr(types.PriorityHigh),
		AssigneeID:  types.OptionalUint{Set: true, Value: &assignee.ID},
		StoryPoints: types.OptionalInt{Set: true, Value: intPtr(5)},
	})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"create", "title", "priority", "assigneeId", "storyPoints"},
		historyFields(t, conn, issue.ID))

	var entry models.IssueHistory
	require.NoError(t, conn.Where("issue_id = ? AND field_name = ?", issue.ID, "title").First(&entry).Error)
	require.NotNil(t, entry.OldValue)
	require.NotNil(t, entry.NewValue)
	assert.Equal(t, "A", *entry.OldValue)
	assert.Equal(t, "A, renamed", *entry.NewValue)
}

func TestNoopUpdateWritesNothing(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	issue := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
		Type:     types.IssueTypeTask,
		Title:    "A",
		StatusID: backlog.ID,
	})

	_, err := UpdateIssue(conn, issue, user.ID, "Ada Lovelace", UpdateIssueInput{
		Title: strPtr("A"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"create"}, historyFields(t, conn, issue.ID))
}

func TestClearingAssigneeRecordsNullNewValue(t *testing.T) {
	conn, user, workspace, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	assignee := newProjectMember(t, conn, workspace, project, "dev@example.com", types.ProjectRoleDeveloper)

	issue := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
		Type:       types.IssueTypeTask,
		Title:      "A",
		StatusID:   backlog.ID,
		AssigneeID: &assignee.ID,
	})

	_, err := UpdateIssue(conn, issue, user.ID, "Ada Lovelace", UpdateIssueInput{
		AssigneeID: types.OptionalUint{Set: true, Value: nil},
	})
	require.NoError(t, err)

	var entry models.IssueHistory
	require.NoError(t, conn.Where("issue_id = ? AND field_name = ?", issue.ID, "assigneeId").First(&entry).Error)
	require.NotNil(t, entry.OldValue)
	assert.Nil(t, entry.NewValue)
}
