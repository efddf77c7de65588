package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahurasense/ahurasense/internal/types"
)

func TestIssueNumbersAreSequentialPerProject(t *testing.T) {
	conn, user, workspace, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	for i := 1; i <= 5; i++ {
		issue := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
			Type:     types.IssueTypeTask,
			Title:    fmt.Sprintf("Task %d", i),
			StatusID: backlog.ID,
		})
		assert.Equal(t, i, issue.IssueNumber)
		assert.Equal(t, fmt.Sprintf("CORE-%d", i), issue.Key)
	}

	// A second project counts independently.
	other, err := CreateProject(conn, workspace.ID, user.ID, CreateProjectInput{
		Key:  "OPS",
		Name: "Operations",
		Type: "software",
	})
	require.NoError(t, err)
	otherBacklog := statusByName(t, conn, other.ID, "Backlog")

	issue := mustCreateIssue(t, conn, other, user.ID, CreateIssueInput{
		Type:     types.IssueTypeTask,
		Title:    "First",
		StatusID: otherBacklog.ID,
	})
	assert.Equal(t, 1, issue.IssueNumber)
	assert.Equal(t, "OPS-1", issue.Key)
}

func TestIssueKeyFormat(t *testing.T) {
	assert.Equal(t, "CORE-42", IssueKey("CORE", 42))
}
