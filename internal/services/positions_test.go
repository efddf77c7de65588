package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahurasense/ahurasense/internal/types"
)

func TestCreateAppendsAtEndOfBucket(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	for i, title := range []string{"A", "B", "C"} {
		issue := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
			Type:     types.IssueTypeTask,
			Title:    title,
			StatusID: backlog.ID,
		})
		assert.Equal(t, i, issue.Position)
	}

	requireDense(t, conn, project.ID, backlog.ID)
}

func TestMoveAcrossBuckets(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")
	doing := statusByName(t, conn, project.ID, "In Progress")

	a := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "A", StatusID: backlog.ID})
	b := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "B", StatusID: backlog.ID})
	c := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "C", StatusID: backlog.ID})
	d := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "D", StatusID: doing.ID})

	moved, err := MoveIssue(conn, b, user.ID, MoveIssueInput{
		StatusID: &doing.ID,
		Position: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, doing.ID, moved.StatusID)
	assert.Equal(t, 0, moved.Position)

	requireDense(t, conn, project.ID, backlog.ID)
	requireDense(t, conn, project.ID, doing.ID)

	backlogPositions, backlogIDs := bucketPositions(t, conn, project.ID, backlog.ID)
	assert.Equal(t, []int{0, 1}, backlogPositions)
	assert.Equal(t, []uint{a.ID, c.ID}, backlogIDs)

	doingPositions, doingIDs := bucketPositions(t, conn, project.ID, doing.ID)
	assert.Equal(t, []int{0, 1}, doingPositions)
	assert.Equal(t, []uint{b.ID, d.ID}, doingIDs)
}

func TestMoveWithinBucket(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	a := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "A", StatusID: backlog.ID})
	b := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "B", StatusID: backlog.ID})
	c := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "C", StatusID: backlog.ID})

	_, err := MoveIssue(conn, c, user.ID, MoveIssueInput{Position: 0})
	require.NoError(t, err)

	requireDense(t, conn, project.ID, backlog.ID)

	_, ids := bucketPositions(t, conn, project.ID, backlog.ID)
	assert.Equal(t, []uint{c.ID, a.ID, b.ID}, ids)
}

func TestMovePositionClampedToBucketEnd(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")
	doing := statusByName(t, conn, project.ID, "In Progress")

	a := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "A", StatusID: backlog.ID})
	mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "D", StatusID: doing.ID})

	moved, err := MoveIssue(conn, a, user.ID, MoveIssueInput{
		StatusID: &doing.ID,
		Position: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, moved.Position)

	requireDense(t, conn, project.ID, doing.ID)
}

func TestMoveNegativePositionRejected(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	a := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "A", StatusID: backlog.ID})

	_, err := MoveIssue(conn, a, user.ID, MoveIssueInput{Position: -1})
	require.Error(t, err)
	assert.EqualError(t, err, "Position must not be negative")
}

func TestStatusChangeThroughUpdateRehomesAtEnd(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")
	doing := statusByName(t, conn, project.ID, "In Progress")

	a := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "A", StatusID: backlog.ID})
	mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "B", StatusID: backlog.ID})
	mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{Type: types.IssueTypeTask, Title: "D", StatusID: doing.ID})

	updated, err := UpdateIssue(conn, a, user.ID, "Ada Lovelace", UpdateIssueInput{
		StatusID: &doing.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, doing.ID, updated.StatusID)
	assert.Equal(t, 1, updated.Position)

	requireDense(t, conn, project.ID, backlog.ID)
	requireDense(t, conn, project.ID, doing.ID)
}
