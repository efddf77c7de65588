package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

func newSprint(t *testing.T, conn *gorm.DB, projectID uint, name, status string) *models.Sprint {
	t.Helper()

	sprint := &models.Sprint{
		ProjectID: projectID,
		Name:      name,
		StartDate: time.Now(),
		EndDate:   time.Now().Add(14 * 24 * time.Hour),
		Status:    status,
	}
	require.NoError(t, conn.Create(sprint).Error)
	return sprint
}

func TestSprintTransitionsAreStrictlyForward(t *testing.T) {
	conn, _, _, project := newFixture(t)

	sprint := newSprint(t, conn, project.ID, "Sprint 1", types.SprintStatusPlanning)

	require.NoError(t, StartSprint(conn, sprint))
	assert.Equal(t, types.SprintStatusActive, sprint.Status)

	// Starting twice is rejected.
	err := StartSprint(conn, sprint)
	require.Error(t, err)
	assert.EqualError(t, err, "Only planning sprint can be started")

	require.NoError(t, CompleteSprint(conn, sprint, nil))
	assert.Equal(t, types.SprintStatusCompleted, sprint.Status)

	err = CompleteSprint(conn, sprint, nil)
	require.Error(t, err)
	assert.EqualError(t, err, "Only active sprint can be completed")
}

func TestCompletingPlanningSprintRejected(t *testing.T) {
	conn, _, _, project := newFixture(t)

	sprint := newSprint(t, conn, project.ID, "Sprint 1", types.SprintStatusPlanning)

	err := CompleteSprint(conn, sprint, nil)
	require.Error(t, err)
	assert.EqualError(t, err, "Only active sprint can be completed")
}

func TestCompleteSprintCarriesOverUnfinishedIssues(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")
	done := statusByName(t, conn, project.ID, "Done")

	sprint := newSprint(t, conn, project.ID, "Sprint 1", types.SprintStatusActive)
	next := newSprint(t, conn, project.ID, "Sprint 2", types.SprintStatusPlanning)

	unfinished := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
		Type: types.IssueTypeTask, Title: "Open work", StatusID: backlog.ID, SprintID: &sprint.ID,
	})
	finished := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
		Type: types.IssueTypeTask, Title: "Shipped", StatusID: done.ID, SprintID: &sprint.ID,
	})

	require.NoError(t, CompleteSprint(conn, sprint, &next.ID))

	var reloaded models.Issue
	require.NoError(t, conn.First(&reloaded, unfinished.ID).Error)
	require.NotNil(t, reloaded.SprintID)
	assert.Equal(t, next.ID, *reloaded.SprintID)

	// Done issues stay on the completed sprint as the historical record.
	reloaded = models.Issue{} // clear primary key so GORM doesn't add it as a condition
	require.NoError(t, conn.First(&reloaded, finished.ID).Error)
	require.NotNil(t, reloaded.SprintID)
	assert.Equal(t, sprint.ID, *reloaded.SprintID)
}

func TestCompleteSprintWithoutNextSendsWorkToBacklog(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	sprint := newSprint(t, conn, project.ID, "Sprint 1", types.SprintStatusActive)

	unfinished := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
		Type: types.IssueTypeTask, Title: "Open work", StatusID: backlog.ID, SprintID: &sprint.ID,
	})

	require.NoError(t, CompleteSprint(conn, sprint, nil))

	var reloaded models.Issue
	require.NoError(t, conn.First(&reloaded, unfinished.ID).Error)
	assert.Nil(t, reloaded.SprintID)
}

func TestCompleteSprintRejectsForeignNextSprint(t *testing.T) {
	conn, user, workspace, project := newFixture(t)

	other, err := CreateProject(conn, workspace.ID, user.ID, CreateProjectInput{
		Key:  "OPS",
		Name: "Operations",
		Type: "software",
	})
	require.NoError(t, err)

	sprint := newSprint(t, conn, project.ID, "Sprint 1", types.SprintStatusActive)
	foreign := newSprint(t, conn, other.ID, "Elsewhere", types.SprintStatusPlanning)

	err = CompleteSprint(conn, sprint, &foreign.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "Next sprint is invalid for this project")

	// The sprint must not have transitioned.
	var reloaded models.Sprint
	require.NoError(t, conn.First(&reloaded, sprint.ID).Error)
	assert.Equal(t, types.SprintStatusActive, reloaded.Status)
}

func TestDeleteSprintResetsIssuesToBacklog(t *testing.T) {
	conn, user, _, project := newFixture(t)
	backlog := statusByName(t, conn, project.ID, "Backlog")

	sprint := newSprint(t, conn, project.ID, "Sprint 1", types.SprintStatusActive)

	issue := mustCreateIssue(t, conn, project, user.ID, CreateIssueInput{
		Type: types.IssueTypeTask, Title: "Open work", StatusID: backlog.ID, SprintID: &sprint.ID,
	})

	require.NoError(t, DeleteSprint(conn, sprint))

	var reloaded models.Issue
	require.NoError(t, conn.First(&reloaded, issue.ID).Error)
	assert.Nil(t, reloaded.SprintID)

	var count int64
	require.NoError(t, conn.Model(&models.Sprint{}).Where("id = ?", sprint.ID).Count(&count).Error)
	assert.Zero(t, count)
}
