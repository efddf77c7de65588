package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/testutil"
	"github.com/ahurasense/ahurasense/internal/types"
)

// newFixture provisions a fresh database with one user owning one workspace
// containing one project seeded with the default board columns.
func newFixture(t *testing.T) (*gorm.DB, *models.User, *models.Workspace, *models.Project) {
	t.Helper()

	conn := testutil.OpenDB(t)

	user := &models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "irrelevant",
		Role:         types.GlobalRoleManager,
		Status:       types.UserStatusActive,
	}
	require.NoError(t, conn.Create(user).Error)

	workspace, err := CreateWorkspace(conn, user.ID, CreateWorkspaceInput{
		Name: "Acme",
		Slug: "acme",
	})
	require.NoError(t, err)

	project, err := CreateProject(conn, workspace.ID, user.ID, CreateProjectInput{
		Key:  "CORE",
		Name: "Core Platform",
		Type: "software",
	})
	require.NoError(t, err)

	return conn, user, workspace, project
}

func statusByName(t *testing.T, conn *gorm.DB, projectID uint, name string) *models.IssueStatus {
	t.Helper()

	var status models.IssueStatus
	require.NoError(t, conn.Where("project_id = ? AND name = ?", projectID, name).First(&status).Error)
	return &status
}

// newProjectMember creates a user, joins them to the workspace and the
// project with the given roles.
func newProjectMember(t *testing.T, conn *gorm.DB, workspace *models.Workspace, project *models.Project, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:    "Member",
		LastName:     email,
		Email:        email,
		PasswordHash: "irrelevant",
		Role:         types.GlobalRoleMember,
		Status:       types.UserStatusActive,
	}
	require.NoError(t, conn.Create(user).Error)

	require.NoError(t, conn.Create(&models.WorkspaceMembership{
		WorkspaceID: workspace.ID,
		UserID:      user.ID,
		Role:        types.WorkspaceRoleMember,
	}).Error)

	require.NoError(t, conn.Create(&models.ProjectMembership{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      role,
	}).Error)

	return user
}

func mustCreateIssue(t *testing.T, conn *gorm.DB, project *models.Project, reporterID uint, in CreateIssueInput) *models.Issue {
	t.Helper()

	issue, err := CreateIssue(conn, project, reporterID, in)
	require.NoError(t, err)
	return issue
}

// bucketPositions returns the ordered positions of a (project, status) bucket
// together with the issue IDs holding them.
func bucketPositions(t *testing.T, conn *gorm.DB, projectID, statusID uint) ([]int, []uint) {
	t.Helper()

	var issues []models.Issue
	require.NoError(t, conn.
		Where("project_id = ? AND status_id = ?", projectID, statusID).
		Order("position asc").
		Find(&issues).Error)

	positions := make([]int, 0, len(issues))
	ids := make([]uint, 0, len(issues))
	for _, issue := range issues {
		positions = append(positions, issue.Position)
		ids = append(ids, issue.ID)
	}
	return positions, ids
}

// requireDense asserts the bucket is exactly 0..n-1.
func requireDense(t *testing.T, conn *gorm.DB, projectID, statusID uint) {
	t.Helper()

	positions, _ := bucketPositions(t, conn, projectID, statusID)
	for i, position := range positions {
		require.Equal(t, i, position, fmt.Sprintf("bucket %d not dense at index %d", statusID, i))
	}
}

func uintPtr(v uint) *uint {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
