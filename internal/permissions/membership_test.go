package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/testutil"
	"github.com/ahurasense/ahurasense/internal/types"
)

func seedProject(t *testing.T) (*gorm.DB, *models.User, *models.Project) {
	t.Helper()

	conn := testutil.OpenDB(t)

	user := &models.User{
		FirstName:    "Grace",
		LastName:     "Hopper",
		Email:        "grace@example.com",
		PasswordHash: "irrelevant",
		Role:         types.GlobalRoleMember,
		Status:       types.UserStatusActive,
	}
	require.NoError(t, conn.Create(user).Error)

	workspace := &models.Workspace{
		Name:    "Acme",
		Slug:    "acme",
		OwnerID: user.ID,
	}
	require.NoError(t, conn.Create(workspace).Error)

	project := &models.Project{
		WorkspaceID: workspace.ID,
		Key:         "CORE",
		Name:        "Core Platform",
		Type:        "software",
		Status:      types.ProjectStatusActive,
	}
	require.NoError(t, conn.Create(project).Error)

	return conn, user, project
}

func membershipRows(t *testing.T, conn *gorm.DB, projectID, userID uint) []models.ProjectMembership {
	t.Helper()

	var rows []models.ProjectMembership
	require.NoError(t, conn.Where("project_id = ? AND user_id = ?", projectID, userID).Find(&rows).Error)
	return rows
}

func TestEnsureProjectMembershipMaterializesViewerRow(t *testing.T) {
	conn, user, project := seedProject(t)

	require.NoError(t, EnsureProjectMembership(conn, project.ID, user.ID))

	rows := membershipRows(t, conn, project.ID, user.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, types.ProjectRoleViewer, rows[0].Role)
}

func TestEnsureProjectMembershipIsIdempotent(t *testing.T) {
	conn, user, project := seedProject(t)

	require.NoError(t, EnsureProjectMembership(conn, project.ID, user.ID))
	require.NoError(t, EnsureProjectMembership(conn, project.ID, user.ID))

	rows := membershipRows(t, conn, project.ID, user.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, types.ProjectRoleViewer, rows[0].Role)
}

func TestEnsureProjectMembershipKeepsExistingRole(t *testing.T) {
	conn, user, project := seedProject(t)

	require.NoError(t, conn.Create(&models.ProjectMembership{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      types.ProjectRoleDeveloper,
	}).Error)

	require.NoError(t, EnsureProjectMembership(conn, project.ID, user.ID))

	rows := membershipRows(t, conn, project.ID, user.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, types.ProjectRoleDeveloper, rows[0].Role)
}
