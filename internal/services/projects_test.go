package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

func TestCreateWorkspaceWritesOwnerMembership(t *testing.T) {
	conn, user, workspace, _ := newFixture(t)

	var membership models.WorkspaceMembership
	require.NoError(t, conn.Where("workspace_id = ? AND user_id = ?", workspace.ID, user.ID).First(&membership).Error)
	assert.Equal(t, types.WorkspaceRoleOwner, membership.Role)
	assert.Equal(t, user.ID, workspace.OwnerID)
}

func TestDuplicateWorkspaceSlugRejected(t *testing.T) {
	conn, user, _, _ := newFixture(t)

	_, err := CreateWorkspace(conn, user.ID, CreateWorkspaceInput{Name: "Other", Slug: "acme"})
	require.Error(t, err)
	assert.EqualError(t, err, "Workspace slug already exists")
}

func TestCreateProjectSeedsLeadMembership(t *testing.T) {
	conn, user, _, project := newFixture(t)

	var membership models.ProjectMembership
	require.NoError(t, conn.Where("project_id = ? AND user_id = ?", project.ID, user.ID).First(&membership).Error)
	assert.Equal(t, types.ProjectRoleLead, membership.Role)

	require.NotNil(t, project.LeadID)
	assert.Equal(t, user.ID, *project.LeadID)
}

func TestDuplicateProjectKeyRejected(t *testing.T) {
	conn, user, workspace, _ := newFixture(t)

	_, err := CreateProject(conn, workspace.ID, user.ID, CreateProjectInput{
		Key:  "CORE",
		Name: "Another Core",
		Type: "software",
	})
	require.Error(t, err)
	assert.EqualError(t, err, "Project key already exists")
}
