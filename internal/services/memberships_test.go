package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/types"
)

func newWorkspaceMember(t *testing.T, conn *gorm.DB, workspaceID uint, email string) *models.User {
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
		WorkspaceID: workspaceID,
		UserID:      user.ID,
		Role:        types.WorkspaceRoleMember,
	}).Error)

	return user
}

func projectLeadID(t *testing.T, conn *gorm.DB, projectID uint) *uint {
	t.Helper()

	var project models.Project
	require.NoError(t, conn.First(&project, projectID).Error)
	return project.LeadID
}

func TestAddingMemberRequiresWorkspaceMembership(t *testing.T) {
	conn, _, _, project := newFixture(t)

	outsider := &models.User{
		FirstName:    "Out",
		LastName:     "Sider",
		Email:        "outsider@example.com",
		PasswordHash: "irrelevant",
		Role:         types.GlobalRoleMember,
		Status:       types.UserStatusActive,
	}
	require.NoError(t, conn.Create(outsider).Error)

	_, _, err := UpsertProjectMember(conn, project, outsider.ID, types.ProjectRoleDeveloper)
	require.Error(t, err)
	assert.EqualError(t, err, "User must be a workspace member before adding to project")
}

func TestPromotingToLeadSetsProjectLead(t *testing.T) {
	conn, _, workspace, project := newFixture(t)

	member := newWorkspaceMember(t, conn, workspace.ID, "dev@example.com")

	membership, created, err := UpsertProjectMember(conn, project, member.ID, types.ProjectRoleLead)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, types.ProjectRoleLead, membership.Role)

	leadID := projectLeadID(t, conn, project.ID)
	require.NotNil(t, leadID)
	assert.Equal(t, member.ID, *leadID)
}

func TestDemotingCurrentLeadClearsProjectLead(t *testing.T) {
	conn, _, workspace, project := newFixture(t)

	member := newWorkspaceMember(t, conn, workspace.ID, "dev@example.com")

	_, _, err := UpsertProjectMember(conn, project, member.ID, types.ProjectRoleLead)
	require.NoError(t, err)

	_, err = UpdateProjectMemberRole(conn, project, member.ID, types.ProjectRoleDeveloper)
	require.NoError(t, err)

	assert.Nil(t, projectLeadID(t, conn, project.ID))
}

func TestRemovingCurrentLeadClearsProjectLead(t *testing.T) {
	conn, _, workspace, project := newFixture(t)

	member := newWorkspaceMember(t, conn, workspace.ID, "dev@example.com")

	_, _, err := UpsertProjectMember(conn, project, member.ID, types.ProjectRoleLead)
	require.NoError(t, err)

	require.NoError(t, RemoveProjectMember(conn, project, member.ID))

	assert.Nil(t, projectLeadID(t, conn, project.ID))

	var count int64
	require.NoError(t, conn.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", project.ID, member.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestDemotingSomeoneElseKeepsCurrentLead(t *testing.T) {
	conn, owner, workspace, project := newFixture(t)

	member := newWorkspaceMember(t, conn, workspace.ID, "dev@example.com")

	_, _, err := UpsertProjectMember(conn, project, member.ID, types.ProjectRoleDeveloper)
	require.NoError(t, err)

	_, err = UpdateProjectMemberRole(conn, project, member.ID, types.ProjectRoleTester)
	require.NoError(t, err)

	// The creator's lead assignment is untouched.
	leadID := projectLeadID(t, conn, project.ID)
	require.NotNil(t, leadID)
	assert.Equal(t, owner.ID, *leadID)
}

func TestWorkspaceOwnerRoleIsImmutable(t *testing.T) {
	conn, owner, workspace, _ := newFixture(t)

	_, err := UpdateWorkspaceMemberRole(conn, workspace, owner.ID, types.WorkspaceRoleMember)
	require.Error(t, err)
	assert.EqualError(t, err, "Workspace owner role cannot be modified")

	err = RemoveWorkspaceMember(conn, workspace, owner.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "Workspace owner cannot be removed")
}

func TestWorkspaceMemberRoleUpdateAndRemoval(t *testing.T) {
	conn, _, workspace, _ := newFixture(t)

	member := newWorkspaceMember(t, conn, workspace.ID, "dev@example.com")

	membership, err := UpdateWorkspaceMemberRole(conn, workspace, member.ID, types.WorkspaceRoleViewer)
	require.NoError(t, err)
	assert.Equal(t, types.WorkspaceRoleViewer, membership.Role)

	require.NoError(t, RemoveWorkspaceMember(conn, workspace, member.ID))

	_, err = UpdateWorkspaceMemberRole(conn, workspace, member.ID, types.WorkspaceRoleMember)
	require.Error(t, err)
	assert.EqualError(t, err, "Member not found")
}
