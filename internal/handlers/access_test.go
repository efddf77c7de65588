package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/middleware"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/permissions"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/testutil"
	"github.com/ahurasense/ahurasense/internal/types"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return ctx, recorder
}

func seedWriteGateFixture(t *testing.T) (*gorm.DB, *models.Workspace, *models.Project) {
	t.Helper()

	conn := testutil.OpenDB(t)
	db.DB = conn

	owner := &models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "irrelevant",
		Role:         types.GlobalRoleManager,
		Status:       types.UserStatusActive,
	}
	require.NoError(t, conn.Create(owner).Error)

	workspace, err := services.CreateWorkspace(conn, owner.ID, services.CreateWorkspaceInput{
		Name: "Acme",
		Slug: "acme",
	})
	require.NoError(t, err)

	project, err := services.CreateProject(conn, workspace.ID, owner.ID, services.CreateProjectInput{
		Key:  "CORE",
		Name: "Core Platform",
		Type: "software",
	})
	require.NoError(t, err)

	return conn, workspace, project
}

func newGateUser(t *testing.T, conn *gorm.DB, email string) *models.User {
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
	return user
}

// An explicit membership row passes the write gate whatever its role; the
// viewer role is not special-cased.
func TestWriteGatePassesExplicitViewerMembership(t *testing.T) {
	conn, workspace, project := seedWriteGateFixture(t)

	viewer := newGateUser(t, conn, "viewer@example.com")
	require.NoError(t, conn.Create(&models.WorkspaceMembership{
		WorkspaceID: workspace.ID,
		UserID:      viewer.ID,
		Role:        types.WorkspaceRoleMember,
	}).Error)
	require.NoError(t, conn.Create(&models.ProjectMembership{
		ProjectID: project.ID,
		UserID:    viewer.ID,
		Role:      types.ProjectRoleViewer,
	}).Error)

	access, err := permissions.ForProject(conn, viewer.ID, viewer.Role, project.ID)
	require.NoError(t, err)

	ctx, recorder := newTestContext(t)

	ok := requireProjectWriter(ctx, middleware.AuthenticatedUser{ID: viewer.ID, Role: viewer.Role}, access)
	assert.True(t, ok)
	assert.Empty(t, recorder.Body.String())
}

func TestWriteGateRejectsWorkspaceMemberWithoutProjectRole(t *testing.T) {
	conn, workspace, project := seedWriteGateFixture(t)

	bystander := newGateUser(t, conn, "bystander@example.com")
	require.NoError(t, conn.Create(&models.WorkspaceMembership{
		WorkspaceID: workspace.ID,
		UserID:      bystander.ID,
		Role:        types.WorkspaceRoleMember,
	}).Error)

	access, err := permissions.ForProject(conn, bystander.ID, bystander.Role, project.ID)
	require.NoError(t, err)

	ctx, recorder := newTestContext(t)

	ok := requireProjectWriter(ctx, middleware.AuthenticatedUser{ID: bystander.ID, Role: bystander.Role}, access)
	assert.False(t, ok)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// No membership row was materialized for the rejected caller.
	var count int64
	require.NoError(t, conn.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", project.ID, bystander.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestWriteGateMaterializesViewerRowForWorkspaceAdmin(t *testing.T) {
	conn, workspace, project := seedWriteGateFixture(t)

	admin := newGateUser(t, conn, "admin@example.com")
	require.NoError(t, conn.Create(&models.WorkspaceMembership{
		WorkspaceID: workspace.ID,
		UserID:      admin.ID,
		Role:        types.WorkspaceRoleAdmin,
	}).Error)

	access, err := permissions.ForProject(conn, admin.ID, admin.Role, project.ID)
	require.NoError(t, err)
	require.Empty(t, access.ProjectRole)

	ctx, _ := newTestContext(t)

	ok := requireProjectWriter(ctx, middleware.AuthenticatedUser{ID: admin.ID, Role: admin.Role}, access)
	assert.True(t, ok)

	var membership models.ProjectMembership
	require.NoError(t, conn.
		Where("project_id = ? AND user_id = ?", project.ID, admin.ID).
		First(&membership).Error)
	assert.Equal(t, types.ProjectRoleViewer, membership.Role)
}
