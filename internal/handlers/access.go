package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/middleware"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/permissions"
	"github.com/ahurasense/ahurasense/internal/utils"
)

// projectAccess authenticates the caller, parses the project_id parameter and
// resolves their capability against the project. On failure it has already
// written the response and the caller must return.
func projectAccess(ctx *gin.Context) (middleware.AuthenticatedUser, *permissions.ProjectAccess, bool) {
	user, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return middleware.AuthenticatedUser{}, nil, false
	}

	projectID, err := utils.IDParam(ctx, "project_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return user, nil, false
	}

	access, err := permissions.ForProject(db.DB, user.ID, user.Role, projectID)
	if err != nil {
		utils.RespondError(ctx, err)
		return user, nil, false
	}

	return user, access, true
}

// issueAccess loads the issue from the issue_id parameter and resolves the
// caller's capability against its project. A missing issue is a 404 before
// any permission information leaks.
func issueAccess(ctx *gin.Context) (middleware.AuthenticatedUser, *models.Issue, *permissions.ProjectAccess, bool) {
	user, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return middleware.AuthenticatedUser{}, nil, nil, false
	}

	issueID, err := utils.IDParam(ctx, "issue_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return user, nil, nil, false
	}

	var issue models.Issue

	if err := db.DB.Where("id = ?", issueID).First(&issue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			utils.RespondError(ctx, err)
		}
		return user, nil, nil, false
	}

	access, err := permissions.ForProject(db.DB, user.ID, user.Role, issue.ProjectID)
	if err != nil {
		utils.RespondError(ctx, err)
		return user, nil, nil, false
	}

	return user, &issue, access, true
}

// requireProjectWriter rejects callers who may not mutate project content:
// writing needs an explicit project membership or manage rights from above.
// Managers without an explicit membership get a viewer row materialized so
// later reads see consistent membership state. On failure the response has
// been written and the caller must return.
func requireProjectWriter(ctx *gin.Context, user middleware.AuthenticatedUser, access *permissions.ProjectAccess) bool {
	// Any explicit project membership row passes, viewer included; the
	// reference system gates writes on the row's existence, not its role.
	if access.ProjectRole != "" {
		return true
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return false
	}

	if err := permissions.EnsureProjectMembership(db.DB, access.Project.ID, user.ID); err != nil {
		utils.RespondError(ctx, err)
		return false
	}

	return true
}
