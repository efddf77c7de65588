package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/permissions"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/types"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Slug        string `json:"slug" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"max=5000"`
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

type WorkspaceResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	OwnerID     uint   `json:"owner_id"`
	Role        string `json:"role,omitempty"`
}

func CreateWorkspace(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if user.Role != types.GlobalRoleAdmin && user.Role != types.GlobalRoleManager {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to create workspaces"})
		return
	}

	var body CreateWorkspaceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !isValidSlug(body.Slug) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Slug can only contain lowercase letters, numbers and hyphens"})
		return
	}

	workspace, err := services.CreateWorkspace(db.DB, user.ID, services.CreateWorkspaceInput{
		Name:        body.Name,
		Slug:        body.Slug,
		Description: body.Description,
	})

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, WorkspaceResponse{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Slug:        workspace.Slug,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID,
		Role:        types.WorkspaceRoleOwner,
	})
}

func ListWorkspaces(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var memberships []models.WorkspaceMembership

	if err := db.DB.Preload("Workspace").Where("user_id = ?", userID).Order("created_at desc").Find(&memberships).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]WorkspaceResponse, 0, len(memberships))

	for _, membership := range memberships {
		response = append(response, WorkspaceResponse{
			ID:          membership.Workspace.ID,
			Name:        membership.Workspace.Name,
			Slug:        membership.Workspace.Slug,
			Description: membership.Workspace.Description,
			OwnerID:     membership.Workspace.OwnerID,
			Role:        membership.Role,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func GetWorkspace(ctx *gin.Context) {
	_, access, ok := workspaceAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	ctx.JSON(http.StatusOK, WorkspaceResponse{
		ID:          access.Workspace.ID,
		Name:        access.Workspace.Name,
		Slug:        access.Workspace.Slug,
		Description: access.Workspace.Description,
		OwnerID:     access.Workspace.OwnerID,
		Role:        access.Role,
	})
}

func UpdateWorkspace(ctx *gin.Context) {
	_, access, ok := workspaceAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageWorkspace() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var body UpdateWorkspaceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	workspace := access.Workspace

	if body.Name != nil {
		workspace.Name = *body.Name
	}
	if body.Description != nil {
		workspace.Description = *body.Description
	}

	if err := db.DB.Save(workspace).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, WorkspaceResponse{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Slug:        workspace.Slug,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID,
		Role:        access.Role,
	})
}

func workspaceAccess(ctx *gin.Context) (uint, *permissions.WorkspaceAccess, bool) {
	user, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, nil, false
	}

	workspaceID, err := utils.IDParam(ctx, "workspace_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return user.ID, nil, false
	}

	access, err := permissions.ForWorkspace(db.DB, user.ID, user.Role, workspaceID)
	if err != nil {
		utils.RespondError(ctx, err)
		return user.ID, nil, false
	}

	return user.ID, access, true
}

func isValidSlug(slug string) bool {
	for _, r := range slug {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return len(slug) > 0
}
