package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/types"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type AddProjectMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,oneof=lead developer tester viewer"`
}

type UpdateProjectMemberRequest struct {
	Role string `json:"role" binding:"required,oneof=lead developer tester viewer"`
}

type ProjectMemberResponse struct {
	ID   uint               `json:"id"`
	Role string             `json:"role"`
	User types.UserResponse `json:"user"`
}

func projectMemberResponse(membership models.ProjectMembership) ProjectMemberResponse {
	return ProjectMemberResponse{
		ID:   membership.ID,
		Role: membership.Role,
		User: types.UserResponse{
			ID:        membership.User.ID,
			FirstName: membership.User.FirstName,
			LastName:  membership.User.LastName,
			Email:     membership.User.Email,
			Role:      membership.User.Role,
			AvatarURL: membership.User.AvatarURL,
		},
	}
}

func ListProjectMembers(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var memberships []models.ProjectMembership

	if err := db.DB.Preload("User").Where("project_id = ?", access.Project.ID).Order("created_at asc").Find(&memberships).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]ProjectMemberResponse, 0, len(memberships))

	for _, membership := range memberships {
		response = append(response, projectMemberResponse(membership))
	}

	ctx.JSON(http.StatusOK, response)
}

func AddProjectMember(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var body AddProjectMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role := body.Role
	if role == "" {
		role = types.ProjectRoleDeveloper
	}

	membership, created, err := services.UpsertProjectMember(db.DB, access.Project, body.UserID, role)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := db.DB.Preload("User").First(membership, membership.ID).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, projectMemberResponse(*membership))
}

func UpdateProjectMember(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	memberID, err := utils.IDParam(ctx, "user_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var body UpdateProjectMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	membership, err := services.UpdateProjectMemberRole(db.DB, access.Project, memberID, body.Role)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := db.DB.Preload("User").First(membership, membership.ID).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projectMemberResponse(*membership))
}

func RemoveProjectMember(ctx *gin.Context) {
	user, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	memberID, err := utils.IDParam(ctx, "user_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	// Members may leave the project themselves.
	if memberID != user.ID && !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := services.RemoveProjectMember(db.DB, access.Project, memberID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
