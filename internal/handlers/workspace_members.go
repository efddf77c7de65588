package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/types"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type AddWorkspaceMemberRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"omitempty,oneof=admin member viewer"`
	FirstName string `json:"first_name" binding:"omitempty,max=100"`
	LastName  string `json:"last_name" binding:"omitempty,max=100"`
}

type UpdateWorkspaceMemberRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member viewer"`
}

type WorkspaceMemberResponse struct {
	ID   uint               `json:"id"`
	Role string             `json:"role"`
	User types.UserResponse `json:"user"`
}

func workspaceMemberResponse(membership models.WorkspaceMembership) WorkspaceMemberResponse {
	return WorkspaceMemberResponse{
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

func ListWorkspaceMembers(ctx *gin.Context) {
	_, access, ok := workspaceAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var memberships []models.WorkspaceMembership

	if err := db.DB.Preload("User").Where("workspace_id = ?", access.Workspace.ID).Order("created_at asc").Find(&memberships).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]WorkspaceMemberResponse, 0, len(memberships))

	for _, membership := range memberships {
		response = append(response, workspaceMemberResponse(membership))
	}

	ctx.JSON(http.StatusOK, response)
}

func AddWorkspaceMember(ctx *gin.Context) {
	_, access, ok := workspaceAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageWorkspace() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var body AddWorkspaceMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role := body.Role
	if role == "" {
		role = types.WorkspaceRoleMember
	}

	if role == types.WorkspaceRoleAdmin && !access.IsOwner() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the workspace owner can grant admin"})
		return
	}

	user, err := findOrInviteUser(body)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var membership models.WorkspaceMembership

	err = db.DB.Where("workspace_id = ? AND user_id = ?", access.Workspace.ID, user.ID).First(&membership).Error
	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "User is already a workspace member"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(ctx, err)
		return
	}

	membership = models.WorkspaceMembership{
		WorkspaceID: access.Workspace.ID,
		UserID:      user.ID,
		Role:        role,
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	membership.User = *user

	ctx.JSON(http.StatusCreated, workspaceMemberResponse(membership))
}

func UpdateWorkspaceMember(ctx *gin.Context) {
	_, access, ok := workspaceAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageWorkspace() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	memberID, err := utils.IDParam(ctx, "user_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var body UpdateWorkspaceMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Role == types.WorkspaceRoleAdmin && !access.IsOwner() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the workspace owner can grant admin"})
		return
	}

	membership, err := services.UpdateWorkspaceMemberRole(db.DB, access.Workspace, memberID, body.Role)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := db.DB.Preload("User").First(membership, membership.ID).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, workspaceMemberResponse(*membership))
}

func RemoveWorkspaceMember(ctx *gin.Context) {
	userID, access, ok := workspaceAccess(ctx)
	if !ok {
		return
	}

	memberID, err := utils.IDParam(ctx, "user_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	// Members may leave on their own, everyone else needs manage rights.
	if memberID != userID && !access.Level.CanManageWorkspace() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := services.RemoveWorkspaceMember(db.DB, access.Workspace, memberID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// findOrInviteUser looks up the invitee by email and provisions a placeholder
// account when none exists. The placeholder gets a random password so the
// account is unusable until the user resets it.
func findOrInviteUser(body AddWorkspaceMemberRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	err := db.DB.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	firstName := body.FirstName
	if firstName == "" {
		firstName = strings.Split(email, "@")[0]
	}
	lastName := body.LastName

	user = models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         types.GlobalRoleMember,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
