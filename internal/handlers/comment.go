package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/types"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type AddCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=50000"`
}

type CommentResponse struct {
	ID        uint               `json:"id"`
	IssueID   uint               `json:"issue_id"`
	Content   string             `json:"content"`
	CreatedAt string             `json:"created_at"`
	User      types.UserResponse `json:"user"`
}

func commentResponse(comment models.IssueComment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		IssueID:   comment.IssueID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.UTC().Format(time.RFC3339),
		User: types.UserResponse{
			ID:        comment.User.ID,
			FirstName: comment.User.FirstName,
			LastName:  comment.User.LastName,
			Email:     comment.User.Email,
			Role:      comment.User.Role,
			AvatarURL: comment.User.AvatarURL,
		},
	}
}

func ListIssueComments(ctx *gin.Context) {
	_, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var comments []models.IssueComment

	if err := db.DB.Preload("User").Where("issue_id = ?", issue.ID).Order("created_at asc").Find(&comments).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		response = append(response, commentResponse(comment))
	}

	ctx.JSON(http.StatusOK, response)
}

func AddIssueComment(ctx *gin.Context) {
	user, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	var body AddCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actorName := user.FirstName + " " + user.LastName

	comment, err := services.AddComment(db.DB, issue, user.ID, actorName, body.Content)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := db.DB.Preload("User").First(comment, comment.ID).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, commentResponse(*comment))
}
