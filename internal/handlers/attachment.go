package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type AddAttachmentRequest struct {
	FileName string `json:"file_name" binding:"required,min=1,max=500"`
	FileURL  string `json:"file_url" binding:"required,url"`
	FileSize int64  `json:"file_size" binding:"omitempty,min=0"`
	MimeType string `json:"mime_type" binding:"omitempty,max=200"`
}

type AttachmentResponse struct {
	ID        uint   `json:"id"`
	IssueID   uint   `json:"issue_id"`
	UserID    uint   `json:"user_id"`
	FileName  string `json:"file_name"`
	FileURL   string `json:"file_url"`
	FileSize  int64  `json:"file_size"`
	MimeType  string `json:"mime_type"`
	CreatedAt string `json:"created_at"`
}

func attachmentResponse(attachment models.IssueAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:        attachment.ID,
		IssueID:   attachment.IssueID,
		UserID:    attachment.UserID,
		FileName:  attachment.FileName,
		FileURL:   attachment.FileURL,
		FileSize:  attachment.FileSize,
		MimeType:  attachment.MimeType,
		CreatedAt: attachment.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ListIssueAttachments(ctx *gin.Context) {
	_, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var attachments []models.IssueAttachment

	if err := db.DB.Where("issue_id = ?", issue.ID).Order("created_at asc").Find(&attachments).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		response = append(response, attachmentResponse(attachment))
	}

	ctx.JSON(http.StatusOK, response)
}

// AddIssueAttachment records metadata for an object already uploaded through
// the presign flow.
func AddIssueAttachment(ctx *gin.Context) {
	user, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	var body AddAttachmentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	attachment, err := services.AddAttachment(db.DB, issue, user.ID, body.FileName, body.FileURL, body.FileSize, body.MimeType)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, attachmentResponse(*attachment))
}
