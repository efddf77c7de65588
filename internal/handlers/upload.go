package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ahurasense/ahurasense/internal/utils"
)

type PresignUploadRequest struct {
	FileName string `json:"file_name" binding:"required,min=1,max=500"`
	MimeType string `json:"mime_type" binding:"omitempty,max=200"`
}

type PresignUploadResponse struct {
	ObjectKey string `json:"object_key"`
	FileURL   string `json:"file_url"`
}

// PresignUpload hands out a unique object key and the public URL the object
// will have once uploaded. The storage service itself lives outside this
// system; clients upload directly against the returned key.
func PresignUpload(ctx *gin.Context) {
	_, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body PresignUploadRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	baseURL := os.Getenv("UPLOADS_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9000/uploads"
	}

	ext := path.Ext(body.FileName)
	objectKey := fmt.Sprintf("attachments/%s%s", uuid.NewString(), ext)

	ctx.JSON(http.StatusOK, PresignUploadResponse{
		ObjectKey: objectKey,
		FileURL:   strings.TrimSuffix(baseURL, "/") + "/" + objectKey,
	})
}
