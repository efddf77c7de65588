package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/internal/apperrors"
)

// RespondError maps engine errors onto HTTP responses. Typed errors carry
// their own status; anything else is a storage or programming failure and
// stays generic so no partial-state details leak.
func RespondError(ctx *gin.Context, err error) {
	var appErr *apperrors.Error

	if errors.As(err, &appErr) {
		ctx.JSON(appErr.Status, gin.H{"error": appErr.Message})
		return
	}

	log.Printf("%s %s failed: %v", ctx.Request.Method, ctx.FullPath(), err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
