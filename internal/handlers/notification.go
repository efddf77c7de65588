package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type NotificationResponse struct {
	ID        uint    `json:"id"`
	IssueID   *uint   `json:"issue_id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	ReadAt    *string `json:"read_at"`
	CreatedAt string  `json:"created_at"`
}

func notificationResponse(notification models.Notification) NotificationResponse {
	var readAt *string
	if notification.ReadAt != nil {
		formatted := notification.ReadAt.UTC().Format(time.RFC3339)
		readAt = &formatted
	}

	return NotificationResponse{
		ID:        notification.ID,
		IssueID:   notification.IssueID,
		Type:      notification.Type,
		Message:   notification.Message,
		ReadAt:    readAt,
		CreatedAt: notification.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ListMyNotifications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := db.DB.Where("user_id = ?", userID)

	if ctx.Query("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	var notifications []models.Notification

	if err := query.Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		response = append(response, notificationResponse(notification))
	}

	ctx.JSON(http.StatusOK, response)
}

func MarkNotificationRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notificationID, err := utils.IDParam(ctx, "notification_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notification models.Notification

	if err := db.DB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	now := time.Now()

	if err := db.DB.Model(&notification).Update("read_at", &now).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	notification.ReadAt = &now

	ctx.JSON(http.StatusOK, notificationResponse(notification))
}

func MarkAllNotificationsRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	now := time.Now()

	err = db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now).Error
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
