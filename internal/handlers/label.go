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

type CreateLabelRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

type UpdateLabelRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color *string `json:"color" binding:"omitempty,max=20"`
}

type LabelResponse struct {
	ID        uint   `json:"id"`
	ProjectID uint   `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

func labelResponse(label models.Label) LabelResponse {
	return LabelResponse{
		ID:        label.ID,
		ProjectID: label.ProjectID,
		Name:      label.Name,
		Color:     label.Color,
	}
}

func ListProjectLabels(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var labels []models.Label

	if err := db.DB.Where("project_id = ?", access.Project.ID).Order("name asc").Find(&labels).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]LabelResponse, 0, len(labels))
	for _, label := range labels {
		response = append(response, labelResponse(label))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateLabel(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project lead can manage labels"})
		return
	}

	var body CreateLabelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var existing models.Label

	err := db.DB.Where("project_id = ? AND name = ?", access.Project.ID, body.Name).First(&existing).Error
	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Label already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(ctx, err)
		return
	}

	label := models.Label{
		ProjectID: access.Project.ID,
		Name:      body.Name,
		Color:     body.Color,
	}

	if err := db.DB.Create(&label).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, labelResponse(label))
}

func UpdateLabel(ctx *gin.Context) {
	_, label, access, ok := labelAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project lead can manage labels"})
		return
	}

	var body UpdateLabelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Name != nil && *body.Name != label.Name {
		var existing models.Label

		err := db.DB.Where("project_id = ? AND name = ?", label.ProjectID, *body.Name).First(&existing).Error
		if err == nil {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Label already exists"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, err)
			return
		}

		label.Name = *body.Name
	}
	if body.Color != nil {
		label.Color = *body.Color
	}

	if err := db.DB.Save(label).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, labelResponse(*label))
}

func DeleteLabel(ctx *gin.Context) {
	_, label, access, ok := labelAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project lead can manage labels"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(label).Association("Issues").Clear(); err != nil {
			return err
		}
		return tx.Delete(label).Error
	})
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Label deleted"})
}

type SetIssueLabelsRequest struct {
	LabelIDs []uint `json:"label_ids" binding:"required"`
}

// SetIssueLabels replaces the issue's label set. Every label must belong to
// the issue's project.
func SetIssueLabels(ctx *gin.Context) {
	user, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	var body SetIssueLabelsRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var labels []models.Label

	if len(body.LabelIDs) > 0 {
		if err := db.DB.Where("project_id = ? AND id IN ?", issue.ProjectID, body.LabelIDs).Find(&labels).Error; err != nil {
			utils.RespondError(ctx, err)
			return
		}
		if len(labels) != len(body.LabelIDs) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "One or more labels do not belong to this project"})
			return
		}
	}

	if err := db.DB.Model(issue).Association("Labels").Replace(labels); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]LabelResponse, 0, len(labels))
	for _, label := range labels {
		response = append(response, labelResponse(label))
	}

	ctx.JSON(http.StatusOK, response)
}

func labelAccess(ctx *gin.Context) (middleware.AuthenticatedUser, *models.Label, *permissions.ProjectAccess, bool) {
	user, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return middleware.AuthenticatedUser{}, nil, nil, false
	}

	labelID, err := utils.IDParam(ctx, "label_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label ID"})
		return user, nil, nil, false
	}

	var label models.Label

	if err := db.DB.Where("id = ?", labelID).First(&label).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Label not found"})
		} else {
			utils.RespondError(ctx, err)
		}
		return user, nil, nil, false
	}

	access, err := permissions.ForProject(db.DB, user.ID, user.Role, label.ProjectID)
	if err != nil {
		utils.RespondError(ctx, err)
		return user, nil, nil, false
	}

	return user, &label, access, true
}
