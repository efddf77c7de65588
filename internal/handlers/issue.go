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

type CreateIssueRequest struct {
	Type        string  `json:"type" binding:"required,oneof=epic story task bug subtask"`
	Title       string  `json:"title" binding:"required,min=1,max=500"`
	Description string  `json:"description" binding:"max=50000"`
	StatusID    uint    `json:"status_id" binding:"required"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=lowest low medium high highest"`
	AssigneeID  *uint   `json:"assignee_id"`
	SprintID    *uint   `json:"sprint_id"`
	ParentID    *uint   `json:"parent_id"`
	EpicID      *uint   `json:"epic_id"`
	StoryPoints *int    `json:"story_points"`
	DueDate     *string `json:"due_date"`
}

type UpdateIssueRequest struct {
	Title       *string              `json:"title" binding:"omitempty,min=1,max=500"`
	Description types.OptionalString `json:"description"`
	Type        *string              `json:"type" binding:"omitempty,oneof=epic story task bug subtask"`
	StatusID    *uint                `json:"status_id"`
	Priority    *string              `json:"priority" binding:"omitempty,oneof=lowest low medium high highest"`
	AssigneeID  types.OptionalUint   `json:"assignee_id"`
	SprintID    types.OptionalUint   `json:"sprint_id"`
	StoryPoints types.OptionalInt    `json:"story_points"`
	DueDate     types.OptionalString `json:"due_date"`
	ParentID    types.OptionalUint   `json:"parent_id"`
	EpicID      types.OptionalUint   `json:"epic_id"`
}

type MoveIssueRequest struct {
	StatusID *uint              `json:"status_id"`
	SprintID types.OptionalUint `json:"sprint_id"`
	Position int                `json:"position"`
}

type IssueResponse struct {
	ID          uint                `json:"id"`
	ProjectID   uint                `json:"project_id"`
	IssueNumber int                 `json:"issue_number"`
	Key         string              `json:"key"`
	Type        string              `json:"type"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	StatusID    uint                `json:"status_id"`
	Priority    string              `json:"priority"`
	AssigneeID  *uint               `json:"assignee_id"`
	ReporterID  uint                `json:"reporter_id"`
	SprintID    *uint               `json:"sprint_id"`
	ParentID    *uint               `json:"parent_id"`
	EpicID      *uint               `json:"epic_id"`
	StoryPoints *int                `json:"story_points"`
	DueDate     *string             `json:"due_date"`
	Position    int                 `json:"position"`
	Assignee    *types.UserResponse `json:"assignee,omitempty"`
	Labels      []LabelResponse     `json:"labels,omitempty"`
}

func issueResponse(issue *models.Issue) IssueResponse {
	response := IssueResponse{
		ID:          issue.ID,
		ProjectID:   issue.ProjectID,
		IssueNumber: issue.IssueNumber,
		Key:         issue.Key,
		Type:        issue.Type,
		Title:       issue.Title,
		Description: issue.Description,
		StatusID:    issue.StatusID,
		Priority:    issue.Priority,
		AssigneeID:  issue.AssigneeID,
		ReporterID:  issue.ReporterID,
		SprintID:    issue.SprintID,
		ParentID:    issue.ParentID,
		EpicID:      issue.EpicID,
		StoryPoints: issue.StoryPoints,
		DueDate:     formatDate(issue.DueDate),
		Position:    issue.Position,
	}

	if issue.Assignee != nil {
		response.Assignee = &types.UserResponse{
			ID:        issue.Assignee.ID,
			FirstName: issue.Assignee.FirstName,
			LastName:  issue.Assignee.LastName,
			Email:     issue.Assignee.Email,
			Role:      issue.Assignee.Role,
			AvatarURL: issue.Assignee.AvatarURL,
		}
	}

	for _, label := range issue.Labels {
		response.Labels = append(response.Labels, labelResponse(label))
	}

	return response
}

func ListProjectIssues(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	query := db.DB.Preload("Assignee").Preload("Labels").Where("project_id = ?", access.Project.ID)

	if statusID := ctx.Query("status_id"); statusID != "" {
		query = query.Where("status_id = ?", statusID)
	}
	if issueType := ctx.Query("type"); issueType != "" {
		query = query.Where("type = ?", issueType)
	}
	if sprintID := ctx.Query("sprint_id"); sprintID != "" {
		if sprintID == "backlog" {
			query = query.Where("sprint_id IS NULL")
		} else {
			query = query.Where("sprint_id = ?", sprintID)
		}
	}
	if assigneeID := ctx.Query("assignee_id"); assigneeID != "" {
		query = query.Where("assignee_id = ?", assigneeID)
	}
	if search := ctx.Query("q"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR key LIKE ?", pattern, pattern)
	}

	var issues []models.Issue

	if err := query.Order("issue_number asc").Find(&issues).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]IssueResponse, 0, len(issues))
	for i := range issues {
		response = append(response, issueResponse(&issues[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateIssue(ctx *gin.Context) {
	user, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	var body CreateIssueRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	input := services.CreateIssueInput{
		Type:        body.Type,
		Title:       body.Title,
		Description: body.Description,
		StatusID:    body.StatusID,
		Priority:    body.Priority,
		AssigneeID:  body.AssigneeID,
		SprintID:    body.SprintID,
		ParentID:    body.ParentID,
		EpicID:      body.EpicID,
		StoryPoints: body.StoryPoints,
	}

	if body.DueDate != nil {
		date, err := parseDate(*body.DueDate)
		if err != nil {
			utils.RespondError(ctx, err)
			return
		}
		input.DueDate = date
	}

	issue, err := services.CreateIssue(db.DB, access.Project, user.ID, input)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, issueResponse(issue))
}

func GetIssue(ctx *gin.Context) {
	_, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var loaded models.Issue

	if err := db.DB.Preload("Assignee").Preload("Labels").First(&loaded, issue.ID).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, issueResponse(&loaded))
}

func UpdateIssue(ctx *gin.Context) {
	user, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	// Plain members only edit issues they reported or are assigned to.
	if !access.Level.CanManageProject() && !ownsIssue(user.ID, issue) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only issue owner can edit this issue"})
		return
	}

	var body UpdateIssueRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	input := services.UpdateIssueInput{
		Title:       body.Title,
		Description: body.Description,
		Type:        body.Type,
		StatusID:    body.StatusID,
		Priority:    body.Priority,
		AssigneeID:  body.AssigneeID,
		SprintID:    body.SprintID,
		StoryPoints: body.StoryPoints,
		ParentID:    body.ParentID,
		EpicID:      body.EpicID,
	}

	if body.DueDate.Set {
		input.DueDateSet = true
		if body.DueDate.Value != nil {
			date, err := parseDate(*body.DueDate.Value)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			input.DueDate = date
		}
	}

	actorName := user.FirstName + " " + user.LastName

	updated, err := services.UpdateIssue(db.DB, issue, user.ID, actorName, input)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, issueResponse(updated))
}

func MoveIssue(ctx *gin.Context) {
	user, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	var body MoveIssueRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	moved, err := services.MoveIssue(db.DB, issue, user.ID, services.MoveIssueInput{
		StatusID: body.StatusID,
		SprintID: body.SprintID,
		Position: body.Position,
	})
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, issueResponse(moved))
}

type IssueHistoryResponse struct {
	ID        uint    `json:"id"`
	UserID    uint    `json:"user_id"`
	FieldName string  `json:"field_name"`
	OldValue  *string `json:"old_value"`
	NewValue  *string `json:"new_value"`
	CreatedAt string  `json:"created_at"`
}

func GetIssueHistory(ctx *gin.Context) {
	_, issue, access, ok := issueAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var entries []models.IssueHistory

	if err := db.DB.Where("issue_id = ?", issue.ID).Order("created_at asc").Find(&entries).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]IssueHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, IssueHistoryResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			FieldName: entry.FieldName,
			OldValue:  entry.OldValue,
			NewValue:  entry.NewValue,
			CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func ownsIssue(userID uint, issue *models.Issue) bool {
	if issue.ReporterID == userID {
		return true
	}
	return issue.AssigneeID != nil && *issue.AssigneeID == userID
}
