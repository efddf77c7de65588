package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type CreateBoardStatusRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Category string `json:"category" binding:"required,oneof=todo in_progress done"`
	Color    string `json:"color" binding:"omitempty,max=20"`
}

type ReorderBoardStatusRequest struct {
	Statuses []struct {
		ID       uint    `json:"id" binding:"required"`
		Position int     `json:"position"`
		Name     string  `json:"name" binding:"omitempty,min=1,max=100"`
		Category string  `json:"category" binding:"omitempty,oneof=todo in_progress done"`
		Color    *string `json:"color"`
	} `json:"statuses" binding:"required,min=1,dive"`
}

type BoardStatusResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

type BoardColumnResponse struct {
	BoardStatusResponse
	Issues []IssueResponse `json:"issues"`
}

func boardStatusResponse(status models.IssueStatus) BoardStatusResponse {
	return BoardStatusResponse{
		ID:       status.ID,
		Name:     status.Name,
		Category: status.Category,
		Color:    status.Color,
		Position: status.Position,
	}
}

// GetBoard returns the project's columns in order, each with its issues
// ordered by position. An optional sprint_id query narrows the board to one
// sprint; "backlog" selects issues outside any sprint.
func GetBoard(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var statuses []models.IssueStatus

	if err := db.DB.Where("project_id = ?", access.Project.ID).Order("position asc").Find(&statuses).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	query := db.DB.Preload("Assignee").Preload("Labels").Where("project_id = ?", access.Project.ID)

	switch sprint := ctx.Query("sprint_id"); sprint {
	case "":
	case "backlog":
		query = query.Where("sprint_id IS NULL")
	default:
		query = query.Where("sprint_id = ?", sprint)
	}

	var issues []models.Issue

	if err := query.Order("position asc").Find(&issues).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	byStatus := make(map[uint][]IssueResponse, len(statuses))
	for i := range issues {
		byStatus[issues[i].StatusID] = append(byStatus[issues[i].StatusID], issueResponse(&issues[i]))
	}

	columns := make([]BoardColumnResponse, 0, len(statuses))
	for _, status := range statuses {
		bucket := byStatus[status.ID]
		if bucket == nil {
			bucket = []IssueResponse{}
		}
		columns = append(columns, BoardColumnResponse{
			BoardStatusResponse: boardStatusResponse(status),
			Issues:              bucket,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"columns": columns})
}

func CreateBoardStatus(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only project or workspace admins can manage board columns"})
		return
	}

	var body CreateBoardStatusRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status, err := services.CreateStatusColumn(db.DB, access.Project.ID, body.Name, body.Category, body.Color)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, boardStatusResponse(*status))
}

func ReorderBoardStatuses(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only project or workspace admins can manage board columns"})
		return
	}

	var body ReorderBoardStatusRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	items := make([]services.StatusReorder, 0, len(body.Statuses))
	for _, entry := range body.Statuses {
		items = append(items, services.StatusReorder{
			ID:       entry.ID,
			Position: entry.Position,
			Name:     entry.Name,
			Category: entry.Category,
			Color:    entry.Color,
		})
	}

	ordered, err := services.ReorderStatusColumns(db.DB, access.Project.ID, items)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]BoardStatusResponse, 0, len(ordered))
	for _, status := range ordered {
		response = append(response, boardStatusResponse(status))
	}

	ctx.JSON(http.StatusOK, response)
}

func DeleteBoardStatus(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only project or workspace admins can manage board columns"})
		return
	}

	statusID, err := utils.IDParam(ctx, "status_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status ID"})
		return
	}

	if err := services.DeleteStatusColumn(db.DB, access.Project.ID, statusID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Status deleted"})
}
