package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/middleware"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/permissions"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type CreateSprintRequest struct {
	Name      string    `json:"name" binding:"required,min=1,max=200"`
	Goal      string    `json:"goal" binding:"max=5000"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

type UpdateSprintRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Goal      *string    `json:"goal" binding:"omitempty,max=5000"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type CompleteSprintRequest struct {
	NextSprintID *uint `json:"next_sprint_id"`
}

type SprintResponse struct {
	ID        uint      `json:"id"`
	ProjectID uint      `json:"project_id"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
}

func sprintResponse(sprint *models.Sprint) SprintResponse {
	return SprintResponse{
		ID:        sprint.ID,
		ProjectID: sprint.ProjectID,
		Name:      sprint.Name,
		Goal:      sprint.Goal,
		StartDate: sprint.StartDate,
		EndDate:   sprint.EndDate,
		Status:    sprint.Status,
	}
}

// sprintAccess loads the sprint from the sprint_id parameter and resolves the
// caller's capability against its project.
func sprintAccess(ctx *gin.Context) (middleware.AuthenticatedUser, *models.Sprint, *permissions.ProjectAccess, bool) {
	user, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return middleware.AuthenticatedUser{}, nil, nil, false
	}

	sprintID, err := utils.IDParam(ctx, "sprint_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID"})
		return user, nil, nil, false
	}

	var sprint models.Sprint

	if err := db.DB.Where("id = ?", sprintID).First(&sprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Sprint not found"})
		} else {
			utils.RespondError(ctx, err)
		}
		return user, nil, nil, false
	}

	access, err := permissions.ForProject(db.DB, user.ID, user.Role, sprint.ProjectID)
	if err != nil {
		utils.RespondError(ctx, err)
		return user, nil, nil, false
	}

	return user, &sprint, access, true
}

func ListProjectSprints(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var sprints []models.Sprint

	if err := db.DB.Where("project_id = ?", access.Project.ID).Order("start_date asc").Find(&sprints).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]SprintResponse, 0, len(sprints))
	for i := range sprints {
		response = append(response, sprintResponse(&sprints[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateSprint(ctx *gin.Context) {
	user, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	var body CreateSprintRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !body.EndDate.After(body.StartDate) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be after startDate"})
		return
	}

	sprint := models.Sprint{
		ProjectID: access.Project.ID,
		Name:      body.Name,
		Goal:      body.Goal,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
	}

	if err := db.DB.Create(&sprint).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, sprintResponse(&sprint))
}

func GetSprint(ctx *gin.Context) {
	_, sprint, access, ok := sprintAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	ctx.JSON(http.StatusOK, sprintResponse(sprint))
}

// UpdateSprint edits name, goal and dates. Status never changes here; the
// lifecycle moves only through the start and complete endpoints.
func UpdateSprint(ctx *gin.Context) {
	user, sprint, access, ok := sprintAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	var body UpdateSprintRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Name != nil {
		sprint.Name = *body.Name
	}
	if body.Goal != nil {
		sprint.Goal = *body.Goal
	}
	if body.StartDate != nil {
		sprint.StartDate = *body.StartDate
	}
	if body.EndDate != nil {
		sprint.EndDate = *body.EndDate
	}

	if !sprint.EndDate.After(sprint.StartDate) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be after startDate"})
		return
	}

	if err := db.DB.Save(sprint).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sprintResponse(sprint))
}

func DeleteSprint(ctx *gin.Context) {
	user, sprint, access, ok := sprintAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	if err := services.DeleteSprint(db.DB, sprint); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Sprint deleted"})
}

func StartSprint(ctx *gin.Context) {
	user, sprint, access, ok := sprintAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	if err := services.StartSprint(db.DB, sprint); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sprintResponse(sprint))
}

func CompleteSprint(ctx *gin.Context) {
	user, sprint, access, ok := sprintAccess(ctx)
	if !ok {
		return
	}

	if !requireProjectWriter(ctx, user, access) {
		return
	}

	var body CompleteSprintRequest

	// The body is optional; omitting it sends unfinished issues to the backlog.
	if ctx.Request.ContentLength > 0 {
		if err := ctx.BindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	if err := services.CompleteSprint(db.DB, sprint, body.NextSprintID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sprintResponse(sprint))
}
