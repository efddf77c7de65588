package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/db"
	"github.com/ahurasense/ahurasense/internal/models"
	"github.com/ahurasense/ahurasense/internal/services"
	"github.com/ahurasense/ahurasense/internal/utils"
)

type CreateProjectRequest struct {
	Key         string `json:"key" binding:"required,min=2,max=10"`
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"max=5000"`
	Type        string `json:"type" binding:"omitempty,oneof=software business service_desk"`
	LeadID      *uint  `json:"lead_id"`
}

type UpdateProjectRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=200"`
	Description   *string `json:"description" binding:"omitempty,max=5000"`
	Status        *string `json:"status" binding:"omitempty,oneof=active archived on_hold"`
	LeadID        *uint   `json:"lead_id"`
	StartDate     *string `json:"start_date"`
	TargetEndDate *string `json:"target_end_date"`
}

type ProjectResponse struct {
	ID            uint    `json:"id"`
	WorkspaceID   uint    `json:"workspace_id"`
	Key           string  `json:"key"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	LeadID        *uint   `json:"lead_id"`
	StartDate     *string `json:"start_date,omitempty"`
	TargetEndDate *string `json:"target_end_date,omitempty"`
	Role          string  `json:"role,omitempty"`
}

func projectResponse(project *models.Project, role string) ProjectResponse {
	return ProjectResponse{
		ID:            project.ID,
		WorkspaceID:   project.WorkspaceID,
		Key:           project.Key,
		Name:          project.Name,
		Description:   project.Description,
		Type:          project.Type,
		Status:        project.Status,
		LeadID:        project.LeadID,
		StartDate:     formatDate(project.StartDate),
		TargetEndDate: formatDate(project.TargetEndDate),
		Role:          role,
	}
}

func ListWorkspaceProjects(ctx *gin.Context) {
	userID, access, ok := workspaceAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var projects []models.Project

	if err := db.DB.Where("workspace_id = ?", access.Workspace.ID).Order("created_at asc").Find(&projects).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	projectIDs := make([]uint, 0, len(projects))
	for _, project := range projects {
		projectIDs = append(projectIDs, project.ID)
	}

	roles := map[uint]string{}

	if len(projectIDs) > 0 {
		var memberships []models.ProjectMembership
		if err := db.DB.Where("project_id IN ? AND user_id = ?", projectIDs, userID).Find(&memberships).Error; err != nil {
			utils.RespondError(ctx, err)
			return
		}
		for _, membership := range memberships {
			roles[membership.ProjectID] = membership.Role
		}
	}

	response := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		role, member := roles[projects[i].ID]

		// Non-managing members only see projects they belong to.
		if !member && !access.Level.CanManageWorkspace() {
			continue
		}

		response = append(response, projectResponse(&projects[i], role))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateProject(ctx *gin.Context) {
	userID, access, ok := workspaceAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageWorkspace() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only workspace admins can create projects"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	key := strings.ToUpper(strings.TrimSpace(body.Key))
	if !isValidProjectKey(key) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project key must be uppercase letters and digits, starting with a letter"})
		return
	}

	projectType := body.Type
	if projectType == "" {
		projectType = "software"
	}

	project, err := services.CreateProject(db.DB, access.Workspace.ID, userID, services.CreateProjectInput{
		Key:         key,
		Name:        body.Name,
		Description: body.Description,
		Type:        projectType,
		LeadID:      body.LeadID,
	})
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project, ""))
}

func GetProject(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanView() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(access.Project, access.ProjectRole))
}

func UpdateProject(ctx *gin.Context) {
	_, access, ok := projectAccess(ctx)
	if !ok {
		return
	}

	if !access.Level.CanManageProject() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project := access.Project

	if body.LeadID != nil {
		var count int64
		if err := db.DB.Model(&models.ProjectMembership{}).Where("project_id = ? AND user_id = ?", project.ID, *body.LeadID).Count(&count).Error; err != nil {
			utils.RespondError(ctx, err)
			return
		}
		if count == 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Lead must be a project member"})
			return
		}
		project.LeadID = body.LeadID
	}

	if body.Name != nil {
		project.Name = *body.Name
	}
	if body.Description != nil {
		project.Description = *body.Description
	}
	if body.Status != nil {
		project.Status = *body.Status
	}
	if body.StartDate != nil {
		date, err := parseDate(*body.StartDate)
		if err != nil {
			utils.RespondError(ctx, err)
			return
		}
		project.StartDate = date
	}
	if body.TargetEndDate != nil {
		date, err := parseDate(*body.TargetEndDate)
		if err != nil {
			utils.RespondError(ctx, err)
			return
		}
		project.TargetEndDate = date
	}

	if err := db.DB.Save(project).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project, access.ProjectRole))
}

func isValidProjectKey(key string) bool {
	if len(key) < 2 {
		return false
	}
	if key[0] < 'A' || key[0] > 'Z' {
		return false
	}
	for _, r := range key {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
