package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ahurasense/ahurasense/internal/handlers"
	"github.com/ahurasense/ahurasense/internal/middleware"
	"github.com/ahurasense/ahurasense/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.POST("/logout", middleware.AuthMiddleware(), handlers.LogoutUser)
		}

		workspaces := api.Group("/workspaces", middleware.AuthMiddleware())
		{
			workspaces.POST("", handlers.CreateWorkspace)
			workspaces.GET("", handlers.ListWorkspaces)
			workspaces.GET("/:workspace_id", handlers.GetWorkspace)
			workspaces.PATCH("/:workspace_id", handlers.UpdateWorkspace)

			workspaces.GET("/:workspace_id/members", handlers.ListWorkspaceMembers)
			workspaces.POST("/:workspace_id/members", handlers.AddWorkspaceMember)
			workspaces.PATCH("/:workspace_id/members/:user_id", handlers.UpdateWorkspaceMember)
			workspaces.DELETE("/:workspace_id/members/:user_id", handlers.RemoveWorkspaceMember)

			workspaces.GET("/:workspace_id/projects", handlers.ListWorkspaceProjects)
			workspaces.POST("/:workspace_id/projects", handlers.CreateProject)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.GET("/:project_id", handlers.GetProject)
			projects.PATCH("/:project_id", handlers.UpdateProject)

			projects.GET("/:project_id/members", handlers.ListProjectMembers)
			projects.POST("/:project_id/members", handlers.AddProjectMember)
			projects.PATCH("/:project_id/members/:user_id", handlers.UpdateProjectMember)
			projects.DELETE("/:project_id/members/:user_id", handlers.RemoveProjectMember)

			projects.GET("/:project_id/board", handlers.GetBoard)
			projects.POST("/:project_id/statuses", handlers.CreateBoardStatus)
			projects.PUT("/:project_id/statuses/reorder", handlers.ReorderBoardStatuses)
			projects.DELETE("/:project_id/statuses/:status_id", handlers.DeleteBoardStatus)

			projects.GET("/:project_id/issues", handlers.ListProjectIssues)
			projects.POST("/:project_id/issues", handlers.CreateIssue)

			projects.GET("/:project_id/sprints", handlers.ListProjectSprints)
			projects.POST("/:project_id/sprints", handlers.CreateSprint)

			projects.GET("/:project_id/labels", handlers.ListProjectLabels)
			projects.POST("/:project_id/labels", handlers.CreateLabel)
		}

		issues := api.Group("/issues", middleware.AuthMiddleware())
		{
			issues.GET("/:issue_id", handlers.GetIssue)
			issues.PATCH("/:issue_id", handlers.UpdateIssue)
			issues.POST("/:issue_id/move", handlers.MoveIssue)
			issues.GET("/:issue_id/history", handlers.GetIssueHistory)
			issues.PUT("/:issue_id/labels", handlers.SetIssueLabels)

			issues.GET("/:issue_id/comments", handlers.ListIssueComments)
			issues.POST("/:issue_id/comments", handlers.AddIssueComment)

			issues.GET("/:issue_id/attachments", handlers.ListIssueAttachments)
			issues.POST("/:issue_id/attachments", handlers.AddIssueAttachment)
		}

		sprints := api.Group("/sprints", middleware.AuthMiddleware())
		{
			sprints.GET("/:sprint_id", handlers.GetSprint)
			sprints.PATCH("/:sprint_id", handlers.UpdateSprint)
			sprints.DELETE("/:sprint_id", handlers.DeleteSprint)
			sprints.POST("/:sprint_id/start", handlers.StartSprint)
			sprints.POST("/:sprint_id/complete", handlers.CompleteSprint)
		}

		labels := api.Group("/labels", middleware.AuthMiddleware())
		{
			labels.PATCH("/:label_id", handlers.UpdateLabel)
			labels.DELETE("/:label_id", handlers.DeleteLabel)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.GET("", handlers.ListMyNotifications)
			notifications.POST("/:notification_id/read", handlers.MarkNotificationRead)
			notifications.POST("/read-all", handlers.MarkAllNotificationsRead)
		}

		api.POST("/uploads/presign", middleware.AuthMiddleware(), handlers.PresignUpload)
	}

	return r
}
