package main

import (
	"log"

	"github.com/M-Alradhi/gradproject-api/internal/config"
	"github.com/M-Alradhi/gradproject-api/internal/database"
	"github.com/M-Alradhi/gradproject-api/internal/handlers"
	"github.com/M-Alradhi/gradproject-api/internal/middleware"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/M-Alradhi/gradproject-api/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("grad_session", store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(notificationRepo)
	claimService := services.NewClaimService(ideaRepo, userRepo)
	teamService := services.NewTeamService(ideaRepo, userRepo, notificationService)
	projectService := services.NewProjectService(ideaRepo, projectRepo, userRepo, notificationService)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, notificationService)
	meetingService := services.NewMeetingService(meetingRepo, notificationService)
	authService := services.NewAuthService(userRepo, claimService)

	var suggestService *services.SuggestService
	if cfg.OpenAIAPIKey != "" {
		suggestService = services.NewSuggestService(cfg.OpenAIAPIKey)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo)
	ideaHandler := handlers.NewIdeaHandler(ideaRepo, teamService, claimService, notificationService)
	projectHandler := handlers.NewProjectHandler(projectRepo, projectService)
	taskHandler := handlers.NewTaskHandler(taskService, suggestService)
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	discussionHandler := handlers.NewDiscussionHandler()
	messageHandler := handlers.NewMessageHandler()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Graduation Project API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User roster routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", middleware.RequireRole(models.RoleCoordinator), userHandler.ListUsers)
			users.GET("/my-students", middleware.RequireRole(models.RoleSupervisor), userHandler.ListMyStudents)
			users.PUT("/:studentId/supervisor", middleware.RequireRole(models.RoleCoordinator), projectHandler.ReassignSupervisor)
		}

		// Idea routes (protected)
		ideas := api.Group("/ideas")
		ideas.Use(middleware.RequireAuth())
		{
			ideas.GET("", ideaHandler.ListIdeas)
			ideas.GET("/:id", ideaHandler.GetIdea)
			ideas.POST("", middleware.RequireRole(models.RoleStudent), ideaHandler.SubmitIdea)
			ideas.POST("/propose", middleware.RequireRole(models.RoleSupervisor), ideaHandler.ProposeIdea)
			ideas.POST("/:id/claim", middleware.RequireRole(models.RoleStudent), ideaHandler.ClaimIdea)
			ideas.POST("/release", middleware.RequireRole(models.RoleStudent), ideaHandler.ReleaseIdea)
			ideas.PUT("/:id/team", middleware.RequireRole(models.RoleCoordinator), ideaHandler.FormTeam)
			ideas.POST("/:id/members", middleware.RequireRole(models.RoleStudent, models.RoleCoordinator), ideaHandler.AddTeamMember)
			ideas.DELETE("/:id/members/:memberId", middleware.RequireRole(models.RoleStudent, models.RoleCoordinator), ideaHandler.RemoveTeamMember)
			ideas.POST("/:id/approve-membership", middleware.RequireRole(models.RoleStudent), ideaHandler.ApproveMembership)
			ideas.POST("/:id/approve", middleware.RequireRole(models.RoleCoordinator), projectHandler.ApproveIdea)
			ideas.POST("/:id/reject", middleware.RequireRole(models.RoleCoordinator), projectHandler.RejectIdea)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", middleware.RequireRole(models.RoleCoordinator), projectHandler.CreateProject)
			projects.PUT("/:id/status", middleware.RequireRole(models.RoleSupervisor, models.RoleCoordinator), projectHandler.UpdateStatus)
			projects.PUT("/:id/progress", middleware.RequireRole(models.RoleSupervisor, models.RoleCoordinator), projectHandler.UpdateProgress)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.POST("", middleware.RequireRole(models.RoleSupervisor), taskHandler.CreateTask)
			tasks.POST("/suggest", middleware.RequireRole(models.RoleSupervisor), taskHandler.SuggestTasks)
			tasks.POST("/:id/submit", middleware.RequireRole(models.RoleStudent), taskHandler.SubmitTask)
			tasks.POST("/:id/grade", middleware.RequireRole(models.RoleSupervisor), taskHandler.GradeTask)
		}

		// Meeting routes (protected)
		meetings := api.Group("/meetings")
		meetings.Use(middleware.RequireAuth())
		{
			meetings.GET("", meetingHandler.ListMeetings)
			meetings.GET("/requests", meetingHandler.ListRequests)
			meetings.POST("/requests", middleware.RequireRole(models.RoleStudent), meetingHandler.RequestMeeting)
			meetings.POST("/requests/:id/approve", middleware.RequireRole(models.RoleSupervisor), meetingHandler.ApproveRequest)
			meetings.POST("/requests/:id/reject", middleware.RequireRole(models.RoleSupervisor), meetingHandler.RejectRequest)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		}

		// Discussion routes (protected)
		discussions := api.Group("/discussions")
		discussions.Use(middleware.RequireAuth())
		{
			discussions.GET("", discussionHandler.ListDiscussions)
			discussions.GET("/:id", discussionHandler.GetDiscussion)
			discussions.POST("", discussionHandler.CreateDiscussion)
			discussions.POST("/:id/replies", discussionHandler.ReplyToDiscussion)
			discussions.PUT("/:id", middleware.RequireRole(models.RoleSupervisor, models.RoleCoordinator), discussionHandler.UpdateDiscussion)
		}

		// Message routes (protected)
		messages := api.Group("/messages")
		messages.Use(middleware.RequireAuth())
		{
			messages.GET("", messageHandler.ListInbox)
			messages.GET("/:userId", messageHandler.ListConversation)
			messages.POST("", messageHandler.SendMessage)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
