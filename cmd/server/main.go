package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/nanaqwameboafo/trello-clone/internal/boardstate"
	"github.com/nanaqwameboafo/trello-clone/internal/config"
	"github.com/nanaqwameboafo/trello-clone/internal/constants"
	"github.com/nanaqwameboafo/trello-clone/internal/database"
	"github.com/nanaqwameboafo/trello-clone/internal/handlers"
	"github.com/nanaqwameboafo/trello-clone/internal/middleware"
	"github.com/nanaqwameboafo/trello-clone/internal/realtime"
	"github.com/nanaqwameboafo/trello-clone/internal/repository"
	"github.com/nanaqwameboafo/trello-clone/internal/services"
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

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

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
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	inviteRepo := repository.NewInvitationRepository(db)

	// Realtime hub and board-state cache
	hub := realtime.NewHub()
	cache := boardstate.NewCache(boardRepo)

	// Mailer is optional; without an API key invitations come back with a warning
	var mailer services.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = services.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	}

	// Services
	guard := services.NewMembershipGuard(orgRepo)
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo, guard)
	boardService := services.NewBoardService(boardRepo, cache, hub)
	inviteService := services.NewInvitationService(inviteRepo, orgRepo, userRepo, guard, mailer, cfg.AppBaseURL)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	boardHandler := handlers.NewBoardHandler(boardService)
	inviteHandler := handlers.NewInvitationHandler(inviteService)
	eventsHandler := handlers.NewEventsHandler(hub)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Board API is running",
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

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/:id", middleware.RequireOrganizationAccess(), orgHandler.GetOrganization)
			orgs.PUT("/:id", middleware.RequireOrganizationAccess(), middleware.RequireOrganizationElevated(), orgHandler.UpdateOrganization)
			orgs.DELETE("/:id", middleware.RequireOrganizationAccess(), middleware.RequireOrganizationElevated(), orgHandler.DeleteOrganization)
			orgs.DELETE("/:id/members/:user_id", middleware.RequireOrganizationAccess(), middleware.RequireOrganizationElevated(), orgHandler.RemoveMember)
			orgs.POST("/:id/boards", middleware.RequireOrganizationAccess(), boardHandler.CreateBoard)
			orgs.GET("/:id/boards", middleware.RequireOrganizationAccess(), boardHandler.ListBoards)
		}

		// Board routes (protected)
		boards := api.Group("/boards")
		boards.Use(middleware.RequireAuth())
		{
			boards.GET("/:id", middleware.RequireBoardAccess(), boardHandler.GetBoard)
			boards.DELETE("/:id", middleware.RequireBoardAccess(), boardHandler.DeleteBoard)
			boards.POST("/:id/lists", middleware.RequireBoardAccess(), boardHandler.CreateList)
			boards.GET("/:id/events", middleware.RequireBoardAccess(), eventsHandler.StreamBoardEvents)
		}

		// List routes (protected)
		lists := api.Group("/lists")
		lists.Use(middleware.RequireAuth())
		{
			lists.PATCH("/:id", middleware.RequireListAccess(), boardHandler.UpdateList)
			lists.DELETE("/:id", middleware.RequireListAccess(), boardHandler.DeleteList)
			lists.POST("/:id/cards", middleware.RequireListAccess(), boardHandler.CreateCard)
		}

		// Card routes (protected)
		cards := api.Group("/cards")
		cards.Use(middleware.RequireAuth())
		{
			cards.PATCH("/:id", middleware.RequireCardAccess(), boardHandler.UpdateCard)
			cards.DELETE("/:id", middleware.RequireCardAccess(), boardHandler.DeleteCard)
			cards.POST("/:id/move", middleware.RequireCardAccess(), boardHandler.MoveCard)
			cards.GET("/:id/activities", middleware.RequireCardAccess(), boardHandler.ListCardActivities)
		}

		// Invitation routes
		api.POST("/invitations", middleware.RequireAuth(), inviteHandler.CreateInvitation)
		api.GET("/invitations", inviteHandler.Acknowledge)
		api.GET("/invite/:token", inviteHandler.ResolveInvitation)
		api.POST("/invite/:token/accept", middleware.RequireAuth(), inviteHandler.AcceptInvitation)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
