package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nelttjen/chat-platform-api/internal/config"
	"github.com/nelttjen/chat-platform-api/internal/database"
	"github.com/nelttjen/chat-platform-api/internal/handlers"
	"github.com/nelttjen/chat-platform-api/internal/middleware"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/repository"
	"github.com/nelttjen/chat-platform-api/internal/services"
	"github.com/nelttjen/chat-platform-api/internal/token"
)

func main() {
	// Load .env when present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	linkRepo := repository.NewInviteLinkRepository(db)

	// Services
	codec := token.New(cfg.JWTSecret)
	hasher := services.NewBcryptHasher()
	authService := services.NewAuthService(userRepo, codec, hasher, cfg)
	userService := services.NewUserService(userRepo, hasher, cfg)
	chatService := services.NewChatService(chatRepo)
	linkService := services.NewInviteLinkService(linkRepo, chatRepo, chatService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	chatHandler := handlers.NewChatHandler(chatService)
	linkHandler := handlers.NewInviteLinkHandler(linkService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Chat Platform API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public except validate)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/validate", authHandler.Validate)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(authService))
		{
			users.GET("/current", userHandler.GetCurrentUser)
			users.PATCH("/current", userHandler.UpdateProfile)
			users.POST("/current/password", userHandler.ChangePassword)
		}

		// Admin routes (staff only)
		admin := api.Group("/admin/users")
		admin.Use(middleware.RequireStaff(authService))
		{
			admin.POST("/:user_id/ban", userHandler.BanUser)
			admin.POST("/:user_id/unban", userHandler.UnbanUser)
		}

		// Chat routes (protected)
		chats := api.Group("/chats")
		chats.Use(middleware.RequireAuth(authService))
		{
			chats.POST("", chatHandler.CreateChat)
			chats.GET("", chatHandler.ListChats)
			chats.GET("/:id", middleware.RequireChatRole(chatService, models.RoleUser), chatHandler.GetChat)
			chats.POST("/:id/leave", middleware.RequireChatRole(chatService, models.RoleUser), chatHandler.LeaveChat)
			chats.GET("/:id/banned", middleware.RequireChatRole(chatService, models.RoleModer), chatHandler.ListBannedMembers)
			chats.POST("/:id/members/:user_id/ban", middleware.RequireChatRole(chatService, models.RoleModer), chatHandler.BanMember)
			chats.POST("/:id/members/:user_id/unban", middleware.RequireChatRole(chatService, models.RoleModer), chatHandler.UnbanMember)
			chats.GET("/:id/invite-links", middleware.RequireChatRole(chatService, models.RoleModer), linkHandler.ListLinks)
			chats.POST("/:id/invite-links", middleware.RequireChatRole(chatService, models.RoleModer), linkHandler.CreateLink)
		}

		// Invite link redemption (protected, no membership required)
		api.POST("/invite-links/:token/join", middleware.RequireAuth(authService), linkHandler.Redeem)
	}

	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
