package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nutripraxis/nutripraxis-api/internal/ai"
	"github.com/nutripraxis/nutripraxis-api/internal/config"
	"github.com/nutripraxis/nutripraxis-api/internal/handlers"
	"github.com/nutripraxis/nutripraxis-api/internal/logger"
	"github.com/nutripraxis/nutripraxis-api/internal/middleware"
	"github.com/nutripraxis/nutripraxis-api/internal/repository"
	"github.com/nutripraxis/nutripraxis-api/internal/service"
	"github.com/nutripraxis/nutripraxis-api/internal/ws"
	"gorm.io/gorm"
)

// SetupRouter sets up the Gin router. The provider registry is built at
// startup from whichever AI credentials are configured.
func SetupRouter(cfg *config.Config, database *gorm.DB, providers *ai.Registry) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowOrigins = []string{
		"https://api.nutripraxis.app",
		"https://nutripraxis.app",
		"https://www.nutripraxis.app",
	}
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Repositories
	userRepo := repository.NewUserRepository(database)
	clientRepo := repository.NewClientRepository(database)
	planRepo := repository.NewPlanRepository(database)
	messageRepo := repository.NewMessageRepository(database)

	// Live messaging hub
	hub := ws.NewHub()
	go hub.Run()

	// Services
	clientService := service.NewClientService(cfg, clientRepo)
	mealPlanService := service.NewMealPlanService(cfg, providers, planRepo, userRepo)
	analysisService := service.NewAnalysisService(cfg, providers)
	messageService := service.NewMessageService(messageRepo, clientRepo, hub)
	subService := service.NewSubscriptionService(userRepo)

	// Handlers
	aiHandler := handlers.NewAIHandler(providers, mealPlanService, analysisService)
	clientHandler := handlers.NewClientHandler(clientService, planRepo)
	progressHandler := handlers.NewProgressHandler(clientService)
	messageHandler := handlers.NewMessageHandler(messageService)
	subHandler := handlers.NewSubscriptionHandler(subService)
	uploadHandler := handlers.NewUploadHandler(cfg, clientService)

	// Group for API routes that require token verification
	api := r.Group("/api")
	{
		api.Use(middleware.VerifyTokenMiddleware(cfg))
		api.Use(middleware.EnsureUserRecord(userRepo))

		// AI proxy routes
		api.GET("/ai/providers", aiHandler.ListProviders)
		api.POST("/ai/generate-meal-plan", middleware.RateLimitByIP(2, 10*time.Minute, 30*time.Minute), aiHandler.GenerateMealPlan)
		api.POST("/ai/analyze-food-image", middleware.RateLimitByIP(5, 10*time.Minute, 30*time.Minute), aiHandler.AnalyzeFoodImage)
		api.POST("/ai/analyze-medical-document", middleware.RateLimitByIP(2, 10*time.Minute, 30*time.Minute), aiHandler.AnalyzeMedicalDocument)
		api.POST("/ai/generate-insights", middleware.RateLimitByIP(5, 10*time.Minute, 30*time.Minute), aiHandler.GenerateInsights)

		// Client record routes
		api.POST("/clients", clientHandler.CreateClient)
		api.GET("/clients", clientHandler.ListClients)
		api.GET("/clients/:client_id", clientHandler.GetClient)
		api.PUT("/clients/:client_id", clientHandler.UpdateClient)
		api.DELETE("/clients/:client_id", clientHandler.DeleteClient)
		api.POST("/clients/:client_id/portal-passcode", clientHandler.IssuePortalPasscode)

		// Progress tracking routes
		api.POST("/clients/:client_id/weights", progressHandler.AddWeightEntry)
		api.GET("/clients/:client_id/weights", progressHandler.GetWeightHistory)

		// Meal plan archive routes
		api.GET("/clients/:client_id/plans", clientHandler.ListClientPlans)
		api.DELETE("/plans/:plan_id", clientHandler.DeletePlan)

		// Messaging routes
		api.POST("/clients/:client_id/messages", messageHandler.SendMessage)
		api.GET("/clients/:client_id/messages", messageHandler.GetThread)

		// Subscription routes
		api.GET("/subscription", subHandler.GetSubscription)
		api.POST("/subscription/upgrade", subHandler.UpgradeSubscription)
		api.POST("/subscription/downgrade", subHandler.DowngradeSubscription)

		// Document upload
		api.POST("/clients/:client_id/documents", uploadHandler.UploadClientDocument)
	}

	// WebSocket route (authenticated via query param token)
	messagingHandler := ws.NewMessagingHandler(hub, cfg.EnvVars.JwtSecretKey, messageService)
	r.GET("/api/ws/threads/:client_id", messagingHandler.HandleThreadSession)

	return r
}
