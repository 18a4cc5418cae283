package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/luo-one/inbox-agent/internal/api/handlers"
	"github.com/luo-one/inbox-agent/internal/api/middleware"
	"github.com/luo-one/inbox-agent/internal/config"
	"github.com/luo-one/inbox-agent/internal/services"
)

// Dependencies are the services the router hands to its handlers
type Dependencies struct {
	Config       *config.Config
	InboxService *services.InboxService
	LogService   *services.LogService
	APIKeys      *middleware.APIKeyManager
}

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.APIKeyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if deps.LogService == nil {
		deps.LogService = services.NewLogService(nil)
	}
	router.Use(middleware.RequestLogger(deps.LogService))

	inboxHandler := handlers.NewInboxHandler(deps.InboxService)
	agentHandler := handlers.NewAgentHandler(deps.InboxService)
	logHandler := handlers.NewLogHandler(deps.LogService)

	// Health check endpoint (no auth required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(middleware.APIKeyMiddleware(deps.APIKeys))
	{
		inbox := api.Group("/inbox")
		{
			inbox.GET("", inboxHandler.ListEmails)
			inbox.POST("", inboxHandler.InjectEmail)
			inbox.DELETE("/:id", inboxHandler.DeleteEmail)
		}

		agent := api.Group("/agent")
		{
			agent.POST("/run", agentHandler.Run)
			agent.GET("/result", agentHandler.GetResult)
			agent.GET("/settings", agentHandler.GetSettings)
			agent.PUT("/settings", agentHandler.UpdateSettings)
		}

		api.GET("/logs", logHandler.ListLogs)
	}

	return router
}
