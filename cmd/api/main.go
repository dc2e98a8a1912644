package main

import (
	"fmt"
	"net/http"
	"os"

	"lift/internal/config"
	"lift/internal/database"
	"lift/internal/handlers"
	"lift/internal/logger"
	"lift/internal/middleware"
	"lift/internal/services"
	"lift/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           LIFT API
// @version         1.0
// @description     LIFT is the administration backend of an alumni association: contribution and expense ledgers split across the LIFT and alumni-association funds, approval workflows with an audit trail, budget reports, events, and member management.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	memberService := services.NewMemberService(db)
	settingService := services.NewSettingService(db)
	auditService := services.NewAuditService(db)
	contributionService := services.NewContributionService(db, settingService, auditService)
	expenseService := services.NewExpenseService(db, auditService)
	reportService := services.NewReportService(db)
	eventService := services.NewEventService(db, expenseService)
	locationService := services.NewLocationService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(memberService)
	contributionHandler := handlers.NewContributionHandler(contributionService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)
	settingHandler := handlers.NewSettingHandler(settingService)
	eventHandler := handlers.NewEventHandler(eventService)
	locationHandler := handlers.NewLocationHandler(locationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Member profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	// Contribution routes. Reads and self-submission are open to any
	// member; everything that moves money or status is admin-only.
	contributions := protected.Group("/contributions")
	contributions.GET("", contributionHandler.ListContributions)
	contributions.GET("/:id", contributionHandler.GetContributionByID)
	contributions.POST("/self", contributionHandler.SelfCreateContribution)
	contributions.POST("", middleware.RequireAdmin(), contributionHandler.CreateContribution)
	contributions.PUT("/:id", middleware.RequireAdmin(), contributionHandler.UpdateContribution)
	contributions.POST("/:id/approve", middleware.RequireAdmin(), contributionHandler.ApproveContribution)
	contributions.POST("/:id/reject", middleware.RequireAdmin(), contributionHandler.RejectContribution)
	contributions.GET("/:id/audit", middleware.RequireAdmin(), contributionHandler.GetContributionAudit)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.GET("/:id", expenseHandler.GetExpenseByID)
	expenses.POST("", middleware.RequireAdmin(), expenseHandler.CreateExpense)
	expenses.POST("/bulk", middleware.RequireAdmin(), expenseHandler.BulkCreateExpenses)
	expenses.PUT("/:id", middleware.RequireAdmin(), expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", middleware.RequireAdmin(), expenseHandler.DeleteExpense)
	expenses.POST("/:id/approve", middleware.RequireAdmin(), expenseHandler.ApproveExpense)
	expenses.POST("/:id/reject", middleware.RequireAdmin(), expenseHandler.RejectExpense)
	expenses.GET("/:id/audit", middleware.RequireAdmin(), expenseHandler.GetExpenseAudit)

	// Budget report
	protected.GET("/reports/budget", reportHandler.GetBudgetReport)

	// Settings (admin only)
	settings := protected.Group("/settings", middleware.RequireAdmin())
	settings.GET("/:key", settingHandler.GetSetting)
	settings.PUT("/:key", settingHandler.SetSetting)

	// Event routes
	events := protected.Group("/events")
	events.GET("", eventHandler.ListEvents)
	events.GET("/:id", eventHandler.GetEventByID)
	events.POST("", middleware.RequireAdmin(), eventHandler.CreateEvent)
	events.PUT("/:id", middleware.RequireAdmin(), eventHandler.UpdateEvent)
	events.DELETE("/:id", middleware.RequireAdmin(), eventHandler.DeleteEvent)

	// Location lookup
	locations := protected.Group("/locations")
	locations.GET("", locationHandler.ListLocations)
	locations.GET("/:id", locationHandler.GetLocationByID)

	log.Infof("Starting LIFT backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
