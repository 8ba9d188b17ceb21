package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"bucketeer/internal/config"
	"bucketeer/internal/database"
	"bucketeer/internal/handlers"
	"bucketeer/internal/logger"
	"bucketeer/internal/middleware"
	"bucketeer/internal/services"
	"bucketeer/internal/validator"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	db := dbManager.DB()
	userService := services.NewUserService(db)
	bucketService := services.NewBucketService(db)
	transactionService := services.NewTransactionService(db)
	recurringService := services.NewRecurringService(db)
	budgetService := services.NewBudgetService(db)
	summaryService := services.NewSummaryService(db)

	authHandler := handlers.NewAuthHandler(userService)
	bucketHandler := handlers.NewBucketHandler(bucketService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	recurringHandler := handlers.NewRecurringHandler(recurringService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

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

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Bucket routes
	buckets := protected.Group("/buckets")
	buckets.POST("", bucketHandler.CreateBucket)
	buckets.GET("", bucketHandler.GetBuckets)
	buckets.GET("/:id", bucketHandler.GetBucket)
	buckets.PUT("/:id", bucketHandler.UpdateBucket)
	buckets.DELETE("/:id", bucketHandler.DeleteBucket)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Recurring definition routes
	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.GetRecurringList)
	recurring.GET("/:id", recurringHandler.GetRecurring)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Summary routes
	summaries := protected.Group("/summaries")
	summaries.POST("", summaryHandler.CreateSummary)
	summaries.GET("", summaryHandler.GetSummaries)
	summaries.GET("/:id", summaryHandler.GetSummary)
	summaries.PUT("/:id", summaryHandler.UpdateSummary)
	summaries.DELETE("/:id", summaryHandler.DeleteSummary)

	log.Infof("Starting Bucketeer backend server on port %s", cfg.Port)
	return router.Run(":" + cfg.Port)
}
