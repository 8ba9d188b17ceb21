package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bucketeer/internal/handlers"
	"bucketeer/internal/logger"
	"bucketeer/internal/middleware"
	"bucketeer/internal/models"
	"bucketeer/internal/services"
	"bucketeer/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Recurring services.RecurringServicer
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Bucket{},
		&models.Transaction{},
		&models.RecurringDefinition{},
		&models.Budget{},
		&models.Summary{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	bucketService := services.NewBucketService(db)
	transactionService := services.NewTransactionService(db)
	recurringService := services.NewRecurringService(db)
	budgetService := services.NewBudgetService(db)
	summaryService := services.NewSummaryService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	bucketHandler := handlers.NewBucketHandler(bucketService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	recurringHandler := handlers.NewRecurringHandler(recurringService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	buckets := protected.Group("/buckets")
	buckets.POST("", bucketHandler.CreateBucket)
	buckets.GET("", bucketHandler.GetBuckets)
	buckets.GET("/:id", bucketHandler.GetBucket)
	buckets.PUT("/:id", bucketHandler.UpdateBucket)
	buckets.DELETE("/:id", bucketHandler.DeleteBucket)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.GetRecurringList)
	recurring.GET("/:id", recurringHandler.GetRecurring)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	summaries := protected.Group("/summaries")
	summaries.POST("", summaryHandler.CreateSummary)
	summaries.GET("", summaryHandler.GetSummaries)
	summaries.GET("/:id", summaryHandler.GetSummary)
	summaries.PUT("/:id", summaryHandler.UpdateSummary)
	summaries.DELETE("/:id", summaryHandler.DeleteSummary)

	return &testApp{DB: db, Router: router, Recurring: recurringService}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// createBucket creates a bucket and returns its ID.
func (app *testApp) createBucket(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/buckets", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bucket failed: %d %s", rec.Code, rec.Body.String())
	}
	bucket := parseJSON(t, rec)["bucket"].(map[string]interface{})
	return bucket["id"].(string)
}
