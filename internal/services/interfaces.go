package services

import (
	"context"
	"time"

	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
	"bucketeer/internal/recurrence"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// BucketServicer defines the contract for bucket-related business logic.
type BucketServicer interface {
	CreateBucket(userID, name, color string) (*models.Bucket, error)
	GetUserBuckets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bucket], error)
	GetBucketByID(userID, bucketID string) (*models.Bucket, error)
	UpdateBucket(userID, bucketID, name, color string) (*models.Bucket, error)
	DeleteBucket(userID, bucketID string) error
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, txType models.TransactionType, amount int64, description string, bucketID *string, date time.Time, tags models.Tags, notes string, recurringID *string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter models.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, amount *int64, description *string, bucketID *string, date *time.Time, tags models.Tags, notes *string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// RecurringServicer defines the contract for recurring-definition business
// logic, including the server-side materialization sweep.
type RecurringServicer interface {
	CreateDefinition(userID string, txType models.TransactionType, amount int64, description string, bucketID *string, frequency models.Frequency, startDate time.Time, endDate *time.Time) (*models.RecurringDefinition, error)
	GetUserDefinitions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringDefinition], error)
	GetDefinitionByID(userID, recurringID string) (*models.RecurringDefinition, error)
	UpdateDefinition(userID, recurringID string, amount *int64, description *string, bucketID *string, frequency *models.Frequency, startDate, endDate, lastApplied *time.Time) (*models.RecurringDefinition, error)
	DeleteDefinition(userID, recurringID string) error
	MaterializeDue(ctx context.Context, asOf time.Time) (*recurrence.Result, error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, bucketID string, amount int64, period models.BudgetPeriod, year int, month *int) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, period *models.BudgetPeriod, year *int) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, amount *int64) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}

// SummaryServicer defines the contract for written-reflection business logic.
type SummaryServicer interface {
	CreateSummary(userID string, period models.BudgetPeriod, year int, month *int, title, content string) (*models.Summary, error)
	GetUserSummaries(userID string, page pagination.PageRequest, period *models.BudgetPeriod, year *int) (*pagination.PageResponse[models.Summary], error)
	GetSummaryByID(userID, summaryID string) (*models.Summary, error)
	UpdateSummary(userID, summaryID string, title, content *string) (*models.Summary, error)
	DeleteSummary(userID, summaryID string) error
}

// BudgetProgress reports spending against a budget for its period.
type BudgetProgress struct {
	Budget    *models.Budget `json:"budget"`
	Spent     int64          `json:"spent"`
	Remaining int64          `json:"remaining"`
}
