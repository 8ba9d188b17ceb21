package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bucketeer/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBucket creates a bucket for the given user.
func CreateTestBucket(t *testing.T, db *gorm.DB, userID string) *models.Bucket {
	t.Helper()

	bucket := &models.Bucket{
		UserID: userID,
		Name:   fmt.Sprintf("Test Bucket %d", nextID()),
		Color:  "#336699",
	}
	if err := db.Create(bucket).Error; err != nil {
		t.Fatalf("failed to create test bucket: %v", err)
	}
	return bucket
}

// CreateTestTransaction creates a transaction of the given type and amount
// (in cents) on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRecurring creates a monthly recurring expense definition.
func CreateTestRecurring(t *testing.T, db *gorm.DB, userID, bucketID string, startDate time.Time) *models.RecurringDefinition {
	t.Helper()

	definition := &models.RecurringDefinition{
		UserID:      userID,
		Type:        models.TransactionTypeExpense,
		Amount:      5000,
		Description: fmt.Sprintf("Test Recurring %d", nextID()),
		BucketID:    &bucketID,
		Frequency:   models.FrequencyMonthly,
		StartDate:   startDate,
	}
	if err := db.Create(definition).Error; err != nil {
		t.Fatalf("failed to create test recurring definition: %v", err)
	}
	return definition
}

// CreateTestBudget creates a monthly budget for the given bucket.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, bucketID string, year int, month int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:   userID,
		BucketID: bucketID,
		Amount:   10000, // $100.00
		Period:   models.BudgetPeriodMonthly,
		Year:     year,
		Month:    &month,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestSummary creates a monthly summary for the given period.
func CreateTestSummary(t *testing.T, db *gorm.DB, userID string, year int, month int) *models.Summary {
	t.Helper()

	summary := &models.Summary{
		UserID:  userID,
		Period:  models.BudgetPeriodMonthly,
		Year:    year,
		Month:   &month,
		Title:   fmt.Sprintf("Test Summary %d", nextID()),
		Content: "A quiet month.",
	}
	if err := db.Create(summary).Error; err != nil {
		t.Fatalf("failed to create test summary: %v", err)
	}
	return summary
}
