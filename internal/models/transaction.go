package models

import "time"

// TransactionType represents the type of transaction.
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeInvestment TransactionType = "investment"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeInvestment:
		return true
	}
	return false
}

// Transaction represents a single financial transaction. Amounts are
// stored in cents. Date carries only calendar-day significance; the time
// component is always midnight.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	BucketID    *string         `gorm:"type:uuid" json:"bucket_id,omitempty"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	IsRecurring BoolFlag        `gorm:"not null;default:false" json:"is_recurring"`
	RecurringID *string         `gorm:"type:uuid;index" json:"recurring_id,omitempty"`
	Tags        Tags            `gorm:"serializer:json" json:"tags,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *TransactionType
	BucketID *string
}
