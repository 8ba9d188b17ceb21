package models

// BudgetPeriod represents the period type for a budget.
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodMonthly || p == BudgetPeriodYearly
}

// Budget caps spending for a bucket over a month or a year. Month is set
// only for monthly budgets. Nothing prevents duplicate
// (bucket, period, year, month) tuples.
type Budget struct {
	Base
	UserID   string       `gorm:"type:uuid;not null;index" json:"user_id"`
	BucketID string       `gorm:"type:uuid;not null" json:"bucket_id"`
	Amount   int64        `gorm:"type:bigint;not null" json:"amount"`
	Period   BudgetPeriod `gorm:"not null" json:"period"`
	Year     int          `gorm:"not null" json:"year"`
	Month    *int         `json:"month,omitempty"`
}
