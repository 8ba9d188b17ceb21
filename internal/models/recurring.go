package models

import "time"

// Frequency represents how often a recurring definition produces a
// transaction.
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyWeekly      Frequency = "weekly"
	FrequencyFortnightly Frequency = "fortnightly"
	FrequencyMonthly     Frequency = "monthly"
	FrequencyYearly      Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringStatus is the derived lifecycle state of a definition. It is
// never stored; it is a pure function of today's date versus the stored
// start/end dates.
type RecurringStatus string

const (
	RecurringStatusInactive RecurringStatus = "inactive"
	RecurringStatusActive   RecurringStatus = "active"
	RecurringStatusClosed   RecurringStatus = "closed"
)

// RecurringDefinition is a transaction template plus a schedule. The
// engine stamps out one transaction per due occurrence and advances
// LastApplied to the latest occurrence date it has covered (the
// inclusive-occurrence-date convention: LastApplied is itself always a
// valid occurrence date, never a mere processing watermark).
type RecurringDefinition struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `gorm:"not null" json:"description"`
	BucketID    *string         `gorm:"type:uuid" json:"bucket_id,omitempty"`
	Frequency   Frequency       `gorm:"not null" json:"frequency"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	LastApplied *time.Time      `json:"last_applied,omitempty"`
}

// Status derives the lifecycle state for the given calendar day.
func (r *RecurringDefinition) Status(today time.Time) RecurringStatus {
	day := midnight(today)
	if midnight(r.StartDate).After(day) {
		return RecurringStatusInactive
	}
	if r.EndDate != nil && midnight(*r.EndDate).Before(day) {
		return RecurringStatusClosed
	}
	return RecurringStatusActive
}

// Instantiate stamps a concrete transaction from the template for the
// given occurrence date. The caller owns persistence.
func (r *RecurringDefinition) Instantiate(date time.Time) *Transaction {
	recurringID := r.ID
	return &Transaction{
		UserID:      r.UserID,
		Type:        r.Type,
		Amount:      r.Amount,
		Description: r.Description,
		BucketID:    r.BucketID,
		Date:        midnight(date),
		IsRecurring: true,
		RecurringID: &recurringID,
	}
}

// midnight truncates a timestamp to its calendar date in its own location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
