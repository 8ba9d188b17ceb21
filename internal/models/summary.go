package models

// Summary is a written monthly or yearly reflection. Month is set only
// for monthly summaries.
type Summary struct {
	Base
	UserID  string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Period  BudgetPeriod `gorm:"not null" json:"period"`
	Year    int          `gorm:"not null" json:"year"`
	Month   *int         `json:"month,omitempty"`
	Title   string       `json:"title"`
	Content string       `gorm:"type:text" json:"content"`
}
