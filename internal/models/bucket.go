package models

// Bucket represents a user-defined spending category.
//
// Transactions and recurring templates reference buckets weakly: deleting
// a bucket leaves their bucket_id dangling and display layers render
// "Unknown" for it.
type Bucket struct {
	Base
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Color  string `json:"color,omitempty"`
}
