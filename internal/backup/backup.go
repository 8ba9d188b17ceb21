// Package backup serializes a user's complete data set to a versioned
// JSON envelope and restores it. The envelope is self-describing so a
// future format bump can be detected before anything is written.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"bucketeer/internal/models"
)

// Version is the current archive format version.
const Version = 1

// Archive is the export envelope. All four entity lists are always
// present; an archive missing any of them is rejected on import.
type Archive struct {
	Version              int                          `json:"version"`
	ExportDate           time.Time                    `json:"export_date"`
	Buckets              []models.Bucket              `json:"buckets"`
	Transactions         []models.Transaction         `json:"transactions"`
	RecurringDefinitions []models.RecurringDefinition `json:"recurring_definitions"`
	Budgets              []models.Budget              `json:"budgets"`
}

// Export writes an archive of the given lists to w. Nil slices are
// encoded as empty arrays so the envelope always carries all four keys.
func Export(w io.Writer, exportDate time.Time, buckets []models.Bucket, transactions []models.Transaction, recurring []models.RecurringDefinition, budgets []models.Budget) error {
	archive := Archive{
		Version:              Version,
		ExportDate:           exportDate,
		Buckets:              emptyIfNil(buckets),
		Transactions:         emptyIfNil(transactions),
		RecurringDefinitions: emptyIfNil(recurring),
		Budgets:              emptyIfNil(budgets),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	return nil
}

// Import reads and validates an archive from r. It rejects unknown
// versions and envelopes missing any of the four entity lists; a valid
// archive with empty lists is fine.
func Import(r io.Reader) (*Archive, error) {
	// Decode into a raw shape first so absent keys are distinguishable
	// from empty lists.
	var raw struct {
		Version              *int                          `json:"version"`
		ExportDate           time.Time                     `json:"export_date"`
		Buckets              *[]models.Bucket              `json:"buckets"`
		Transactions         *[]models.Transaction         `json:"transactions"`
		RecurringDefinitions *[]models.RecurringDefinition `json:"recurring_definitions"`
		Budgets              *[]models.Budget              `json:"budgets"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}

	if raw.Version == nil {
		return nil, fmt.Errorf("invalid archive: missing version")
	}
	if *raw.Version != Version {
		return nil, fmt.Errorf("unsupported archive version %d (want %d)", *raw.Version, Version)
	}
	for _, check := range []struct {
		name    string
		present bool
	}{
		{"buckets", raw.Buckets != nil},
		{"transactions", raw.Transactions != nil},
		{"recurring_definitions", raw.RecurringDefinitions != nil},
		{"budgets", raw.Budgets != nil},
	} {
		if !check.present {
			return nil, fmt.Errorf("invalid archive: missing %s", check.name)
		}
	}

	return &Archive{
		Version:              *raw.Version,
		ExportDate:           raw.ExportDate,
		Buckets:              *raw.Buckets,
		Transactions:         *raw.Transactions,
		RecurringDefinitions: *raw.RecurringDefinitions,
		Budgets:              *raw.Budgets,
	}, nil
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
