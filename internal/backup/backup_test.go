package backup

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"bucketeer/internal/models"
)

func TestExportImportRoundTrip(t *testing.T) {
	bucketID := "bucket-home"
	bucket := models.Bucket{Name: "Home", Color: "#FF5733"}
	bucket.ID = bucketID

	tx := models.Transaction{
		Type:        models.TransactionTypeExpense,
		Amount:      120000,
		Description: "Rent",
		BucketID:    &bucketID,
		Date:        time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Tags:        models.Tags{"home", "fixed"},
	}
	tx.ID = "tx-1"

	def := models.RecurringDefinition{
		Type:        models.TransactionTypeExpense,
		Amount:      120000,
		Description: "Rent",
		Frequency:   models.FrequencyMonthly,
		StartDate:   time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
	}
	def.ID = "def-1"

	exportDate := time.Date(2024, time.April, 1, 12, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := Export(&buf, exportDate,
		[]models.Bucket{bucket},
		[]models.Transaction{tx},
		[]models.RecurringDefinition{def},
		nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	archive, err := Import(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if archive.Version != Version {
		t.Errorf("expected version %d, got %d", Version, archive.Version)
	}
	if !archive.ExportDate.Equal(exportDate) {
		t.Errorf("expected export date preserved, got %s", archive.ExportDate)
	}
	if len(archive.Buckets) != 1 || archive.Buckets[0].Name != "Home" {
		t.Errorf("unexpected buckets: %+v", archive.Buckets)
	}
	if len(archive.Transactions) != 1 || len(archive.Transactions[0].Tags) != 2 {
		t.Errorf("unexpected transactions: %+v", archive.Transactions)
	}
	if len(archive.RecurringDefinitions) != 1 || archive.RecurringDefinitions[0].Frequency != models.FrequencyMonthly {
		t.Errorf("unexpected recurring definitions: %+v", archive.RecurringDefinitions)
	}
	if archive.Budgets == nil || len(archive.Budgets) != 0 {
		t.Errorf("expected nil budgets exported as empty list, got %+v", archive.Budgets)
	}
}

func TestImportRejectsMissingLists(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "missing_budgets",
			json: `{"version":1,"export_date":"2024-04-01T00:00:00Z","buckets":[],"transactions":[],"recurring_definitions":[]}`,
		},
		{
			name: "missing_transactions",
			json: `{"version":1,"export_date":"2024-04-01T00:00:00Z","buckets":[],"recurring_definitions":[],"budgets":[]}`,
		},
		{
			name: "missing_version",
			json: `{"export_date":"2024-04-01T00:00:00Z","buckets":[],"transactions":[],"recurring_definitions":[],"budgets":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Import(strings.NewReader(tt.json)); err == nil {
				t.Error("expected import to fail")
			}
		})
	}
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	payload := `{"version":2,"export_date":"2024-04-01T00:00:00Z","buckets":[],"transactions":[],"recurring_definitions":[],"budgets":[]}`
	_, err := Import(strings.NewReader(payload))
	if err == nil {
		t.Fatal("expected import to fail")
	}
	if !strings.Contains(err.Error(), "version 2") {
		t.Errorf("expected version in error, got %v", err)
	}
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	if _, err := Import(strings.NewReader(`{"version":`)); err == nil {
		t.Error("expected import to fail on malformed JSON")
	}
}

func TestImportAcceptsEmptyArchive(t *testing.T) {
	payload := `{"version":1,"export_date":"2024-04-01T00:00:00Z","buckets":[],"transactions":[],"recurring_definitions":[],"budgets":[]}`
	archive, err := Import(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(archive.Buckets)+len(archive.Transactions)+len(archive.RecurringDefinitions)+len(archive.Budgets) != 0 {
		t.Errorf("expected empty archive, got %+v", archive)
	}
}
