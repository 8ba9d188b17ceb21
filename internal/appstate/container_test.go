package appstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"bucketeer/internal/client"
	"bucketeer/internal/models"
)

// fakeStore is an in-memory Store with per-method failure switches.
type fakeStore struct {
	buckets      []models.Bucket
	transactions []models.Transaction
	recurring    []models.RecurringDefinition
	budgets      []models.Budget

	failListTransactions bool
	failCreateTx         bool

	createdTx           []*models.Transaction
	advancedCheckpoints map[string]time.Time
	txLists             int
}

func (s *fakeStore) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	return append([]models.Bucket(nil), s.buckets...), nil
}

func (s *fakeStore) ListTransactions(ctx context.Context, opts *client.TransactionListOptions) ([]models.Transaction, error) {
	if s.failListTransactions {
		return nil, errors.New("list transactions: connection refused")
	}
	s.txLists++
	return append([]models.Transaction(nil), s.transactions...), nil
}

func (s *fakeStore) ListRecurring(ctx context.Context) ([]models.RecurringDefinition, error) {
	return append([]models.RecurringDefinition(nil), s.recurring...), nil
}

func (s *fakeStore) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	return append([]models.Budget(nil), s.budgets...), nil
}

func (s *fakeStore) CreateBucket(ctx context.Context, name, color string) (*models.Bucket, error) {
	bucket := models.Bucket{Name: name, Color: color}
	bucket.ID = "bucket-" + name
	s.buckets = append(s.buckets, bucket)
	return &bucket, nil
}

func (s *fakeStore) UpdateBucket(ctx context.Context, id, name, color string) (*models.Bucket, error) {
	bucket := models.Bucket{Name: name, Color: color}
	bucket.ID = id
	return &bucket, nil
}

func (s *fakeStore) DeleteBucket(ctx context.Context, id string) error { return nil }

func (s *fakeStore) CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if s.failCreateTx {
		return nil, errors.New("create transaction: boom")
	}
	created := *tx
	created.ID = "tx-" + tx.Date.Format("2006-01-02")
	s.transactions = append(s.transactions, created)
	s.createdTx = append(s.createdTx, &created)
	return &created, nil
}

func (s *fakeStore) UpdateTransaction(ctx context.Context, id string, params client.UpdateTransactionParams) (*models.Transaction, error) {
	updated := models.Transaction{}
	updated.ID = id
	if params.Amount != nil {
		updated.Amount = *params.Amount
	}
	return &updated, nil
}

func (s *fakeStore) DeleteTransaction(ctx context.Context, id string) error { return nil }

func (s *fakeStore) CreateRecurring(ctx context.Context, params client.RecurringParams) (*models.RecurringDefinition, error) {
	def := models.RecurringDefinition{
		Type:        params.Type,
		Amount:      params.Amount,
		Description: params.Description,
		Frequency:   params.Frequency,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
	}
	def.ID = "def-" + params.Description
	return &def, nil
}

func (s *fakeStore) UpdateRecurring(ctx context.Context, id string, params client.UpdateRecurringParams) (*models.RecurringDefinition, error) {
	def := models.RecurringDefinition{}
	def.ID = id
	if params.Amount != nil {
		def.Amount = *params.Amount
	}
	return &def, nil
}

func (s *fakeStore) AdvanceCheckpoint(ctx context.Context, recurringID string, lastApplied time.Time) error {
	if s.advancedCheckpoints == nil {
		s.advancedCheckpoints = make(map[string]time.Time)
	}
	s.advancedCheckpoints[recurringID] = lastApplied
	return nil
}

func (s *fakeStore) DeleteRecurring(ctx context.Context, id string) error { return nil }

func (s *fakeStore) CreateBudget(ctx context.Context, params client.BudgetParams) (*models.Budget, error) {
	budget := models.Budget{BucketID: params.BucketID, Amount: params.Amount, Period: params.Period, Year: params.Year, Month: params.Month}
	budget.ID = "budget-1"
	return &budget, nil
}

func (s *fakeStore) UpdateBudget(ctx context.Context, id string, amount int64) (*models.Budget, error) {
	budget := models.Budget{Amount: amount}
	budget.ID = id
	return &budget, nil
}

func (s *fakeStore) DeleteBudget(ctx context.Context, id string) error { return nil }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	store := &fakeStore{
		buckets: []models.Bucket{{Name: "Groceries"}},
		transactions: []models.Transaction{
			{Description: "Coffee", Amount: 450},
		},
	}
	c := New(store, WithClock(fixedClock(date(2024, time.March, 1))))

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Buckets) != 1 || snap.Buckets[0].Name != "Groceries" {
		t.Errorf("expected bucket loaded, got %+v", snap.Buckets)
	}
	if len(snap.Transactions) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(snap.Transactions))
	}
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	store := &fakeStore{
		buckets: []models.Bucket{{Name: "Groceries"}},
	}
	c := New(store, WithClock(fixedClock(date(2024, time.March, 1))))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.buckets = append(store.buckets, models.Bucket{Name: "Rent"})
	store.failListTransactions = true

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}

	snap := c.Snapshot()
	if len(snap.Buckets) != 1 {
		t.Errorf("expected previous snapshot preserved, got %d buckets", len(snap.Buckets))
	}
}

func TestRefreshMaterializesDueOccurrences(t *testing.T) {
	def := models.RecurringDefinition{
		Type:        models.TransactionTypeExpense,
		Amount:      120000,
		Description: "Rent",
		Frequency:   models.FrequencyMonthly,
		StartDate:   date(2024, time.January, 5),
	}
	def.ID = "def-rent"
	bucketID := "bucket-home"
	def.BucketID = &bucketID

	store := &fakeStore{recurring: []models.RecurringDefinition{def}}
	c := New(store, WithClock(fixedClock(date(2024, time.March, 10))))

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.createdTx) != 3 {
		t.Fatalf("expected 3 materialized transactions, got %d", len(store.createdTx))
	}
	for _, tx := range store.createdTx {
		if tx.RecurringID == nil || *tx.RecurringID != "def-rent" {
			t.Errorf("expected back-reference to def-rent, got %+v", tx.RecurringID)
		}
	}

	want := date(2024, time.March, 5)
	if got := store.advancedCheckpoints["def-rent"]; !got.Equal(want) {
		t.Errorf("expected checkpoint %s, got %s", want, got)
	}

	snap := c.Snapshot()
	if len(snap.Transactions) != 3 {
		t.Errorf("expected reloaded transactions in snapshot, got %d", len(snap.Transactions))
	}
	if snap.RecurringDefinitions[0].LastApplied == nil || !snap.RecurringDefinitions[0].LastApplied.Equal(want) {
		t.Errorf("expected snapshot checkpoint folded back, got %v", snap.RecurringDefinitions[0].LastApplied)
	}

	// Second refresh with the same clock must not emit duplicates.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.createdTx) != 3 {
		t.Errorf("expected no new transactions on second pass, got %d", len(store.createdTx))
	}
}

func TestRefreshToleratesMaterializationFailures(t *testing.T) {
	def := models.RecurringDefinition{
		Type:        models.TransactionTypeIncome,
		Amount:      500000,
		Description: "Salary",
		Frequency:   models.FrequencyMonthly,
		StartDate:   date(2024, time.January, 1),
	}
	def.ID = "def-salary"

	store := &fakeStore{recurring: []models.RecurringDefinition{def}, failCreateTx: true}
	c := New(store, WithClock(fixedClock(date(2024, time.February, 15))))

	// Creation failures are recorded, not fatal; the refresh still
	// succeeds with the loaded snapshot.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.advancedCheckpoints) != 0 {
		t.Errorf("expected no checkpoint advance when every creation failed, got %v", store.advancedCheckpoints)
	}
}

func TestAddTransactionConfirmsBeforeApplying(t *testing.T) {
	store := &fakeStore{failCreateTx: true}
	c := New(store, WithClock(fixedClock(date(2024, time.March, 1))))

	tx := &models.Transaction{Type: models.TransactionTypeExpense, Amount: 900, Description: "Lunch", Date: date(2024, time.March, 1)}
	if _, err := c.AddTransaction(context.Background(), tx); err == nil {
		t.Fatal("expected remote failure to propagate")
	}
	if len(c.Snapshot().Transactions) != 0 {
		t.Error("expected snapshot untouched after remote failure")
	}

	store.failCreateTx = false
	created, err := c.AddTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected server-assigned ID on the returned transaction")
	}
	if len(c.Snapshot().Transactions) != 1 {
		t.Error("expected snapshot to contain the created transaction")
	}
}

func TestDeleteBucketLeavesTransactions(t *testing.T) {
	bucketID := "bucket-home"
	bucket := models.Bucket{Name: "Home"}
	bucket.ID = bucketID
	tx := models.Transaction{Description: "Rent", BucketID: &bucketID}
	tx.ID = "tx-1"

	store := &fakeStore{buckets: []models.Bucket{bucket}, transactions: []models.Transaction{tx}}
	c := New(store, WithClock(fixedClock(date(2024, time.March, 1))))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.DeleteBucket(context.Background(), bucketID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Buckets) != 0 {
		t.Errorf("expected bucket removed, got %d", len(snap.Buckets))
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].BucketID == nil {
		t.Error("expected transaction to keep its bucket reference")
	}
}

func TestUpdateRecurringReplacesSnapshotEntry(t *testing.T) {
	def := models.RecurringDefinition{Description: "Rent", Amount: 120000, Frequency: models.FrequencyMonthly, StartDate: date(2030, time.January, 1)}
	def.ID = "def-rent"

	store := &fakeStore{recurring: []models.RecurringDefinition{def}}
	c := New(store, WithClock(fixedClock(date(2024, time.March, 1))))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	amount := int64(130000)
	updated, err := c.UpdateRecurring(context.Background(), "def-rent", client.UpdateRecurringParams{Amount: &amount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Amount != 130000 {
		t.Errorf("expected updated amount, got %d", updated.Amount)
	}
	if got := c.Snapshot().RecurringDefinitions[0].Amount; got != 130000 {
		t.Errorf("expected snapshot entry replaced, got amount %d", got)
	}
}

func TestRecurringStatusIsDerived(t *testing.T) {
	end := date(2024, time.February, 1)
	tests := []struct {
		name  string
		def   models.RecurringDefinition
		today time.Time
		want  models.RecurringStatus
	}{
		{
			name:  "before_start",
			def:   models.RecurringDefinition{StartDate: date(2024, time.June, 1)},
			today: date(2024, time.March, 1),
			want:  models.RecurringStatusInactive,
		},
		{
			name:  "running",
			def:   models.RecurringDefinition{StartDate: date(2024, time.January, 1)},
			today: date(2024, time.March, 1),
			want:  models.RecurringStatusActive,
		},
		{
			name:  "past_end",
			def:   models.RecurringDefinition{StartDate: date(2024, time.January, 1), EndDate: &end},
			today: date(2024, time.March, 1),
			want:  models.RecurringStatusClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&fakeStore{}, WithClock(fixedClock(tt.today)))
			if got := c.RecurringStatus(tt.def); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
