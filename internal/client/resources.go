package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
)

// listPageSize is the page size used when walking a full collection.
const listPageSize = 100

// listAll walks every page of a collection endpoint and returns the
// concatenated items. The state container loads full sets; filtered,
// single-page queries go through the typed list methods instead.
func listAll[T any](ctx context.Context, c *Client, op, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("page_size", strconv.Itoa(listPageSize))

	var items []T
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))

		var resp pagination.PageResponse[T]
		if err := c.do(ctx, op, http.MethodGet, path+"?"+query.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		items = append(items, resp.Data...)
		if resp.Last() {
			break
		}
	}
	return items, nil
}

// --- buckets ---

type bucketEnvelope struct {
	Bucket *models.Bucket `json:"bucket"`
}

type bucketPayload struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// ListBuckets returns all of the user's buckets.
func (c *Client) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	return listAll[models.Bucket](ctx, c, "list buckets", "/buckets", nil)
}

// CreateBucket creates a bucket.
func (c *Client) CreateBucket(ctx context.Context, name, color string) (*models.Bucket, error) {
	var envelope bucketEnvelope
	err := c.do(ctx, "create bucket", http.MethodPost, "/buckets", bucketPayload{Name: name, Color: color}, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.Bucket, nil
}

// UpdateBucket updates a bucket's name and/or color.
func (c *Client) UpdateBucket(ctx context.Context, id, name, color string) (*models.Bucket, error) {
	var envelope bucketEnvelope
	err := c.do(ctx, "update bucket", http.MethodPut, "/buckets/"+id, bucketPayload{Name: name, Color: color}, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.Bucket, nil
}

// DeleteBucket deletes a bucket.
func (c *Client) DeleteBucket(ctx context.Context, id string) error {
	return c.do(ctx, "delete bucket", http.MethodDelete, "/buckets/"+id, nil, nil)
}

// --- transactions ---

type transactionEnvelope struct {
	Transaction *models.Transaction `json:"transaction"`
}

type createTransactionPayload struct {
	Type        models.TransactionType `json:"type"`
	Amount      int64                  `json:"amount"`
	Description string                 `json:"description"`
	BucketID    *string                `json:"bucket_id,omitempty"`
	Date        time.Time              `json:"date"`
	Tags        models.Tags            `json:"tags,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
	RecurringID *string                `json:"recurring_id,omitempty"`
}

// UpdateTransactionParams carries the optional fields of a transaction
// update; nil fields are left unchanged.
type UpdateTransactionParams struct {
	Amount      *int64      `json:"amount,omitempty"`
	Description *string     `json:"description,omitempty"`
	BucketID    *string     `json:"bucket_id,omitempty"`
	Date        *time.Time  `json:"date,omitempty"`
	Tags        models.Tags `json:"tags,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

// TransactionListOptions are the optional display-layer filters on the
// transactions listing.
type TransactionListOptions struct {
	From *time.Time
	To   *time.Time
	Type *models.TransactionType
}

// ListTransactions returns the user's transactions, optionally filtered.
// The materialization path calls it unfiltered to obtain the full set.
func (c *Client) ListTransactions(ctx context.Context, opts *TransactionListOptions) ([]models.Transaction, error) {
	query := url.Values{}
	if opts != nil {
		if opts.From != nil {
			query.Set("from", opts.From.Format("2006-01-02"))
		}
		if opts.To != nil {
			query.Set("to", opts.To.Format("2006-01-02"))
		}
		if opts.Type != nil {
			query.Set("type", string(*opts.Type))
		}
	}
	return listAll[models.Transaction](ctx, c, "list transactions", "/transactions", query)
}

// CreateTransaction persists a transaction built locally, carrying the
// recurring back-reference when the engine stamped it out. It satisfies
// the materializer's creation interface.
func (c *Client) CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	payload := createTransactionPayload{
		Type:        tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
		BucketID:    tx.BucketID,
		Date:        tx.Date,
		Tags:        tx.Tags,
		Notes:       tx.Notes,
		RecurringID: tx.RecurringID,
	}
	var envelope transactionEnvelope
	if err := c.do(ctx, "create transaction", http.MethodPost, "/transactions", payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Transaction, nil
}

// UpdateTransaction updates a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id string, params UpdateTransactionParams) (*models.Transaction, error) {
	var envelope transactionEnvelope
	if err := c.do(ctx, "update transaction", http.MethodPut, "/transactions/"+id, params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Transaction, nil
}

// DeleteTransaction deletes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, "delete transaction", http.MethodDelete, "/transactions/"+id, nil, nil)
}

// --- recurring definitions ---

type recurringEnvelope struct {
	Recurring *models.RecurringDefinition `json:"recurring"`
}

// RecurringParams is the payload for creating a recurring definition.
type RecurringParams struct {
	Type        models.TransactionType `json:"type"`
	Amount      int64                  `json:"amount"`
	Description string                 `json:"description"`
	BucketID    *string                `json:"bucket_id,omitempty"`
	Frequency   models.Frequency       `json:"frequency"`
	StartDate   time.Time              `json:"start_date"`
	EndDate     *time.Time             `json:"end_date,omitempty"`
}

// UpdateRecurringParams carries the optional fields of a definition
// update, including checkpoint advancement via LastApplied.
type UpdateRecurringParams struct {
	Amount      *int64            `json:"amount,omitempty"`
	Description *string           `json:"description,omitempty"`
	BucketID    *string           `json:"bucket_id,omitempty"`
	Frequency   *models.Frequency `json:"frequency,omitempty"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty"`
	LastApplied *time.Time        `json:"last_applied,omitempty"`
}

// ListRecurring returns all of the user's recurring definitions.
func (c *Client) ListRecurring(ctx context.Context) ([]models.RecurringDefinition, error) {
	return listAll[models.RecurringDefinition](ctx, c, "list recurring definitions", "/recurring", nil)
}

// CreateRecurring creates a recurring definition.
func (c *Client) CreateRecurring(ctx context.Context, params RecurringParams) (*models.RecurringDefinition, error) {
	var envelope recurringEnvelope
	if err := c.do(ctx, "create recurring definition", http.MethodPost, "/recurring", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Recurring, nil
}

// UpdateRecurring updates a recurring definition.
func (c *Client) UpdateRecurring(ctx context.Context, id string, params UpdateRecurringParams) (*models.RecurringDefinition, error) {
	var envelope recurringEnvelope
	if err := c.do(ctx, "update recurring definition", http.MethodPut, "/recurring/"+id, params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Recurring, nil
}

// AdvanceCheckpoint moves a definition's last-applied date forward. It
// satisfies the materializer's checkpoint interface; the server rejects
// regressions.
func (c *Client) AdvanceCheckpoint(ctx context.Context, recurringID string, lastApplied time.Time) error {
	params := UpdateRecurringParams{LastApplied: &lastApplied}
	op := fmt.Sprintf("advance checkpoint for %s", recurringID)
	return c.do(ctx, op, http.MethodPut, "/recurring/"+recurringID, params, nil)
}

// DeleteRecurring deletes a recurring definition. Generated transactions
// are left in place.
func (c *Client) DeleteRecurring(ctx context.Context, id string) error {
	return c.do(ctx, "delete recurring definition", http.MethodDelete, "/recurring/"+id, nil, nil)
}

// --- budgets ---

type budgetEnvelope struct {
	Budget *models.Budget `json:"budget"`
}

// BudgetParams is the payload for creating a budget.
type BudgetParams struct {
	BucketID string              `json:"bucket_id"`
	Amount   int64               `json:"amount"`
	Period   models.BudgetPeriod `json:"period"`
	Year     int                 `json:"year"`
	Month    *int                `json:"month,omitempty"`
}

// ListBudgets returns all of the user's budgets.
func (c *Client) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	return listAll[models.Budget](ctx, c, "list budgets", "/budgets", nil)
}

// CreateBudget creates a budget.
func (c *Client) CreateBudget(ctx context.Context, params BudgetParams) (*models.Budget, error) {
	var envelope budgetEnvelope
	if err := c.do(ctx, "create budget", http.MethodPost, "/budgets", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Budget, nil
}

// UpdateBudget updates a budget's amount.
func (c *Client) UpdateBudget(ctx context.Context, id string, amount int64) (*models.Budget, error) {
	payload := map[string]int64{"amount": amount}
	var envelope budgetEnvelope
	if err := c.do(ctx, "update budget", http.MethodPut, "/budgets/"+id, payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Budget, nil
}

// DeleteBudget deletes a budget.
func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, "delete budget", http.MethodDelete, "/budgets/"+id, nil, nil)
}

// --- summaries ---

type summaryEnvelope struct {
	Summary *models.Summary `json:"summary"`
}

// SummaryParams is the payload for creating a summary.
type SummaryParams struct {
	Period  models.BudgetPeriod `json:"period"`
	Year    int                 `json:"year"`
	Month   *int                `json:"month,omitempty"`
	Title   string              `json:"title"`
	Content string              `json:"content,omitempty"`
}

// ListSummaries returns all of the user's summaries.
func (c *Client) ListSummaries(ctx context.Context) ([]models.Summary, error) {
	return listAll[models.Summary](ctx, c, "list summaries", "/summaries", nil)
}

// CreateSummary creates a summary.
func (c *Client) CreateSummary(ctx context.Context, params SummaryParams) (*models.Summary, error) {
	var envelope summaryEnvelope
	if err := c.do(ctx, "create summary", http.MethodPost, "/summaries", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Summary, nil
}

// UpdateSummary updates a summary's title and/or content.
func (c *Client) UpdateSummary(ctx context.Context, id string, title, content *string) (*models.Summary, error) {
	payload := map[string]*string{"title": title, "content": content}
	var envelope summaryEnvelope
	if err := c.do(ctx, "update summary", http.MethodPut, "/summaries/"+id, payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Summary, nil
}

// DeleteSummary deletes a summary.
func (c *Client) DeleteSummary(ctx context.Context, id string) error {
	return c.do(ctx, "delete summary", http.MethodDelete, "/summaries/"+id, nil, nil)
}
