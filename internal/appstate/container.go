// Package appstate holds the in-memory snapshot of the current user's
// data and mediates every mutation through the remote store. It is a
// cache with no independent durability: a full refresh replaces it
// wholesale from the backend's current truth.
package appstate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bucketeer/internal/client"
	"bucketeer/internal/logger"
	"bucketeer/internal/models"
	"bucketeer/internal/recurrence"
)

// Store is the remote collaborator surface the container depends on.
// *client.Client satisfies it.
type Store interface {
	ListBuckets(ctx context.Context) ([]models.Bucket, error)
	ListTransactions(ctx context.Context, opts *client.TransactionListOptions) ([]models.Transaction, error)
	ListRecurring(ctx context.Context) ([]models.RecurringDefinition, error)
	ListBudgets(ctx context.Context) ([]models.Budget, error)

	CreateBucket(ctx context.Context, name, color string) (*models.Bucket, error)
	UpdateBucket(ctx context.Context, id, name, color string) (*models.Bucket, error)
	DeleteBucket(ctx context.Context, id string) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, params client.UpdateTransactionParams) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	CreateRecurring(ctx context.Context, params client.RecurringParams) (*models.RecurringDefinition, error)
	UpdateRecurring(ctx context.Context, id string, params client.UpdateRecurringParams) (*models.RecurringDefinition, error)
	AdvanceCheckpoint(ctx context.Context, recurringID string, lastApplied time.Time) error
	DeleteRecurring(ctx context.Context, id string) error

	CreateBudget(ctx context.Context, params client.BudgetParams) (*models.Budget, error)
	UpdateBudget(ctx context.Context, id string, amount int64) (*models.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

// Snapshot is the container's view of the remote store.
type Snapshot struct {
	Buckets              []models.Bucket
	Transactions         []models.Transaction
	RecurringDefinitions []models.RecurringDefinition
	Budgets              []models.Budget
}

// Container owns the snapshot and drives one materialization pass per
// full refresh. Concurrent refresh/mutate triggers are not serialized;
// the snapshot applies updates in completion order and the remote store
// remains the source of truth for the next refresh to reconcile.
type Container struct {
	mu    sync.RWMutex
	store Store
	log   *zap.SugaredLogger
	now   func() time.Time

	snapshot Snapshot
}

// Option configures a Container.
type Option func(*Container)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

// New creates a Container over the given store.
func New(store Store, opts ...Option) *Container {
	c := &Container{
		store: store,
		log:   logger.Named("appstate"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh loads all four entity lists concurrently, replaces the
// snapshot wholesale, then runs one materialization pass with asOf set
// to today in client-local time. If any load fails the whole refresh
// fails and the previous snapshot is preserved: a half-loaded snapshot
// must not masquerade as complete.
func (c *Container) Refresh(ctx context.Context) error {
	var (
		buckets      []models.Bucket
		transactions []models.Transaction
		recurring    []models.RecurringDefinition
		budgets      []models.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		buckets, err = c.store.ListBuckets(gctx)
		return err
	})
	g.Go(func() (err error) {
		transactions, err = c.store.ListTransactions(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		recurring, err = c.store.ListRecurring(gctx)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = c.store.ListBudgets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.snapshot = Snapshot{
		Buckets:              buckets,
		Transactions:         transactions,
		RecurringDefinitions: recurring,
		Budgets:              budgets,
	}
	c.mu.Unlock()

	return c.materialize(ctx, recurring, transactions)
}

// materialize runs one engine pass over the freshly loaded lists and
// folds the outcome back into the snapshot.
func (c *Container) materialize(ctx context.Context, defs []models.RecurringDefinition, existing []models.Transaction) error {
	asOf := recurrence.DateOnly(c.now())

	m := recurrence.NewMaterializer(c.store, c.store, c.log)
	result, err := m.Run(ctx, defs, existing, asOf)
	if err != nil {
		return err
	}
	if len(result.Failures) > 0 {
		c.log.Warnw("materialization pass completed with failures", "failures", len(result.Failures))
	}

	c.mu.Lock()
	for i := range c.snapshot.RecurringDefinitions {
		def := &c.snapshot.RecurringDefinitions[i]
		if checkpoint, ok := result.Checkpoints[def.ID]; ok {
			cp := checkpoint
			def.LastApplied = &cp
		}
	}
	c.mu.Unlock()

	if len(result.Created) == 0 {
		return nil
	}

	// Locally accumulated partial state is not trusted for display;
	// reload the authoritative list once more.
	reloaded, err := c.store.ListTransactions(ctx, nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.snapshot.Transactions = reloaded
	c.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current snapshot. The copied slices
// may be read freely; entity values are shared.
func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Buckets:              append([]models.Bucket(nil), c.snapshot.Buckets...),
		Transactions:         append([]models.Transaction(nil), c.snapshot.Transactions...),
		RecurringDefinitions: append([]models.RecurringDefinition(nil), c.snapshot.RecurringDefinitions...),
		Budgets:              append([]models.Budget(nil), c.snapshot.Budgets...),
	}
}

// RecurringStatus derives a definition's lifecycle state from today's
// date. It is recomputed on every read and never stored.
func (c *Container) RecurringStatus(def models.RecurringDefinition) models.RecurringStatus {
	return def.Status(c.now())
}
