package appstate

import (
	"context"
	"time"

	"bucketeer/internal/client"
	"bucketeer/internal/models"
)

// Every mutation confirms against the remote store first and touches
// the snapshot only on success. There is no rollback logic because
// nothing is applied optimistically; on failure the snapshot is
// untouched and the error propagates for display.

// AddBucket creates a bucket remotely and appends it to the snapshot.
func (c *Container) AddBucket(ctx context.Context, name, color string) (*models.Bucket, error) {
	bucket, err := c.store.CreateBucket(ctx, name, color)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot.Buckets = append(c.snapshot.Buckets, *bucket)
	c.mu.Unlock()
	return bucket, nil
}

// UpdateBucket updates a bucket remotely and in the snapshot.
func (c *Container) UpdateBucket(ctx context.Context, id, name, color string) (*models.Bucket, error) {
	bucket, err := c.store.UpdateBucket(ctx, id, name, color)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i := range c.snapshot.Buckets {
		if c.snapshot.Buckets[i].ID == id {
			c.snapshot.Buckets[i] = *bucket
			break
		}
	}
	c.mu.Unlock()
	return bucket, nil
}

// DeleteBucket deletes a bucket remotely and drops it from the
// snapshot. Transactions referencing it keep their dangling bucket ID.
func (c *Container) DeleteBucket(ctx context.Context, id string) error {
	if err := c.store.DeleteBucket(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.snapshot.Buckets = removeByID(c.snapshot.Buckets, id, func(b models.Bucket) string { return b.ID })
	c.mu.Unlock()
	return nil
}

// AddTransaction creates a transaction remotely and appends it to the
// snapshot.
func (c *Container) AddTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	created, err := c.store.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot.Transactions = append(c.snapshot.Transactions, *created)
	c.mu.Unlock()
	return created, nil
}

// UpdateTransaction updates a transaction remotely and in the snapshot.
func (c *Container) UpdateTransaction(ctx context.Context, id string, params client.UpdateTransactionParams) (*models.Transaction, error) {
	updated, err := c.store.UpdateTransaction(ctx, id, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i := range c.snapshot.Transactions {
		if c.snapshot.Transactions[i].ID == id {
			c.snapshot.Transactions[i] = *updated
			break
		}
	}
	c.mu.Unlock()
	return updated, nil
}

// DeleteTransaction deletes a transaction remotely and drops it from
// the snapshot.
func (c *Container) DeleteTransaction(ctx context.Context, id string) error {
	if err := c.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.snapshot.Transactions = removeByID(c.snapshot.Transactions, id, func(t models.Transaction) string { return t.ID })
	c.mu.Unlock()
	return nil
}

// AddRecurring creates a recurring definition remotely and appends it
// to the snapshot.
func (c *Container) AddRecurring(ctx context.Context, params client.RecurringParams) (*models.RecurringDefinition, error) {
	def, err := c.store.CreateRecurring(ctx, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot.RecurringDefinitions = append(c.snapshot.RecurringDefinitions, *def)
	c.mu.Unlock()
	return def, nil
}

// UpdateRecurring updates a recurring definition remotely and in the
// snapshot.
func (c *Container) UpdateRecurring(ctx context.Context, id string, params client.UpdateRecurringParams) (*models.RecurringDefinition, error) {
	def, err := c.store.UpdateRecurring(ctx, id, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i := range c.snapshot.RecurringDefinitions {
		if c.snapshot.RecurringDefinitions[i].ID == id {
			c.snapshot.RecurringDefinitions[i] = *def
			break
		}
	}
	c.mu.Unlock()
	return def, nil
}

// DeleteRecurring deletes a recurring definition remotely and drops it
// from the snapshot. Generated transactions stay.
func (c *Container) DeleteRecurring(ctx context.Context, id string) error {
	if err := c.store.DeleteRecurring(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.snapshot.RecurringDefinitions = removeByID(c.snapshot.RecurringDefinitions, id,
		func(d models.RecurringDefinition) string { return d.ID })
	c.mu.Unlock()
	return nil
}

// AdvanceCheckpoint advances a definition's last-applied date remotely
// and in the snapshot.
func (c *Container) AdvanceCheckpoint(ctx context.Context, id string, lastApplied time.Time) error {
	if err := c.store.AdvanceCheckpoint(ctx, id, lastApplied); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.snapshot.RecurringDefinitions {
		if c.snapshot.RecurringDefinitions[i].ID == id {
			cp := lastApplied
			c.snapshot.RecurringDefinitions[i].LastApplied = &cp
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// AddBudget creates a budget remotely and appends it to the snapshot.
func (c *Container) AddBudget(ctx context.Context, params client.BudgetParams) (*models.Budget, error) {
	budget, err := c.store.CreateBudget(ctx, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot.Budgets = append(c.snapshot.Budgets, *budget)
	c.mu.Unlock()
	return budget, nil
}

// UpdateBudget updates a budget remotely and in the snapshot.
func (c *Container) UpdateBudget(ctx context.Context, id string, amount int64) (*models.Budget, error) {
	budget, err := c.store.UpdateBudget(ctx, id, amount)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i := range c.snapshot.Budgets {
		if c.snapshot.Budgets[i].ID == id {
			c.snapshot.Budgets[i] = *budget
			break
		}
	}
	c.mu.Unlock()
	return budget, nil
}

// DeleteBudget deletes a budget remotely and drops it from the snapshot.
func (c *Container) DeleteBudget(ctx context.Context, id string) error {
	if err := c.store.DeleteBudget(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.snapshot.Budgets = removeByID(c.snapshot.Budgets, id, func(b models.Budget) string { return b.ID })
	c.mu.Unlock()
	return nil
}

// removeByID drops the first element whose ID matches.
func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	for i := range items {
		if idOf(items[i]) == id {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}
