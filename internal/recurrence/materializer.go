package recurrence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bucketeer/internal/models"
)

// TransactionCreator persists a single stamped-out transaction.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
}

// CheckpointWriter persists an advanced last_applied checkpoint for a
// recurring definition.
type CheckpointWriter interface {
	AdvanceCheckpoint(ctx context.Context, recurringID string, lastApplied time.Time) error
}

// Failure records a single non-fatal error during a materialization pass.
// Date is zero for failures that concern the definition as a whole
// (checkpoint writes, schedule enumeration).
type Failure struct {
	RecurringID string
	Date        time.Time
	Err         error
}

// Result reports what a materialization pass did. When Created is
// non-empty the caller must reload the authoritative transaction list
// before treating the pass as complete; locally accumulated state is not
// trusted for display.
type Result struct {
	Created     []*models.Transaction
	Checkpoints map[string]time.Time
	Failures    []Failure
}

// Materializer converts due occurrences into durable transactions
// exactly once per (recurringID, date) pair and keeps each definition's
// checkpoint advancing monotonically.
type Materializer struct {
	transactions TransactionCreator
	checkpoints  CheckpointWriter
	log          *zap.SugaredLogger
}

// NewMaterializer creates a materializer over the given stores.
func NewMaterializer(transactions TransactionCreator, checkpoints CheckpointWriter, log *zap.SugaredLogger) *Materializer {
	return &Materializer{transactions: transactions, checkpoints: checkpoints, log: log}
}

// Run materializes every due occurrence across defs as of asOf.
//
// A failure to create one occurrence, or to persist one checkpoint, is
// recorded in the result and never aborts the rest of the pass: a user
// must not lose all their recurring income because one item hit a
// transient error. Only context cancellation (the store is unreachable
// for the whole batch) aborts early, returning the partial result.
//
// Occurrences already present in existing (matched by recurringID and
// calendar date) are skipped but still count as covered when advancing
// the checkpoint, which is what makes a second pass with the same asOf a
// no-op and makes concurrent sessions safe against double-emission.
func (m *Materializer) Run(ctx context.Context, defs []models.RecurringDefinition, existing []models.Transaction, asOf time.Time) (*Result, error) {
	result := &Result{Checkpoints: make(map[string]time.Time)}

	seen := make(map[string]struct{}, len(existing))
	for i := range existing {
		if existing[i].RecurringID != nil {
			seen[occurrenceKey(*existing[i].RecurringID, existing[i].Date)] = struct{}{}
		}
	}

	for i := range defs {
		def := defs[i]

		if err := ctx.Err(); err != nil {
			return result, err
		}

		due, err := OccurrencesDue(def.Frequency, def.StartDate, def.EndDate, def.LastApplied, asOf)
		if err != nil {
			result.Failures = append(result.Failures, Failure{RecurringID: def.ID, Err: err})
			m.log.Warnw("skipping recurring definition", "recurring_id", def.ID, "error", err)
			continue
		}
		if len(due) == 0 {
			continue
		}

		var covered time.Time
		for _, date := range due {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			key := occurrenceKey(def.ID, date)
			if _, ok := seen[key]; ok {
				// Another session already emitted this occurrence; it
				// still advances the checkpoint.
				covered = date
				continue
			}

			created, err := m.transactions.CreateTransaction(ctx, def.Instantiate(date))
			if err != nil {
				result.Failures = append(result.Failures, Failure{RecurringID: def.ID, Date: date, Err: err})
				m.log.Warnw("failed to create recurring transaction",
					"recurring_id", def.ID,
					"date", date.Format("2006-01-02"),
					"error", err)
				continue
			}
			seen[key] = struct{}{}
			result.Created = append(result.Created, created)
			covered = date
		}

		if covered.IsZero() {
			// Every creation failed; leave the checkpoint untouched so
			// the next pass retries the same dates.
			continue
		}
		if def.LastApplied != nil && (SameDay(covered, *def.LastApplied) || beforeDay(covered, *def.LastApplied)) {
			continue
		}

		if err := m.checkpoints.AdvanceCheckpoint(ctx, def.ID, covered); err != nil {
			result.Failures = append(result.Failures, Failure{RecurringID: def.ID, Err: err})
			m.log.Warnw("failed to advance checkpoint",
				"recurring_id", def.ID,
				"last_applied", covered.Format("2006-01-02"),
				"error", err)
			continue
		}
		result.Checkpoints[def.ID] = covered
	}

	return result, nil
}

// occurrenceKey identifies one (definition, calendar date) pair. The
// date is keyed as its UTC instant so two sessions holding the same
// stored timestamp in different locations derive the same key.
func occurrenceKey(recurringID string, date time.Time) string {
	return recurringID + "|" + date.UTC().Format("2006-01-02")
}
