package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/logger"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
	"bucketeer/internal/recurrence"
)

// recurringService handles recurring-definition business logic.
type recurringService struct {
	db *gorm.DB
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB) RecurringServicer {
	return &recurringService{db: db}
}

// CreateDefinition creates a new recurring definition.
func (s *recurringService) CreateDefinition(
	userID string,
	txType models.TransactionType,
	amount int64,
	description string,
	bucketID *string,
	frequency models.Frequency,
	startDate time.Time,
	endDate *time.Time,
) (*models.RecurringDefinition, error) {
	if !txType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !frequency.Valid() {
		return nil, apperrors.ErrInvalidFrequency
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if txType == models.TransactionTypeExpense && bucketID == nil {
		return nil, apperrors.ErrBucketRequired
	}
	if startDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}

	definition := &models.RecurringDefinition{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		BucketID:    bucketID,
		Frequency:   frequency,
		StartDate:   recurrence.DateOnly(startDate),
		EndDate:     endDate,
	}

	if err := s.db.Create(definition).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return definition, nil
}

// GetUserDefinitions returns a paginated list of the user's recurring definitions.
func (s *recurringService) GetUserDefinitions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringDefinition], error) {
	page.Defaults()

	base := s.db.Model(&models.RecurringDefinition{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var definitions []models.RecurringDefinition
	if err := base.Scopes(pagination.Paginate(page)).Order("start_date ASC").Find(&definitions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(definitions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetDefinitionByID returns a definition by ID if it belongs to the user.
func (s *recurringService) GetDefinitionByID(userID, recurringID string) (*models.RecurringDefinition, error) {
	var definition models.RecurringDefinition
	if err := s.db.Where("id = ? AND user_id = ?", recurringID, userID).First(&definition).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &definition, nil
}

// UpdateDefinition updates an existing definition. The last_applied
// checkpoint may only move forward; clients advance it after
// materializing, and a stale client must never rewind another session's
// progress.
func (s *recurringService) UpdateDefinition(
	userID, recurringID string,
	amount *int64,
	description *string,
	bucketID *string,
	frequency *models.Frequency,
	startDate, endDate, lastApplied *time.Time,
) (*models.RecurringDefinition, error) {
	definition, err := s.GetDefinitionByID(userID, recurringID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if *amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *amount
	}
	if description != nil {
		if *description == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
		}
		updates["description"] = *description
	}
	if bucketID != nil {
		updates["bucket_id"] = *bucketID
	}
	if frequency != nil {
		if !frequency.Valid() {
			return nil, apperrors.ErrInvalidFrequency
		}
		updates["frequency"] = *frequency
	}
	if startDate != nil {
		updates["start_date"] = recurrence.DateOnly(*startDate)
	}
	if endDate != nil {
		updates["end_date"] = recurrence.DateOnly(*endDate)
	}
	if lastApplied != nil {
		next := recurrence.DateOnly(*lastApplied)
		if definition.LastApplied != nil && next.Before(recurrence.DateOnly(*definition.LastApplied)) {
			return nil, apperrors.ErrCheckpointRegression
		}
		updates["last_applied"] = next
	}

	if len(updates) > 0 {
		if err := s.db.Model(definition).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return definition, nil
}

// DeleteDefinition soft-deletes a definition. Transactions it generated
// are kept; they reference it only weakly.
func (s *recurringService) DeleteDefinition(userID, recurringID string) error {
	definition, err := s.GetDefinitionByID(userID, recurringID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(definition).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// MaterializeDue runs a materialization pass over every definition in the
// store, across all users. This backs the worker's scheduled sweep; the
// engine's duplicate guard makes it safe alongside client-triggered
// passes.
func (s *recurringService) MaterializeDue(ctx context.Context, asOf time.Time) (*recurrence.Result, error) {
	var definitions []models.RecurringDefinition
	if err := s.db.WithContext(ctx).Find(&definitions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var existing []models.Transaction
	if err := s.db.WithContext(ctx).Where("recurring_id IS NOT NULL").Find(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	m := recurrence.NewMaterializer(
		&dbTransactionStore{db: s.db},
		&dbCheckpointStore{db: s.db},
		logger.Named("sweep"),
	)
	return m.Run(ctx, definitions, existing, asOf)
}

// dbTransactionStore adapts the database to the engine's creation interface.
type dbTransactionStore struct {
	db *gorm.DB
}

func (s *dbTransactionStore) CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return nil, err
	}
	return tx, nil
}

// dbCheckpointStore adapts the database to the engine's checkpoint interface.
type dbCheckpointStore struct {
	db *gorm.DB
}

func (s *dbCheckpointStore) AdvanceCheckpoint(ctx context.Context, recurringID string, lastApplied time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.RecurringDefinition{}).
		Where("id = ?", recurringID).
		Update("last_applied", lastApplied).Error
}
