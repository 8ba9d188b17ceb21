package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction creates a new transaction for a user. A non-nil
// recurringID marks the transaction as generated from a recurring
// definition; client materializers rely on the persisted back-reference
// for duplicate guarding.
func (s *transactionService) CreateTransaction(
	userID string,
	txType models.TransactionType,
	amount int64,
	description string,
	bucketID *string,
	date time.Time,
	tags models.Tags,
	notes string,
	recurringID *string,
) (*models.Transaction, error) {
	if !txType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
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
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		BucketID:    bucketID,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		IsRecurring: models.BoolFlag(recurringID != nil),
		RecurringID: recurringID,
		Tags:        tags,
		Notes:       notes,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter models.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction updates an existing transaction's mutable fields.
func (s *transactionService) UpdateTransaction(
	userID, transactionID string,
	amount *int64,
	description *string,
	bucketID *string,
	date *time.Time,
	tags models.Tags,
	notes *string,
) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	// Changed fields are assigned to the struct and persisted with an
	// explicit column selection: a struct update is the only form that
	// runs field serializers (tags), and Select forces zero values
	// through.
	var cols []string
	if amount != nil {
		if *amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		transaction.Amount = *amount
		cols = append(cols, "amount")
	}
	if description != nil {
		if *description == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
		}
		transaction.Description = *description
		cols = append(cols, "description")
	}
	if bucketID != nil {
		transaction.BucketID = bucketID
		cols = append(cols, "bucket_id")
	}
	if date != nil {
		transaction.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		cols = append(cols, "date")
	}
	if tags != nil {
		transaction.Tags = tags
		cols = append(cols, "tags")
	}
	if notes != nil {
		transaction.Notes = *notes
		cols = append(cols, "notes")
	}

	if len(cols) > 0 {
		if err := s.db.Model(transaction).Select(cols).Updates(transaction).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func applyTransactionFilters(q *gorm.DB, f models.TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.BucketID != nil {
		q = q.Where("bucket_id = ?", *f.BucketID)
	}
	return q
}
