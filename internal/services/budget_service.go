package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for a bucket. Duplicate
// (bucket, period, year, month) tuples are allowed.
func (s *budgetService) CreateBudget(userID, bucketID string, amount int64, period models.BudgetPeriod, year int, month *int) (*models.Budget, error) {
	if !period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be 'monthly' or 'yearly'")
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if period == models.BudgetPeriodMonthly {
		if month == nil {
			return nil, apperrors.ErrMonthRequired
		}
		if *month < 1 || *month > 12 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
	}

	// Verify the bucket exists and belongs to the user.
	var bucket models.Bucket
	if err := s.db.Where("id = ? AND user_id = ?", bucketID, userID).First(&bucket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBucketNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := &models.Budget{
		UserID:   userID,
		BucketID: bucketID,
		Amount:   amount,
		Period:   period,
		Year:     year,
		Month:    month,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets with optional filters.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, period *models.BudgetPeriod, year *int) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if period != nil {
		base = base.Where("period = ?", *period)
	}
	if year != nil {
		base = base.Where("year = ?", *year)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Order("year DESC, month DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's amount.
func (s *budgetService) UpdateBudget(userID, budgetID string, amount *int64) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if amount != nil {
		if *amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		if err := s.db.Model(budget).Update("amount", *amount).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress sums expense transactions in the budget's bucket over
// its period window.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var periodStart, periodEnd time.Time
	switch budget.Period {
	case models.BudgetPeriodMonthly:
		periodStart = time.Date(budget.Year, time.Month(*budget.Month), 1, 0, 0, 0, 0, time.UTC)
		periodEnd = periodStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	case models.BudgetPeriodYearly:
		periodStart = time.Date(budget.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		periodEnd = time.Date(budget.Year, time.December, 31, 23, 59, 59, 999999999, time.UTC)
	}

	var spent int64
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND bucket_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, budget.BucketID, models.TransactionTypeExpense, periodStart, periodEnd).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &BudgetProgress{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Amount - spent,
	}, nil
}
