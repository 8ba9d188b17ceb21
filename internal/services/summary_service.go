package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
)

// summaryService handles written-reflection business logic.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// CreateSummary creates a new monthly or yearly reflection.
func (s *summaryService) CreateSummary(userID string, period models.BudgetPeriod, year int, month *int, title, content string) (*models.Summary, error) {
	if !period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be 'monthly' or 'yearly'")
	}
	if period == models.BudgetPeriodMonthly {
		if month == nil {
			return nil, apperrors.ErrMonthRequired
		}
		if *month < 1 || *month > 12 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
	}
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}

	summary := &models.Summary{
		UserID:  userID,
		Period:  period,
		Year:    year,
		Month:   month,
		Title:   title,
		Content: content,
	}

	if err := s.db.Create(summary).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return summary, nil
}

// GetUserSummaries returns a paginated list of summaries with optional filters.
func (s *summaryService) GetUserSummaries(userID string, page pagination.PageRequest, period *models.BudgetPeriod, year *int) (*pagination.PageResponse[models.Summary], error) {
	page.Defaults()

	base := s.db.Model(&models.Summary{}).Where("user_id = ?", userID)
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

	var summaries []models.Summary
	if err := base.Scopes(pagination.Paginate(page)).Order("year DESC, month DESC").Find(&summaries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(summaries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSummaryByID returns a summary by ID if it belongs to the user.
func (s *summaryService) GetSummaryByID(userID, summaryID string) (*models.Summary, error) {
	var summary models.Summary
	if err := s.db.Where("id = ? AND user_id = ?", summaryID, userID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSummaryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &summary, nil
}

// UpdateSummary updates an existing summary's title and content.
func (s *summaryService) UpdateSummary(userID, summaryID string, title, content *string) (*models.Summary, error) {
	summary, err := s.GetSummaryByID(userID, summaryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		updates["title"] = *title
	}
	if content != nil {
		updates["content"] = *content
	}

	if len(updates) > 0 {
		if err := s.db.Model(summary).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return summary, nil
}

// DeleteSummary soft-deletes a summary.
func (s *summaryService) DeleteSummary(userID, summaryID string) error {
	summary, err := s.GetSummaryByID(userID, summaryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(summary).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
