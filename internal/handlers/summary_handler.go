package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
	"bucketeer/internal/services"
)

// SummaryHandler handles written-reflection requests.
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// CreateSummaryRequest represents the request payload for creating a summary.
type CreateSummaryRequest struct {
	Period  models.BudgetPeriod `json:"period" binding:"required,budget_period"`
	Year    int                 `json:"year" binding:"required,gte=1970"`
	Month   *int                `json:"month" binding:"omitempty,gte=1,lte=12"`
	Title   string              `json:"title" binding:"required,min=1,max=200"`
	Content string              `json:"content" binding:"max=10000"`
}

// UpdateSummaryRequest represents the request payload for updating a summary.
type UpdateSummaryRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string `json:"content" binding:"omitempty,max=10000"`
}

// CreateSummary handles the creation of a new summary.
func (h *SummaryHandler) CreateSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	summary, err := h.summaryService.CreateSummary(userID, req.Period, req.Year, req.Month, req.Title, req.Content)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"summary": summary})
}

// GetSummaries handles listing summaries with optional filters.
func (h *SummaryHandler) GetSummaries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, year, err := parsePeriodFilters(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.summaryService.GetUserSummaries(userID, page, period, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSummary handles retrieving a specific summary.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.GetSummaryByID(userID, summaryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// UpdateSummary handles updating an existing summary.
func (h *SummaryHandler) UpdateSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	summary, err := h.summaryService.UpdateSummary(userID, summaryID, req.Title, req.Content)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// DeleteSummary handles deleting a summary.
func (h *SummaryHandler) DeleteSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.summaryService.DeleteSummary(userID, summaryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Summary deleted successfully"})
}
