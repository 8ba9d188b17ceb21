package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
	"bucketeer/internal/services"
)

// RecurringHandler handles recurring-definition requests.
type RecurringHandler struct {
	recurringService services.RecurringServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// CreateRecurringRequest represents the request payload for creating a
// recurring definition.
type CreateRecurringRequest struct {
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      int64                  `json:"amount" binding:"gte=0"`
	Description string                 `json:"description" binding:"required,min=1,max=255"`
	BucketID    *string                `json:"bucket_id"`
	Frequency   models.Frequency       `json:"frequency" binding:"required,frequency"`
	StartDate   time.Time              `json:"start_date" binding:"required"`
	EndDate     *time.Time             `json:"end_date"`
}

// UpdateRecurringRequest represents the request payload for updating a
// recurring definition. LastApplied lets clients advance the
// materialization checkpoint; the service rejects rewinds.
type UpdateRecurringRequest struct {
	Amount      *int64            `json:"amount" binding:"omitempty,gte=0"`
	Description *string           `json:"description" binding:"omitempty,min=1,max=255"`
	BucketID    *string           `json:"bucket_id"`
	Frequency   *models.Frequency `json:"frequency" binding:"omitempty,frequency"`
	StartDate   *time.Time        `json:"start_date"`
	EndDate     *time.Time        `json:"end_date"`
	LastApplied *time.Time        `json:"last_applied"`
}

// CreateRecurring handles the creation of a new recurring definition.
func (h *RecurringHandler) CreateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	definition, err := h.recurringService.CreateDefinition(
		userID, req.Type, req.Amount, req.Description, req.BucketID, req.Frequency, req.StartDate, req.EndDate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recurring": definition})
}

// GetRecurringList handles listing the user's recurring definitions.
func (h *RecurringHandler) GetRecurringList(c *gin.Context) {
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

	result, err := h.recurringService.GetUserDefinitions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecurring handles retrieving a specific recurring definition.
func (h *RecurringHandler) GetRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	definition, err := h.recurringService.GetDefinitionByID(userID, recurringID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring": definition})
}

// UpdateRecurring handles updating an existing recurring definition,
// including checkpoint advancement.
func (h *RecurringHandler) UpdateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	definition, err := h.recurringService.UpdateDefinition(
		userID, recurringID, req.Amount, req.Description, req.BucketID, req.Frequency,
		req.StartDate, req.EndDate, req.LastApplied,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring": definition})
}

// DeleteRecurring handles deleting a recurring definition.
func (h *RecurringHandler) DeleteRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteDefinition(userID, recurringID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recurring definition deleted successfully"})
}
