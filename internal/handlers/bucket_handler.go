package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/pagination"
	"bucketeer/internal/services"
)

// BucketHandler handles bucket-related requests.
type BucketHandler struct {
	bucketService services.BucketServicer
}

// NewBucketHandler creates a new BucketHandler.
func NewBucketHandler(bucketService services.BucketServicer) *BucketHandler {
	return &BucketHandler{bucketService: bucketService}
}

// CreateBucketRequest represents the request payload for creating a bucket.
type CreateBucketRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"omitempty,hex_color"`
}

// UpdateBucketRequest represents the request payload for updating a bucket.
type UpdateBucketRequest struct {
	Name  string `json:"name" binding:"omitempty,min=1,max=100"`
	Color string `json:"color" binding:"omitempty,hex_color"`
}

// CreateBucket handles the creation of a new bucket.
func (h *BucketHandler) CreateBucket(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	bucket, err := h.bucketService.CreateBucket(userID, req.Name, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bucket": bucket})
}

// GetBuckets handles listing buckets for the authenticated user.
func (h *BucketHandler) GetBuckets(c *gin.Context) {
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

	result, err := h.bucketService.GetUserBuckets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBucket handles retrieving a specific bucket.
func (h *BucketHandler) GetBucket(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bucketID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bucket, err := h.bucketService.GetBucketByID(userID, bucketID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bucket": bucket})
}

// UpdateBucket handles updating an existing bucket.
func (h *BucketHandler) UpdateBucket(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bucketID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	bucket, err := h.bucketService.UpdateBucket(userID, bucketID, req.Name, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bucket": bucket})
}

// DeleteBucket handles deleting a bucket.
func (h *BucketHandler) DeleteBucket(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bucketID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bucketService.DeleteBucket(userID, bucketID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bucket deleted successfully"})
}
