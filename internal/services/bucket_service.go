package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
)

// bucketService handles bucket-related business logic.
type bucketService struct {
	db *gorm.DB
}

// NewBucketService creates a new BucketServicer.
func NewBucketService(db *gorm.DB) BucketServicer {
	return &bucketService{db: db}
}

// CreateBucket creates a new bucket for a user.
func (s *bucketService) CreateBucket(userID, name, color string) (*models.Bucket, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bucket name is required")
	}

	bucket := &models.Bucket{
		UserID: userID,
		Name:   name,
		Color:  color,
	}

	if err := s.db.Create(bucket).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return bucket, nil
}

// GetUserBuckets returns a paginated list of the user's buckets.
func (s *bucketService) GetUserBuckets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bucket], error) {
	page.Defaults()

	base := s.db.Model(&models.Bucket{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var buckets []models.Bucket
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&buckets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(buckets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBucketByID returns a bucket by ID if it belongs to the user.
func (s *bucketService) GetBucketByID(userID, bucketID string) (*models.Bucket, error) {
	var bucket models.Bucket
	if err := s.db.Where("id = ? AND user_id = ?", bucketID, userID).First(&bucket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBucketNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &bucket, nil
}

// UpdateBucket updates an existing bucket's name and color.
func (s *bucketService) UpdateBucket(userID, bucketID, name, color string) (*models.Bucket, error) {
	bucket, err := s.GetBucketByID(userID, bucketID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if color != "" {
		updates["color"] = color
	}

	if len(updates) > 0 {
		if err := s.db.Model(bucket).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return bucket, nil
}

// DeleteBucket soft-deletes a bucket. Transactions and recurring
// templates referencing it keep their dangling bucket_id on purpose.
func (s *bucketService) DeleteBucket(userID, bucketID string) error {
	bucket, err := s.GetBucketByID(userID, bucketID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(bucket).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
