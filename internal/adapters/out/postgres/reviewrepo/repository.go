package reviewrepo

import (
	"context"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/ports"

	"gorm.io/gorm"
)

// GormReviewStore implements ReviewStore using GORM.
type GormReviewStore struct {
	db *gorm.DB
}

// NewGormReviewStore creates a new GORM review store.
func NewGormReviewStore(db *gorm.DB) *GormReviewStore {
	return &GormReviewStore{db: db}
}

// Exists reports whether a review was already submitted for the job card.
func (s *GormReviewStore) Exists(ctx context.Context, jobCardID kernel.UUID) (bool, error) {
	if err := jobCardID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&ReviewDTO{}).
		Where("job_card_id = ?", jobCardID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Create persists a new review.
func (s *GormReviewStore) Create(ctx context.Context, review ports.Review) error {
	if err := review.JobCardID.Validate(); err != nil {
		return err
	}
	if err := review.CustomerID.Validate(); err != nil {
		return err
	}

	dto := fromPort(review)
	return s.db.WithContext(ctx).Create(&dto).Error
}
