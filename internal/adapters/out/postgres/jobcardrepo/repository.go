package jobcardrepo

import (
	"context"
	"errors"
	"fmt"

	"homeservice/internal/core/domain/model/jobcard"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/errs"

	"gorm.io/gorm"
)

var activeStatuses = []string{
	jobcard.Assigned.String(),
	jobcard.InProgress.String(),
}

// GormJobCardRepository implements JobCardRepository using GORM.
type GormJobCardRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormJobCardRepository creates a new GORM job card repository.
func NewGormJobCardRepository(db *gorm.DB, tracker aggregateTracker) *GormJobCardRepository {
	return &GormJobCardRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new job card to the database. Fails when an active job card
// already exists for the same request; the partial unique index backs the
// same rule against concurrent writers.
func (r *GormJobCardRepository) Add(ctx context.Context, aggregate *jobcard.JobCard) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	if aggregate.IsActive() {
		var count int64
		err := r.db.WithContext(ctx).Model(&JobCardDTO{}).
			Where("request_id = ? AND status IN ?", aggregate.RequestID().Bytes(), activeStatuses).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.NewValueIsInvalidErrorWithCause("requestId",
				fmt.Errorf("request %s already has an active job card", aggregate.RequestID()))
		}
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing job card to the database.
func (r *GormJobCardRepository) Update(ctx context.Context, aggregate *jobcard.JobCard) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&JobCardDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job card by ID.
func (r *GormJobCardRepository) Get(ctx context.Context, id kernel.UUID) (*jobcard.JobCard, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobCardDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("jobCard", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByRequest retrieves the single active job card for a request.
func (r *GormJobCardRepository) GetActiveByRequest(
	ctx context.Context, requestID kernel.UUID,
) (*jobcard.JobCard, error) {
	if err := requestID.Validate(); err != nil {
		return nil, err
	}

	var dto JobCardDTO
	err := r.db.WithContext(ctx).
		First(&dto, "request_id = ? AND status IN ?", requestID.Bytes(), activeStatuses).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("requestId", requestID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByRequestAndCustomer retrieves the most recent job card for a
// (request, customer) pair regardless of status.
func (r *GormJobCardRepository) GetByRequestAndCustomer(
	ctx context.Context, requestID, customerID kernel.UUID,
) (*jobcard.JobCard, error) {
	if err := requestID.Validate(); err != nil {
		return nil, err
	}
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dto JobCardDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&dto, "request_id = ? AND customer_id = ?", requestID.Bytes(), customerID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("requestId", requestID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
