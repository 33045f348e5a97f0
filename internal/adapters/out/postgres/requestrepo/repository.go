package requestrepo

import (
	"context"
	"errors"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRequestRepository implements RequestRepository using GORM.
type GormRequestRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRequestRepository creates a new GORM service request repository.
func NewGormRequestRepository(db *gorm.DB, tracker aggregateTracker) *GormRequestRepository {
	return &GormRequestRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new service request to the database.
func (r *GormRequestRepository) Add(ctx context.Context, aggregate *request.ServiceRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing service request to the database.
//
// Select("*") forces every column through, so clearing the provider fields
// on cancellation actually writes the NULLs instead of being skipped as
// zero values.
func (r *GormRequestRepository) Update(ctx context.Context, aggregate *request.ServiceRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RequestDTO{}).
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

// Get retrieves a service request by ID.
func (r *GormRequestRepository) Get(ctx context.Context, id kernel.UUID) (*request.ServiceRequest, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("request", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInPendingStatus retrieves all requests still waiting for a
// provider, oldest first so the rebroadcast job re-dispatches in arrival
// order.
func (r *GormRequestRepository) GetAllInPendingStatus(ctx context.Context) ([]*request.ServiceRequest, error) {
	var dtos []RequestDTO
	if err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "status = ?", request.Pending.String()).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllActiveByCustomer retrieves the customer's non-terminal requests,
// newest first.
func (r *GormRequestRepository) GetAllActiveByCustomer(
	ctx context.Context, customerID kernel.UUID,
) ([]*request.ServiceRequest, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RequestDTO
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&dtos, "customer_id = ? AND status IN ?",
			customerID.Bytes(),
			[]string{
				request.Pending.String(),
				request.Accepted.String(),
				request.InProgress.String(),
			}).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []RequestDTO) ([]*request.ServiceRequest, error) {
	aggregates := make([]*request.ServiceRequest, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, aggregate)
	}

	return aggregates, nil
}
