// Package jobcardrepo provides data transfer objects and mapping functions
// for job card persistence.
package jobcardrepo

import (
	"time"

	"homeservice/internal/core/domain/model/jobcard"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"

	"github.com/google/uuid"
)

// JobCardDTO represents the database structure for persisting job card
// aggregates. A partial unique index on request_id over non-terminal
// statuses enforces at most one active job card per request at the storage
// level.
type JobCardDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequestID     uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:uniq_active_job_card,where:status IN ('assigned','in_progress')"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index"`
	ProviderID    uuid.UUID  `gorm:"type:uuid;index"`
	CustomerName  string     `gorm:"not null"`
	CustomerPhone string     `gorm:"not null"`
	Address       AddressDTO `gorm:"embedded"`
	Status        string     `gorm:"index;not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime:false"`
}

// TableName specifies the database table name for job card entities.
func (JobCardDTO) TableName() string {
	return "job_cards"
}

// AddressDTO represents the embedded address snapshot within the job card
// table.
type AddressDTO struct {
	AddressLine string `gorm:"not null"`
	City        string
	State       string
	Pincode     string
	Latitude    *float64
	Longitude   *float64
}

// fromDomain converts a job card aggregate to its database representation.
func fromDomain(aggregate *jobcard.JobCard) JobCardDTO {
	address := aggregate.Address()
	addressDTO := AddressDTO{
		AddressLine: address.Line(),
		City:        address.City(),
		State:       address.State(),
		Pincode:     address.Pincode(),
	}
	if point := address.Coordinates(); point != nil {
		lat := point.Latitude()
		lon := point.Longitude()
		addressDTO.Latitude = &lat
		addressDTO.Longitude = &lon
	}

	return JobCardDTO{
		ID:            aggregate.ID().Bytes(),
		RequestID:     aggregate.RequestID().Bytes(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		ProviderID:    aggregate.ProviderID().Bytes(),
		CustomerName:  aggregate.CustomerName(),
		CustomerPhone: aggregate.CustomerPhone(),
		Address:       addressDTO,
		Status:        aggregate.Status().String(),
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a job card aggregate.
func toDomain(dto JobCardDTO) (*jobcard.JobCard, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	requestID, err := kernel.UUIDFromBytes(dto.RequestID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	providerID, err := kernel.UUIDFromBytes(dto.ProviderID[:])
	if err != nil {
		return nil, err
	}

	address, err := addressToDomain(dto.Address)
	if err != nil {
		return nil, err
	}

	status, err := jobcard.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return jobcard.RestoreJobCard(
		id, requestID, customerID, providerID,
		dto.CustomerName, dto.CustomerPhone, address,
		status, dto.CreatedAt, dto.UpdatedAt,
	)
}

func addressToDomain(dto AddressDTO) (request.Address, error) {
	var coordinates *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, err := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if err != nil {
			return request.Address{}, err
		}
		coordinates = &point
	}

	return request.NewAddress(dto.AddressLine, dto.City, dto.State, dto.Pincode, coordinates)
}
