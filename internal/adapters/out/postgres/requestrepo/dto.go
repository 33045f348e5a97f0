// Package requestrepo provides data transfer objects and mapping functions
// for service request persistence. This package implements the repository
// pattern for the ServiceRequest aggregate, handling the conversion between
// domain entities and database representations.
package requestrepo

import (
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"

	"github.com/google/uuid"
)

// RequestDTO represents the database structure for persisting service
// request aggregates. Indexed for the hot paths: lookup by customer, by
// status for the rebroadcast job, and change notification by id.
type RequestDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index"`
	CustomerName  string     `gorm:"not null"`
	CustomerPhone string     `gorm:"not null"`
	Address       AddressDTO `gorm:"embedded"`
	ServiceType   string     `gorm:"index;not null"`
	Problem       string     `gorm:"not null"`
	Urgency       string     `gorm:"not null"`
	ScheduledTime *time.Time
	Status        string     `gorm:"index;not null"`
	ProviderID    *uuid.UUID `gorm:"type:uuid;index"`
	ProviderName  *string
	ProviderPhone *string
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
}

// TableName specifies the database table name for service request entities.
func (RequestDTO) TableName() string {
	return "service_requests"
}

// AddressDTO represents the embedded customer address snapshot within the
// service request table. Coordinates are nullable: an address may carry a
// postal code only.
type AddressDTO struct {
	AddressLine string `gorm:"not null"`
	City        string
	State       string
	Pincode     string
	Latitude    *float64
	Longitude   *float64
}

// fromDomain converts a service request aggregate to its database
// representation.
func fromDomain(aggregate *request.ServiceRequest) RequestDTO {
	var providerID *uuid.UUID
	var providerName, providerPhone *string
	if id := aggregate.Provider(); id != nil {
		raw := id.Bytes()
		providerID = &raw
		name := aggregate.ProviderName()
		phone := aggregate.ProviderPhone()
		providerName = &name
		providerPhone = &phone
	}

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

	return RequestDTO{
		ID:            aggregate.ID().Bytes(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		CustomerName:  aggregate.CustomerName(),
		CustomerPhone: aggregate.CustomerPhone(),
		Address:       addressDTO,
		ServiceType:   aggregate.ServiceType(),
		Problem:       aggregate.Problem(),
		Urgency:       aggregate.Urgency().String(),
		ScheduledTime: aggregate.ScheduledTime(),
		Status:        aggregate.Status().String(),
		ProviderID:    providerID,
		ProviderName:  providerName,
		ProviderPhone: providerPhone,
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a service request aggregate using
// RestoreServiceRequest, so corrupted rows fail the status/provider
// consistency check instead of loading.
func toDomain(dto RequestDTO) (*request.ServiceRequest, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var providerID *kernel.UUID
	var providerName, providerPhone string
	if dto.ProviderID != nil {
		pID, providerErr := kernel.UUIDFromBytes((*dto.ProviderID)[:])
		if providerErr != nil {
			return nil, providerErr
		}
		providerID = &pID
		if dto.ProviderName != nil {
			providerName = *dto.ProviderName
		}
		if dto.ProviderPhone != nil {
			providerPhone = *dto.ProviderPhone
		}
	}

	address, err := addressToDomain(dto.Address)
	if err != nil {
		return nil, err
	}

	urgency, err := request.UrgencyFromString(dto.Urgency)
	if err != nil {
		return nil, err
	}

	status, err := request.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return request.RestoreServiceRequest(
		id, customerID,
		dto.CustomerName, dto.CustomerPhone,
		address, dto.ServiceType, dto.Problem,
		urgency, dto.ScheduledTime,
		status, providerID, providerName, providerPhone,
		dto.CreatedAt, dto.UpdatedAt,
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
