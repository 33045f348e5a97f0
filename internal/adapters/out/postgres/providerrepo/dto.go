package providerrepo

import (
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"

	"github.com/google/uuid"
)

// ProviderDTO is the database representation of a provider profile.
type ProviderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Phone          string    `gorm:"type:varchar(32);not null"`
	PhotoURL       string    `gorm:"type:text"`
	Category       string    `gorm:"type:varchar(100);not null;index"`
	LegacyCategory string    `gorm:"type:varchar(100)"`
	Online         bool      `gorm:"not null"`
	Approved       bool      `gorm:"not null"`
}

// TableName overrides the table name used by GORM.
func (ProviderDTO) TableName() string {
	return "providers"
}

func fromDomain(entity *provider.Provider) ProviderDTO {
	return ProviderDTO{
		ID:             entity.ID().Bytes(),
		Name:           entity.Name(),
		Phone:          entity.Phone(),
		PhotoURL:       entity.PhotoURL(),
		Category:       entity.Category(),
		LegacyCategory: entity.LegacyCategory(),
		Online:         entity.IsOnline(),
		Approved:       entity.IsApproved(),
	}
}

func toDomain(dto ProviderDTO) (*provider.Provider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return provider.RestoreProvider(id, dto.Name, dto.Phone, dto.PhotoURL,
		dto.Category, dto.LegacyCategory, dto.Online, dto.Approved)
}
