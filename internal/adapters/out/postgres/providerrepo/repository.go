package providerrepo

import (
	"context"
	"errors"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormProviderDirectory implements ProviderDirectory using GORM.
type GormProviderDirectory struct {
	db *gorm.DB
}

// NewGormProviderDirectory creates a new GORM provider directory.
func NewGormProviderDirectory(db *gorm.DB) *GormProviderDirectory {
	return &GormProviderDirectory{db: db}
}

// Add saves a new provider profile to the database.
func (d *GormProviderDirectory) Add(ctx context.Context, entity *provider.Provider) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entity)
	return d.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing provider profile to the database.
func (d *GormProviderDirectory) Update(ctx context.Context, entity *provider.Provider) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entity)
	result := d.db.WithContext(ctx).Model(&ProviderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves a provider profile by ID.
func (d *GormProviderDirectory) Get(ctx context.Context, id kernel.UUID) (*provider.Provider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProviderDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("provider", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindAvailableByCategory retrieves all online, approved providers serving
// the given category under either their current or legacy category field.
func (d *GormProviderDirectory) FindAvailableByCategory(
	ctx context.Context, category string,
) ([]*provider.Provider, error) {
	if category == "" {
		return nil, errs.NewValueIsRequiredError("category")
	}

	var dtos []ProviderDTO
	err := d.db.WithContext(ctx).
		Where("online AND approved AND (LOWER(category) = LOWER(?) OR LOWER(legacy_category) = LOWER(?))",
			category, category).
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*provider.Provider, 0, len(dtos))
	for _, dto := range dtos {
		entity, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}
