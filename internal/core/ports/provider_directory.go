package ports

import (
	"context"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
)

// ProviderDirectory defines the query contract over registered providers.
type ProviderDirectory interface {
	// Get retrieves a provider profile by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*provider.Provider, error)

	// FindAvailableByCategory retrieves all online, approved providers whose
	// current or legacy category field matches the given category. The union
	// of the two fields is queried so pre-migration registrations keep
	// receiving dispatches.
	FindAvailableByCategory(ctx context.Context, category string) ([]*provider.Provider, error)
}
