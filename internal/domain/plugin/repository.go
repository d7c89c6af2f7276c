package plugin

import (
	"context"

	"github.com/google/uuid"
)

// InstallationRepository defines the interface for installation persistence
type InstallationRepository interface {
	// FindByID finds an installation by ID within a store
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Installation, error)

	// FindBySlug finds an installation by plugin slug within a store
	FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*Installation, error)

	// FindAll finds every installation for a store
	FindAll(ctx context.Context, storeID uuid.UUID) ([]Installation, error)

	// FindEnabled finds all enabled installations for a store
	FindEnabled(ctx context.Context, storeID uuid.UUID) ([]Installation, error)

	// Save creates or updates an installation
	Save(ctx context.Context, installation *Installation) error

	// ExistsBySlug checks if a plugin is already installed in the store
	ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error)
}
