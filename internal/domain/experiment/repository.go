package experiment

import (
	"context"

	"github.com/google/uuid"
)

// ExperimentRepository defines the interface for experiment persistence
type ExperimentRepository interface {
	// FindByID finds an experiment with its variants by ID within a store
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Experiment, error)

	// FindByKey finds an experiment by its key within a store
	FindByKey(ctx context.Context, storeID uuid.UUID, key string) (*Experiment, error)

	// FindRunningByPageType finds the running experiment for a page type,
	// if one exists
	FindRunningByPageType(ctx context.Context, storeID uuid.UUID, pageType string) (*Experiment, error)

	// FindAll finds all experiments for a store, newest first
	FindAll(ctx context.Context, storeID uuid.UUID) ([]Experiment, error)

	// Save creates or updates an experiment and its variants
	Save(ctx context.Context, experiment *Experiment) error

	// Delete deletes an experiment within a store
	Delete(ctx context.Context, storeID, id uuid.UUID) error

	// ExistsByKey checks if an experiment key is already taken in the store
	ExistsByKey(ctx context.Context, storeID uuid.UUID, key string) (bool, error)
}
