package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InteractionRepository defines the interface for interaction persistence
type InteractionRepository interface {
	// CreateBatch inserts a batch of captured interactions
	CreateBatch(ctx context.Context, interactions []*Interaction) error

	// FindRecent returns interactions for a page scope captured after the
	// given time, newest first, up to limit rows
	FindRecent(ctx context.Context, storeID uuid.UUID, pageType string, since time.Time, limit int) ([]Interaction, error)

	// CountBySession counts interactions captured in one session
	CountBySession(ctx context.Context, storeID uuid.UUID, sessionID string) (int64, error)

	// DeleteOlderThan removes interactions past the retention window and
	// returns the number of rows removed
	DeleteOlderThan(ctx context.Context, storeID uuid.UUID, cutoff time.Time) (int64, error)

	// DeleteAllOlderThan removes expired interactions across every store.
	// Used by the background retention loop.
	DeleteAllOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
