package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appstorefront "github.com/storefront/backend/internal/application/storefront"
)

type inMemoryEntry struct {
	configuration string
	expiresAt     time.Time
}

// InMemoryPublishedConfigCache is a process-local published config cache.
// Suitable for single-instance deployments and testing.
// WARNING: state is not shared across process instances, so a publish on
// one instance will not invalidate another instance's copy.
type InMemoryPublishedConfigCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
}

// NewInMemoryPublishedConfigCache creates an in-memory published config cache
func NewInMemoryPublishedConfigCache() *InMemoryPublishedConfigCache {
	return &InMemoryPublishedConfigCache{
		entries: make(map[string]inMemoryEntry),
		ttl:     defaultPublishedConfigTTL,
	}
}

func inMemoryKey(storeID uuid.UUID, pageType string) string {
	return storeID.String() + ":" + pageType
}

// Get returns the cached configuration for the scope, or ErrCacheMiss
func (c *InMemoryPublishedConfigCache) Get(ctx context.Context, storeID uuid.UUID, pageType string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[inMemoryKey(storeID, pageType)]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", appstorefront.ErrCacheMiss
	}
	return entry.configuration, nil
}

// Set stores the configuration for the scope
func (c *InMemoryPublishedConfigCache) Set(ctx context.Context, storeID uuid.UUID, pageType string, configuration string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[inMemoryKey(storeID, pageType)] = inMemoryEntry{
		configuration: configuration,
		expiresAt:     time.Now().Add(c.ttl),
	}
	return nil
}

// Delete removes the cached configuration for the scope
func (c *InMemoryPublishedConfigCache) Delete(ctx context.Context, storeID uuid.UUID, pageType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, inMemoryKey(storeID, pageType))
	return nil
}

// Len reports the number of live entries (for tests/monitoring)
func (c *InMemoryPublishedConfigCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryPublishedConfigCache implements PublishedConfigCache
var _ appstorefront.PublishedConfigCache = (*InMemoryPublishedConfigCache)(nil)
