package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	domainEvents []DomainEvent `gorm:"-"`
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
	}
}

// StoreAggregateRoot extends BaseAggregateRoot with per-store (tenant) scoping.
// Every merchant-owned record carries the store it belongs to.
type StoreAggregateRoot struct {
	BaseAggregateRoot
	StoreID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewStoreAggregateRoot creates a new store-scoped aggregate root
func NewStoreAggregateRoot(storeID uuid.UUID) StoreAggregateRoot {
	return StoreAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		StoreID:           storeID,
	}
}
