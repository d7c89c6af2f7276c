package experiment

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeExperimentCreated   = "ExperimentCreated"
	EventTypeExperimentStarted   = "ExperimentStarted"
	EventTypeExperimentCompleted = "ExperimentCompleted"
)

// ExperimentCreatedEvent is published when a new experiment is created
type ExperimentCreatedEvent struct {
	shared.BaseDomainEvent
	ExperimentID uuid.UUID `json:"experiment_id"`
	Key          string    `json:"key"`
	PageType     string    `json:"page_type"`
}

// NewExperimentCreatedEvent creates a new ExperimentCreatedEvent
func NewExperimentCreatedEvent(experiment *Experiment) *ExperimentCreatedEvent {
	return &ExperimentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExperimentCreated, AggregateTypeExperiment, experiment.ID, experiment.StoreID),
		ExperimentID:    experiment.ID,
		Key:             experiment.Key,
		PageType:        experiment.PageType,
	}
}

// ExperimentStartedEvent is published when an experiment begins routing traffic
type ExperimentStartedEvent struct {
	shared.BaseDomainEvent
	ExperimentID uuid.UUID  `json:"experiment_id"`
	Key          string     `json:"key"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	VariantCount int        `json:"variant_count"`
}

// NewExperimentStartedEvent creates a new ExperimentStartedEvent
func NewExperimentStartedEvent(experiment *Experiment) *ExperimentStartedEvent {
	return &ExperimentStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExperimentStarted, AggregateTypeExperiment, experiment.ID, experiment.StoreID),
		ExperimentID:    experiment.ID,
		Key:             experiment.Key,
		StartedAt:       experiment.StartedAt,
		VariantCount:    len(experiment.Variants),
	}
}

// ExperimentCompletedEvent is published when an experiment ends
type ExperimentCompletedEvent struct {
	shared.BaseDomainEvent
	ExperimentID uuid.UUID  `json:"experiment_id"`
	Key          string     `json:"key"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// NewExperimentCompletedEvent creates a new ExperimentCompletedEvent
func NewExperimentCompletedEvent(experiment *Experiment) *ExperimentCompletedEvent {
	return &ExperimentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExperimentCompleted, AggregateTypeExperiment, experiment.ID, experiment.StoreID),
		ExperimentID:    experiment.ID,
		Key:             experiment.Key,
		CompletedAt:     experiment.CompletedAt,
	}
}
