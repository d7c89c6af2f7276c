package experiment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeExperiment = "Experiment"

// ExperimentStatus represents the lifecycle state of an A/B experiment
type ExperimentStatus string

const (
	ExperimentStatusDraft     ExperimentStatus = "draft"
	ExperimentStatusRunning   ExperimentStatus = "running"
	ExperimentStatusPaused    ExperimentStatus = "paused"
	ExperimentStatusCompleted ExperimentStatus = "completed"
)

// fullTrafficWeight is the required sum of variant weights, in percent
var fullTrafficWeight = decimal.NewFromInt(100)

// Variant maps a share of storefront traffic to a page version
type Variant struct {
	shared.BaseEntity
	ExperimentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:varchar(50);not null"`
	PageVersionID uuid.UUID       `gorm:"type:uuid;not null"`
	Weight        decimal.Decimal `gorm:"type:numeric(5,2);not null"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "experiment_variants"
}

// Experiment is an A/B test routing storefront visitors between page
// versions of one page type. Variant weights are percentages and must sum
// to exactly 100 before the experiment can start.
type Experiment struct {
	shared.StoreAggregateRoot
	Key         string           `gorm:"type:varchar(80);not null;uniqueIndex:idx_experiments_store_key,priority:2"`
	Name        string           `gorm:"type:varchar(120);not null"`
	PageType    string           `gorm:"type:varchar(50);not null;index"`
	Status      ExperimentStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Variants    []Variant        `gorm:"foreignKey:ExperimentID"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (Experiment) TableName() string {
	return "experiments"
}

// NewExperiment creates a new draft experiment
func NewExperiment(storeID uuid.UUID, key, name, pageType string) (*Experiment, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Experiment name cannot be empty")
	}
	if pageType == "" {
		return nil, shared.NewDomainError("INVALID_PAGE_TYPE", "Page type cannot be empty")
	}

	experiment := &Experiment{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Key:                strings.ToLower(key),
		Name:               name,
		PageType:           pageType,
		Status:             ExperimentStatusDraft,
		Variants:           make([]Variant, 0),
	}

	experiment.AddDomainEvent(NewExperimentCreatedEvent(experiment))

	return experiment, nil
}

// AddVariant adds a traffic variant. Only draft experiments can change shape.
func (e *Experiment) AddVariant(name string, pageVersionID uuid.UUID, weight decimal.Decimal) error {
	if e.Status != ExperimentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Variants can only be added to draft experiments")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_VARIANT", "Variant name cannot be empty")
	}
	if pageVersionID == uuid.Nil {
		return shared.NewDomainError("INVALID_VARIANT", "Variant needs a page version")
	}
	if weight.LessThanOrEqual(decimal.Zero) || weight.GreaterThan(fullTrafficWeight) {
		return shared.NewDomainError("INVALID_WEIGHT", "Variant weight must be between 0 and 100 percent")
	}
	for _, variant := range e.Variants {
		if variant.Name == name {
			return shared.NewDomainError("DUPLICATE_VARIANT", "Variant name already used: "+name)
		}
	}

	e.Variants = append(e.Variants, Variant{
		BaseEntity:    shared.NewBaseEntity(),
		ExperimentID:  e.ID,
		Name:          name,
		PageVersionID: pageVersionID,
		Weight:        weight,
	})
	e.UpdatedAt = time.Now()

	return nil
}

// RemoveVariant removes a variant by name from a draft experiment
func (e *Experiment) RemoveVariant(name string) error {
	if e.Status != ExperimentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Variants can only be removed from draft experiments")
	}

	for i, variant := range e.Variants {
		if variant.Name == name {
			e.Variants = append(e.Variants[:i], e.Variants[i+1:]...)
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("VARIANT_NOT_FOUND", "No variant named "+name)
}

// TotalWeight sums the variant weights
func (e *Experiment) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, variant := range e.Variants {
		total = total.Add(variant.Weight)
	}
	return total
}

// Start moves a draft experiment to running. The traffic split must be
// complete: at least two variants with weights summing to exactly 100.
func (e *Experiment) Start() error {
	if e.Status != ExperimentStatusDraft && e.Status != ExperimentStatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Only draft or paused experiments can start")
	}
	if e.Status == ExperimentStatusDraft {
		if len(e.Variants) < 2 {
			return shared.NewDomainError("INVALID_VARIANTS", "Experiment needs at least two variants")
		}
		if !e.TotalWeight().Equal(fullTrafficWeight) {
			return shared.NewDomainError("INVALID_WEIGHT", "Variant weights must sum to 100 percent")
		}
		now := time.Now()
		e.StartedAt = &now
	}

	e.Status = ExperimentStatusRunning
	e.UpdatedAt = time.Now()

	e.AddDomainEvent(NewExperimentStartedEvent(e))

	return nil
}

// Pause suspends a running experiment
func (e *Experiment) Pause() error {
	if e.Status != ExperimentStatusRunning {
		return shared.NewDomainError("INVALID_STATE", "Only running experiments can pause")
	}

	e.Status = ExperimentStatusPaused
	e.UpdatedAt = time.Now()

	return nil
}

// Complete ends the experiment. Completed is terminal.
func (e *Experiment) Complete() error {
	if e.Status != ExperimentStatusRunning && e.Status != ExperimentStatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Only running or paused experiments can complete")
	}

	now := time.Now()
	e.Status = ExperimentStatusCompleted
	e.CompletedAt = &now
	e.UpdatedAt = now

	e.AddDomainEvent(NewExperimentCompletedEvent(e))

	return nil
}

// IsRunning returns true if the experiment currently routes traffic
func (e *Experiment) IsRunning() bool {
	return e.Status == ExperimentStatusRunning
}

// VariantForVisitor deterministically assigns a visitor to a variant.
// The same (experiment key, visitor) pair always lands on the same
// variant, so visitors do not flip between page versions across requests.
func (e *Experiment) VariantForVisitor(visitorID string) (*Variant, error) {
	if !e.IsRunning() {
		return nil, shared.NewDomainError("INVALID_STATE", "Experiment is not running")
	}
	if visitorID == "" {
		return nil, shared.NewDomainError("INVALID_VISITOR", "Visitor ID cannot be empty")
	}

	position := decimal.NewFromInt(int64(bucketVisitor(e.Key, visitorID)))
	scale := fullTrafficWeight.Div(decimal.NewFromInt(bucketCount))

	cumulative := decimal.Zero
	for i := range e.Variants {
		cumulative = cumulative.Add(e.Variants[i].Weight)
		if position.Mul(scale).LessThan(cumulative) {
			return &e.Variants[i], nil
		}
	}

	// Weights sum to 100, so the loop always returns; guard anyway.
	return &e.Variants[len(e.Variants)-1], nil
}

func validateKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_KEY", "Experiment key cannot be empty")
	}
	if len(key) > 80 {
		return shared.NewDomainError("INVALID_KEY", "Experiment key cannot exceed 80 characters")
	}
	for _, r := range key {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return shared.NewDomainError("INVALID_KEY", "Experiment key can only contain letters, numbers, underscores, hyphens, and dots")
		}
	}
	return nil
}
