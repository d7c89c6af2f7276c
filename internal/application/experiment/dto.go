package experiment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/experiment"
)

// CreateExperimentRequest is the input for creating an experiment
type CreateExperimentRequest struct {
	Key      string `json:"key" binding:"required"`
	Name     string `json:"name" binding:"required"`
	PageType string `json:"page_type" binding:"required"`
}

// AddVariantRequest is the input for adding a traffic variant
type AddVariantRequest struct {
	Name          string          `json:"name" binding:"required"`
	PageVersionID uuid.UUID       `json:"page_version_id" binding:"required"`
	Weight        decimal.Decimal `json:"weight" binding:"required"`
}

// VariantResponse is the API representation of a variant
type VariantResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	PageVersionID uuid.UUID       `json:"page_version_id"`
	Weight        decimal.Decimal `json:"weight"`
}

// ExperimentResponse is the API representation of an experiment
type ExperimentResponse struct {
	ID          uuid.UUID         `json:"id"`
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	PageType    string            `json:"page_type"`
	Status      string            `json:"status"`
	Variants    []VariantResponse `json:"variants"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// AssignmentResponse reports which variant a visitor was bucketed into
type AssignmentResponse struct {
	ExperimentKey string    `json:"experiment_key"`
	VariantName   string    `json:"variant_name"`
	PageVersionID uuid.UUID `json:"page_version_id"`
}

// ToExperimentResponse converts a domain experiment to its API representation
func ToExperimentResponse(e *experiment.Experiment) *ExperimentResponse {
	variants := make([]VariantResponse, 0, len(e.Variants))
	for _, variant := range e.Variants {
		variants = append(variants, VariantResponse{
			ID:            variant.ID,
			Name:          variant.Name,
			PageVersionID: variant.PageVersionID,
			Weight:        variant.Weight,
		})
	}

	return &ExperimentResponse{
		ID:          e.ID,
		Key:         e.Key,
		Name:        e.Name,
		PageType:    e.PageType,
		Status:      string(e.Status),
		Variants:    variants,
		StartedAt:   e.StartedAt,
		CompletedAt: e.CompletedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
