package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// AttributeService handles product attribute definitions
type AttributeService struct {
	attributes catalog.AttributeRepository
}

// NewAttributeService creates a new AttributeService
func NewAttributeService(attributes catalog.AttributeRepository) *AttributeService {
	return &AttributeService{attributes: attributes}
}

// Create creates a new attribute definition
func (s *AttributeService) Create(ctx context.Context, storeID uuid.UUID, req CreateAttributeRequest) (*AttributeResponse, error) {
	exists, err := s.attributes.ExistsByCode(ctx, storeID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Attribute with this code already exists")
	}

	attribute, err := catalog.NewAttribute(storeID, req.Code, req.Label, catalog.AttributeInputType(req.InputType))
	if err != nil {
		return nil, err
	}

	if len(req.Options) > 0 {
		if err := attribute.SetOptions(req.Options); err != nil {
			return nil, err
		}
	}

	if err := s.attributes.Save(ctx, attribute); err != nil {
		return nil, err
	}

	return ToAttributeResponse(attribute)
}

// Get retrieves an attribute by ID
func (s *AttributeService) Get(ctx context.Context, storeID, id uuid.UUID) (*AttributeResponse, error) {
	attribute, err := s.attributes.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return ToAttributeResponse(attribute)
}

// Update relabels an attribute and replaces its options
func (s *AttributeService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateAttributeRequest) (*AttributeResponse, error) {
	attribute, err := s.attributes.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if err := attribute.Relabel(req.Label); err != nil {
		return nil, err
	}
	if len(req.Options) > 0 {
		if err := attribute.SetOptions(req.Options); err != nil {
			return nil, err
		}
	}
	if req.Filterable != nil {
		attribute.MarkFilterable(*req.Filterable)
	}

	if err := s.attributes.Save(ctx, attribute); err != nil {
		return nil, err
	}

	return ToAttributeResponse(attribute)
}

// GetByCode retrieves an attribute by its store-unique code
func (s *AttributeService) GetByCode(ctx context.Context, storeID uuid.UUID, code string) (*AttributeResponse, error) {
	attribute, err := s.attributes.FindByCode(ctx, storeID, code)
	if err != nil {
		return nil, err
	}
	return ToAttributeResponse(attribute)
}

// List returns attributes defined for the store, optionally only the
// filterable ones the storefront uses to build facet controls
func (s *AttributeService) List(ctx context.Context, storeID uuid.UUID, filterableOnly bool) ([]AttributeResponse, error) {
	var (
		attributes []catalog.Attribute
		err        error
	)
	if filterableOnly {
		attributes, err = s.attributes.FindFilterable(ctx, storeID)
	} else {
		attributes, err = s.attributes.FindAll(ctx, storeID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]AttributeResponse, 0, len(attributes))
	for i := range attributes {
		response, err := ToAttributeResponse(&attributes[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}
	return responses, nil
}

// Delete removes an attribute definition
func (s *AttributeService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return s.attributes.Delete(ctx, storeID, id)
}
