package experiment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/experiment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// ExperimentService manages A/B experiments over page versions
type ExperimentService struct {
	experiments    experiment.ExperimentRepository
	versions       storefront.PageVersionRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewExperimentService creates a new ExperimentService
func NewExperimentService(experiments experiment.ExperimentRepository, versions storefront.PageVersionRepository, logger *zap.Logger) *ExperimentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExperimentService{
		experiments: experiments,
		versions:    versions,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ExperimentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all domain events raised by the experiment
func (s *ExperimentService) publishDomainEvents(ctx context.Context, exp *experiment.Experiment) {
	if s.eventPublisher == nil {
		return
	}
	events := exp.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	exp.ClearDomainEvents()
}

// Create creates a new draft experiment
func (s *ExperimentService) Create(ctx context.Context, storeID uuid.UUID, req CreateExperimentRequest) (*ExperimentResponse, error) {
	exists, err := s.experiments.ExistsByKey(ctx, storeID, req.Key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Experiment with this key already exists")
	}

	exp, err := experiment.NewExperiment(storeID, req.Key, req.Name, req.PageType)
	if err != nil {
		return nil, err
	}

	if err := s.experiments.Save(ctx, exp); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, exp)

	return ToExperimentResponse(exp), nil
}

// AddVariant attaches a page version as a traffic variant. The referenced
// version must exist in the store and be live or promotable.
func (s *ExperimentService) AddVariant(ctx context.Context, storeID, experimentID uuid.UUID, req AddVariantRequest) (*ExperimentResponse, error) {
	exp, err := s.experiments.FindByID(ctx, storeID, experimentID)
	if err != nil {
		return nil, err
	}

	version, err := s.versions.FindByIDForStore(ctx, storeID, req.PageVersionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_VARIANT", "Referenced page version not found")
		}
		return nil, err
	}
	if version.PageType != exp.PageType {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Page version belongs to a different page type")
	}
	if version.Status == storefront.VersionStatusReverted {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Reverted page versions cannot receive traffic")
	}

	if err := exp.AddVariant(req.Name, req.PageVersionID, req.Weight); err != nil {
		return nil, err
	}

	if err := s.experiments.Save(ctx, exp); err != nil {
		return nil, err
	}

	return ToExperimentResponse(exp), nil
}

// RemoveVariant detaches a variant from a draft experiment
func (s *ExperimentService) RemoveVariant(ctx context.Context, storeID, experimentID uuid.UUID, name string) (*ExperimentResponse, error) {
	exp, err := s.experiments.FindByID(ctx, storeID, experimentID)
	if err != nil {
		return nil, err
	}

	if err := exp.RemoveVariant(name); err != nil {
		return nil, err
	}

	if err := s.experiments.Save(ctx, exp); err != nil {
		return nil, err
	}

	return ToExperimentResponse(exp), nil
}

// Start begins routing traffic. Only one experiment may run per page type.
func (s *ExperimentService) Start(ctx context.Context, storeID, experimentID uuid.UUID) (*ExperimentResponse, error) {
	exp, err := s.experiments.FindByID(ctx, storeID, experimentID)
	if err != nil {
		return nil, err
	}

	running, err := s.experiments.FindRunningByPageType(ctx, storeID, exp.PageType)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if running != nil && running.ID != exp.ID {
		return nil, shared.NewDomainError("EXPERIMENT_CONFLICT", "Another experiment is already running for this page type")
	}

	if err := exp.Start(); err != nil {
		return nil, err
	}

	if err := s.experiments.Save(ctx, exp); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, exp)

	s.logger.Info("experiment started",
		zap.String("store_id", storeID.String()),
		zap.String("key", exp.Key),
		zap.Int("variants", len(exp.Variants)),
	)

	return ToExperimentResponse(exp), nil
}

// Pause suspends a running experiment
func (s *ExperimentService) Pause(ctx context.Context, storeID, experimentID uuid.UUID) (*ExperimentResponse, error) {
	return s.transition(ctx, storeID, experimentID, (*experiment.Experiment).Pause)
}

// Complete ends an experiment permanently
func (s *ExperimentService) Complete(ctx context.Context, storeID, experimentID uuid.UUID) (*ExperimentResponse, error) {
	return s.transition(ctx, storeID, experimentID, (*experiment.Experiment).Complete)
}

func (s *ExperimentService) transition(ctx context.Context, storeID, experimentID uuid.UUID, apply func(*experiment.Experiment) error) (*ExperimentResponse, error) {
	exp, err := s.experiments.FindByID(ctx, storeID, experimentID)
	if err != nil {
		return nil, err
	}

	if err := apply(exp); err != nil {
		return nil, err
	}

	if err := s.experiments.Save(ctx, exp); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, exp)

	return ToExperimentResponse(exp), nil
}

// Get retrieves an experiment with its variants
func (s *ExperimentService) Get(ctx context.Context, storeID, experimentID uuid.UUID) (*ExperimentResponse, error) {
	exp, err := s.experiments.FindByID(ctx, storeID, experimentID)
	if err != nil {
		return nil, err
	}
	return ToExperimentResponse(exp), nil
}

// GetByKey retrieves an experiment by its store-unique key
func (s *ExperimentService) GetByKey(ctx context.Context, storeID uuid.UUID, key string) (*ExperimentResponse, error) {
	exp, err := s.experiments.FindByKey(ctx, storeID, key)
	if err != nil {
		return nil, err
	}
	return ToExperimentResponse(exp), nil
}

// Delete removes an experiment that never ran. Started experiments are
// kept for their assignment record and can only be completed.
func (s *ExperimentService) Delete(ctx context.Context, storeID, experimentID uuid.UUID) error {
	exp, err := s.experiments.FindByID(ctx, storeID, experimentID)
	if err != nil {
		return err
	}
	if exp.Status != experiment.ExperimentStatusDraft {
		return shared.NewInvalidStateError("delete", string(experiment.ExperimentStatusDraft), string(exp.Status))
	}
	return s.experiments.Delete(ctx, storeID, experimentID)
}

// List returns all experiments for a store
func (s *ExperimentService) List(ctx context.Context, storeID uuid.UUID) ([]ExperimentResponse, error) {
	experiments, err := s.experiments.FindAll(ctx, storeID)
	if err != nil {
		return nil, err
	}

	responses := make([]ExperimentResponse, 0, len(experiments))
	for i := range experiments {
		responses = append(responses, *ToExperimentResponse(&experiments[i]))
	}
	return responses, nil
}

// Assign buckets a visitor into the running experiment for a page type.
// Returns ErrNotFound when no experiment is running for the scope.
func (s *ExperimentService) Assign(ctx context.Context, storeID uuid.UUID, pageType, visitorID string) (*AssignmentResponse, error) {
	exp, err := s.experiments.FindRunningByPageType(ctx, storeID, pageType)
	if err != nil {
		return nil, err
	}

	variant, err := exp.VariantForVisitor(visitorID)
	if err != nil {
		return nil, err
	}

	return &AssignmentResponse{
		ExperimentKey: exp.Key,
		VariantName:   variant.Name,
		PageVersionID: variant.PageVersionID,
	}, nil
}
