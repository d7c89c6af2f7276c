package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/analytics"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// maxBatchSize caps one tracking request; larger batches are rejected
// outright rather than partially ingested
const maxBatchSize = 500

// maxSessionEvents caps how many interactions a single session may
// accumulate. A runaway capture script otherwise fills the table with
// one shopper's events.
const maxSessionEvents = 10000

// TrackingService ingests captured storefront interactions
type TrackingService struct {
	interactions analytics.InteractionRepository
	logger       *zap.Logger
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(interactions analytics.InteractionRepository, logger *zap.Logger) *TrackingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingService{interactions: interactions, logger: logger}
}

// TrackBatch validates and stores a batch of interactions. Invalid entries
// are dropped and counted; the valid remainder is inserted in one write.
func (s *TrackingService) TrackBatch(ctx context.Context, storeID uuid.UUID, req TrackBatchRequest) (*TrackBatchResponse, error) {
	if len(req.Interactions) > maxBatchSize {
		return nil, shared.NewDomainError("BATCH_TOO_LARGE", "Tracking batch exceeds the maximum size")
	}

	stored, err := s.interactions.CountBySession(ctx, storeID, req.SessionID)
	if err != nil {
		return nil, err
	}
	if stored+int64(len(req.Interactions)) > maxSessionEvents {
		return nil, shared.NewDomainError("SESSION_LIMIT_EXCEEDED", "Session has reached its interaction limit")
	}

	accepted := make([]*analytics.Interaction, 0, len(req.Interactions))
	rejected := 0
	for _, captured := range req.Interactions {
		interaction, err := analytics.NewInteraction(
			storeID,
			req.PageType,
			req.SessionID,
			analytics.InteractionType(captured.Type),
			captured.X,
			captured.Y,
			captured.ViewportW,
			captured.ViewportH,
			captured.ElementTag,
			captured.OccurredAt,
		)
		if err != nil {
			rejected++
			continue
		}
		accepted = append(accepted, interaction)
	}

	if len(accepted) > 0 {
		if err := s.interactions.CreateBatch(ctx, accepted); err != nil {
			return nil, err
		}
	}

	if rejected > 0 {
		s.logger.Warn("dropped invalid interactions from tracking batch",
			zap.String("store_id", storeID.String()),
			zap.String("page_type", req.PageType),
			zap.Int("rejected", rejected),
		)
	}

	return &TrackBatchResponse{Accepted: len(accepted), Rejected: rejected}, nil
}

// Recent returns interactions captured in the lookback window, newest first
func (s *TrackingService) Recent(ctx context.Context, storeID uuid.UUID, pageType string, lookback time.Duration, limit int) ([]InteractionResponse, error) {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}

	interactions, err := s.interactions.FindRecent(ctx, storeID, pageType, time.Now().Add(-lookback), limit)
	if err != nil {
		return nil, err
	}

	responses := make([]InteractionResponse, 0, len(interactions))
	for i := range interactions {
		responses = append(responses, *ToInteractionResponse(&interactions[i]))
	}
	return responses, nil
}

// PurgeExpired removes interactions past the retention window
func (s *TrackingService) PurgeExpired(ctx context.Context, storeID uuid.UUID, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, shared.NewDomainError("INVALID_RETENTION", "Retention window must be positive")
	}

	removed, err := s.interactions.DeleteOlderThan(ctx, storeID, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Info("purged expired interactions",
			zap.String("store_id", storeID.String()),
			zap.Int64("removed", removed),
		)
	}
	return removed, nil
}

// PurgeAllExpired removes interactions past the retention window across
// every store. Called by the background retention loop.
func (s *TrackingService) PurgeAllExpired(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, shared.NewDomainError("INVALID_RETENTION", "Retention window must be positive")
	}

	removed, err := s.interactions.DeleteAllOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Info("purged expired interactions",
			zap.Int64("removed", removed),
		)
	}
	return removed, nil
}
