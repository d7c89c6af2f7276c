package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes every domain event to the structured log, giving
// operators a trail of page, catalog, and experiment lifecycle changes.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new audit log handler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

// Handle logs the event
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("store_id", event.StoreID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
