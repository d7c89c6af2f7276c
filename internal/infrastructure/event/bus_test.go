package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string, storeID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "PageVersion", uuid.New(), storeID),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panics {
		panic("handler exploded")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("PageVersionPublished")
	bus.Subscribe(handler, "PageVersionPublished")

	event := newTestEvent("PageVersionPublished", uuid.New())
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("PageDraftCreated")
	bus.Subscribe(handler, "PageDraftCreated")

	event1 := newTestEvent("PageDraftCreated", uuid.New())
	event2 := newTestEvent("PageDraftCreated", uuid.New())
	err := bus.Publish(context.Background(), event1, event2)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_MultipleHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newTestHandler("PageVersionReverted")
	handler2 := newTestHandler("PageVersionReverted")
	bus.Subscribe(handler1, "PageVersionReverted")
	bus.Subscribe(handler2, "PageVersionReverted")

	event := newTestEvent("PageVersionReverted", uuid.New())
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 1)
	assert.Len(t, handler2.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	wildcardHandler := newTestHandler() // No event types = wildcard
	bus.Subscribe(wildcardHandler)

	event := newTestEvent("ExperimentStarted", uuid.New())
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, wildcardHandler.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_HandlerError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newTestHandler("PageVersionPublished")
	handler1.setError(errors.New("handler error"))
	handler2 := newTestHandler("PageVersionPublished")
	bus.Subscribe(handler1, "PageVersionPublished")
	bus.Subscribe(handler2, "PageVersionPublished")

	event := newTestEvent("PageVersionPublished", uuid.New())
	err := bus.Publish(context.Background(), event)

	// A failing handler never blocks the others
	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 1)
	assert.Len(t, handler2.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_HandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	panicking := newTestHandler("CategoryCreated")
	panicking.panics = true
	sane := newTestHandler("CategoryCreated")
	bus.Subscribe(panicking, "CategoryCreated")
	bus.Subscribe(sane, "CategoryCreated")

	event := newTestEvent("CategoryCreated", uuid.New())
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, sane.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_NoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("CategoryUpdated")
	bus.Subscribe(handler, "CategoryUpdated")

	event := newTestEvent("PageVersionPublished", uuid.New())
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 0)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("PageDraftCreated")
	bus.Subscribe(handler, "PageDraftCreated")

	event1 := newTestEvent("PageDraftCreated", uuid.New())
	_ = bus.Publish(context.Background(), event1)
	assert.Len(t, handler.getHandled(), 1)

	bus.Unsubscribe(handler)

	event2 := newTestEvent("PageDraftCreated", uuid.New())
	_ = bus.Publish(context.Background(), event2)
	assert.Len(t, handler.getHandled(), 1) // Still 1, not 2
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	ctx := context.Background()
	err := bus.Start(ctx)
	require.NoError(t, err)

	handler := newTestHandler("PageVersionPublished")
	bus.Subscribe(handler, "PageVersionPublished")
	event := newTestEvent("PageVersionPublished", uuid.New())
	err = bus.Publish(ctx, event)
	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err = bus.Stop(ctx)
	require.NoError(t, err)
}

func TestAuditLogHandler(t *testing.T) {
	handler := NewAuditLogHandler(zap.NewNop())

	assert.Empty(t, handler.EventTypes())

	event := newTestEvent("PageVersionPublished", uuid.New())
	err := handler.Handle(context.Background(), event)
	require.NoError(t, err)
}
