package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/require"
)

// RecordingHandler is a shared.EventHandler that keeps every event it is given.
// Err is returned from Handle; a non-nil PanicWith makes Handle panic instead.
type RecordingHandler struct {
	Err       error
	PanicWith any

	eventTypes []string
	mu         sync.Mutex
	handled    []shared.DomainEvent
}

// NewRecordingHandler subscribes to eventTypes, or to everything when none are given
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *RecordingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if h.PanicWith != nil {
		panic(h.PanicWith)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, evt)
	return h.Err
}

// Received returns a copy of the events handled so far
func (h *RecordingHandler) Received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

// WaitFor blocks until n events arrived and returns them
func (h *RecordingHandler) WaitFor(t *testing.T, n int) []shared.DomainEvent {
	t.Helper()
	require.Eventually(t, func() bool { return len(h.Received()) >= n },
		2*time.Second, 5*time.Millisecond, "expected %d events", n)
	return h.Received()
}

// NewEvent returns a bare domain event of eventType on a fresh aggregate
func NewEvent(eventType string) shared.DomainEvent {
	evt := shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New())
	return &evt
}
