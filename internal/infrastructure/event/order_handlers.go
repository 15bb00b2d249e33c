package event

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderMetricsRecorder receives business measurements derived from order events
type OrderMetricsRecorder interface {
	RecordOrderPlaced(ctx context.Context, total decimal.Decimal, itemCount int)
	RecordOrderStatusChanged(ctx context.Context, from, to string, total decimal.Decimal)
}

var orderEventTypes = []string{
	trade.EventTypeOrderPlaced,
	trade.EventTypeOrderStatusChanged,
}

// OrderEventLogger writes an audit line for every order event
type OrderEventLogger struct {
	logger *zap.Logger
}

// NewOrderEventLogger creates an OrderEventLogger
func NewOrderEventLogger(logger *zap.Logger) *OrderEventLogger {
	return &OrderEventLogger{logger: logger}
}

// EventTypes returns the order event types
func (h *OrderEventLogger) EventTypes() []string {
	return orderEventTypes
}

// Handle logs the event. Customer email and shipping data are left out.
func (h *OrderEventLogger) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *trade.OrderPlacedEvent:
		h.logger.Info("order placed",
			zap.String("order_id", e.OrderID.String()),
			zap.Int("item_count", e.ItemCount),
			zap.String("total", e.Total.StringFixed(2)),
		)
	case *trade.OrderStatusChangedEvent:
		h.logger.Info("order status changed",
			zap.String("order_id", e.OrderID.String()),
			zap.String("from", e.FromStatus.String()),
			zap.String("to", e.ToStatus.String()),
		)
	default:
		return fmt.Errorf("unexpected event %s", evt.EventType())
	}
	return nil
}

// OrderMetricsHandler turns order events into business metrics
type OrderMetricsHandler struct {
	recorder OrderMetricsRecorder
}

// NewOrderMetricsHandler creates an OrderMetricsHandler
func NewOrderMetricsHandler(recorder OrderMetricsRecorder) *OrderMetricsHandler {
	return &OrderMetricsHandler{recorder: recorder}
}

// EventTypes returns the order event types
func (h *OrderMetricsHandler) EventTypes() []string {
	return orderEventTypes
}

// Handle records the measurement for the event
func (h *OrderMetricsHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *trade.OrderPlacedEvent:
		h.recorder.RecordOrderPlaced(ctx, e.Total, e.ItemCount)
	case *trade.OrderStatusChangedEvent:
		h.recorder.RecordOrderStatusChanged(ctx, e.FromStatus.String(), e.ToStatus.String(), e.Total)
	default:
		return fmt.Errorf("unexpected event %s", evt.EventType())
	}
	return nil
}

// RegisterOrderHandlers subscribes the order audit logger and, when a recorder is
// given, the deduplicated metrics handler
func RegisterOrderHandlers(bus shared.EventSubscriber, logger *zap.Logger, recorder OrderMetricsRecorder, store shared.IdempotencyStore) {
	bus.Subscribe(NewOrderEventLogger(logger))
	if recorder == nil {
		return
	}
	bus.Subscribe(NewDedupHandler(NewOrderMetricsHandler(recorder), store, logger))
}
