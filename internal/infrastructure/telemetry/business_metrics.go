package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when BusinessMetrics is built without a meter
var ErrMeterNil = errors.New("business metrics: meter cannot be nil")

// OrderStatusCounter reports how many orders sit in each status.
// trade.OrderRepository satisfies it.
type OrderStatusCounter interface {
	CountByStatus(ctx context.Context) (map[trade.OrderStatus]int64, error)
}

// BusinessMetricsConfig configures BusinessMetrics
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// BusinessMetrics records storefront sales activity
type BusinessMetrics struct {
	logger *zap.Logger

	ordersPlaced     *Counter
	revenuePlaced    *FloatCounter
	statusChanges    *Counter
	revenueDelivered *FloatCounter
	checkoutRejects  *Counter
	ordersByStatus   *Gauge

	stopCh      chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	collecting  bool
	done        chan struct{}
}

// NewBusinessMetrics registers the storefront instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger: logger,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	var err error
	if bm.ordersPlaced, err = NewCounter(cfg.Meter,
		"storefront_orders_placed_total", "Orders accepted at checkout", "{orders}"); err != nil {
		return nil, err
	}
	if bm.revenuePlaced, err = NewFloatCounter(cfg.Meter,
		"storefront_order_value_placed_total", "Sum of totals of accepted orders", "{currency}"); err != nil {
		return nil, err
	}
	if bm.statusChanges, err = NewCounter(cfg.Meter,
		"storefront_order_status_changes_total", "Order status transitions set by admins", "{changes}"); err != nil {
		return nil, err
	}
	if bm.revenueDelivered, err = NewFloatCounter(cfg.Meter,
		"storefront_order_value_delivered_total", "Sum of totals of orders marked delivered", "{currency}"); err != nil {
		return nil, err
	}
	if bm.checkoutRejects, err = NewCounter(cfg.Meter,
		"storefront_checkout_rejections_total", "Order submissions rejected as duplicates or with bad totals", "{requests}"); err != nil {
		return nil, err
	}
	if bm.ordersByStatus, err = NewGauge(cfg.Meter,
		"storefront_orders_by_status", "Current number of orders in each status", "{orders}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderPlaced counts an accepted order and its value
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, total decimal.Decimal, itemCount int) {
	attrs := AttrPaymentMethod.String(string(trade.DefaultPaymentMethod))
	bm.ordersPlaced.Inc(ctx, attrs)
	bm.revenuePlaced.Add(ctx, total.InexactFloat64(), attrs)
}

// RecordOrderStatusChanged counts a status overwrite; moving into delivered books the revenue
func (bm *BusinessMetrics) RecordOrderStatusChanged(ctx context.Context, from, to string, total decimal.Decimal) {
	bm.statusChanges.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
	if to == string(trade.OrderStatusDelivered) && from != to {
		bm.revenueDelivered.Add(ctx, total.InexactFloat64())
	}
}

// RecordCheckoutRejected counts a refused order submission by reason code
func (bm *BusinessMetrics) RecordCheckoutRejected(ctx context.Context, reason string) {
	bm.checkoutRejects.Inc(ctx, AttrRejectReason.String(reason))
}

// StartPeriodicCollection samples order counts per status every interval until Stop
// or ctx is cancelled. Only the first call starts a collector.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, counter OrderStatusCounter, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		bm.collecting = true
		go bm.collectLoop(ctx, counter, interval)
	})
}

func (bm *BusinessMetrics) collectLoop(ctx context.Context, counter OrderStatusCounter, interval time.Duration) {
	defer close(bm.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectOrderCounts(ctx, counter)
	for {
		select {
		case <-bm.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collectOrderCounts(ctx, counter)
		}
	}
}

func (bm *BusinessMetrics) collectOrderCounts(ctx context.Context, counter OrderStatusCounter) {
	counts, err := counter.CountByStatus(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect order counts", zap.Error(err))
		return
	}
	for _, status := range trade.AllOrderStatuses {
		bm.ordersByStatus.Record(ctx, counts[status], AttrOrderStatus.String(status.String()))
	}
}

// Stop ends periodic collection and waits for the collector to exit
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopCh)
	})
	// closes the window for a late StartPeriodicCollection
	bm.collectOnce.Do(func() {})
	if bm.collecting {
		<-bm.done
	}
}
