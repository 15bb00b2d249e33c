package telemetry_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newRecordedMetrics(t *testing.T) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  provider.Meter("test"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return bm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func intSum(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func floatSum(t *testing.T, data metricdata.Aggregation) float64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[float64])
	require.True(t, ok, "expected float64 sum, got %T", data)
	var total float64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{})
	assert.Nil(t, bm)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestNewBusinessMetrics_NoopMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: noop.NewMeterProvider().Meter("test"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOrderPlaced(ctx, decimal.NewFromInt(1250), 2)
	bm.RecordOrderStatusChanged(ctx, "pending", "delivered", decimal.NewFromInt(1250))
	bm.RecordCheckoutRejected(ctx, "INVALID_TOTALS")
	bm.Stop()
}

func TestBusinessMetrics_RecordOrderPlaced(t *testing.T) {
	bm, reader := newRecordedMetrics(t)
	ctx := context.Background()

	bm.RecordOrderPlaced(ctx, decimal.NewFromInt(2250), 2)
	bm.RecordOrderPlaced(ctx, decimal.RequireFromString("1250.50"), 1)

	data := collect(t, reader)
	assert.Equal(t, int64(2), intSum(t, data["storefront_orders_placed_total"]))
	assert.InDelta(t, 3500.50, floatSum(t, data["storefront_order_value_placed_total"]), 0.001)
}

func TestBusinessMetrics_RecordOrderStatusChanged(t *testing.T) {
	bm, reader := newRecordedMetrics(t)
	ctx := context.Background()
	total := decimal.NewFromInt(1000)

	bm.RecordOrderStatusChanged(ctx, "pending", "dispatch", total)
	bm.RecordOrderStatusChanged(ctx, "dispatch", "delivered", total)
	// overwriting delivered with delivered must not book revenue twice
	bm.RecordOrderStatusChanged(ctx, "delivered", "delivered", total)

	data := collect(t, reader)
	assert.Equal(t, int64(3), intSum(t, data["storefront_order_status_changes_total"]))
	assert.InDelta(t, 1000.0, floatSum(t, data["storefront_order_value_delivered_total"]), 0.001)
}

func TestBusinessMetrics_RecordCheckoutRejected(t *testing.T) {
	bm, reader := newRecordedMetrics(t)

	bm.RecordCheckoutRejected(context.Background(), "DUPLICATE_REQUEST")

	data := collect(t, reader)
	assert.Equal(t, int64(1), intSum(t, data["storefront_checkout_rejections_total"]))
}

type stubStatusCounter struct {
	calls  atomic.Int32
	counts map[trade.OrderStatus]int64
	err    error
}

func (s *stubStatusCounter) CountByStatus(context.Context) (map[trade.OrderStatus]int64, error) {
	s.calls.Add(1)
	return s.counts, s.err
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	bm, reader := newRecordedMetrics(t)
	counter := &stubStatusCounter{counts: map[trade.OrderStatus]int64{
		trade.OrderStatusPending:   4,
		trade.OrderStatusDelivered: 1,
	}}

	bm.StartPeriodicCollection(context.Background(), counter, time.Hour)
	require.Eventually(t, func() bool { return counter.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	bm.Stop()

	gauge, ok := collect(t, reader)["storefront_orders_by_status"].(metricdata.Gauge[int64])
	require.True(t, ok)

	byStatus := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		v, _ := dp.Attributes.Value(telemetry.AttrOrderStatus)
		byStatus[v.AsString()] = dp.Value
	}
	assert.Equal(t, int64(4), byStatus["pending"])
	assert.Equal(t, int64(0), byStatus["dispatch"])
	assert.Equal(t, int64(1), byStatus["delivered"])
}

func TestBusinessMetrics_PeriodicCollectionError(t *testing.T) {
	bm, _ := newRecordedMetrics(t)
	counter := &stubStatusCounter{err: errors.New("db down")}

	bm.StartPeriodicCollection(context.Background(), counter, time.Hour)
	require.Eventually(t, func() bool { return counter.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	bm.Stop()
}

func TestBusinessMetrics_StopWithoutCollection(t *testing.T) {
	bm, _ := newRecordedMetrics(t)

	done := make(chan struct{})
	go func() {
		bm.Stop()
		bm.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a running collector")
	}
}
