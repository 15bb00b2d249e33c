package event

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewRecordingHandler("OrderPlaced")
	bus.Subscribe(handler)

	evt := testutil.NewEvent("OrderPlaced")
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, handler.Received(), 1)
	assert.Same(t, evt, handler.Received()[0])
}

func TestInMemoryEventBus_Publish_FiltersByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	placed := testutil.NewRecordingHandler("OrderPlaced")
	changed := testutil.NewRecordingHandler("OrderStatusChanged")
	all := testutil.NewRecordingHandler()
	bus.Subscribe(placed)
	bus.Subscribe(changed)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		testutil.NewEvent("OrderPlaced"),
		testutil.NewEvent("OrderStatusChanged"),
		testutil.NewEvent("Unrelated"),
	))

	assert.Len(t, placed.Received(), 1)
	assert.Len(t, changed.Received(), 1)
	assert.Len(t, all.Received(), 3)
}

func TestInMemoryEventBus_Publish_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewRecordingHandler("OrderPlaced")
	bus.Subscribe(handler, "OrderStatusChanged")

	require.NoError(t, bus.Publish(context.Background(), testutil.NewEvent("OrderPlaced")))
	assert.Empty(t, handler.Received())

	require.NoError(t, bus.Publish(context.Background(), testutil.NewEvent("OrderStatusChanged")))
	assert.Len(t, handler.Received(), 1)
}

func TestInMemoryEventBus_Publish_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := testutil.NewRecordingHandler("OrderPlaced")
	failing.Err = errors.New("boom")
	healthy := testutil.NewRecordingHandler("OrderPlaced")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), testutil.NewEvent("OrderPlaced"))

	require.NoError(t, err)
	assert.Len(t, healthy.Received(), 1)
	require.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestInMemoryEventBus_Publish_RecoversFromPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	panicking := testutil.NewRecordingHandler("OrderPlaced")
	panicking.PanicWith = "kaboom"
	healthy := testutil.NewRecordingHandler("OrderPlaced")
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), testutil.NewEvent("OrderPlaced"))
	})
	assert.Len(t, healthy.Received(), 1)

	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "kaboom")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewRecordingHandler("OrderPlaced")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), testutil.NewEvent("OrderPlaced")))
	assert.Empty(t, handler.Received())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	assert.False(t, bus.Running())
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}
