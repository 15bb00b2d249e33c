package event

import (
	"testing"

	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_HandlersFor(t *testing.T) {
	r := NewHandlerRegistry()
	placed := testutil.NewRecordingHandler()
	wildcard := testutil.NewRecordingHandler()

	r.Register(placed, "OrderPlaced")
	r.Register(wildcard)

	got := r.HandlersFor("OrderPlaced")
	assert.Len(t, got, 2)
	assert.Same(t, placed, got[0])
	assert.Same(t, wildcard, got[1])

	other := r.HandlersFor("OrderStatusChanged")
	assert.Len(t, other, 1)
	assert.Same(t, wildcard, other[0])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	multi := testutil.NewRecordingHandler()
	keep := testutil.NewRecordingHandler()

	r.Register(multi, "OrderPlaced", "OrderStatusChanged")
	r.Register(multi)
	r.Register(keep, "OrderPlaced")

	r.Unregister(multi)

	assert.Len(t, r.HandlersFor("OrderPlaced"), 1)
	assert.Empty(t, r.HandlersFor("OrderStatusChanged"))
	assert.Equal(t, 1, r.Count())
}

func TestHandlerRegistry_Count_DeduplicatesHandlers(t *testing.T) {
	r := NewHandlerRegistry()
	h := testutil.NewRecordingHandler()

	r.Register(h, "OrderPlaced", "OrderStatusChanged")
	r.Register(h)

	assert.Equal(t, 1, r.Count())
}
