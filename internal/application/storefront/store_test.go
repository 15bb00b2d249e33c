package storefront

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func tee(id, size string, qty int) cart.Item {
	return cart.Item{ID: id, Name: "Tee " + id, Price: decimal.NewFromInt(1200), Size: size, Color: "Black", Quantity: qty}
}

func seedSnapshot(t *testing.T, s *recordingStorage, snapshot cart.Snapshot) string {
	t.Helper()
	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.NoError(t, s.MemoryStore.SetItem(context.Background(), StateKey, string(raw)))
	return string(raw)
}

func TestStore_HydrateRestoresSnapshotWithoutWriting(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	raw := seedSnapshot(t, storage, cart.Snapshot{Items: []cart.Item{tee("A", "M", 2)}, Wishlist: []cart.WishlistItem{}})

	store := NewStore(storage, zap.NewNop())
	assert.Equal(t, PhaseUninitialized, store.Phase())

	store.Hydrate(ctx)

	assert.Equal(t, PhaseReady, store.Phase())
	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.False(t, state.IsCartOpen)

	assert.Zero(t, storage.writesTo(StateKey))
	persisted, _, _ := storage.MemoryStore.GetItem(ctx, StateKey)
	assert.Equal(t, raw, persisted)
}

func TestStore_NoWritesBeforeReady(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	seedSnapshot(t, storage, cart.Snapshot{Items: []cart.Item{tee("A", "M", 1)}})

	store := NewStore(storage, zap.NewNop())
	store.Dispatch(ctx, cart.ToggleCart{})
	store.Dispatch(ctx, cart.ClearCart{})
	assert.Zero(t, storage.writesTo(StateKey))

	store.Hydrate(ctx)
	require.Len(t, store.State().Items, 1, "hydrated snapshot must survive pre-hydration actions")

	store.Dispatch(ctx, cart.AddToCart{Item: tee("B", "L", 1)})
	assert.Equal(t, 1, storage.writesTo(StateKey))

	var persisted cart.Snapshot
	raw, _, _ := storage.MemoryStore.GetItem(ctx, StateKey)
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Len(t, persisted.Items, 2)
}

func TestStore_HydrateRunsOnce(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	seedSnapshot(t, storage, cart.Snapshot{Items: []cart.Item{tee("A", "M", 1)}})

	store := NewStore(storage, zap.NewNop())
	store.Hydrate(ctx)
	store.Dispatch(ctx, cart.ClearCart{})
	store.Hydrate(ctx)

	assert.True(t, store.State().IsEmpty())
}

func TestStore_CorruptOrUnreadableSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		storage := newRecordingStorage()
		require.NoError(t, storage.MemoryStore.SetItem(ctx, StateKey, "{not json"))

		store := NewStore(storage, zap.New(core))
		store.Hydrate(ctx)

		assert.Equal(t, PhaseReady, store.Phase())
		assert.True(t, store.State().IsEmpty())
		assert.Equal(t, 1, logs.FilterMessage("Discarding corrupt cart state").Len())
	})

	t.Run("read error", func(t *testing.T) {
		storage := newRecordingStorage()
		storage.failRead = true

		store := NewStore(storage, zap.NewNop())
		store.Hydrate(ctx)

		assert.Equal(t, PhaseReady, store.Phase())
		assert.True(t, store.State().IsEmpty())
	})

	t.Run("missing", func(t *testing.T) {
		store := NewStore(newRecordingStorage(), nil)
		store.Hydrate(ctx)
		assert.Equal(t, PhaseReady, store.Phase())
		assert.NotNil(t, store.State().Items)
	})
}

func TestStore_WriteFailureIsLoggedAndIgnored(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	storage := newRecordingStorage()
	storage.failWrite = true

	store := NewStore(storage, zap.New(core))
	store.Hydrate(ctx)
	state := store.Dispatch(ctx, cart.AddToCart{Item: tee("A", "M", 1)})

	assert.Len(t, state.Items, 1)
	assert.Equal(t, 1, logs.FilterMessage("Failed to write cart state").Len())
}

func TestStore_MergeInvariant(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newRecordingStorage(), zap.NewNop())
	store.Hydrate(ctx)

	for _, qty := range []int{1, 2, 3, 4} {
		store.Dispatch(ctx, cart.AddToCart{Item: tee("A", "M", qty)})
	}
	store.Dispatch(ctx, cart.AddToCart{Item: tee("A", "L", 1)})

	state := store.State()
	require.Len(t, state.Items, 2)
	assert.Equal(t, 10, state.Items[0].Quantity)
	assert.Equal(t, 11, state.ItemCount())
}

func TestStore_WishlistKeepsFirstAddition(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newRecordingStorage(), zap.NewNop())
	store.Hydrate(ctx)

	for i, name := range []string{"first", "second", "third"} {
		store.Dispatch(ctx, cart.AddToWishlist{Item: cart.WishlistItem{ID: "p1", Name: name, Price: decimal.NewFromInt(int64(i))}})
	}

	wishlist := store.State().Wishlist
	require.Len(t, wishlist, 1)
	assert.Equal(t, "first", wishlist[0].Name)
}

func TestStore_CheckoutFormAndDrawerAreNotPersisted(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	store := NewStore(storage, zap.NewNop())
	store.Hydrate(ctx)

	name := "Asha"
	store.Dispatch(ctx, cart.UpdateCheckoutForm{Patch: cart.FormPatch{Name: &name}})
	store.Dispatch(ctx, cart.SetCartOpen{Open: true})

	raw, _, _ := storage.MemoryStore.GetItem(ctx, StateKey)
	assert.NotContains(t, raw, "Asha")
	assert.NotContains(t, raw, "IsCartOpen")

	reopened := NewStore(storage, zap.NewNop())
	reopened.Hydrate(ctx)
	assert.False(t, reopened.State().IsCartOpen)
	assert.Empty(t, reopened.State().CheckoutForm.Name)
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newRecordingStorage(), zap.NewNop())

	var seen []int
	store.Subscribe(func(s cart.State) { seen = append(seen, len(s.Items)) })

	store.Hydrate(ctx)
	store.Dispatch(ctx, cart.AddToCart{Item: tee("A", "M", 1)})
	store.Dispatch(ctx, cart.AddToCart{Item: tee("B", "M", 1)})

	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "uninitialized", PhaseUninitialized.String())
	assert.Equal(t, "hydrating", PhaseHydrating.String())
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "unknown", Phase(9).String())
}
