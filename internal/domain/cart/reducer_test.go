package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func blackTee(size string, qty int) Item {
	return Item{
		ID:            "p1",
		Name:          "Classic Tee",
		Price:         decimal.NewFromInt(1200),
		DiscountPrice: decimalPtr(950),
		Image:         "/img/p1.png",
		Size:          size,
		Color:         "Black",
		Quantity:      qty,
	}
}

func strPtr(s string) *string { return &s }

// ============================================
// Cart lines
// ============================================

func TestReduce_AddToCartMergesByKey(t *testing.T) {
	state := NewState()
	for i := 0; i < 5; i++ {
		state = Reduce(state, AddToCart{Item: blackTee("M", i+1)})
	}

	require.Len(t, state.Items, 1)
	assert.Equal(t, 1+2+3+4+5, state.Items[0].Quantity)
}

func TestReduce_AddToCartTwiceScenario(t *testing.T) {
	state := NewState()
	state = Reduce(state, AddToCart{Item: blackTee("M", 1)})
	state = Reduce(state, AddToCart{Item: blackTee("M", 1)})

	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
}

func TestReduce_DifferentSizesAreSeparateLines(t *testing.T) {
	state := NewState()
	state = Reduce(state, AddToCart{Item: blackTee("M", 1)})
	state = Reduce(state, AddToCart{Item: blackTee("L", 1)})

	assert.Len(t, state.Items, 2)
}

func TestReduce_AddToCartIgnoresNonPositiveNewLine(t *testing.T) {
	state := Reduce(NewState(), AddToCart{Item: blackTee("M", 0)})
	assert.Empty(t, state.Items)
}

func TestReduce_RemoveFromCartUsesCompositeKey(t *testing.T) {
	state := NewState()
	state = Reduce(state, AddToCart{Item: blackTee("M", 1)})
	state = Reduce(state, AddToCart{Item: blackTee("L", 1)})

	state = Reduce(state, RemoveFromCart{Key: LineKey{ID: "p1", Size: "M", Color: "Black"}})

	require.Len(t, state.Items, 1)
	assert.Equal(t, "L", state.Items[0].Size)
}

func TestReduce_UpdateQuantity(t *testing.T) {
	key := LineKey{ID: "p1", Size: "M", Color: "Black"}

	tests := []struct {
		name      string
		quantity  int
		wantLines int
		wantQty   int
	}{
		{"sets quantity", 4, 2, 4},
		{"zero drops line", 0, 1, 0},
		{"negative drops line", -3, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewState()
			state = Reduce(state, AddToCart{Item: blackTee("M", 1)})
			state = Reduce(state, AddToCart{Item: blackTee("L", 1)})

			state = Reduce(state, UpdateQuantity{Key: key, Quantity: tt.quantity})

			assert.Len(t, state.Items, tt.wantLines)
			for _, item := range state.Items {
				if item.Key() == key {
					assert.Equal(t, tt.wantQty, item.Quantity)
				} else {
					assert.Equal(t, 1, item.Quantity, "other sizes are untouched")
				}
			}
		})
	}
}

func TestReduce_ClearCartKeepsWishlistAndForm(t *testing.T) {
	state := NewState()
	state = Reduce(state, AddToCart{Item: blackTee("M", 2)})
	state = Reduce(state, AddToWishlist{Item: WishlistItem{ID: "p9", Name: "Hoodie"}})
	state = Reduce(state, UpdateCheckoutForm{Patch: FormPatch{Email: strPtr("a@x.com")}})

	state = Reduce(state, ClearCart{})

	assert.Empty(t, state.Items)
	assert.Len(t, state.Wishlist, 1)
	assert.Equal(t, "a@x.com", state.CheckoutForm.Email)
}

func TestReduce_RemoveOrderedSubtractsSubmittedLines(t *testing.T) {
	state := NewState()
	state = Reduce(state, AddToCart{Item: blackTee("M", 2)})
	state = Reduce(state, AddToCart{Item: blackTee("L", 1)})
	ordered := append([]Item{}, state.Items...)

	// changes made while the order was in flight
	state = Reduce(state, AddToCart{Item: blackTee("M", 1)})
	state = Reduce(state, AddToCart{Item: blackTee("S", 3)})
	state = Reduce(state, AddToWishlist{Item: WishlistItem{ID: "p9", Name: "Hoodie"}})

	next := Reduce(state, RemoveOrdered{Lines: ordered})

	require.Len(t, next.Items, 2)
	assert.Equal(t, LineKey{ID: "p1", Size: "M", Color: "Black"}, next.Items[0].Key())
	assert.Equal(t, 1, next.Items[0].Quantity)
	assert.Equal(t, "S", next.Items[1].Size)
	assert.Equal(t, 3, next.Items[1].Quantity)
	assert.Len(t, next.Wishlist, 1)
	assert.Len(t, state.Items, 3, "input state is untouched")

	assert.Empty(t, Reduce(NewState(), RemoveOrdered{Lines: ordered}).Items)
}

// ============================================
// Cart drawer
// ============================================

func TestReduce_CartOpenFlag(t *testing.T) {
	state := NewState()
	state = Reduce(state, ToggleCart{})
	assert.True(t, state.IsCartOpen)
	state = Reduce(state, ToggleCart{})
	assert.False(t, state.IsCartOpen)
	state = Reduce(state, SetCartOpen{Open: true})
	assert.True(t, state.IsCartOpen)
}

// ============================================
// Wishlist
// ============================================

func TestReduce_WishlistFirstInsertionWins(t *testing.T) {
	state := NewState()
	for i := 0; i < 4; i++ {
		state = Reduce(state, AddToWishlist{Item: WishlistItem{
			ID:    "p1",
			Name:  []string{"first", "second", "third", "fourth"}[i],
			Price: decimal.NewFromInt(int64(1000 + i)),
		}})
	}

	require.Len(t, state.Wishlist, 1)
	assert.Equal(t, "first", state.Wishlist[0].Name)
	assert.True(t, state.Wishlist[0].Price.Equal(decimal.NewFromInt(1000)))
}

func TestReduce_RemoveFromWishlist(t *testing.T) {
	state := NewState()
	state = Reduce(state, AddToWishlist{Item: WishlistItem{ID: "p1"}})
	state = Reduce(state, AddToWishlist{Item: WishlistItem{ID: "p2"}})

	state = Reduce(state, RemoveFromWishlist{ID: "p1"})

	require.Len(t, state.Wishlist, 1)
	assert.Equal(t, "p2", state.Wishlist[0].ID)
}

// ============================================
// Checkout form
// ============================================

func TestReduce_UpdateCheckoutFormShallowMerges(t *testing.T) {
	state := NewState()
	state = Reduce(state, UpdateCheckoutForm{Patch: FormPatch{Name: strPtr("Ayesha"), Phone: strPtr("0300")}})
	state = Reduce(state, UpdateCheckoutForm{Patch: FormPatch{Email: strPtr("a@x.com")}})

	assert.Equal(t, CheckoutForm{Name: "Ayesha", Email: "a@x.com", Phone: "0300"}, state.CheckoutForm)
	assert.Equal(t, []string{"address"}, state.CheckoutForm.Missing())
}

// ============================================
// Hydration
// ============================================

func TestReduce_HydrateReplacesDurableState(t *testing.T) {
	state := NewState()
	state = Reduce(state, SetCartOpen{Open: true})
	state = Reduce(state, UpdateCheckoutForm{Patch: FormPatch{Name: strPtr("Ayesha")}})

	state = Reduce(state, Hydrate{Snapshot: Snapshot{
		Items:    []Item{blackTee("M", 2), blackTee("S", 0)},
		Wishlist: []WishlistItem{{ID: "p2"}},
	}})

	require.Len(t, state.Items, 1, "lines without quantity are dropped")
	assert.Equal(t, "M", state.Items[0].Size)
	assert.Len(t, state.Wishlist, 1)
	assert.False(t, state.IsCartOpen)
	assert.Equal(t, "Ayesha", state.CheckoutForm.Name)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	original := Reduce(NewState(), AddToCart{Item: blackTee("M", 1)})
	snapshot := original.Clone()

	_ = Reduce(original, AddToCart{Item: blackTee("M", 3)})
	_ = Reduce(original, RemoveFromCart{Key: blackTee("M", 1).Key()})

	assert.Equal(t, snapshot, original)
}

// ============================================
// Totals
// ============================================

func TestState_Totals(t *testing.T) {
	state := Reduce(NewState(), AddToCart{Item: blackTee("M", 2)})

	totals := state.Totals()

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(1900)))
	assert.True(t, totals.Shipping.Equal(decimal.NewFromInt(250)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(2150)))
	assert.Equal(t, 2, state.ItemCount())
}

func TestState_SnapshotExcludesUIState(t *testing.T) {
	state := Reduce(NewState(), AddToCart{Item: blackTee("M", 1)})
	state = Reduce(state, SetCartOpen{Open: true})

	snap := state.Snapshot()

	assert.Len(t, snap.Items, 1)
	assert.NotNil(t, snap.Wishlist)
}
