// Package cart holds the shopper's client-side state: cart lines, wishlist,
// checkout form and the cart drawer flag, along with the pure reducer that
// evolves it.
package cart

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// LineKey identifies a cart line. Two additions with the same key merge.
type LineKey struct {
	ID    string
	Size  string
	Color string
}

// Item is one line in the cart
type Item struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Image         string           `json:"image"`
	Size          string           `json:"size"`
	Color         string           `json:"color"`
	Quantity      int              `json:"quantity"`
}

// Key returns the merge key of the line
func (i Item) Key() LineKey {
	return LineKey{ID: i.ID, Size: i.Size, Color: i.Color}
}

// UnitPrice returns the price charged per unit
func (i Item) UnitPrice() decimal.Decimal {
	return trade.EffectivePrice(i.Price, i.DiscountPrice)
}

// WishlistItem is a saved product. Only its ID matters for uniqueness.
type WishlistItem struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
}

// CheckoutForm holds the shipping details typed in at checkout
type CheckoutForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Missing returns the names of blank fields
func (f CheckoutForm) Missing() []string {
	return f.ShippingDetails().Missing()
}

// ShippingDetails converts the form into the order's shipping details
func (f CheckoutForm) ShippingDetails() trade.ShippingDetails {
	return trade.ShippingDetails{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Address: strings.TrimSpace(f.Address),
		Phone:   strings.TrimSpace(f.Phone),
	}
}

// FormPatch carries a partial checkout form update. Nil fields are left alone.
type FormPatch struct {
	Name    *string
	Email   *string
	Address *string
	Phone   *string
}

// State is the complete client state
type State struct {
	Items        []Item
	Wishlist     []WishlistItem
	IsCartOpen   bool
	CheckoutForm CheckoutForm
}

// NewState returns the empty state a fresh session starts with
func NewState() State {
	return State{
		Items:    []Item{},
		Wishlist: []WishlistItem{},
	}
}

// Snapshot is the durable part of the state
type Snapshot struct {
	Items    []Item         `json:"items"`
	Wishlist []WishlistItem `json:"wishlist"`
}

// Snapshot returns a copy of the durable part of the state
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Items:    append([]Item{}, s.Items...),
		Wishlist: append([]WishlistItem{}, s.Wishlist...),
	}
}

// Clone returns a deep copy of the state's slices
func (s State) Clone() State {
	out := s
	out.Items = append([]Item{}, s.Items...)
	out.Wishlist = append([]WishlistItem{}, s.Wishlist...)
	return out
}

// IsEmpty reports whether the cart has no lines
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// ItemCount returns the number of units in the cart
func (s State) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Lines converts the cart into order lines
func (s State) Lines() []trade.OrderLine {
	lines := make([]trade.OrderLine, 0, len(s.Items))
	for _, item := range s.Items {
		lines = append(lines, trade.OrderLine{
			ProductID:     item.ID,
			Name:          item.Name,
			Price:         item.Price,
			DiscountPrice: item.DiscountPrice,
			Quantity:      item.Quantity,
			Size:          item.Size,
			Color:         item.Color,
			Image:         item.Image,
		})
	}
	return lines
}

// Totals prices the cart with the standard shipping fee
func (s State) Totals() trade.Totals {
	return trade.ComputeTotals(s.Lines(), trade.StandardShipping)
}

// InWishlist reports whether a product is saved
func (s State) InWishlist(id string) bool {
	for _, w := range s.Wishlist {
		if w.ID == id {
			return true
		}
	}
	return false
}
