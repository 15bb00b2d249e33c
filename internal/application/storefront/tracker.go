package storefront

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront/backend/internal/infrastructure/storefrontapi"
)

// ErrNoIdentity is returned when order history is requested before any checkout
var ErrNoIdentity = errors.New("no orders have been placed from this device")

// OrderTracker lists the shopper's orders by their userOrderId
type OrderTracker struct {
	identity *IdentityResolver
	orders   OrderGateway
}

// NewOrderTracker creates an OrderTracker
func NewOrderTracker(identity *IdentityResolver, orders OrderGateway) *OrderTracker {
	return &OrderTracker{identity: identity, orders: orders}
}

// Mine lists orders for the identity stored on this device
func (t *OrderTracker) Mine(ctx context.Context) ([]storefrontapi.Order, error) {
	id, ok := t.identity.Current(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}
	return t.Lookup(ctx, id)
}

// Lookup lists orders for a userOrderId, newest first. Unknown ids yield no orders.
func (t *OrderTracker) Lookup(ctx context.Context, userOrderID string) ([]storefrontapi.Order, error) {
	userOrderID = strings.TrimSpace(userOrderID)
	if userOrderID == "" {
		return nil, ErrNoIdentity
	}
	orders, err := t.orders.ListOrders(ctx, userOrderID)
	if storefrontapi.IsNotFound(err) {
		return []storefrontapi.Order{}, nil
	}
	if err != nil {
		return nil, err
	}
	return orders, nil
}
