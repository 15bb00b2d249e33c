// Package storefront is the shopper-side application layer: the persistent
// cart store, identity reconciliation, the checkout orchestrator and order
// tracking. It talks to the storefront API through the ports below.
package storefront

import (
	"context"

	"github.com/storefront/backend/internal/infrastructure/storefrontapi"
)

// Durable keys on the shopper's device
const (
	StateKey       = "cartState"
	UserOrderIDKey = "userOrderId"
)

// LocalStorage is durable key/value storage on the shopper's device
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// CustomerDirectory looks up and registers customers by email
type CustomerDirectory interface {
	// LookupCustomer returns the userOrderId linked to email, if any
	LookupCustomer(ctx context.Context, email string) (string, bool, error)

	// RegisterCustomer links email to userOrderID and returns the canonical id,
	// which is the existing one when the email was already registered
	RegisterCustomer(ctx context.Context, email, userOrderID string) (string, bool, error)
}

// OrderGateway persists and lists orders
type OrderGateway interface {
	PlaceOrder(ctx context.Context, order storefrontapi.Order) (*storefrontapi.Order, error)
	ListOrders(ctx context.Context, userOrderID string) ([]storefrontapi.Order, error)
}
