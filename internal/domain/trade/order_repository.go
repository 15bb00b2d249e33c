package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderFilter narrows an admin order listing
type OrderFilter struct {
	shared.Filter
	Status *OrderStatus
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its per-order id
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUserOrderID returns every order owned by an identity, newest first
	FindByUserOrderID(ctx context.Context, userOrderID string) ([]Order, error)

	// FindAll returns orders newest first along with the total match count
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)

	// Create inserts a new order with its lines
	Create(ctx context.Context, order *Order) error

	// UpdateStatus writes only the status column of an existing order
	UpdateStatus(ctx context.Context, order *Order) error

	// CountByStatus returns the number of orders in each status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)

	// SumTotals returns the sum of order totals in the given statuses
	SumTotals(ctx context.Context, statuses ...OrderStatus) (decimal.Decimal, error)
}
