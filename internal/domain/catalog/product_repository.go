package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns products newest first, optionally filtered by category
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of listed products
	Count(ctx context.Context) (int64, error)
}
