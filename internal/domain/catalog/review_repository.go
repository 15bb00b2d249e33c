package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindAll returns reviews newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Review, error)

	// Create inserts a new review
	Create(ctx context.Context, review *Review) error
}
