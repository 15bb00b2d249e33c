package partner

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByEmail finds a customer by normalized email
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindByUserOrderID finds the customer owning an identity token
	FindByUserOrderID(ctx context.Context, userOrderID string) (*Customer, error)

	// FindAll returns customers newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)

	// Create inserts a new customer.
	// Returns shared.ErrAlreadyExists when the email is already registered.
	Create(ctx context.Context, customer *Customer) error

	// Count returns the number of registered customers
	Count(ctx context.Context) (int64, error)
}
