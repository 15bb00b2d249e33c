package partner

import (
	"regexp"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Domain errors raised by the customer aggregate
var (
	ErrInvalidEmail       = shared.NewDomainError("INVALID_EMAIL", "A valid email is required")
	ErrInvalidUserOrderID = shared.NewDomainError("INVALID_USER_ORDER_ID", "userOrderId is required")
)

// Customer links a shopper's email to the permanent userOrderId that owns their orders.
// A customer is created once per distinct email and never modified afterwards.
type Customer struct {
	shared.BaseAggregateRoot
	Email       string
	UserOrderID string
}

// NewCustomer creates a new customer for the given email and identity token
func NewCustomer(email, userOrderID string) (*Customer, error) {
	normalized := NormalizeEmail(email)
	if err := validateEmail(normalized); err != nil {
		return nil, err
	}
	userOrderID = strings.TrimSpace(userOrderID)
	if userOrderID == "" {
		return nil, ErrInvalidUserOrderID
	}
	if len(userOrderID) > 100 {
		return nil, shared.NewDomainError("INVALID_USER_ORDER_ID", "userOrderId cannot exceed 100 characters")
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             normalized,
		UserOrderID:       userOrderID,
	}

	customer.AddDomainEvent(NewCustomerRegisteredEvent(customer))

	return customer, nil
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
