package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/partner"
)

// RegisterCustomerRequest registers a shopper's email with a client-minted identity
type RegisterCustomerRequest struct {
	Email       string `json:"email" binding:"required,max=200"`
	UserOrderID string `json:"userOrderId" binding:"required,max=100"`
}

// RegisterCustomerResult carries the canonical identity of the email
type RegisterCustomerResult struct {
	UserOrderID string `json:"userOrderId"`
	Created     bool   `json:"created"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	UserOrderID string    `json:"userOrderId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Email:       c.Email,
		UserOrderID: c.UserOrderID,
		CreatedAt:   c.CreatedAt,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
