package partner

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// EventTypeCustomerRegistered is published when a new email is linked to an identity
const EventTypeCustomerRegistered = "CustomerRegistered"

// CustomerRegisteredEvent is raised when a customer record is created
type CustomerRegisteredEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID `json:"customer_id"`
	Email       string    `json:"email"`
	UserOrderID string    `json:"user_order_id"`
}

// NewCustomerRegisteredEvent creates a new CustomerRegisteredEvent
func NewCustomerRegisteredEvent(c *Customer) *CustomerRegisteredEvent {
	return &CustomerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerRegistered, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		Email:           c.Email,
		UserOrderID:     c.UserOrderID,
	}
}

// EventType returns the event type name
func (e *CustomerRegisteredEvent) EventType() string {
	return EventTypeCustomerRegistered
}
