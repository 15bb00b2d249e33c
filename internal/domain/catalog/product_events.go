package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// EventTypeProductListed is published when a product is added to the catalog
const EventTypeProductListed = "ProductListed"

// ProductListedEvent is raised when a product is created
type ProductListedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
}

// NewProductListedEvent creates a new ProductListedEvent
func NewProductListedEvent(p *Product) *ProductListedEvent {
	return &ProductListedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductListed, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Name:            p.Name,
		Category:        p.Category,
	}
}

// EventType returns the event type name
func (e *ProductListedEvent) EventType() string {
	return EventTypeProductListed
}
