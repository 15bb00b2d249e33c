package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Domain errors raised by the order aggregate
var (
	ErrInvalidStatus        = shared.NewDomainError("INVALID_STATUS", "Status must be one of pending, dispatch, delivered")
	ErrEmptyOrder           = shared.NewDomainError("INVALID_ITEMS", "Order must contain at least one item")
	ErrInvalidTotals        = shared.NewDomainError("INVALID_TOTALS", "Order totals do not match its items")
	ErrPaymentUnavailable   = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Only cash on delivery is accepted")
	ErrMissingUserOrderID   = shared.NewDomainError("INVALID_USER_ORDER_ID", "userOrderId is required")
	ErrMissingOrderID       = shared.NewDomainError("INVALID_ORDER_ID", "Order id is required")
	ErrIncompleteShipping   = shared.NewDomainError("INVALID_SHIPPING_DETAILS", "Name, email, address and phone are required")
	ErrOrderAlreadyAssigned = shared.NewDomainError("ALREADY_EXISTS", "Order id is already used by another customer")
)

// OrderLine is a purchased cart line captured at checkout time
type OrderLine struct {
	ProductID     string
	Name          string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Quantity      int
	Size          string
	Color         string
	Image         string
}

// UnitPrice returns the effective per-unit price of the line
func (l OrderLine) UnitPrice() decimal.Decimal {
	return EffectivePrice(l.Price, l.DiscountPrice)
}

// Amount returns unit price times quantity
func (l OrderLine) Amount() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l OrderLine) validate() error {
	if strings.TrimSpace(l.ProductID) == "" {
		return shared.NewDomainError("INVALID_ITEMS", "Every item needs a product id")
	}
	if l.Quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be at least 1")
	}
	if l.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
	}
	if l.DiscountPrice != nil && l.DiscountPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Item discount price cannot be negative")
	}
	return nil
}

// ShippingDetails is the checkout form captured on the order
type ShippingDetails struct {
	Name    string
	Email   string
	Address string
	Phone   string
}

// Missing returns the names of empty fields, in form order
func (d ShippingDetails) Missing() []string {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(d.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(d.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Order represents a placed storefront order.
// Once created, only its status changes.
type Order struct {
	shared.BaseAggregateRoot
	UserOrderID   string
	Email         string
	Items         []OrderLine
	Subtotal      decimal.Decimal
	Shipping      decimal.Decimal
	Total         decimal.Decimal
	Status        OrderStatus
	Form          ShippingDetails
	PaymentMethod PaymentMethod
}

// NewOrderParams holds everything needed to place an order
type NewOrderParams struct {
	ID            uuid.UUID
	UserOrderID   string
	Email         string
	Items         []OrderLine
	Form          ShippingDetails
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

// NewOrder creates a pending order and computes its totals from the lines
func NewOrder(p NewOrderParams) (*Order, error) {
	if p.ID == uuid.Nil {
		return nil, ErrMissingOrderID
	}
	if strings.TrimSpace(p.UserOrderID) == "" {
		return nil, ErrMissingUserOrderID
	}
	if len(p.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range p.Items {
		if err := line.validate(); err != nil {
			return nil, err
		}
	}
	if len(p.Form.Missing()) > 0 {
		return nil, ErrIncompleteShipping
	}

	method := p.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}
	if !method.IsAvailable() {
		return nil, ErrPaymentUnavailable
	}

	email := strings.TrimSpace(p.Email)
	if email == "" {
		email = strings.TrimSpace(p.Form.Email)
	}

	totals := ComputeTotals(p.Items, StandardShipping)

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserOrderID:       strings.TrimSpace(p.UserOrderID),
		Email:             email,
		Items:             append([]OrderLine(nil), p.Items...),
		Subtotal:          totals.Subtotal,
		Shipping:          totals.Shipping,
		Total:             totals.Total,
		Status:            OrderStatusPending,
		Form:              p.Form,
		PaymentMethod:     method,
	}
	order.ID = p.ID
	if !p.CreatedAt.IsZero() {
		order.CreatedAt = p.CreatedAt
		order.UpdatedAt = p.CreatedAt
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// Totals returns the monetary summary of the order
func (o *Order) Totals() Totals {
	return Totals{Subtotal: o.Subtotal, Shipping: o.Shipping, Total: o.Total}
}

// VerifyTotals checks client-submitted amounts against the computed ones
func (o *Order) VerifyTotals(claimed Totals) error {
	if !o.Totals().Equal(claimed) {
		return ErrInvalidTotals
	}
	return nil
}

// SetStatus overwrites the order status.
// Any valid status may follow any other, including moving backwards.
func (o *Order) SetStatus(status OrderStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	previous := o.Status
	o.Status = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))

	return nil
}

// ItemCount returns the number of units across all lines
func (o *Order) ItemCount() int {
	count := 0
	for _, line := range o.Items {
		count += line.Quantity
	}
	return count
}
