package trade

import "strings"

// OrderStatus represents the fulfillment status of a storefront order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDispatch  OrderStatus = "dispatch"
	OrderStatusDelivered OrderStatus = "delivered"
)

// AllOrderStatuses lists the canonical status set in lifecycle order
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusDispatch,
	OrderStatusDelivered,
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusDispatch, OrderStatusDelivered:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsOpen reports whether the order still awaits delivery
func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusPending || s == OrderStatusDispatch
}

// ParseOrderStatus converts user input into an OrderStatus
func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
