package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderItemRequest is one cart line submitted at checkout
type OrderItemRequest struct {
	ID            string           `json:"id" binding:"required,max=100"`
	Name          string           `json:"name" binding:"max=200"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	Image         string           `json:"image"`
	Size          string           `json:"size" binding:"max=20"`
	Color         string           `json:"color" binding:"max=50"`
	Quantity      int              `json:"quantity" binding:"required,min=1"`
}

// ShippingForm is the checkout form submitted with an order
type ShippingForm struct {
	Name    string `json:"name" binding:"max=200"`
	Email   string `json:"email" binding:"max=200"`
	Address string `json:"address"`
	Phone   string `json:"phone" binding:"max=50"`
}

// PlaceOrderRequest is the order document posted by the checkout client.
// Totals are the client's claim and are checked against the items.
type PlaceOrderRequest struct {
	ID            string             `json:"id" binding:"required"`
	UserOrderID   string             `json:"userOrderId" binding:"required,max=100"`
	Email         string             `json:"email" binding:"max=200"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Shipping      decimal.Decimal    `json:"shipping"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	Form          ShippingForm       `json:"form"`
	PaymentMethod string             `json:"paymentMethod"`
	CreatedAt     *time.Time         `json:"createdAt"`
}

// UpdateStatusRequest overwrites an order's status
type UpdateStatusRequest struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse is one order line in API responses
type OrderItemResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Image         string           `json:"image"`
	Size          string           `json:"size"`
	Color         string           `json:"color"`
	Quantity      int              `json:"quantity"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserOrderID   string              `json:"userOrderId"`
	Email         string              `json:"email"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Shipping      decimal.Decimal     `json:"shipping"`
	Total         decimal.Decimal     `json:"total"`
	Status        string              `json:"status"`
	Form          ShippingForm        `json:"form"`
	PaymentMethod string              `json:"paymentMethod"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// PlaceOrderResult wraps the stored order. Replayed is set when the order id
// had already been persisted and the stored order is returned unchanged.
type PlaceOrderResult struct {
	Order    OrderResponse
	Replayed bool
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, line := range o.Items {
		items[i] = OrderItemResponse{
			ID:            line.ProductID,
			Name:          line.Name,
			Price:         line.Price,
			DiscountPrice: line.DiscountPrice,
			Image:         line.Image,
			Size:          line.Size,
			Color:         line.Color,
			Quantity:      line.Quantity,
		}
	}
	return OrderResponse{
		ID:          o.ID,
		UserOrderID: o.UserOrderID,
		Email:       o.Email,
		Items:       items,
		Subtotal:    o.Subtotal,
		Shipping:    o.Shipping,
		Total:       o.Total,
		Status:      o.Status.String(),
		Form: ShippingForm{
			Name:    o.Form.Name,
			Email:   o.Form.Email,
			Address: o.Form.Address,
			Phone:   o.Form.Phone,
		},
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

func (r PlaceOrderRequest) lines() []trade.OrderLine {
	lines := make([]trade.OrderLine, len(r.Items))
	for i, item := range r.Items {
		lines[i] = trade.OrderLine{
			ProductID:     item.ID,
			Name:          item.Name,
			Price:         item.Price,
			DiscountPrice: item.DiscountPrice,
			Quantity:      item.Quantity,
			Size:          item.Size,
			Color:         item.Color,
			Image:         item.Image,
		}
	}
	return lines
}

func (r PlaceOrderRequest) claimedTotals() trade.Totals {
	return trade.Totals{Subtotal: r.Subtotal, Shipping: r.Shipping, Total: r.Total}
}
