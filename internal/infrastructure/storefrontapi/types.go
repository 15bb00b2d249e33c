package storefrontapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one order line on the wire
type OrderItem struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Image         string           `json:"image"`
	Size          string           `json:"size"`
	Color         string           `json:"color"`
	Quantity      int              `json:"quantity"`
}

// OrderForm is the shipping form captured with an order
type OrderForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Order is the order document exchanged with the API
type Order struct {
	ID            string          `json:"id"`
	UserOrderID   string          `json:"userOrderId"`
	Email         string          `json:"email"`
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	Form          OrderForm       `json:"form"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

// Customer is a registered shopper
type Customer struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	UserOrderID string    `json:"userOrderId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Product is a catalog entry as listed by the API
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Sizes         []string         `json:"sizes"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	Category      string           `json:"category"`
	Images        []string         `json:"images"`
}

// Image returns the first product image, or "" when there is none
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type productResponse struct {
	Success bool     `json:"success"`
	Product *Product `json:"product"`
}

type customerLookupResponse struct {
	Success     bool      `json:"success"`
	UserOrderID *string   `json:"userOrderId"`
	Customer    *Customer `json:"customer"`
}

type registerCustomerRequest struct {
	Email       string `json:"email"`
	UserOrderID string `json:"userOrderId"`
}

type registerCustomerResponse struct {
	Success     bool   `json:"success"`
	UserOrderID string `json:"userOrderId"`
	Created     bool   `json:"created"`
}

type orderResponse struct {
	Success bool   `json:"success"`
	Order   *Order `json:"order"`
}

type ordersResponse struct {
	Success bool    `json:"success"`
	Orders  []Order `json:"orders"`
}

type updateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type errorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("storefront api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("storefront api: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// NotFound reports whether the server answered 404
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Conflict reports whether the server rejected a duplicate submission
func (e *APIError) Conflict() bool {
	return e.StatusCode == http.StatusConflict
}
