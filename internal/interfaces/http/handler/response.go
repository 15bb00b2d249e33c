package handler

import (
	appadmin "github.com/storefront/backend/internal/application/admin"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	appidentity "github.com/storefront/backend/internal/application/identity"
	apppartner "github.com/storefront/backend/internal/application/partner"
	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// The storefront wire contract puts payloads under named top-level keys
// rather than the generic dto.Response data field.

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse represents a simple success API response
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty"`
}

// CustomerLookupResponse answers GET /customers?email=
type CustomerLookupResponse struct {
	Success     bool                         `json:"success"`
	UserOrderID *string                      `json:"userOrderId"`
	Customer    *apppartner.CustomerResponse `json:"customer"`
}

// CustomerResponse answers GET /customers?userOrderId=
type CustomerResponse struct {
	Success  bool                         `json:"success"`
	Customer *apppartner.CustomerResponse `json:"customer"`
}

// CustomerListResponse answers the admin customer listing
type CustomerListResponse struct {
	Success   bool                          `json:"success"`
	Customers []apppartner.CustomerResponse `json:"customers"`
	Meta      *dto.Meta                     `json:"meta,omitempty"`
}

// RegisterCustomerResponse answers POST /customers
type RegisterCustomerResponse struct {
	Success     bool   `json:"success"`
	UserOrderID string `json:"userOrderId"`
	Created     bool   `json:"created"`
}

// OrderEnvelope wraps a single order
type OrderEnvelope struct {
	Success bool                   `json:"success"`
	Order   apptrade.OrderResponse `json:"order"`
}

// OrderListResponse wraps an order listing. Meta is set on admin listings.
type OrderListResponse struct {
	Success bool                     `json:"success"`
	Orders  []apptrade.OrderResponse `json:"orders"`
	Meta    *dto.Meta                `json:"meta,omitempty"`
}

// ProductEnvelope wraps a single product
type ProductEnvelope struct {
	Success bool                       `json:"success"`
	Product appcatalog.ProductResponse `json:"product"`
}

// ProductListResponse wraps a product listing
type ProductListResponse struct {
	Success  bool                         `json:"success"`
	Products []appcatalog.ProductResponse `json:"products"`
	Meta     *dto.Meta                    `json:"meta,omitempty"`
}

// ReviewCreatedResponse answers POST /reviews
type ReviewCreatedResponse struct {
	Message string                    `json:"message"`
	Review  appcatalog.ReviewResponse `json:"review"`
}

// ReviewListResponse wraps the review listing
type ReviewListResponse struct {
	Success bool                        `json:"success"`
	Reviews []appcatalog.ReviewResponse `json:"reviews"`
}

// LoginResponse answers a successful admin login. The token is also set as
// an httpOnly cookie.
type LoginResponse struct {
	Success   bool                 `json:"success"`
	Token     string               `json:"token"`
	ExpiresAt int64                `json:"expiresAt"`
	User      appidentity.UserInfo `json:"user"`
}

// CurrentUserResponse answers GET /admin/me
type CurrentUserResponse struct {
	Success bool                 `json:"success"`
	User    appidentity.UserInfo `json:"user"`
}

// DashboardResponse answers GET /admin/dashboard
type DashboardResponse struct {
	Success bool                      `json:"success"`
	Summary appadmin.DashboardSummary `json:"summary"`
}

// HealthResponse answers GET /health
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database" example:"up"`
}
