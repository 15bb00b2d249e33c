package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	apppartner "github.com/storefront/backend/internal/application/partner"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CustomerService is the customer directory used by CustomerHandler
type CustomerService interface {
	FindByEmail(ctx context.Context, email string) (*apppartner.CustomerResponse, error)
	FindByUserOrderID(ctx context.Context, userOrderID string) (*apppartner.CustomerResponse, error)
	Register(ctx context.Context, req apppartner.RegisterCustomerRequest) (*apppartner.RegisterCustomerResult, error)
	List(ctx context.Context, filter shared.Filter) ([]apppartner.CustomerResponse, int64, error)
}

// CustomerHandler handles customer directory requests
type CustomerHandler struct {
	BaseHandler
	customerService CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// customerQuery selects which lookup GET /customers performs
type customerQuery struct {
	Email       string `form:"email" binding:"max=200"`
	UserOrderID string `form:"userOrderId" binding:"max=100"`
	dto.ListRequest
}

// HasLookupKey reports whether the query names a single customer. Without
// one the route is the admin listing.
func HasLookupKey(c *gin.Context) bool {
	return strings.TrimSpace(c.Query("email")) != "" || strings.TrimSpace(c.Query("userOrderId")) != ""
}

// Lookup godoc
// @Summary      Look up a customer
// @Description  With email, returns the identity registered for it (null when none). With userOrderId, returns its customer. Without either, lists customers (admin).
// @Tags         customers
// @Produce      json
// @Param        email        query string false "Customer email"
// @Param        userOrderId  query string false "Customer identity"
// @Success      200 {object} CustomerLookupResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers [get]
func (h *CustomerHandler) Lookup(c *gin.Context) {
	var query customerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	ctx := c.Request.Context()

	if email := strings.TrimSpace(query.Email); email != "" {
		customer, err := h.customerService.FindByEmail(ctx, email)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		resp := CustomerLookupResponse{Success: true, Customer: customer}
		if customer != nil {
			resp.UserOrderID = &customer.UserOrderID
		}
		h.OK(c, resp)
		return
	}

	if userOrderID := strings.TrimSpace(query.UserOrderID); userOrderID != "" {
		customer, err := h.customerService.FindByUserOrderID(ctx, userOrderID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.OK(c, CustomerResponse{Success: true, Customer: customer})
		return
	}

	h.list(c, query.ListRequest)
}

// List godoc
// @Summary      List customers
// @Description  Lists customers newest first (admin)
// @Tags         customers
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} CustomerListResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/get-all [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.list(c, req)
}

func (h *CustomerHandler) list(c *gin.Context, req dto.ListRequest) {
	filter := req.ToFilter()
	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	meta := dto.NewMeta(total, filter.Page, filter.PageSize)
	h.OK(c, CustomerListResponse{Success: true, Customers: customers, Meta: meta})
}

// Register godoc
// @Summary      Register a customer
// @Description  Links an email to a client-minted userOrderId. An email that is already registered keeps its identity and created is false.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body apppartner.RegisterCustomerRequest true "Registration"
// @Success      200 {object} RegisterCustomerResponse
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers [post]
func (h *CustomerHandler) Register(c *gin.Context) {
	var req apppartner.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.customerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, RegisterCustomerResponse{
		Success:     true,
		UserOrderID: result.UserOrderID,
		Created:     result.Created,
	})
}
