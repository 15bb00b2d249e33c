package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// OrderService is the order lifecycle used by OrderHandler
type OrderService interface {
	PlaceOrder(ctx context.Context, req apptrade.PlaceOrderRequest) (*apptrade.PlaceOrderResult, error)
	ListForIdentity(ctx context.Context, userOrderID string) ([]apptrade.OrderResponse, error)
	ListAll(ctx context.Context, filter trade.OrderFilter) ([]apptrade.OrderResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*apptrade.OrderResponse, error)
	SetStatus(ctx context.Context, req apptrade.UpdateStatusRequest) (*apptrade.OrderResponse, error)
}

// ReplayedHeader is set on a POST /orders answer that returns an order
// persisted by an earlier submission.
const ReplayedHeader = "Idempotent-Replayed"

// OrderHandler handles order placement, tracking and fulfilment
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// orderListQuery holds the GET /orders query
type orderListQuery struct {
	UserOrderID string `form:"userOrderId" binding:"max=100"`
	Status      string `form:"status"`
	dto.ListRequest
}

// HasUserOrderID reports whether GET /orders is a shopper's own listing
func HasUserOrderID(c *gin.Context) bool {
	return strings.TrimSpace(c.Query("userOrderId")) != ""
}

// Place godoc
// @Summary      Place an order
// @Description  Persists a checkout. Totals are recomputed from the items and must match. Send Idempotency-Key equal to the order id; a replayed key answers 409.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Submission key"
// @Param        request body apptrade.PlaceOrderRequest true "Order"
// @Success      201 {object} OrderEnvelope
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	var req apptrade.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx := logger.WithUserOrderID(c.Request.Context(), req.UserOrderID)
	result, err := h.orderService.PlaceOrder(ctx, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Replayed {
		c.Header(ReplayedHeader, "true")
		h.OK(c, OrderEnvelope{Success: true, Order: result.Order})
		return
	}
	h.Created(c, OrderEnvelope{Success: true, Order: result.Order})
}

// List godoc
// @Summary      List orders
// @Description  With userOrderId, returns that identity's orders newest first (404 when none). Without it, lists all orders (admin) with optional status filter and pagination.
// @Tags         orders
// @Produce      json
// @Param        userOrderId query string false "Customer identity"
// @Param        status      query string false "pending, dispatch or delivered"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Success      200 {object} OrderListResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var query orderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	if userOrderID := strings.TrimSpace(query.UserOrderID); userOrderID != "" {
		ctx := logger.WithUserOrderID(c.Request.Context(), userOrderID)
		orders, err := h.orderService.ListForIdentity(ctx, userOrderID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.OK(c, OrderListResponse{Success: true, Orders: orders})
		return
	}

	h.listAll(c, query)
}

// ListAll godoc
// @Summary      List all orders
// @Description  Admin order listing, newest first
// @Tags         admin
// @Produce      json
// @Param        status    query string false "pending, dispatch or delivered"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} OrderListResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	var query orderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	h.listAll(c, query)
}

func (h *OrderHandler) listAll(c *gin.Context, query orderListQuery) {
	filter := trade.OrderFilter{Filter: query.ToFilter()}
	if query.Status != "" {
		status, err := trade.ParseOrderStatus(query.Status)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		filter.Status = &status
	}

	orders, total, err := h.orderService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderListResponse{
		Success: true,
		Orders:  orders,
		Meta:    dto.NewMeta(total, filter.Page, filter.PageSize),
	})
}

// Get godoc
// @Summary      Get an order
// @Tags         admin
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} OrderEnvelope
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderEnvelope{Success: true, Order: *order})
}

// UpdateStatus godoc
// @Summary      Update an order's status
// @Description  Overwrites the status. Any status may follow any other.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body apptrade.UpdateStatusRequest true "Order id and new status"
// @Success      200 {object} OrderEnvelope
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req apptrade.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.SetStatus(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderEnvelope{Success: true, Order: *order})
}
