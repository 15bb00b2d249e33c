package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	appadmin "github.com/storefront/backend/internal/application/admin"
)

// DashboardService computes the admin overview
type DashboardService interface {
	Summary(ctx context.Context) (*appadmin.DashboardSummary, error)
}

// DashboardHandler serves the admin dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Order counts per status, customer and product counts, delivered revenue and open order value
// @Tags         admin
// @Produce      json
// @Success      200 {object} DashboardResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, DashboardResponse{Success: true, Summary: *summary})
}
