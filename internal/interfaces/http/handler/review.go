package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ReviewService stores and lists shopper reviews
type ReviewService interface {
	Create(ctx context.Context, req appcatalog.CreateReviewRequest) (*appcatalog.ReviewResponse, error)
	List(ctx context.Context, filter shared.Filter) ([]appcatalog.ReviewResponse, error)
}

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List godoc
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} ReviewListResponse
// @Router       /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	reviews, err := h.reviewService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, ReviewListResponse{Success: true, Reviews: reviews})
}

// Create godoc
// @Summary      Add a review
// @Description  Name, review and a rating from 1 to 5 are required
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.CreateReviewRequest true "Review"
// @Success      201 {object} ReviewCreatedResponse
// @Failure      400 {object} ErrorResponse
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req appcatalog.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ReviewCreatedResponse{Message: "Review added successfully", Review: *review})
}
