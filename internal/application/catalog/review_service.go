package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReviewService handles shopper reviews
type ReviewService struct {
	reviewRepo catalog.ReviewRepository
	logger     *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo catalog.ReviewRepository, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{reviewRepo: reviewRepo, logger: logger}
}

// Create stores a review
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*ReviewResponse, error) {
	review, err := catalog.NewReview(req.Name, req.Review, req.Rating)
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Debug("Review added", zap.String("review_id", review.ID.String()), zap.Int("rating", review.Rating))

	response := ToReviewResponse(review)
	return &response, nil
}

// List returns reviews newest first
func (s *ReviewService) List(ctx context.Context, filter shared.Filter) ([]ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses, nil
}
