package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a shopper testimonial shown on the storefront
type Review struct {
	shared.BaseEntity
	Name   string
	Review string
	Rating int
}

// NewReview creates a review after checking all fields are present
func NewReview(name, text string, rating int) (*Review, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" || text == "" || rating == 0 {
		return nil, shared.NewDomainError("INVALID_REVIEW", "All fields are required")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_REVIEW", "Name cannot exceed 100 characters")
	}
	if len(text) > 2000 {
		return nil, shared.NewDomainError("INVALID_REVIEW", "Review cannot exceed 2000 characters")
	}

	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Review:     text,
		Rating:     rating,
	}, nil
}
