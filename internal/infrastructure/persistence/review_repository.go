package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReviewRepository implements catalog.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindAll returns reviews, newest first
func (r *GormReviewRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Review, error) {
	var reviewModels []models.ReviewModel
	query := applyPage(r.db.WithContext(ctx).Order("created_at DESC"), filter)
	if err := query.Find(&reviewModels).Error; err != nil {
		return nil, err
	}

	reviews := make([]catalog.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = *reviewModels[i].ToDomain()
	}
	return reviews, nil
}

// Create inserts a review
func (r *GormReviewRepository) Create(ctx context.Context, review *catalog.Review) error {
	return translateError(r.db.WithContext(ctx).Create(models.ReviewModelFromDomain(review)).Error)
}

// Ensure GormReviewRepository implements catalog.ReviewRepository
var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
