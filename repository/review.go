package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/models"
)

// ReviewRepository scopes every lookup to the owning product id.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByProduct(ctx context.Context, productID uint) ([]models.Review, error)
	GetForProduct(ctx context.Context, productID, id uint) (*models.Review, error)
	UpdateForProduct(ctx context.Context, productID, id uint, review *models.Review) error
	DeleteForProduct(ctx context.Context, productID, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) GetForProduct(ctx context.Context, productID, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ? AND product_id = ?", id, productID).First(&review).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) UpdateForProduct(ctx context.Context, productID, id uint, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replace(tx, review, "id = ? AND product_id = ?", id, productID)
	})
}

func (r *reviewRepository) DeleteForProduct(ctx context.Context, productID, id uint) error {
	return deleteWhere[models.Review](r.db.WithContext(ctx), "id = ? AND product_id = ?", id, productID)
}
