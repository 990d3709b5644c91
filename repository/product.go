package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/judyrop/storefront/models"
)

type ProductRepository interface {
	Store[models.Product]
	// CreateUnique inserts p unless a product with the same name exists, in
	// which case it returns ErrDuplicate.
	CreateUnique(ctx context.Context, p *models.Product) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type productRepository struct {
	Store[models.Product]
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{Store: NewStore[models.Product](db), db: db}
}

func (r *productRepository) CreateUnique(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("name = ?", p.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Omit(clause.Associations).Create(p).Error
	})
}

func (r *productRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
