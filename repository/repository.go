package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store is the capability set every resource exposes.
type Store[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context) ([]T, error)
	// Update replaces every column of row id with entity and reloads entity
	// from the store.
	Update(ctx context.Context, id uint, entity *T) error
	Delete(ctx context.Context, id uint) error
}

type gormStore[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) Store[T] {
	return &gormStore[T]{db: db}
}

func (s *gormStore[T]) Create(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
}

func (s *gormStore[T]) Get(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

func (s *gormStore[T]) List(ctx context.Context) ([]T, error) {
	entities := []T{}
	if err := s.db.WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (s *gormStore[T]) Update(ctx context.Context, id uint, entity *T) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replace(tx, entity, "id = ?", id)
	})
}

func (s *gormStore[T]) Delete(ctx context.Context, id uint) error {
	return deleteWhere[T](s.db.WithContext(ctx), "id = ?", id)
}

// replace locates the single row matched by query, overwrites all of its
// columns except the primary key, and reloads entity from it.
func replace[T any](tx *gorm.DB, entity *T, query string, args ...any) error {
	var existing T
	if err := tx.Where(query, args...).First(&existing).Error; err != nil {
		return translate(err)
	}
	err := tx.Model(&existing).
		Select("*").
		Omit("id", clause.Associations).
		Updates(entity).Error
	if err != nil {
		return err
	}
	return tx.Where(query, args...).First(entity).Error
}

func deleteWhere[T any](db *gorm.DB, query string, args ...any) error {
	res := db.Where(query, args...).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
