package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/judyrop/storefront/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	return r.findBy(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *userRepository) findBy(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}

// TokenRepository persists the one-per-user bearer tokens.
type TokenRepository interface {
	// FindByKey returns the token with its owning user loaded.
	FindByKey(ctx context.Context, key string) (*models.Token, error)
	// GetOrCreate returns the user's existing token, or stores one with newKey.
	GetOrCreate(ctx context.Context, userID uint, newKey string) (*models.Token, error)
	DeleteForUser(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) FindByKey(ctx context.Context, key string) (*models.Token, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var token models.Token
	if err := r.db.WithContext(ctx).Preload("User").Where(&models.Token{Key: key}).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint, newKey string) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidate := models.Token{Key: newKey, UserID: userID}
		// the unique user_id index makes a concurrent second insert a no-op
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Omit(clause.Associations).
			Create(&candidate).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&token).Error
	})
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) DeleteForUser(ctx context.Context, userID uint) error {
	return deleteWhere[models.Token](r.db.WithContext(ctx), "user_id = ?", userID)
}
