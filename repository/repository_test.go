package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judyrop/storefront/database/dbtest"
	"github.com/judyrop/storefront/models"
)

func shoe(name string) *models.Product {
	return &models.Product{
		Name:        name,
		Description: "Running shoe",
		Price:       decimal.RequireFromString("10.50"),
		Brand:       "Acme",
	}
}

func TestStoreCRUD(t *testing.T) {
	db := dbtest.New(t)
	store := NewStore[models.Category](db)
	ctx := context.Background()

	bakery := &models.Category{Name: "Bakery", Description: "Bread"}
	require.NoError(t, store.Create(ctx, bakery))
	require.NotZero(t, bakery.ID)
	require.NoError(t, store.Create(ctx, &models.Category{Name: "Dairy", Description: "Milk"}))

	got, err := store.Get(ctx, bakery.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bakery", got.Name)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bakery", all[0].Name)
	assert.Equal(t, "Dairy", all[1].Name)

	replacement := &models.Category{Name: "Bakehouse", Description: ""}
	require.NoError(t, store.Update(ctx, bakery.ID, replacement))
	assert.Equal(t, bakery.ID, replacement.ID)
	assert.Equal(t, "Bakehouse", replacement.Name)
	assert.Equal(t, "", replacement.Description, "full replace writes zero values")

	got, err = store.Get(ctx, bakery.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Description)

	require.NoError(t, store.Delete(ctx, bakery.ID))
	_, err = store.Get(ctx, bakery.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreMissingIDs(t *testing.T) {
	db := dbtest.New(t)
	store := NewStore[models.Order](db)
	ctx := context.Background()

	_, err := store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Update(ctx, 42, &models.Order{ProductID: 1, Quantity: 1}), ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 42), ErrNotFound)

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestProductCreateUnique(t *testing.T) {
	db := dbtest.New(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := shoe("Shoe")
	require.NoError(t, repo.CreateUnique(ctx, p))
	assert.NotZero(t, p.ID)

	assert.ErrorIs(t, repo.CreateUnique(ctx, shoe("Shoe")), ErrDuplicate)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("name = ?", "Shoe").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	ok, err := repo.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, p.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("10.5")))
}

func TestDeletingProductCascadesToOrdersAndCart(t *testing.T) {
	db := dbtest.New(t)
	products := NewProductRepository(db)
	orders := NewStore[models.Order](db)
	cart := NewStore[models.CartItem](db)
	ctx := context.Background()

	p := shoe("Shoe")
	require.NoError(t, products.CreateUnique(ctx, p))
	require.NoError(t, orders.Create(ctx, &models.Order{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, cart.Create(ctx, &models.CartItem{ProductID: p.ID, Quantity: 1}))

	require.NoError(t, products.Delete(ctx, p.ID))

	remainingOrders, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remainingOrders)
	remainingCart, err := cart.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remainingCart)
}

func TestReviewRepositoryScopesByProduct(t *testing.T) {
	db := dbtest.New(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	r1 := &models.Review{ProductID: 1, Rating: 5, Comment: "great"}
	require.NoError(t, repo.Create(ctx, r1))
	require.NoError(t, repo.Create(ctx, &models.Review{ProductID: 1, Rating: 3}))
	require.NoError(t, repo.Create(ctx, &models.Review{ProductID: 2, Rating: 1}))

	forOne, err := repo.ListByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, forOne, 2)

	none, err := repo.ListByProduct(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.GetForProduct(ctx, 2, r1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.UpdateForProduct(ctx, 2, r1.ID, &models.Review{ProductID: 2, Rating: 4}), ErrNotFound)
	assert.ErrorIs(t, repo.DeleteForProduct(ctx, 2, r1.ID), ErrNotFound)

	updated := &models.Review{ProductID: 1, Rating: 4}
	require.NoError(t, repo.UpdateForProduct(ctx, 1, r1.ID, updated))
	assert.Equal(t, r1.ID, updated.ID)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "", updated.Comment)

	require.NoError(t, repo.DeleteForProduct(ctx, 1, r1.ID))
	_, err = repo.GetForProduct(ctx, 1, r1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenRepository(t *testing.T) {
	db := dbtest.New(t)
	users := NewUserRepository(db)
	tokens := NewTokenRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "june", Email: "june@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, user))
	assert.ErrorIs(t, users.Create(ctx, &models.User{Username: "june", Email: "other@example.com", PasswordHash: "x"}), ErrDuplicate)

	first, err := tokens.GetOrCreate(ctx, user.ID, "key-one")
	require.NoError(t, err)
	assert.Equal(t, "key-one", first.Key)

	second, err := tokens.GetOrCreate(ctx, user.ID, "key-two")
	require.NoError(t, err)
	assert.Equal(t, "key-one", second.Key)

	found, err := tokens.FindByKey(ctx, "key-one")
	require.NoError(t, err)
	require.NotNil(t, found.User)
	assert.Equal(t, "june", found.User.Username)

	_, err = tokens.FindByKey(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, tokens.DeleteForUser(ctx, user.ID))
	assert.ErrorIs(t, tokens.DeleteForUser(ctx, user.ID), ErrNotFound)
	_, err = tokens.FindByKey(ctx, "key-one")
	assert.ErrorIs(t, err, ErrNotFound)
}
