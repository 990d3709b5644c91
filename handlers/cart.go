package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/repository"
)

type CartHandler struct {
	resource[models.CartItem]
}

func NewCartHandler(items repository.Store[models.CartItem], products repository.ProductRepository, log *zap.Logger) *CartHandler {
	exists := productExists(products)
	return &CartHandler{resource[models.CartItem]{
		name:   "Cart item",
		store:  items,
		logger: log,
		decode: decoderFor(models.CartItemSchema.CartItem),
		check: func(ctx context.Context, item *models.CartItem) error {
			return exists(ctx, item.ProductID)
		},
	}}
}

func (h *CartHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/cart")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}
