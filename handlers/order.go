package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/repository"
)

type OrderHandler struct {
	resource[models.Order]
}

func NewOrderHandler(orders repository.Store[models.Order], products repository.ProductRepository, log *zap.Logger) *OrderHandler {
	exists := productExists(products)
	return &OrderHandler{resource[models.Order]{
		name:   "Order",
		store:  orders,
		logger: log,
		decode: decoderFor(models.OrderSchema.Order),
		check: func(ctx context.Context, o *models.Order) error {
			return exists(ctx, o.ProductID)
		},
	}}
}

func (h *OrderHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}
