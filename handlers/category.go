package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/repository"
)

type CategoryHandler struct {
	resource[models.Category]
}

func NewCategoryHandler(categories repository.Store[models.Category], log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{resource[models.Category]{
		name:   "Category",
		store:  categories,
		logger: log,
		decode: decoderFor(models.CategorySchema.Category),
	}}
}

// Register mounts the read routes on public and the writes on protected.
func (h *CategoryHandler) Register(public, protected *gin.RouterGroup) {
	public.GET("/categories", h.list)
	public.GET("/categories/:id", h.get)

	protected.POST("/categories", h.create)
	protected.PUT("/categories/:id", h.update)
	protected.DELETE("/categories/:id", h.delete)
}
