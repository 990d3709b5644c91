package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/judyrop/storefront/errx"
	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/repository"
)

type ProductHandler struct {
	resource[models.Product]
	repo repository.ProductRepository
}

func NewProductHandler(repo repository.ProductRepository, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		resource: resource[models.Product]{
			name:   "Product",
			store:  repo,
			logger: log,
			decode: decoderFor(models.ProductSchema.Product),
		},
		repo: repo,
	}
}

func (h *ProductHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.POST("", h.Create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// Create rejects a product whose name is already taken.
func (h *ProductHandler) Create(c *gin.Context) {
	product, ok := h.decode(c)
	if !ok {
		return
	}
	if err := h.repo.CreateUnique(c.Request.Context(), product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = errx.Conflict("Product already exists")
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}
