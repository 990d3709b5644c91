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

var errReviewNotFound = errx.NotFound("Review not found")

// ReviewHandler serves reviews nested under a product. The product id in the
// path is not checked against the catalog.
type ReviewHandler struct {
	repo   repository.ReviewRepository
	logger *zap.Logger
}

func NewReviewHandler(repo repository.ReviewRepository, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{repo: repo, logger: log}
}

func (h *ReviewHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/products/:id/reviews")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:review_id", h.Get)
	g.PUT("/:review_id", h.Update)
	g.DELETE("/:review_id", h.Delete)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	productID, ok := pathID(c, "id", errProductNotFound)
	if !ok {
		return
	}
	var in models.ReviewSchema
	if !bindJSON(c, &in) {
		return
	}

	review := in.Review(productID)
	if err := h.repo.Create(c.Request.Context(), &review); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) List(c *gin.Context) {
	productID, ok := pathID(c, "id", errProductNotFound)
	if !ok {
		return
	}
	reviews, err := h.repo.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	productID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	review, err := h.repo.GetForProduct(c.Request.Context(), productID, reviewID)
	if err != nil {
		respondError(c, h.logger, reviewNotFound(err))
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	productID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	var in models.ReviewSchema
	if !bindJSON(c, &in) {
		return
	}

	review := in.Review(productID)
	if err := h.repo.UpdateForProduct(c.Request.Context(), productID, reviewID, &review); err != nil {
		respondError(c, h.logger, reviewNotFound(err))
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	productID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteForProduct(c.Request.Context(), productID, reviewID); err != nil {
		respondError(c, h.logger, reviewNotFound(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func reviewPath(c *gin.Context) (productID, reviewID uint, ok bool) {
	if productID, ok = pathID(c, "id", errReviewNotFound); !ok {
		return 0, 0, false
	}
	if reviewID, ok = pathID(c, "review_id", errReviewNotFound); !ok {
		return 0, 0, false
	}
	return productID, reviewID, true
}

func reviewNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errReviewNotFound
	}
	return err
}
