package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/judyrop/storefront/errx"
	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/repository"
)

type ErrorResponse struct {
	Message string             `json:"message"`
	Errors  models.FieldErrors `json:"errors,omitempty"`
}

type validatable interface {
	Validate() error
}

// bindJSON decodes the body into dst and runs its validation, writing a 400
// and returning false on failure.
func bindJSON(c *gin.Context, dst validatable) bool {
	return decodeJSON(c, dst) && validated(c, dst)
}

func decodeJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

func validated(c *gin.Context, v validatable) bool {
	err := v.Validate()
	if err == nil {
		return true
	}
	var fields models.FieldErrors
	if errors.As(err, &fields) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Errors: fields})
	} else {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	}
	return false
}

// pathID reads a numeric path parameter. A non-numeric segment is a 400; a
// number that cannot name a row (zero, negative, out of range) is notFound.
func pathID(c *gin.Context, name string, notFound *errx.AppError) (uint, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, strconv.IntSize)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid " + name})
		return 0, false
	}
	if err != nil || id <= 0 {
		c.JSON(notFound.Status, ErrorResponse{Message: notFound.Message})
		return 0, false
	}
	return uint(id), true
}

// respondError writes err as {message}. Anything that is not an AppError is
// logged and hidden behind a 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	appErr := errx.As(err)
	if appErr.Status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(appErr.Status, ErrorResponse{Message: appErr.Message})
}

// resource implements create/list/get/update/delete for an entity whose
// controller is a straight mapping onto a repository.Store.
type resource[T any] struct {
	name   string
	store  repository.Store[T]
	logger *zap.Logger
	decode func(c *gin.Context) (*T, bool)
	// check runs before create and update; a returned error aborts the write.
	check func(ctx context.Context, entity *T) error
}

// decoderFor binds and validates schema S and converts it into an entity.
func decoderFor[S validatable, T any](convert func(S) T) func(c *gin.Context) (*T, bool) {
	return func(c *gin.Context) (*T, bool) {
		var in S
		if !decodeJSON(c, &in) || !validated(c, in) {
			return nil, false
		}
		entity := convert(in)
		return &entity, true
	}
}

func (r *resource[T]) notFound() *errx.AppError {
	return errx.NotFound(r.name + " not found")
}

func (r *resource[T]) translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return r.notFound()
	}
	return err
}

func (r *resource[T]) runCheck(ctx context.Context, entity *T) error {
	if r.check == nil {
		return nil
	}
	return r.check(ctx, entity)
}

func (r *resource[T]) create(c *gin.Context) {
	entity, ok := r.decode(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := r.runCheck(ctx, entity); err != nil {
		respondError(c, r.logger, err)
		return
	}
	if err := r.store.Create(ctx, entity); err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}

func (r *resource[T]) list(c *gin.Context) {
	entities, err := r.store.List(c.Request.Context())
	if err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, entities)
}

func (r *resource[T]) get(c *gin.Context) {
	id, ok := pathID(c, "id", r.notFound())
	if !ok {
		return
	}
	entity, err := r.store.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, r.logger, r.translate(err))
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (r *resource[T]) update(c *gin.Context) {
	id, ok := pathID(c, "id", r.notFound())
	if !ok {
		return
	}
	entity, ok := r.decode(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := r.runCheck(ctx, entity); err != nil {
		respondError(c, r.logger, err)
		return
	}
	if err := r.store.Update(ctx, id, entity); err != nil {
		respondError(c, r.logger, r.translate(err))
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (r *resource[T]) delete(c *gin.Context) {
	id, ok := pathID(c, "id", r.notFound())
	if !ok {
		return
	}
	if err := r.store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, r.logger, r.translate(err))
		return
	}
	c.Status(http.StatusNoContent)
}

var errProductNotFound = errx.NotFound("Product not found")

// productExists rejects orders and cart items pointing at unknown products.
func productExists(products repository.ProductRepository) func(ctx context.Context, productID uint) error {
	return func(ctx context.Context, productID uint) error {
		ok, err := products.Exists(ctx, productID)
		if err != nil {
			return err
		}
		if !ok {
			return errProductNotFound
		}
		return nil
	}
}
