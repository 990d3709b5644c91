package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving product: %w", Internal(cause))

	assert.ErrorIs(t, err, cause)

	appErr := As(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, InternalMessage, appErr.Message)
	assert.Equal(t, "internal server error: disk full", appErr.Error())
}

func TestAsFallsBackToInternal(t *testing.T) {
	appErr := As(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)

	nf := As(NotFound("Product not found"))
	assert.Equal(t, http.StatusNotFound, nf.Status)
	assert.Equal(t, "Product not found", nf.Error())
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").Status)
	assert.Equal(t, http.StatusConflict, Conflict("x").Status)
}
