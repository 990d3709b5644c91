package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/judyrop/storefront/errx"
	"github.com/judyrop/storefront/models"
)

type stubAuthenticator map[string]*models.User

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errx.Unauthorized("Invalid token")
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	june := &models.User{ID: 7, Username: "june"}

	r := gin.New()
	r.GET("/me", Middleware(stubAuthenticator{"good": june}), func(c *gin.Context) {
		c.JSON(http.StatusOK, models.NewUserResponse(CurrentUser(c)))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"username":"june","email":""}`, w.Body.String())
			}
		})
	}
}

func TestCurrentUserWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
