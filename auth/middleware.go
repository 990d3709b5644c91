package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/errx"
	"github.com/judyrop/storefront/models"
)

const userContextKey = "auth.user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Middleware rejects requests without a resolvable bearer token and stores the
// resolved user on the gin context.
func Middleware(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Message: "Unauthorized"})
			return
		}

		user, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			appErr := errx.As(err)
			if appErr.Status >= http.StatusInternalServerError {
				_ = c.Error(err)
			}
			c.AbortWithStatusJSON(appErr.Status, models.MessageResponse{Message: appErr.Message})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by Middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
