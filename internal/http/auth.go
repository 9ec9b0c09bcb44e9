package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/internal/domain"
)

// HeaderAuth carries the bearer token checked by Authenticate.
const HeaderAuth = "x-auth"

const (
	ctxKeyUser  = "auth_user"
	ctxKeyToken = "auth_token"
)

// TokenResolver resolves a bearer token to the user it was issued to.
type TokenResolver interface {
	FindByToken(ctx context.Context, token string) (*domain.User, error)
}

// Authenticate rejects requests whose x-auth token does not resolve to a user
// with an empty 401. On success the user and token are available through
// CurrentUser and CurrentToken.
func Authenticate(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAuth)

		user, err := resolver.FindByToken(c.Request.Context(), token)
		if err != nil || user == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ctxKeyUser, user)
		c.Set(ctxKeyToken, token)
		c.Next()
	}
}

// CurrentUser returns the user attached by Authenticate, if any.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// CurrentToken returns the raw token attached by Authenticate.
func CurrentToken(c *gin.Context) string {
	return c.GetString(ctxKeyToken)
}
