package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"leafbook/internal/core/appctx"
	"leafbook/internal/core/apperror"
	"leafbook/internal/domain/auth"
)

// Auth validates the bearer token and puts the caller's identity into the
// request context for audit fields and logging.
func Auth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			_ = c.Error(apperror.NewUnauthorized("missing bearer token"))
			c.Abort()
			return
		}

		claims, err := authService.Verify(token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		user := &appctx.UserContext{
			UserID: claims.Subject,
			Email:  claims.Email,
			Name:   claims.Name,
		}
		c.Request = c.Request.WithContext(
			appctx.WithUser(c.Request.Context(), user))

		c.Next()
	}
}
