package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"leafbook/internal/core/apperror"
	"leafbook/pkg/logger"
)

// Recovery converts panics into a generic 500 response. It writes the
// response itself because the error middleware sits inside it on the
// chain and has already unwound by the time the panic is caught.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"panic", r,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    apperror.CodeInternal,
					"message": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
