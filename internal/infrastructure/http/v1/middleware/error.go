package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leafbook/internal/core/apperror"
	"leafbook/pkg/logger"
)

// ErrorHandler renders the last error pushed onto the gin context as a
// JSON response. Handlers never write error bodies themselves; they call
// c.Error and abort.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		err := last.Err

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error(c.Request.Context(), "request failed",
					"code", appErr.Code, "error", err)
			} else {
				logger.Warn(c.Request.Context(), "request rejected",
					"code", appErr.Code, "message", appErr.Message)
			}
			c.JSON(appErr.HTTPStatus, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			})
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    apperror.CodeInternal,
			"message": "Internal server error",
		})
	}
}
