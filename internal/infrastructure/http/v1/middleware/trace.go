// Package middleware provides the HTTP middleware chain: recovery,
// tracing, request logging, error rendering and authentication.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leafbook/internal/core/appctx"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace propagates or generates request/trace IDs and puts them into the
// request context and the response headers.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := &appctx.TraceContext{
			RequestID: c.GetHeader(HeaderRequestID),
			TraceID:   c.GetHeader(HeaderTraceID),
		}
		if trace.RequestID == "" {
			trace.RequestID = uuid.New().String()
		}
		if trace.TraceID == "" {
			trace.TraceID = uuid.New().String()
		}

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
