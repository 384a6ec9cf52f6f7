package server

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gourmet-search/internal/metrics"
)

const headerRequestID = "X-Request-ID"

type ctxKey struct{}

// RequestLogger tags each request with an id, stores a child logger in the
// request context and logs the completed request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		child := logger.With(
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Header(headerRequestID, reqID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey{}, child))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HttpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HttpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		child.Info("http.request",
			"status", status,
			"query", c.Request.URL.RawQuery,
			"took", time.Since(start),
		)
	}
}

// Logger returns the request logger stored by RequestLogger, or the default.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
