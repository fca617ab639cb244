package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"phoenix-web/pkg/logger"
)

// RequestID assigns a request id to every request and stores it in the
// request context for the loggers downstream.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs one line per request with method, path, status and latency.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}

		reqLog := logger.WithContext(c.Request.Context(), log)
		if len(c.Errors) > 0 {
			reqLog.Error(c.Errors.String(), fields...)
			return
		}
		reqLog.Info("request", fields...)
	}
}

// Recovery turns a panic into a safe fallback error page instead of
// crashing the process.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.HTML(http.StatusInternalServerError, "error.html", gin.H{
					"error": "Something went wrong. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
