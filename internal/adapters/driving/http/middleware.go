package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/archivo/internal/logger"
)

// requestLogger logs each request through the application logger.
// Successful requests are logged at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start).Round(time.Microsecond)
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		case status >= http.StatusBadRequest:
			logger.Warn("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		default:
			logger.Debug("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		}
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
