package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luo-one/inbox-agent/internal/services"
)

// RequestLogger records every request through the log service once the
// handler chain has finished
func RequestLogger(logService *services.LogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		_ = logService.LogAPIRequest(
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
			c.ClientIP(),
		)
	}
}
