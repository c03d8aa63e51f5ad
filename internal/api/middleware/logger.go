package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"pvs-dispatch/internal/logger"
)

// Logger logs one line per request.
func Logger(log logger.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		const line = "%s %s -> %d (%s)"
		args := []any{c.Request.Method, c.Request.URL.Path, status, time.Since(start)}
		switch {
		case status >= 500:
			log.Errorf(line, args...)
		case status >= 400:
			log.Warnf(line, args...)
		default:
			log.Infof(line, args...)
		}
	}
}
