package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"status":     status,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString(ctxRequestID),
		})

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request completed")
		case status == http.StatusTooManyRequests || status == http.StatusUnauthorized:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
