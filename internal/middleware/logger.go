package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID propagates an X-Request-ID header, minting one when the editing
// surface did not send its own.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs one line per request. Health probes are skipped so the log
// stays readable under frequent readiness polling.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/readyz" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		requestID, _ := c.Get("request_id")
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}
		log.Printf("[%s] %s %s -> %d in %s",
			requestID, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
