package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		if len(c.Errors) > 0 {
			log.Printf("[API] %s %s %s %d %v errors=%s",
				c.Request.Method, path, c.ClientIP(), status, time.Since(start), c.Errors.String())
			return
		}
		log.Printf("[API] %s %s %s %d %v",
			c.Request.Method, path, c.ClientIP(), status, time.Since(start))
	}
}
