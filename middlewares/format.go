package middlewares

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Every response carries the {success, message?, ...} envelope.

// RespondOK writes a success response, merging extra payload fields.
func RespondOK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(200, body)
}

// RespondError logs the underlying error and writes a failure envelope
// exposing only the human-readable message.
func RespondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		log.Printf("HTTP %d - %s: %v", status, message, err)
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

// LoggingMiddleware logs information about incoming requests.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Printf("Request: %s %s | Status: %d | Duration: %v",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
