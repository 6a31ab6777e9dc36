package utils

import (
	"github.com/gin-gonic/gin"
)

// ClientIP identifies the caller for rate limiting. X-Forwarded-For is only
// honoured when the connection comes from a proxy the engine trusts.
func ClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "anonymous"
}
