// utils/auth.go
package utils

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminSecretHeader = "X-Admin-Secret"

// AdminAuth guards administrative routes with a static shared secret.
// An empty secret rejects every request.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AdminSecretHeader)
		if secret == "" || provided == "" {
			RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c.Next()
	}
}
