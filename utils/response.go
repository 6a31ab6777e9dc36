package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with a {"error": message} body.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func RespondWithValidation(c *gin.Context, errs ValidationErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "Validation failed",
		"details": errs,
	})
}
