package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware rejects callers exceeding limit requests per window with 429.
// Counters are scoped so each route keeps its own quota per client IP.
func Middleware(l *Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := utils.ClientIP(c)
		if !l.Check(c.Request.Context(), scope+":"+ip, limit, window) {
			zap.L().Info("rate limited", zap.String("scope", scope), zap.String("ip", ip))
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			utils.RespondWithError(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
