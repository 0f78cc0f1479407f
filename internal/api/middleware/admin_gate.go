package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hireForm/internal/auth"
)

// AdminGateMiddleware 校验管理凭证。
// Authorization 可以是 "Bearer <cred>" 或直接携带凭证；未配置口令时返回 500。
func AdminGateMiddleware(gate auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := auth.BearerFromHeader(c.GetHeader("Authorization"))

		err := gate.Verify(c.Request.Context(), bearer)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, auth.ErrMisconfigured):
			LoggerFromContext(c).Error("admin secret is not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
		default:
			LoggerFromContext(c).Info("admin request rejected", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		}
	}
}
