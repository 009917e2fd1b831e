package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/requestdata"
	"github.com/policydesk/policydesk-backend/internal/services"
)

// RequireAuth validates the bearer token and installs the authenticated
// identity on the request context. Requests without a valid token never reach
// the handler.
func RequireAuth(authService services.AuthService, baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("middleware", "RequireAuth")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		ctx, err := authService.SetContextFromToken(c.Request.Context(), token)
		if err != nil {
			log.Debug("token rejected", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		if _, ok := requestdata.GetRequestData(ctx); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
