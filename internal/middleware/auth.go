package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pixvault/api/internal/config"
	"pixvault/api/internal/repository"
	"pixvault/api/internal/security"
	"pixvault/api/internal/tier"
)

// Auth validates the bearer token, loads the user, and resolves the tier
// policy once per request; handlers read both from the context.
func Auth(cfg *config.AppConfig, users *repository.UserRepository, tiers *tier.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
			return
		}

		// A user row pointing at a tier missing from config is a
		// deployment fault, not a client error.
		policy, err := tiers.Resolve(user.Tier)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "tier_unresolved"})
			return
		}

		c.Set("current_user", user)
		c.Set("tier_policy", policy)

		c.Next()
	}
}
