package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pixvault/api/internal/models"
	"pixvault/api/internal/tier"
)

// requestIdentity pulls what Auth middleware stored; aborting 401 covers
// the paths where the middleware was bypassed or stored garbage.
func requestIdentity(c *gin.Context) (models.User, tier.Policy, bool) {
	userVal, exists := c.Get("current_user")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.User{}, tier.Policy{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_user"})
		return models.User{}, tier.Policy{}, false
	}

	policyVal, exists := c.Get("tier_policy")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_policy"})
		return models.User{}, tier.Policy{}, false
	}
	policy, ok := policyVal.(tier.Policy)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_policy"})
		return models.User{}, tier.Policy{}, false
	}

	return user, policy, true
}
