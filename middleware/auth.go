package middleware

import (
	"net/http"
	"strings"

	"reservo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActorKey is the gin context key holding the authenticated party id.
const ActorKey = "actorID"

// JWTAuthMiddleware accepts a bearer token whose subject is the calling
// customer or host.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		actorID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			getLogger(c).Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ActorKey, actorID)
		c.Next()
	}
}

// ActorID returns the id set by JWTAuthMiddleware, or "".
func ActorID(c *gin.Context) string {
	return c.GetString(ActorKey)
}
