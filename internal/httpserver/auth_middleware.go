package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flatboard/internal/auth"
)

// AuthMiddleware verifies the bearer token and attaches the decoded identity.
// Anything short of a valid token ends the request with 401.
func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// store identity in context so handlers can use it
		c.Set("identity", identity)

		c.Next()
	}
}
