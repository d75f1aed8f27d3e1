package middleware

import (
	"net/http"

	"doerhub/services/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "userID"
	ContextUsername  = "username"
	ContextPrincipal = "principal"
)

// AuthMiddleware authenticates requests through the gate and stores the
// resolved principal on the gin context.
func AuthMiddleware(gate auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			// Websocket clients cannot set headers from the browser, so
			// the token may ride in the query string.
			token = c.Query("token")
		}

		principal, err := gate.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ContextUserID, principal.UserID)
		c.Set(ContextUsername, principal.Username)
		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}
