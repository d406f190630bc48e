package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/auth/port"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/presentation/controller"
)

// AuthMiddleware verifies the bearer token and stores the caller's user id
// on the request context. Requests without a valid token never reach the
// controllers.
func AuthMiddleware(verifier authport.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		} else if q := c.Query("token"); q != "" {
			token = q
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		controller.SetPrincipal(c, principal.UserID)
		c.Next()
	}
}
