package middleware

import (
	"errors"
	"intake/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

const claimsKey = "admin_claims"

// TokenVerifier validates an admin session token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AdminRequired rejects requests without a valid admin bearer token.
// A missing token is 401, a bad or expired one is 403.
func AdminRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearer(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			status := http.StatusForbidden
			if errors.Is(err, auth.ErrMissingToken) {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{"error": "invalid or expired token"})
			return
		}

		// Store claims in context for handlers to use
		c.Set(claimsKey, claims)

		c.Next()
	}
}

// AdminClaims returns the claims stored by AdminRequired, or nil.
func AdminClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
