package middleware

import (
	"coffee_platform/internal/utils" // Token verification
	"net/http"                       // HTTP status codes
	"strings"                        // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// ClaimsKey is the gin context key verified claims are stored under
const ClaimsKey = "claims"

// splitBearer extracts the token and the optional " type=<kind>" suffix
func splitBearer(header string) (token, kind string, ok bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if i := strings.Index(rest, " type="); i >= 0 {
		kind = strings.TrimSpace(rest[i+len(" type="):])
		rest = strings.TrimSpace(rest[:i])
	}
	return rest, kind, rest != ""
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}

// TokenAuth validates a bearer token minted for actor and kind and stores its claims
func TokenAuth(issuer *utils.TokenIssuer, actor utils.Actor, kind utils.TokenKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, hint, ok := splitBearer(c.GetHeader("Authorization")) // Get Authorization header
		if !ok {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}
		// A declared type must match the kind this route expects
		if hint != "" && hint != string(kind) {
			unauthorized(c, "Invalid token type")
			return
		}
		claims, err := issuer.Verify(actor, kind, tokenStr) // Parse the JWT token
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}
		c.Set(ClaimsKey, claims) // Store claims in context
		c.Next()                 // Proceed to the next handler
	}
}

// Claims returns the verified claims stored by TokenAuth
func Claims(c *gin.Context) (*utils.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
