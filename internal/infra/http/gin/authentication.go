package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"luxeory/internal/infra/security"
)

const (
	tokenCookieName     = "token"
	principalContextKey = "luxeory.principal"
)

type principal struct {
	Email string
	Name  string
}

// AuthMiddleware resolves the signed token from the cookie set by POST /jwt,
// or from a bearer header, into a request principal. It never aborts; routes
// that need the Access Gate call requireCustomer.
type AuthMiddleware struct {
	Tokens security.TokenIssuer
	Logger *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	raw := extractToken(c)
	if raw == "" {
		c.Next()
		return
	}
	claims, err := m.Tokens.Verify(raw)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, principal{Email: strings.ToLower(claims.Email), Name: claims.Name})
	c.Next()
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(tokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// requireCustomer is the Access Gate: a valid token must be present, and when
// ownerEmail is non-empty the token's email must match it. Every denial is
// the Unauthorized kind, whether the token is missing, expired, or belongs
// to a different customer.
func requireCustomer(c *gin.Context, ownerEmail string) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access", "kind": kindUnauthorized})
		return principal{}, false
	}
	if ownerEmail != "" && !strings.EqualFold(p.Email, strings.TrimSpace(ownerEmail)) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access", "kind": kindUnauthorized})
		return principal{}, false
	}
	return p, true
}
