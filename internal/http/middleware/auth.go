package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smallpress/blog-backend/internal/config"
	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/token"
)

const accessClaimsKey = "accessClaims"

// Auth validates the Authorization header and attaches access claims.
type Auth struct {
	Codec *token.Codec
	Cfg   config.Config
}

// RequireAuth rejects requests without a valid access token. The header
// value is the raw token; an optional "Bearer " prefix is tolerated.
func (m *Auth) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":             "token_invalid",
			"error_description": "Authorization header required.",
		})
		return
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	var claims token.AccessClaims
	if err := m.Codec.Decode(raw, []byte(m.Cfg.AccessTokenSecret), false, &claims); err != nil {
		status, code := http.StatusForbidden, "token_invalid"
		if errors.Is(err, domain.ErrTokenExpired) {
			status, code = http.StatusUnauthorized, "token_expired"
		}
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(status, gin.H{
			"error":             code,
			"error_description": "Could not validate credentials.",
		})
		return
	}

	c.Set(accessClaimsKey, claims)
	c.Next()
}

// GetAccessClaims exposes the access token claims to handlers.
func GetAccessClaims(c *gin.Context) (token.AccessClaims, bool) {
	value, ok := c.Get(accessClaimsKey)
	if !ok {
		return token.AccessClaims{}, false
	}
	claims, ok := value.(token.AccessClaims)
	return claims, ok
}
