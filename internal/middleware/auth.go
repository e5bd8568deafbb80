package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	callerTokenKey = "caller_token"

	// LegacyTokenHeader is still sent by older clients instead of Authorization
	LegacyTokenHeader = "RequesterUserToken"
)

// CallerToken extracts the optional caller token from the request. It never
// rejects a request: services decide whether a token is required and whether
// it is valid.
func CallerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			c.Set(callerTokenKey, token)
		}
		c.Next()
	}
}

// TokenFromContext returns the caller token, or "" for anonymous requests
func TokenFromContext(c *gin.Context) string {
	return c.GetString(callerTokenKey)
}

func extractToken(c *gin.Context) string {
	if authHeader := strings.TrimSpace(c.GetHeader("Authorization")); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		// Malformed headers are passed on so the lookup fails as an invalid token.
		return authHeader
	}
	return strings.TrimSpace(c.GetHeader(LegacyTokenHeader))
}
