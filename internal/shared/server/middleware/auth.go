package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/server/respond"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session"

// ServiceKeyHeader carries the operations key accepted on admin routes.
const ServiceKeyHeader = "X-Service-Key"

// ServicePrincipal is the user id recorded for requests authenticated by service key.
const ServicePrincipal = "service"

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	isAdminKey   = "isAdmin"
)

// Verifier validates session tokens.
type Verifier interface {
	Verify(token string) (auth.Claims, error)
}

// Auth resolves the current user from the session cookie (or a Bearer token) and rejects the
// request with 401 when none is present. Paths listed in public skip the check.
func Auth(sessions Verifier, public ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if UserIDFromContext(c) != "" {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range public {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token := tokenFromRequest(c)
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		claims, err := sessions.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		c.Set(userIDKey, claims.Subject)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		c.Set(isAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// ServiceKey authenticates requests under scope that present the configured operations key
// as an admin principal. It must run before Auth. An empty key disables it.
func ServiceKey(key, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" || !strings.HasPrefix(c.Request.URL.Path, scope) {
			c.Next()
			return
		}
		presented := c.GetHeader(ServiceKeyHeader)
		if presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
			c.Set(userIDKey, ServicePrincipal)
			c.Set(isAdminKey, true)
		}
		c.Next()
	}
}

// RequireAdmin rejects sessions without the admin claim.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdminFromContext(c) {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin privileges required")
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userNameKey)
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}

// IsAdminFromContext reports whether the session carries the admin claim.
func IsAdminFromContext(c *gin.Context) bool {
	if c == nil {
		return false
	}
	val, _ := c.Get(isAdminKey)
	admin, _ := val.(bool)
	return admin
}
