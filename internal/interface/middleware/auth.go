package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eadebayo/delicioso/internal/application"
	"github.com/eadebayo/delicioso/pkg/response"
)

// Auth resolves the session token to its principal and aborts with 401 when
// that fails. Tokens are stateless; verification is signature + expiry plus
// the user checks in AuthService.Authenticate (account still active, token
// not issued before the last password change). On success the *entity.User
// is stored under "principal" and its ID under "userID".
func Auth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing token", nil)
			c.Abort()
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		c.Set("principal", u)
		c.Set("userID", u.ID)
		c.Next()
	}
}

// tokenFrom prefers the cookie and falls back to a bearer header for
// non-browser clients.
func tokenFrom(c *gin.Context) string {
	if token, err := c.Cookie("token"); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
