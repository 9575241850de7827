package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/appointment-intake/internal/models"
	"github.com/harentsoaR/appointment-intake/internal/services"
)

const (
	SessionCookieName = "session"

	currentUserKey = "currentUser"
)

// SessionToken returns the session token of the request. An explicit
// Authorization header wins over the session cookie.
func SessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	return ""
}

// Session resolves the request's session, if any, and stores the user in the
// gin context. Requests without a valid session continue anonymously.
func Session(sessions *services.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := SessionToken(c); token != "" {
			user, err := sessions.Resolve(c.Request.Context(), token)
			switch {
			case err == nil:
				c.Set(currentUserKey, user)
			case !errors.Is(err, models.ErrNotAuthenticated):
				// treat the request as anonymous when the session backend fails
				log.Error().Err(err).Msg("session lookup failed")
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user of the request.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// IsAdminRequest reports whether the request carries an authenticated admin session.
func IsAdminRequest(c *gin.Context) bool {
	user, ok := CurrentUser(c)
	return ok && user.IsAdmin
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects every request that is not from an authenticated admin,
// before the handler can look anything up.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdminRequest(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}
		c.Next()
	}
}
