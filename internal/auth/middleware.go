package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/response"
	"github.com/hrcadm/sleeptracker/internal/storage"
	"github.com/hrcadm/sleeptracker/internal/token"
)

// UserKey is the gin context key the resolved user is bound under.
const UserKey = "user"

// CookieName is the session token cookie.
const CookieName = "token"

// Middleware gates protected routes: it extracts a bearer token from the
// Authorization header or the token cookie, verifies it, resolves the user
// and rejects missing or deactivated accounts.
func Middleware(tokens *token.Service, users storage.UserRepository, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			abort(c, "Not authorized to access this route")
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			logger.Warnf("auth: token rejected: %v", err)
			abort(c, "Not authorized to access this route")
			return
		}

		user, err := users.UserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				abort(c, "User not found")
				return
			}
			logger.Errorf("auth: user lookup failed: %v", err)
			abort(c, "Not authorized to access this route")
			return
		}
		if !user.IsActive {
			abort(c, "User account is deactivated")
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user bound by Middleware. Panics if called on an
// unprotected route.
func CurrentUser(c *gin.Context) *internal.User {
	return c.MustGet(UserKey).(*internal.User)
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

func abort(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(msg))
}
