package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/nanaqwameboafo/trello-clone/internal/constants"
	apierrors "github.com/nanaqwameboafo/trello-clone/internal/errors"
)

// RequireAuth rejects requests that carry no authenticated session. Board and
// invitation routes stack their own access middleware on top of this.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Copied into the request context so handlers never re-read the session
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID reads the authenticated user's id from the request context.
// Session stores round-trip the id with varying integer widths, so the
// common ones are all accepted.
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
