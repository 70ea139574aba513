package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"linedash/domain/selection"
	"linedash/internal/session"
)

// SessionKey is the gin context key holding the current session.Session.
const SessionKey = "session"

// EnsureSession resolves the visitor's session from its cookie, starting a new
// one with the default selection when the cookie is missing or stale.
func EnsureSession(store *session.Store, cookieName string, ttl time.Duration, defaults func() selection.Selection) gin.HandlerFunc {
	maxAge := int(ttl.Seconds())
	return func(c *gin.Context) {
		raw, _ := c.Cookie(cookieName)

		sess, created := store.Resolve(raw, defaults)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sess.ID.String(), maxAge, "/", "", false, true)
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// Current returns the session set by EnsureSession.
func Current(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok
}
