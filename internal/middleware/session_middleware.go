package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/kidsshop-backend/config"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
)

const (
	SessionTokenHeader = "X-Session-Token"
	SessionTokenKey    = "session_token"
)

// SessionMiddleware reads the anonymous session token from the cookie,
// falling back to the X-Session-Token header for non-browser clients.
type SessionMiddleware struct {
	cfg config.SessionConfig
}

func NewSessionMiddleware(cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{cfg: cfg}
}

func (m *SessionMiddleware) Extract() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cfg.CookieName)
		if err != nil || token == "" {
			token = c.GetHeader(SessionTokenHeader)
		}
		if token != "" {
			c.Set(SessionTokenKey, token)
		}
		c.Next()
	}
}

// Issue hands a session token back to the client, as a cookie and a header.
// It is a no-op when the client already holds that token.
func (m *SessionMiddleware) Issue(c *gin.Context, token string) {
	if token == "" || token == GetSessionToken(c) {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, token, int(m.cfg.TTL.Seconds()), "/", "", m.cfg.Secure, true)
	c.Header(SessionTokenHeader, token)
	c.Set(SessionTokenKey, token)
}

// Clear drops the session cookie after its cart was merged into a user cart.
func (m *SessionMiddleware) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", "", m.cfg.Secure, true)
}

func GetSessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}

// GetIdentity is who the request acts for: the user when authenticated,
// otherwise the anonymous session, which may be empty.
func GetIdentity(c *gin.Context) service.Identity {
	if userID, ok := GetUserID(c); ok {
		return service.Identity{UserID: userID}
	}
	return service.Identity{SessionToken: GetSessionToken(c)}
}
