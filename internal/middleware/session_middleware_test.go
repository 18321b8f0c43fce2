package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/kidsshop-backend/config"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "kids_session"

func newTestSessions() *SessionMiddleware {
	return NewSessionMiddleware(config.SessionConfig{
		CookieName: testCookieName,
		TTL:        time.Hour,
	})
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	return nil
}

func TestSessionMiddleware_Extract(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"none", "", "", ""},
		{"cookie", "from-cookie", "", "from-cookie"},
		{"header", "", "from-header", "from-header"},
		{"cookie wins", "from-cookie", "from-header", "from-cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(newTestSessions().Extract())

			var got string
			router.GET("/test", func(c *gin.Context) {
				got = GetSessionToken(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(SessionTokenHeader, tt.header)
			}
			router.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionMiddleware_Issue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := newTestSessions()

	t.Run("new token sets cookie and header", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		sessions.Issue(c, "fresh")

		assert.Equal(t, "fresh", w.Header().Get(SessionTokenHeader))
		assert.Equal(t, "fresh", GetSessionToken(c))

		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.Equal(t, "fresh", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	})

	t.Run("known token is not re-issued", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set(SessionTokenKey, "held")

		sessions.Issue(c, "held")

		assert.Empty(t, w.Header().Get(SessionTokenHeader))
		assert.Nil(t, sessionCookie(w))
	})
}

func TestSessionMiddleware_Clear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	newTestSessions().Clear(c)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestGetIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, service.Identity{}, GetIdentity(c))

	c.Set(SessionTokenKey, "guest")
	assert.Equal(t, service.Identity{SessionToken: "guest"}, GetIdentity(c))

	// An authenticated user takes precedence over the session.
	c.Set(UserIDKey, uint(9))
	assert.Equal(t, service.Identity{UserID: 9}, GetIdentity(c))
}
