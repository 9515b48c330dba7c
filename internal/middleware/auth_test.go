package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkozlova/blogline/internal/middleware"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.Authenticate())
	r.GET("/whoami/", func(c *gin.Context) {
		id, ok := middleware.CurrentUserID(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		name, _ := middleware.CurrentUsername(c)
		c.String(http.StatusOK, "%d:%s", id, name)
	})
	r.GET("/private/", middleware.LoginRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})
	return r
}

func TestAuthenticateResolvesSessionCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newRouter()

	token, err := middleware.IssueToken(42, "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, "42:alice", w.Body.String())
}

func TestAuthenticateIgnoresBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "not-a-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, "anonymous", w.Body.String())
}

func TestAuthenticateRejectsForgedSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "other-secret")
	forged, err := middleware.IssueToken(42, "alice")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "test-secret")
	r := newRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: forged})
	r.ServeHTTP(w, req)

	assert.Equal(t, "anonymous", w.Body.String())
}

func TestLoginRequiredRedirectsWithReturnPath(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/private/", w.Header().Get("Location"))
}
