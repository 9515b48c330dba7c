package cache_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/elkozlova/blogline/internal/cache"
)

func newRouter(pc *cache.PageCache) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)

	hits := 0
	r := gin.New()
	r.GET("/feed/", pc.Middleware(), func(c *gin.Context) {
		hits++
		c.String(http.StatusOK, "render %d for %s", hits, c.Query("page"))
	})
	r.POST("/feed/", pc.Middleware(), func(c *gin.Context) {
		hits++
		c.String(http.StatusOK, "post %d", hits)
	})
	return r, &hits
}

func do(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCachedResponseIsServedUntilCleared(t *testing.T) {
	pc := cache.New(time.Minute)
	r, hits := newRouter(pc)

	first := do(r, http.MethodGet, "/feed/")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, *hits)

	// Second request is served from the cache; the handler never runs.
	second := do(r, http.MethodGet, "/feed/")
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *hits)

	pc.Clear()

	third := do(r, http.MethodGet, "/feed/")
	assert.Equal(t, 2, *hits)
	assert.NotEqual(t, first.Body.String(), third.Body.String())
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	pc := cache.New(time.Minute)
	r, hits := newRouter(pc)

	do(r, http.MethodGet, "/feed/?page=1")
	do(r, http.MethodGet, "/feed/?page=2")
	assert.Equal(t, 2, *hits)

	do(r, http.MethodGet, "/feed/?page=1")
	do(r, http.MethodGet, "/feed/?page=2")
	assert.Equal(t, 2, *hits)
}

func TestCacheExpires(t *testing.T) {
	pc := cache.New(50 * time.Millisecond)
	r, hits := newRouter(pc)

	do(r, http.MethodGet, "/feed/")
	assert.Equal(t, 1, *hits)

	time.Sleep(80 * time.Millisecond)

	do(r, http.MethodGet, "/feed/")
	assert.Equal(t, 2, *hits)
}

func TestOnlyGetIsCached(t *testing.T) {
	pc := cache.New(time.Minute)
	r, hits := newRouter(pc)

	for i := 1; i <= 3; i++ {
		w := do(r, http.MethodPost, "/feed/")
		assert.Equal(t, fmt.Sprintf("post %d", i), w.Body.String())
	}
	assert.Equal(t, 3, *hits)
}
