// Package cache provides a full-page cache for GET routes. Cached
// entries expire on their own after the TTL; nothing invalidates them
// on writes, so readers may see output up to TTL old. Clear wipes the
// whole store for operators and tests that need fresh data.
package cache

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL matches the feed page's expiry window.
const DefaultTTL = 20 * time.Second

type cachedPage struct {
	status      int
	contentType string
	body        []byte
}

// PageCache stores rendered responses keyed by path + raw query.
type PageCache struct {
	store *gocache.Cache
}

func New(ttl time.Duration) *PageCache {
	return &PageCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Clear drops every cached page.
func (pc *PageCache) Clear() {
	pc.store.Flush()
}

func key(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}

// Middleware serves a stored copy of the wrapped route when one is
// fresh, and stores successful GET responses otherwise.
func (pc *PageCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		k := key(c.Request)
		if hit, ok := pc.store.Get(k); ok {
			page := hit.(cachedPage)
			c.Data(page.status, page.contentType, page.body)
			c.Abort()
			return
		}

		rec := &recorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() == http.StatusOK {
			pc.store.SetDefault(k, cachedPage{
				status:      rec.Status(),
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.body,
			})
		}
	}
}

// recorder duplicates the response body while it is written out.
type recorder struct {
	gin.ResponseWriter
	body []byte
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body = append(r.body, b...)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) WriteString(s string) (int, error) {
	r.body = append(r.body, s...)
	return r.ResponseWriter.WriteString(s)
}
