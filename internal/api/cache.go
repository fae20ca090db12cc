package api

import (
	"coffee_platform/internal/db"    // Pagination
	"coffee_platform/internal/utils" // Cache helpers
	"context"                        // Request context
	"fmt"                            // Key formatting
	"net/http"                       // HTTP status codes
	"time"                           // TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for cache failures
	"gorm.io/gorm"                 // GORM ORM library
)

// Cached listing namespaces
const (
	nsUsers       = "admin:users"
	nsShops       = "admin:shops"
	nsProducts    = "admin:products"
	nsPartners    = "admin:partners"
	nsSubscribers = "admin:subscribers"
)

// ListCache keeps admin listings in Redis until the next write to the same namespace
type ListCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewListCache returns a cache; a nil client or a non-positive ttl disables it
func NewListCache(rdb redis.Cmdable, ttl time.Duration) *ListCache {
	return &ListCache{rdb: rdb, ttl: ttl}
}

func (lc *ListCache) enabled() bool {
	return lc != nil && lc.rdb != nil && lc.ttl > 0
}

func (lc *ListCache) key(ctx context.Context, ns, suffix string) (string, bool) {
	prefix, err := utils.CacheNamespace(ctx, lc.rdb, ns)
	if err != nil {
		logrus.WithField("namespace", ns).WithError(err).Warn("Cache namespace lookup failed")
		return "", false
	}
	return prefix + ":" + suffix, true
}

// Get loads a cached value into dest
func (lc *ListCache) Get(ctx context.Context, ns, suffix string, dest any) bool {
	if !lc.enabled() {
		return false
	}
	key, ok := lc.key(ctx, ns, suffix)
	if !ok {
		return false
	}
	found, err := utils.GetCache(ctx, lc.rdb, key, dest)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("Cache read failed")
		return false
	}
	return found
}

// Set stores value under the namespace's current generation
func (lc *ListCache) Set(ctx context.Context, ns, suffix string, value any) {
	if !lc.enabled() {
		return
	}
	key, ok := lc.key(ctx, ns, suffix)
	if !ok {
		return
	}
	if err := utils.SetCache(ctx, lc.rdb, key, value, lc.ttl); err != nil {
		logrus.WithField("key", key).WithError(err).Warn("Cache write failed")
	}
}

// Invalidate drops every cached listing of the given namespaces
func (lc *ListCache) Invalidate(ctx context.Context, namespaces ...string) {
	if !lc.enabled() {
		return
	}
	for _, ns := range namespaces {
		if err := utils.BumpCacheNamespace(ctx, lc.rdb, ns); err != nil {
			logrus.WithField("namespace", ns).WithError(err).Warn("Cache invalidation failed")
		}
	}
}

// listPage answers a paginated listing of base, serving it from cache when possible
func listPage[T any](c *gin.Context, cache *ListCache, ns, scope string, base *gorm.DB, preloads ...string) {
	ctx := c.Request.Context()
	req := db.NewPageRequest(c.Query("page"), c.Query("limit"))
	suffix := fmt.Sprintf("%s:page=%d:limit=%d", scope, req.Page, req.Limit)

	var cached db.Page[T]
	if cache.Get(ctx, ns, suffix, &cached) {
		logrus.WithFields(logrus.Fields{"namespace": ns, "key": suffix}).Debug("Listing served from cache")
		respond(c, http.StatusOK, MsgOK, gin.H{"data": cached})
		return
	}
	page, err := db.Paginate[T](ctx, base, req, preloads...)
	if err != nil {
		respondError(c, err)
		return
	}
	cache.Set(ctx, ns, suffix, page)
	respond(c, http.StatusOK, MsgOK, gin.H{"data": page})
}
