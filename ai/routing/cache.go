package routing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hrygo/careerbot/ai/cache"
)

// DefaultCacheTTL bounds how long a cached detection is reused.
const DefaultCacheTTL = 10 * time.Minute

// DetectionCache memoizes classification results by normalized message text.
// Cached detections are shared between callers and must not be modified.
type DetectionCache struct {
	lru    *cache.LRUCache[string, *Detection]
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
	Size     int     `json:"size"`
	Capacity int     `json:"capacity"`
}

// NewDetectionCache creates a cache of at most capacity detections.
func NewDetectionCache(capacity int, ttl time.Duration) *DetectionCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &DetectionCache{lru: cache.NewLRUCache[string, *Detection](capacity, ttl)}
}

// Get returns the cached detection for text.
func (c *DetectionCache) Get(text string) (*Detection, bool) {
	d, ok := c.lru.Get(cacheKey(text))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return d, ok
}

// Set stores d as the detection for text.
func (c *DetectionCache) Set(text string, d *Detection) {
	c.lru.Set(cacheKey(text), d, 0)
}

// Clear drops every entry and resets the counters.
func (c *DetectionCache) Clear() {
	c.lru.Clear()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns the current counters.
func (c *DetectionCache) Stats() CacheStats {
	hits, misses := c.hits.Load(), c.misses.Load()
	rate := 0.0
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{
		Hits:     hits,
		Misses:   misses,
		HitRate:  rate,
		Size:     c.lru.Size(),
		Capacity: c.lru.Capacity(),
	}
}

// cacheKey folds case, which matching ignores, and hashes so long messages
// do not bloat the key set.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(text)))
	return hex.EncodeToString(sum[:16])
}
