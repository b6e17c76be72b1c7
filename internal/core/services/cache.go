package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/ports/driving"
)

// DefaultCacheTTL is how long a cached answer batch stays valid.
const DefaultCacheTTL = time.Hour

// AnswerCache memoises answer batches per (document, questions) pair.
// Entries expire lazily on access. Safe for concurrent use.
type AnswerCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	hits    uint64
	misses  uint64
	now     func() time.Time
}

type cacheEntry struct {
	answers []string
	expires time.Time
}

// NewAnswerCache creates a cache with the given TTL. Zero means
// DefaultCacheTTL.
func NewAnswerCache(ttl time.Duration) *AnswerCache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &AnswerCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// CacheKey derives the lookup key for a request.
func CacheKey(documentURL string, questions []string) string {
	sum := sha256.Sum256([]byte(documentURL + "\x00" + strings.Join(questions, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached answers for the key, if present and unexpired.
func (c *AnswerCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.answers, true
}

// Put stores answers under the key.
func (c *AnswerCache) Put(key string, answers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		answers: answers,
		expires: c.now().Add(c.ttl),
	}
}

// Stats summarises cache usage.
func (c *AnswerCache) Stats() driving.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return driving.CacheStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
