package questiongen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// Cache memoizes generated questions by request content. Entries expire
// after the configured TTL and the least recently used entry is evicted
// once the size bound is reached.
type Cache struct {
	inner Generator
	lru   *expirable.LRU[string, *question.Question]
}

// NewCache wraps inner. A non-positive size or TTL falls back to the
// defaults.
func NewCache(inner Generator, cfg CacheConfig) *Cache {
	def := DefaultCacheConfig()
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &Cache{
		inner: inner,
		lru:   expirable.NewLRU[string, *question.Question](cfg.Size, nil, cfg.TTL),
	}
}

// Key is the SHA-256 of the request's canonical JSON.
func Key(input GenerateInput) string {
	// GenerateInput holds only strings and ints, so Marshal cannot fail.
	data, _ := json.Marshal(input)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Generate returns the cached question for an identical request, or asks
// the wrapped generator and caches its answer. Errors are not cached.
func (c *Cache) Generate(ctx context.Context, input GenerateInput) (*question.Question, error) {
	key := Key(input)
	if q, ok := c.lru.Get(key); ok {
		return q, nil
	}
	q, err := c.inner.Generate(ctx, input)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, q)
	return q, nil
}

// Len is the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}
