package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = append([]byte(nil), value...)
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if strings.HasPrefix(key, strings.TrimSuffix(pattern, "*")) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func TestCacheKey(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "/api/parking-lots/search?vehicleType=car&maxPrice=10", nil)
	b := httptest.NewRequest(http.MethodGet, "/api/parking-lots/search?maxPrice=10&vehicleType=car", nil)
	c := httptest.NewRequest(http.MethodGet, "/api/parking-lots/search?maxPrice=20", nil)

	assert.Equal(t, CacheKey(a), CacheKey(b))
	assert.NotEqual(t, CacheKey(a), CacheKey(c))
	assert.True(t, strings.HasPrefix(CacheKey(a), "http:cache:/api/parking-lots/search:"))
}

func TestCacheMiddleware(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"lot"}]`))
	})
	handler := NewCacheMiddleware(cache, nil).Middleware(next)

	serve := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	first := serve(http.MethodGet, "/api/parking-lots")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(http.MethodGet, "/api/parking-lots")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, `[{"id":"lot"}]`, second.Body.String())
	assert.Equal(t, 1, calls)

	// Dropping the prefix pattern forces a fresh response
	require.NoError(t, cache.DeletePattern(context.Background(), "http:cache:/api/parking-lots*"))
	assert.Equal(t, "MISS", serve(http.MethodGet, "/api/parking-lots").Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	// Uncached routes and writes go straight through
	serve(http.MethodGet, "/api/community-updates")
	serve(http.MethodPost, "/api/parking-lots")
	assert.Equal(t, 4, calls)
	assert.Len(t, cache.data, 1)
}

func TestCacheMiddleware_SkipsErrors(t *testing.T) {
	cache := newMemoryCache()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})
	handler := NewCacheMiddleware(cache, nil).Middleware(next)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/rewards", nil))
	assert.Empty(t, cache.data)
}
