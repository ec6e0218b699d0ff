package scrape

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ntdung/trendworker/helpers"
	apperr "ntdung/trendworker/pkg/errors"
)

// memoryCache implements cache.CacheService in memory for tests
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.items[key]
	if !ok {
		return nil, assert.AnError
	}
	return value, nil
}

func (c *memoryCache) Set(key string, value []byte, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func newTestAcquirer(t *testing.T) *Acquirer {
	t.Helper()
	a, err := New(DefaultPlatforms(), newMemoryCache(), 500*time.Second)
	require.NoError(t, err)
	return a
}

func TestAcquireStructuredFirst(t *testing.T) {
	a := newTestAcquirer(t)

	want := Product{Name: "Deal", Price: 199000, Platform: PlatformShopee, Source: StrategyStructured}
	a.structuredFn = func(ctx context.Context, cfg *PlatformConfig, id string) (Product, error) {
		assert.Equal(t, "2938171811", id)
		return want, nil
	}
	a.documentFn = func(ctx context.Context, cfg *PlatformConfig, url string) (Product, error) {
		t.Fatal("document strategy must not run when the structured one succeeded")
		return Product{}, nil
	}

	got, err := a.Acquire(context.Background(), "https://shopee.vn/x-i.1.2938171811", PlatformShopee, Options{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAcquireFallsBackToDocument(t *testing.T) {
	a := newTestAcquirer(t)

	a.structuredFn = func(ctx context.Context, cfg *PlatformConfig, id string) (Product, error) {
		return Product{}, apperr.NewUnsupported(string(cfg.Tag), string(StrategyStructured), "no structured endpoint for platform")
	}
	a.documentFn = func(ctx context.Context, cfg *PlatformConfig, url string) (Product, error) {
		return Product{Name: "Deal", Price: 99000, Platform: cfg.Tag, Source: StrategyDocument}, nil
	}

	// AllowSynthetic must not matter when a real strategy succeeds
	got, err := a.Acquire(context.Background(), "https://www.lazada.vn/products/x-i1912345678.html", PlatformLazada, Options{AllowSynthetic: true})
	require.NoError(t, err)
	assert.Equal(t, StrategyDocument, got.Source)
}

func TestAcquireSyntheticGating(t *testing.T) {
	failBoth := func(a *Acquirer) {
		a.structuredFn = func(ctx context.Context, cfg *PlatformConfig, id string) (Product, error) {
			return Product{}, apperr.NewTransport(string(cfg.Tag), string(StrategyStructured), "structured fetch failed", assert.AnError)
		}
		a.documentFn = func(ctx context.Context, cfg *PlatformConfig, url string) (Product, error) {
			return Product{}, apperr.NewUnparseable(string(cfg.Tag), string(StrategyDocument), "no usable name or price in document")
		}
	}

	t.Run("denied by default", func(t *testing.T) {
		a := newTestAcquirer(t)
		failBoth(a)

		_, err := a.Acquire(context.Background(), "https://shopee.vn/product/12345", PlatformShopee, Options{})
		require.Error(t, err)

		var acquireErr *apperr.AcquireError
		require.ErrorAs(t, err, &acquireErr)
		assert.Equal(t, "shopee", acquireErr.Platform)
		require.Len(t, acquireErr.Attempts, 2)
		assert.Equal(t, apperr.ReasonTransport, acquireErr.Attempts[0].Reason)
		assert.Equal(t, apperr.ReasonUnparseable, acquireErr.Attempts[1].Reason)
	})

	t.Run("served when opted in", func(t *testing.T) {
		a := newTestAcquirer(t)
		failBoth(a)

		got, err := a.Acquire(context.Background(), "https://shopee.vn/product/12345", PlatformShopee, Options{AllowSynthetic: true})
		require.NoError(t, err)
		assert.Equal(t, StrategySynthetic, got.Source)
		assert.True(t, got.Valid())
	})
}

func TestAcquireUnknownPlatform(t *testing.T) {
	a := newTestAcquirer(t)

	_, err := a.Acquire(context.Background(), "https://example.com/1", Platform("ebay"), Options{})
	require.Error(t, err)

	var acquireErr *apperr.AcquireError
	assert.False(t, errors.As(err, &acquireErr), "configuration errors are not acquisition exhaustion")
}

func TestAcquireNoIdentifierSkipsStructured(t *testing.T) {
	a := newTestAcquirer(t)

	structuredCalled := false
	a.structuredFn = func(ctx context.Context, cfg *PlatformConfig, id string) (Product, error) {
		structuredCalled = true
		return Product{}, nil
	}
	a.documentFn = func(ctx context.Context, cfg *PlatformConfig, url string) (Product, error) {
		return Product{}, apperr.NewUnparseable(string(cfg.Tag), string(StrategyDocument), "no usable name or price in document")
	}

	_, err := a.Acquire(context.Background(), "https://shopee.vn/mall", PlatformShopee, Options{})
	require.Error(t, err)
	assert.False(t, structuredCalled)

	var acquireErr *apperr.AcquireError
	require.ErrorAs(t, err, &acquireErr)
	require.Len(t, acquireErr.Attempts, 2)
	assert.Equal(t, apperr.ReasonUnsupported, acquireErr.Attempts[0].Reason)
	assert.Equal(t, "no product identifier in url", acquireErr.Attempts[0].Message)
}

func TestAcquireRateLimitBlocksPlatform(t *testing.T) {
	cacheSvc := newMemoryCache()
	a, err := New(DefaultPlatforms(), cacheSvc, 500*time.Second)
	require.NoError(t, err)

	a.structuredFn = func(ctx context.Context, cfg *PlatformConfig, id string) (Product, error) {
		return Product{}, apperr.NewUnsupported(string(cfg.Tag), string(StrategyStructured), "no structured endpoint for platform")
	}
	documentCalls := 0
	a.documentFn = func(ctx context.Context, cfg *PlatformConfig, url string) (Product, error) {
		documentCalls++
		return Product{}, apperr.NewTransport(string(cfg.Tag), string(StrategyDocument), "document fetch failed", helpers.ErrRateLimited)
	}

	// First call hits the document strategy and trips the block
	_, err = a.Acquire(context.Background(), "https://shopee.vn/product/1", PlatformShopee, Options{})
	require.Error(t, err)
	assert.Equal(t, 1, documentCalls)

	_, blocked := cacheSvc.items["shopee_rate_limited"]
	assert.True(t, blocked)

	// Second call skips the document strategy while the block holds
	_, err = a.Acquire(context.Background(), "https://shopee.vn/product/2", PlatformShopee, Options{})
	require.Error(t, err)
	assert.Equal(t, 1, documentCalls)

	var acquireErr *apperr.AcquireError
	require.ErrorAs(t, err, &acquireErr)
	assert.Equal(t, "platform blocked after rate limiting", acquireErr.Attempts[1].Message)
}

func TestLocate(t *testing.T) {
	a := newTestAcquirer(t)

	id, ok := a.Locate("https://tiki.vn/noi-chien-p104303121.html", PlatformTiki)
	assert.True(t, ok)
	assert.Equal(t, "104303121", id)

	_, ok = a.Locate("https://tiki.vn/noi-chien-p104303121.html", Platform("ebay"))
	assert.False(t, ok)
}
