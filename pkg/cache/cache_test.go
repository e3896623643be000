package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/pkg/cache"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired entry returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, -1))
		time.Sleep(5 * time.Millisecond)

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("lru eviction at capacity", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithMaxEntries(2))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
		require.NoError(t, c.Set(ctx, "b", 2, time.Minute))

		// Touch "a" so "b" becomes the LRU entry.
		_, err := c.Get(ctx, "a")
		require.NoError(t, err)

		require.NoError(t, c.Set(ctx, "c", 3, time.Minute))

		_, err = c.Get(ctx, "b")
		assert.ErrorIs(t, err, cache.ErrNotFound)

		v, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("delete and has", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

		ok, err := c.Has(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, c.Delete(ctx, "k"))

		ok, err = c.Has(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("clear removes everything", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
		require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
		require.NoError(t, c.Clear(ctx))

		_, err := c.Get(ctx, "a")
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("closed cache rejects writes", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close()) // idempotent

		err := c.Set(ctx, "k", 1, time.Minute)
		assert.ErrorIs(t, err, cache.ErrClosed)
	})
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("computes on miss and caches", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		var calls atomic.Int32
		fn := func(ctx context.Context) (string, time.Duration, error) {
			calls.Add(1)
			return "computed", time.Minute, nil
		}

		v, err := cache.GetOrSet(ctx, c, "key-miss", fn)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)

		v, err = cache.GetOrSet(ctx, c, "key-miss", fn)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("error is not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		boom := errors.New("boom")
		_, err := cache.GetOrSet(ctx, c, "key-err", func(ctx context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		assert.ErrorIs(t, err, boom)

		ok, err := c.Has(ctx, "key-err")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryCounter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("increments within a window", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemoryCounter()

		n, err := c.Incr(ctx, "ip:1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = c.Incr(ctx, "ip:1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("window expiry resets the count", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemoryCounter()

		_, err := c.Incr(ctx, "ip:2", time.Millisecond)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		n, err := c.Incr(ctx, "ip:2", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("keys count independently", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemoryCounter()

		_, err := c.Incr(ctx, "a", time.Minute)
		require.NoError(t, err)

		n, err := c.Incr(ctx, "b", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("concurrent increments never lose counts", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemoryCounter()

		const goroutines = 50
		var wg sync.WaitGroup
		wg.Add(goroutines)
		for range goroutines {
			go func() {
				defer wg.Done()
				_, _ = c.Incr(ctx, "shared", time.Minute)
			}()
		}
		wg.Wait()

		n, err := c.Incr(ctx, "shared", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(goroutines+1), n)
	})
}
