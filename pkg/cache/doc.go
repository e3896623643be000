// Package cache provides a generic Cache interface with in-memory and
// Redis backends, plus a fixed-window Counter used by the rate limiting
// middleware.
//
// Both backends implement the same [Cache] interface, so applications
// can run in-memory in development and Redis in production:
//
//	c := cache.NewMemory[User](cache.WithDefaultTTL(5 * time.Minute))
//	defer c.Close()
//
//	c.Set(ctx, "user:42", u, 0)        // default TTL
//	u, err := c.Get(ctx, "user:42")
//
// TTL semantics for Set: positive expires after the duration, zero uses
// the configured default, negative never expires.
//
// [GetOrSet] computes a value on miss, collapsing concurrent misses for
// the same key through singleflight:
//
//	u, err := cache.GetOrSet(ctx, c, "user:42", func(ctx context.Context) (User, time.Duration, error) {
//	    u, err := repo.Find(ctx, 42)
//	    return u, 5 * time.Minute, err
//	})
//
// [Counter] is the primitive behind fixed-window rate limiting:
// [NewMemoryCounter] for a single process, [NewRedisCounter] when limits
// must hold across replicas.
package cache
