package middlewares_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/internal"
	"github.com/dmitrymomot/relay/middlewares"
	"github.com/dmitrymomot/relay/pkg/cache"
)

func TestRateLimit(t *testing.T) {
	t.Parallel()

	t.Run("allows requests under the limit", func(t *testing.T) {
		t.Parallel()

		h := middlewares.RateLimit(cache.NewMemoryCounter(), 3, time.Minute)(okHandler(nil))

		for range 3 {
			resp, err := h(newTestContext(nil))
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		}
	})

	t.Run("rejects requests over the limit", func(t *testing.T) {
		t.Parallel()

		var handlerCalls int
		h := middlewares.RateLimit(cache.NewMemoryCounter(), 2, time.Minute)(func(c internal.Context) (*internal.Response, error) {
			handlerCalls++
			return internal.NewResponse(200, nil), nil
		})

		for range 2 {
			_, err := h(newTestContext(nil))
			require.NoError(t, err)
		}

		_, err := h(newTestContext(nil))
		require.Error(t, err)

		httpErr := internal.AsHTTPError(err)
		require.NotNil(t, httpErr)
		assert.Equal(t, 429, httpErr.Code)
		assert.Equal(t, 2, handlerCalls, "handler must not run for rejected requests")
	})

	t.Run("sets rate limit headers", func(t *testing.T) {
		t.Parallel()

		h := middlewares.RateLimit(cache.NewMemoryCounter(), 10, time.Minute)(okHandler(nil))

		resp, err := h(newTestContext(nil))
		require.NoError(t, err)
		assert.Equal(t, "10", resp.Headers["X-RateLimit-Limit"])
		assert.Equal(t, "9", resp.Headers["X-RateLimit-Remaining"])
	})

	t.Run("buckets by key", func(t *testing.T) {
		t.Parallel()

		byIP := func(ip string) *testContext {
			return newTestContext(&internal.Request{
				Method:  "GET",
				Path:    "/",
				Headers: map[string]string{"X-Forwarded-For": ip},
			})
		}

		h := middlewares.RateLimit(cache.NewMemoryCounter(), 1, time.Minute)(okHandler(nil))

		_, err := h(byIP("10.0.0.1"))
		require.NoError(t, err)

		// Second request from the same IP is limited.
		_, err = h(byIP("10.0.0.1"))
		require.Error(t, err)

		// Another IP still passes.
		_, err = h(byIP("10.0.0.2"))
		require.NoError(t, err)
	})

	t.Run("custom key function", func(t *testing.T) {
		t.Parallel()

		h := middlewares.RateLimit(cache.NewMemoryCounter(), 1, time.Minute,
			middlewares.WithRateLimitKey(func(c internal.Context) string {
				return c.Header("X-API-Key")
			}),
		)(okHandler(nil))

		withKey := func(key string) *testContext {
			return newTestContext(&internal.Request{
				Method:  "GET",
				Path:    "/",
				Headers: map[string]string{"X-API-Key": key},
			})
		}

		_, err := h(withKey("a"))
		require.NoError(t, err)
		_, err = h(withKey("a"))
		require.Error(t, err)
		_, err = h(withKey("b"))
		require.NoError(t, err)
	})
}
