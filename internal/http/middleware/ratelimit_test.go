package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limited(rl *RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(pre...)
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_BurstThen429(t *testing.T) {
	r := limited(NewRateLimiter(0.001, 2, nil), RequestID())

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":"rate_limited"`)
	assert.Contains(t, w.Body.String(), w.Header().Get(requestIDHeader))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	r := limited(NewRateLimiter(0.001, 1, KeyByIP()))

	a := httptest.NewRequest(http.MethodGet, "/", nil)
	a.RemoteAddr = "10.0.0.1:1234"
	b := httptest.NewRequest(http.MethodGet, "/", nil)
	b.RemoteAddr = "10.0.0.2:1234"

	assert.Equal(t, http.StatusOK, serve(r, a).Code)
	assert.Equal(t, http.StatusOK, serve(r, b).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, a).Code)
}

func TestRateLimiter_ReplayBypasses(t *testing.T) {
	bypass := func(c *gin.Context) { c.Set(ctxKeyRateBypass, true) }
	r := limited(NewRateLimiter(0.001, 1, nil), bypass)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	rl.limiter("stale")
	rl.visitors["stale"].lastSeen = time.Now().Add(-2 * visitorTTL)
	rl.lookups = gcEveryLookups - 1

	rl.limiter("fresh")
	_, ok := rl.visitors["stale"]
	assert.False(t, ok)
	assert.Contains(t, rl.visitors, "fresh")
	assert.Zero(t, rl.lookups)
}

func TestNewRateLimiter_CoercesBurst(t *testing.T) {
	assert.Equal(t, 1, NewRateLimiter(1, 0, nil).burst)
}
