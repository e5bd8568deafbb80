package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	internallog "github.com/cozinhecomigo/recipes/backend/internal/logger"
	"github.com/cozinhecomigo/recipes/backend/internal/metrics"
	"github.com/cozinhecomigo/recipes/backend/internal/types"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.POST("/write", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func post(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterLocalFallback(t *testing.T) {
	rl := NewWriteRateLimiter(nil, time.Minute, 3, internallog.Discard())
	router := limitedRouter(rl)
	rejections := metrics.RateLimitRejections.WithLabelValues("rate_limit:write")
	before := testutil.ToFloat64(rejections)

	for i := 0; i < 3; i++ {
		w := post(router, "10.0.0.1")
		require.Equal(t, http.StatusCreated, w.Code, "request %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	w := post(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var body types.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, types.StatusRateLimited, body.StatusCode)
	assert.Equal(t, before+1, testutil.ToFloat64(rejections))

	// Other clients have their own budget.
	assert.Equal(t, http.StatusCreated, post(router, "10.0.0.2").Code)
}

func TestRateLimiterFallsBackWhenRedisFails(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rl := NewWriteRateLimiter(client, time.Minute, 1, internallog.Discard())
	fallbacks := metrics.RateLimitFallbacks.WithLabelValues("rate_limit:write")
	before := testutil.ToFloat64(fallbacks)

	router := limitedRouter(rl)
	assert.Equal(t, http.StatusCreated, post(router, "10.0.0.9").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "10.0.0.9").Code)
	assert.Equal(t, before+2, testutil.ToFloat64(fallbacks))
}

func TestRateLimiterDisabled(t *testing.T) {
	router := limitedRouter(NewWriteRateLimiter(nil, time.Minute, 0, internallog.Discard()))
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusCreated, post(router, "10.0.0.1").Code)
	}
}

func TestRateLimiterSweepsStaleEntries(t *testing.T) {
	rl := NewWriteRateLimiter(nil, time.Minute, 5, internallog.Discard())
	start := time.Now()
	rl.allowLocal("old", start)
	rl.allowLocal("fresh", start.Add(2*time.Minute))

	rl.mu.Lock()
	rl.sweep(start.Add(2 * time.Minute))
	_, oldKept := rl.local["old"]
	_, freshKept := rl.local["fresh"]
	rl.mu.Unlock()

	assert.False(t, oldKept)
	assert.True(t, freshKept)
}

func TestRateLimiterRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewWriteRateLimiter(client, time.Hour, 2, internallog.Discard())

	allowed, remaining, reset, err := rl.IsAllowed(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.True(t, reset.After(time.Now()))

	router := limitedRouter(rl)
	assert.Equal(t, http.StatusCreated, post(router, "10.0.0.9").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "10.0.0.9").Code)

	keys, err := client.Keys(ctx, "rate_limit:write:10.0.0.9:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
