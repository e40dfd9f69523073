package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/farms/:farmId/x", ok)
	r.POST("/farms/:farmId/x", ok)
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestWriteRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := DefaultRateLimitConfig()
	cfg.WritesPerMinute = 2
	setFarm := func(c *gin.Context) { c.Set(farmIDKey, uint64(7)); c.Next() }
	r := newRouter(setFarm, WriteRateLimit(client, cfg))

	t.Run("leituras não contam", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/farms/7/x").Code)
		}
	})

	t.Run("bloqueia escrita acima do limite", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/farms/7/x")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/farms/7/x").Code)

		w = serve(r, http.MethodPost, "/farms/7/x")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("sem redis libera tudo", func(t *testing.T) {
		open := newRouter(WriteRateLimit(nil, cfg))
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, serve(open, http.MethodPost, "/farms/7/x").Code)
		}
	})
}

func TestCacheControl(t *testing.T) {
	r := newRouter(CacheControl(time.Minute))
	assert.Equal(t, "private, max-age=60", serve(r, http.MethodGet, "/farms/1/x").Header().Get("Cache-Control"))
	assert.Equal(t, "no-store", serve(r, http.MethodPost, "/farms/1/x").Header().Get("Cache-Control"))

	off := newRouter(CacheControl(0))
	assert.Equal(t, "no-store", serve(off, http.MethodGet, "/farms/1/x").Header().Get("Cache-Control"))
}

func TestGetFarmID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Zero(t, GetFarmID(c))
	c.Set(farmIDKey, uint64(42))
	assert.Equal(t, uint64(42), GetFarmID(c))
}
