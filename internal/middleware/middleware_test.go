package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/logger"
)

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func testRateLimit() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := echo.New()
	e.Use(NewTokenBucket(testRateLimit(), rdb, logger.Discard()))
	e.GET("/v1/habits", okHandler)
	e.GET("/v1/users", okHandler)

	for i := 0; i < 2; i++ {
		if rec := serve(e, http.MethodGet, "/v1/habits"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}
	rec := serve(e, http.MethodGet, "/v1/habits")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", rec.Header().Get("X-RateLimit-Remaining"))
	}

	// a different route has its own bucket under ip_route
	if rec := serve(e, http.MethodGet, "/v1/users"); rec.Code != http.StatusOK {
		t.Errorf("other route: status = %d, want 200", rec.Code)
	}
}

func TestTokenBucketPassThrough(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		e := echo.New()
		e.Use(NewTokenBucket(testRateLimit(), nil, logger.Discard()))
		e.GET("/", okHandler)
		for i := 0; i < 5; i++ {
			if rec := serve(e, http.MethodGet, "/"); rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
		}
	})

	t.Run("redis down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = rdb.Close() })
		mr.Close()

		e := echo.New()
		e.Use(NewTokenBucket(testRateLimit(), rdb, logger.Discard()))
		e.GET("/", okHandler)
		if rec := serve(e, http.MethodGet, "/"); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 when redis is unreachable", rec.Code)
		}
	})
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/3", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/users/:id")

	cfg := testRateLimit()
	if got := buildRateKey(cfg, c); got != "rl:ip:10.0.0.1:route:GET /v1/users/:id" {
		t.Errorf("ip_route key = %q", got)
	}
	cfg.KeyStrategy = "ip"
	if got := buildRateKey(cfg, c); got != "rl:ip:10.0.0.1" {
		t.Errorf("ip key = %q", got)
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	e := echo.New()
	e.Use(RequestID(), RequestLogger(l))
	e.GET("/healthz", okHandler)

	rec := serve(e, http.MethodGet, "/healthz")
	id := rec.Header().Get(echo.HeaderXRequestID)
	if len(id) != 36 {
		t.Fatalf("X-Request-ID = %q, want a uuid", id)
	}
	out := buf.String()
	if !strings.Contains(out, "request_id="+id) || !strings.Contains(out, "status=200") {
		t.Errorf("access log = %q, want request id and status", out)
	}
}
