package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func rateLimitFixture(t *testing.T, requestsPerWindow int) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	middleware := RateLimitMiddleware(redisClient, RateLimitConfig{
		RequestsPerWindow: requestsPerWindow,
		Window:            time.Second,
		KeyPrefix:         "test_rate_limit",
	}, zap.NewNop())

	return middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), mr
}

// Feature: inventory-platform, Property 59: Rate limiting blocks excessive requests
func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests over the window limit are rejected with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			handler, _ := rateLimitFixture(t, requestsPerWindow)

			var allowed, blocked int
			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				req := httptest.NewRequest("GET", "/test", nil)
				req.RemoteAddr = "10.0.0.1:1234"
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					allowed++
				case http.StatusTooManyRequests:
					blocked++
				default:
					t.Logf("FAIL: unexpected status %d", w.Code)
					return false
				}
			}

			return allowed == requestsPerWindow && blocked == excessRequests
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_KeyedByOwnerWhenAuthenticated(t *testing.T) {
	handler, _ := rateLimitFixture(t, 1)

	ownerA := uuid.New()
	ownerB := uuid.New()

	send := func(ownerID uuid.UUID) int {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(context.WithValue(req.Context(), OwnerIDKey, ownerID))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	// Each owner gets their own window even from the same address.
	if code := send(ownerA); code != http.StatusOK {
		t.Errorf("first request for owner A rejected: %d", code)
	}
	if code := send(ownerB); code != http.StatusOK {
		t.Errorf("first request for owner B rejected: %d", code)
	}
	if code := send(ownerA); code != http.StatusTooManyRequests {
		t.Errorf("second request for owner A should be limited, got %d", code)
	}
}

func TestRateLimit_HeadersExposeRemaining(t *testing.T) {
	handler, _ := rateLimitFixture(t, 3)

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-RateLimit-Limit"); got != "3" {
		t.Errorf("expected limit header 3, got %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "2" {
		t.Errorf("expected remaining header 2, got %q", got)
	}
}

func TestRateLimit_WindowResets(t *testing.T) {
	handler, mr := rateLimitFixture(t, 1)

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.3:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request rejected: %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited: %d", w.Code)
	}

	// Advance past the window; the counter expires and requests flow again.
	mr.FastForward(2 * time.Second)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("request after window reset rejected: %d", w.Code)
	}
}
