package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tasktracker/internal/config"
	"tasktracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func setupRateLimitedRouter(burst int, clientTTL time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)

	rl := middleware.NewRateLimiter(config.RateLimitConfig{
		RequestsPerMin: 60,
		BurstSize:      burst,
		ClientTTL:      clientTTL,
	})

	router := gin.New()
	router.POST("/users", rl.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return router
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	router := setupRateLimitedRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("POST", "/users", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Request %d: expected status %d, got %d", i, http.StatusCreated, w.Code)
		}
	}
}

func TestRateLimiterRejectsBeyondBurst(t *testing.T) {
	router := setupRateLimitedRouter(2, time.Minute)

	var last int
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("POST", "/users", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		last = w.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("Expected status %d after exceeding burst, got %d", http.StatusTooManyRequests, last)
	}
}

func TestRateLimiterRecoversAfterClientTTL(t *testing.T) {
	router := setupRateLimitedRouter(1, 50*time.Millisecond)

	post := func() int {
		req, _ := http.NewRequest("POST", "/users", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(); code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d", http.StatusCreated, code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("Expected status %d for exhausted burst, got %d", http.StatusTooManyRequests, code)
	}

	// Once the client entry expires it is purged, so the next request
	// starts with a fresh bucket.
	time.Sleep(80 * time.Millisecond)
	if code := post(); code != http.StatusCreated {
		t.Errorf("Expected status %d after TTL expiry, got %d", http.StatusCreated, code)
	}
}
