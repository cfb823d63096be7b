package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	c := NewRedisCache(&CacheConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t)

	type payload struct {
		Title  string `json:"title"`
		IsDone bool   `json:"is_done"`
	}

	in := payload{Title: "Buy milk", IsDone: true}
	if err := c.Set("task:1", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out payload
	if err := c.Get("task:1", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if out != in {
		t.Errorf("Expected %+v, got %+v", in, out)
	}
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t)

	var out string
	if err := c.Get("missing", &out); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("task:1", "x", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete("task:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var out string
	if err := c.Get("task:1", &out); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestDeletePattern(t *testing.T) {
	c := newTestCache(t)

	keys := []string{"user_tasks:a:1", "user_tasks:a:2", "user_tasks:b:1"}
	for _, k := range keys {
		if err := c.Set(k, "x", time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	if err := c.DeletePattern("user_tasks:a:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	var out string
	if err := c.Get("user_tasks:a:1", &out); err != ErrCacheMiss {
		t.Error("Expected user_tasks:a:1 to be invalidated")
	}
	if err := c.Get("user_tasks:b:1", &out); err != nil {
		t.Errorf("Expected user_tasks:b:1 to survive, got %v", err)
	}
}

func TestNilCacheIsAlwaysMiss(t *testing.T) {
	var c *RedisCache

	if err := c.Set("k", "v", time.Minute); err != nil {
		t.Errorf("Set on nil cache should be a no-op, got %v", err)
	}

	var out string
	if err := c.Get("k", &out); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss on nil cache, got %v", err)
	}
}
