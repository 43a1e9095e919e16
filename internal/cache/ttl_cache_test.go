package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ttl := 5 * time.Minute
	c := New[string, int](ttl)

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.ttl != ttl {
		t.Errorf("TTL mismatch: got %v, want %v", c.ttl, ttl)
	}
	if c.data == nil {
		t.Error("data map not initialized")
	}
}

func TestSetAndGet(t *testing.T) {
	c := New[string, int](1 * time.Minute)

	c.Set("key1", 42)

	value, ok := c.Get("key1")
	if !ok {
		t.Fatal("Get returned ok=false for existing key")
	}
	if value != 42 {
		t.Errorf("Get returned wrong value: got %d, want 42", value)
	}

	_, ok = c.Get("nonexistent")
	if ok {
		t.Error("Get returned ok=true for non-existent key")
	}
}

func TestGetExpired(t *testing.T) {
	c := New[string, int](50 * time.Millisecond)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("key1", 42)

	value, ok := c.Get("key1")
	if !ok || value != 42 {
		t.Fatal("initial Get failed")
	}

	// Advance past the TTL; the entry must report a miss and be evicted.
	c.now = func() time.Time { return now.Add(60 * time.Millisecond) }
	_, ok = c.Get("key1")
	if ok {
		t.Error("Get returned ok=true for expired entry")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted: Len = %d", c.Len())
	}
}

func TestPerEntryExpiry(t *testing.T) {
	c := New[string, int](100 * time.Millisecond)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("old", 1)

	c.now = func() time.Time { return now.Add(80 * time.Millisecond) }
	c.Set("fresh", 2)

	// 120ms after "old" was stored, only "fresh" should survive.
	c.now = func() time.Time { return now.Add(120 * time.Millisecond) }
	if _, ok := c.Get("old"); ok {
		t.Error("old entry should have expired")
	}
	if v, ok := c.Get("fresh"); !ok || v != 2 {
		t.Errorf("fresh entry lost: got %d, ok=%v", v, ok)
	}
}

func TestSetRefreshesEntry(t *testing.T) {
	c := New[string, int](100 * time.Millisecond)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("key", 1)

	c.now = func() time.Time { return now.Add(90 * time.Millisecond) }
	c.Set("key", 2)

	c.now = func() time.Time { return now.Add(150 * time.Millisecond) }
	v, ok := c.Get("key")
	if !ok {
		t.Fatal("refreshed entry expired too early")
	}
	if v != 2 {
		t.Errorf("got %d, want 2", v)
	}
}

func TestInvalidate(t *testing.T) {
	c := New[string, int](1 * time.Minute)

	c.Set("key1", 1)
	c.Set("key2", 2)
	c.Invalidate()

	if c.Len() != 0 {
		t.Errorf("Len after Invalidate = %d, want 0", c.Len())
	}
	if _, ok := c.Get("key1"); ok {
		t.Error("Get returned ok=true after Invalidate")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int, string](1 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(n, fmt.Sprintf("value-%d-%d", n, j))
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get(n)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("Len = %d, want 10", c.Len())
	}
}

func TestStructValues(t *testing.T) {
	type result struct {
		Ref  string
		Text string
	}
	c := New[string, result](1 * time.Minute)

	want := result{Ref: "J 3:16", Text: "Tak bowiem..."}
	c.Set("k", want)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get returned ok=false")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
