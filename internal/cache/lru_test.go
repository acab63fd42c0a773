package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestLRUCache_GetSetExpiry(t *testing.T) {
	clk := &clock{t: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](10, time.Minute).WithClock(clk.now)

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}

	clk.advance(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should have expired")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry should be dropped on read, size = %d", c.Size())
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits %d misses", hits, misses)
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestLRUCache_AddAndPerEntryTTL(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	c := NewLRUCache[bool](10, time.Hour).WithClock(clk.now)

	if !c.Add("m1", true) {
		t.Fatal("first Add should store")
	}
	if c.Add("m1", true) {
		t.Error("second Add should report a duplicate")
	}

	c.SetWithTTL("short", true, time.Second)
	clk.advance(2 * time.Second)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if _, ok := c.Get("m1"); !ok {
		t.Error("m1 uses the default ttl and should survive")
	}

	c.Delete("m1")
	if c.Size() != 0 {
		t.Errorf("size after delete = %d", c.Size())
	}
}

func TestManager_CleanAll(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	a := NewLRUCache[int](10, time.Second).WithClock(clk.now)
	b := NewLRUCache[int](10, time.Second).WithClock(clk.now)
	a.Set("x", 1)
	b.Set("y", 2)
	b.SetWithTTL("z", 3, time.Hour)

	m := NewManager(nil)
	m.Register(a)
	m.Register(b)

	clk.advance(time.Minute)
	if n := m.CleanAll(); n != 2 {
		t.Errorf("CleanAll() = %d, want 2", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { m.Run(ctx, time.Millisecond); close(done) }()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
