package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be present")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %d, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[int, string](10, time.Minute).WithClock(func() time.Time { return now })
	c.Set(1, "one")
	c.Set(2, "two")

	now = now.Add(30 * time.Second)
	c.Set(2, "two again")

	now = now.Add(45 * time.Second)
	if _, ok := c.Get(1); ok {
		t.Error("entry 1 should have expired")
	}
	if removed := c.CleanExpired(); removed != 0 {
		t.Errorf("CleanExpired removed %d, want 0", removed)
	}

	now = now.Add(time.Minute)
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired removed %d, want 1", removed)
	}
}

func TestLRUStats(t *testing.T) {
	c := NewLRUCache[string, int](4, time.Minute)
	c.Set("x", 1)
	c.Get("x")
	c.Get("y")
	c.Delete("x")
	c.Get("x")

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 2 || s.Size != 0 {
		t.Errorf("stats = %+v", s)
	}

	c.Set("z", 1)
	c.Purge()
	if c.Size() != 0 {
		t.Error("purge left entries behind")
	}
}
