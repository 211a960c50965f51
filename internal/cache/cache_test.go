package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}

	// "b" is now least recently used and gets evicted.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[string](10, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should not be returned")
	}
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired = %d, want 1", n)
	}
}

func TestLRUDeletePrefix(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("user-1:dashboard", 1)
	c.Set("user-1:income", 2)
	c.Set("user-2:dashboard", 3)

	if n := c.DeletePrefix("user-1:"); n != 2 {
		t.Errorf("DeletePrefix = %d, want 2", n)
	}
	if _, ok := c.Get("user-2:dashboard"); !ok {
		t.Error("other user's entry should survive")
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
}
