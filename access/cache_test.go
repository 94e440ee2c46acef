package access

import (
	"context"
	"testing"
	"time"
)

// TestCache_HitAndExpiry drives the clock forward instead of sleeping.
func TestCache_HitAndExpiry(t *testing.T) {
	clock := time.Now()
	c := NewCache(60 * time.Second)
	c.now = func() time.Time { return clock }

	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss on empty cache")
	}

	c.Set("k", StateSubscriber)
	if state, ok := c.Get("k"); !ok || state != StateSubscriber {
		t.Errorf("Expected fresh hit, got (%s, %v)", state, ok)
	}

	clock = clock.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Error("Expected hit just inside the TTL")
	}

	clock = clock.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after the TTL elapsed")
	}
}

// TestCache_ZeroTTLNeverExpires verifies TTL 0 disables expiry.
func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	clock := time.Now()
	c := NewCache(0)
	c.now = func() time.Time { return clock }

	c.Set("k", StateFreeEligible)
	clock = clock.Add(24 * time.Hour)
	if state, ok := c.Get("k"); !ok || state != StateFreeEligible {
		t.Errorf("Expected entry to survive with TTL 0, got (%s, %v)", state, ok)
	}
}

// TestCache_Invalidate verifies an invalidated key misses immediately.
func TestCache_Invalidate(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("k", StatePaywallBlocked)
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after Invalidate")
	}
}

// TestInMemoryPreviewStore covers the boolean contract: unset keys read
// false, Set persists, Clear resets.
func TestInMemoryPreviewStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryPreviewStore()
	key := PreviewKey("user-1")

	used, err := s.Get(ctx, key)
	if err != nil || used {
		t.Errorf("Expected unset key to read false, got (%v, %v)", used, err)
	}

	if err := s.Set(ctx, key, true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if used, _ := s.Get(ctx, key); !used {
		t.Error("Expected flag true after Set")
	}

	if err := s.Clear(ctx, key); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if used, _ := s.Get(ctx, key); used {
		t.Error("Expected flag false after Clear")
	}
}
