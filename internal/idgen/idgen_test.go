package idgen

import (
	"testing"
	"time"
)

func TestNext_SameMillisecond(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	g := New(func() time.Time { return fixed })

	seen := make(map[int64]bool)
	prev := int64(0)
	for i := 0; i < 100; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("Next() returned duplicate id %d", id)
		}
		if id <= prev {
			t.Fatalf("Next() = %d, want > %d", id, prev)
		}
		seen[id] = true
		prev = id
	}
	if first := fixed.UnixMilli(); !seen[first] {
		t.Errorf("first id should equal the clock reading %d", first)
	}
}

func TestNext_FollowsClock(t *testing.T) {
	now := time.UnixMilli(1000)
	g := New(func() time.Time { return now })

	if got := g.Next(); got != 1000 {
		t.Errorf("Next() = %d, want 1000", got)
	}
	now = time.UnixMilli(5000)
	if got := g.Next(); got != 5000 {
		t.Errorf("Next() = %d, want 5000", got)
	}
}

func TestObserve(t *testing.T) {
	g := New(func() time.Time { return time.UnixMilli(10) })
	g.Observe(500)
	g.Observe(20)

	if got := g.Next(); got != 501 {
		t.Errorf("Next() after Observe(500) = %d, want 501", got)
	}
}

func TestNew_NilClock(t *testing.T) {
	g := New(nil)
	before := time.Now().UnixMilli()
	if got := g.Next(); got < before {
		t.Errorf("Next() = %d, want >= %d", got, before)
	}
}
