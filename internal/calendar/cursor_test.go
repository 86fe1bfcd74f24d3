package calendar

import (
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/dates"
)

func TestYearCursor(t *testing.T) {
	c := NewYearCursor(dates.FixedClock(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)))

	if c.Year() != 2026 || !c.IsCurrentYear() {
		t.Fatalf("new cursor = %d, want current year 2026", c.Year())
	}
	if c.CanNext() || c.Next() {
		t.Error("Next() should be blocked at the current year")
	}

	c.Prev()
	c.Prev()
	if c.Year() != 2024 || c.IsCurrentYear() {
		t.Errorf("after two Prev() = %d, want 2024", c.Year())
	}
	if !c.Next() || c.Year() != 2025 {
		t.Errorf("Next() = %d, want 2025", c.Year())
	}

	c.Set(2030)
	if c.Year() != 2026 {
		t.Errorf("Set(2030) = %d, want clamp to 2026", c.Year())
	}
	c.Set(1999)
	if c.Year() != 1999 {
		t.Errorf("Set(1999) = %d", c.Year())
	}
}

func TestYearCursor_FollowsClock(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	c := NewYearCursor(func() time.Time { return now })
	if c.Next() {
		t.Fatal("Next() should be blocked before the year rolls over")
	}
	now = now.Add(2 * time.Hour)
	if !c.Next() || c.Year() != 2026 {
		t.Errorf("Next() after new year = %d, want 2026", c.Year())
	}
}
