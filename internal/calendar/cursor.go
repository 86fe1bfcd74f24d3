package calendar

import "github.com/julianstephens/habitgrid/internal/dates"

// YearCursor tracks the year being viewed. It can move back freely but never
// past the clock's current year.
type YearCursor struct {
	clock dates.Clock
	year  int
}

func NewYearCursor(clock dates.Clock) *YearCursor {
	if clock == nil {
		clock = dates.SystemClock
	}
	return &YearCursor{clock: clock, year: clock().Year()}
}

func (c *YearCursor) Year() int {
	return c.year
}

func (c *YearCursor) Prev() {
	c.year--
}

// Next advances one year and reports whether it moved
func (c *YearCursor) Next() bool {
	if c.year >= c.clock().Year() {
		return false
	}
	c.year++
	return true
}

// CanNext reports whether Next would move
func (c *YearCursor) CanNext() bool {
	return c.year < c.clock().Year()
}

// Set jumps to year, clamped to the current year
func (c *YearCursor) Set(year int) {
	if now := c.clock().Year(); year > now {
		year = now
	}
	c.year = year
}

func (c *YearCursor) IsCurrentYear() bool {
	return c.year == c.clock().Year()
}
