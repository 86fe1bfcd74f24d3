// Package calendar lays out a year of days as a week-aligned grid.
package calendar

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/dates"
)

// Cell is one day of the yearly grid
type Cell struct {
	Date      time.Time
	Key       string
	Completed bool
	IsToday   bool
	// OutOfYear marks the padding days before January 1st
	OutOfYear bool
	WeekIndex int
	DayOfWeek time.Weekday
}

// MonthLabel is the grid column where a month begins
type MonthLabel struct {
	Month time.Month
	Week  int
}

// BuildYearGrid enumerates the cells for year, starting on the Sunday on or
// before January 1st and stopping at the first day of the following year.
// Dates are laid out in today's location.
func BuildYearGrid(completed map[string]struct{}, year int, today time.Time) []Cell {
	loc := today.Location()
	first := dates.FirstOfYear(year, loc)
	start := dates.AddDays(first, -int(first.Weekday()))

	todayKey := dates.Format(today)
	showToday := today.Year() == year

	cells := make([]Cell, 0, constants.GridDays)
	for offset := 0; offset < constants.GridDays; offset++ {
		day := dates.AddDays(start, offset)
		if day.Year() > year {
			break
		}
		key := dates.Format(day)
		_, done := completed[key]
		cells = append(cells, Cell{
			Date:      day,
			Key:       key,
			Completed: done,
			IsToday:   showToday && key == todayKey,
			OutOfYear: day.Year() != year,
			WeekIndex: offset / constants.DaysPerWeek,
			DayOfWeek: day.Weekday(),
		})
	}
	return cells
}

// Weeks returns the number of grid columns the cells occupy
func Weeks(cells []Cell) int {
	if len(cells) == 0 {
		return 0
	}
	return cells[len(cells)-1].WeekIndex + 1
}

// MonthLabels returns, in order, the week index holding the first day of
// each month present in the grid.
func MonthLabels(cells []Cell) []MonthLabel {
	var labels []MonthLabel
	for _, c := range cells {
		if c.OutOfYear || c.Date.Day() != 1 {
			continue
		}
		labels = append(labels, MonthLabel{Month: c.Date.Month(), Week: c.WeekIndex})
	}
	return labels
}

// Find returns the cell for key and whether it is in the grid
func Find(cells []Cell, key string) (Cell, bool) {
	for _, c := range cells {
		if c.Key == key {
			return c, true
		}
	}
	return Cell{}, false
}
