// Package grid renders a calendar year of habit completions with lipgloss.
package grid

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgrid/internal/calendar"
	"github.com/julianstephens/habitgrid/internal/constants"
)

const (
	filledGlyph = "■"
	emptyGlyph  = "□"
	cellWidth   = 2
	labelWidth  = 4
)

var (
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	fadedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("235"))
	fadedDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	todayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Options controls how a grid is drawn
type Options struct {
	// Cursor is the date key of the highlighted cell, if any
	Cursor string
	// Plain disables colour: '#' is a completion, '*' today, '@' the cursor
	Plain bool
}

// Render draws the cells as seven weekday rows under a row of month labels
func Render(cells []calendar.Cell, opts Options) string {
	if len(cells) == 0 {
		return ""
	}
	weeks := calendar.Weeks(cells)

	rows := make([][]string, constants.DaysPerWeek)
	for i := range rows {
		rows[i] = make([]string, weeks)
		for w := range rows[i] {
			rows[i][w] = strings.Repeat(" ", cellWidth)
		}
	}
	for _, c := range cells {
		rows[c.DayOfWeek][c.WeekIndex] = renderCell(c, opts) + " "
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	b.WriteString(monthHeader(cells, weeks, opts.Plain))
	b.WriteByte('\n')
	for day, row := range rows {
		b.WriteString(weekdayLabel(time.Weekday(day), opts.Plain))
		b.WriteString(strings.TrimRight(strings.Join(row, ""), " "))
		if day < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderCell(c calendar.Cell, opts Options) string {
	glyph := emptyGlyph
	if c.Completed {
		glyph = filledGlyph
	}
	if opts.Plain {
		glyph = "."
		if c.Completed {
			glyph = "#"
		}
		if c.Key == opts.Cursor {
			return "@"
		}
		if c.IsToday && !c.Completed {
			return "*"
		}
		return glyph
	}

	style := emptyStyle
	switch {
	case c.OutOfYear && c.Completed:
		style = fadedDoneStyle
	case c.OutOfYear:
		style = fadedStyle
	case c.IsToday:
		style = todayStyle
	case c.Completed:
		style = completedStyle
	}
	if c.Key == opts.Cursor {
		style = style.Reverse(true)
	}
	return style.Render(glyph)
}

// monthHeader places each month's abbreviation above the week it starts
// in. A label that would overlap the previous one is dropped.
func monthHeader(cells []calendar.Cell, weeks int, plain bool) string {
	line := []rune(strings.Repeat(" ", weeks*cellWidth))
	next := 0
	for _, l := range calendar.MonthLabels(cells) {
		pos := l.Week * cellWidth
		name := []rune(l.Month.String()[:3])
		if pos < next || pos+len(name) > len(line) {
			continue
		}
		copy(line[pos:], name)
		next = pos + len(name) + 1
	}
	header := strings.TrimRight(string(line), " ")
	if plain {
		return header
	}
	return labelStyle.Render(header)
}

func weekdayLabel(day time.Weekday, plain bool) string {
	label := strings.Repeat(" ", labelWidth)
	switch day {
	case time.Monday, time.Wednesday, time.Friday:
		label = day.String()[:3] + " "
	}
	if plain {
		return label
	}
	return labelStyle.Render(label)
}

// Move returns the key of the cell delta days from key, clamped to the
// grid. An unknown key starts from today's cell, or the last cell.
func Move(cells []calendar.Cell, key string, delta int) string {
	if len(cells) == 0 {
		return ""
	}
	i := indexOf(cells, key)
	if i < 0 {
		i = Anchor(cells)
	}
	i = max(0, min(len(cells)-1, i+delta))
	return cells[i].Key
}

// Anchor returns the index of today's cell, falling back to the last cell
// of the year.
func Anchor(cells []calendar.Cell) int {
	for i, c := range cells {
		if c.IsToday {
			return i
		}
	}
	return len(cells) - 1
}

func indexOf(cells []calendar.Cell, key string) int {
	for i, c := range cells {
		if c.Key == key {
			return i
		}
	}
	return -1
}
