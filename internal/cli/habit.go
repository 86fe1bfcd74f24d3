package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/calendar"
	"github.com/julianstephens/habitgrid/internal/dates"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/tui/components/grid"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits in the current sort order."`
	Rename HabitRenameCmd `cmd:"" help:"Rename a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	Toggle HabitToggleCmd `cmd:"" help:"Mark or unmark a habit for a day."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit's calendar grid for a year."`
	Stats  HabitStatsCmd  `cmd:"" help:"Show streak and totals for a habit."`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := store.AddHabit(c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("Added habit: %s (id %d)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct {
	Year int `help:"Year used for the yearly total (default: this year)."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	if _, err := store.RefreshStreaks(); err != nil {
		return err
	}

	list := store.SortedHabits()
	if len(list) == 0 {
		ctx.Println("No habits found. Add one with 'habitgrid habit add <name>'.")
		return nil
	}

	today := store.Today()
	year := c.Year
	if year == 0 {
		year = today.Year()
	}
	todayKey := dates.Format(today)

	width := len("Name")
	for _, h := range list {
		width = max(width, len([]rune(h.Name)))
	}

	ctx.Printf("Sorted by: %s\n\n", store.SortBy().Label())
	ctx.Printf("   %-15s  %-*s  %6s  %6s\n", "ID", width, "Name", "Streak", fmt.Sprint(year))
	for _, h := range list {
		mark := "○"
		if h.HasDate(todayKey) {
			mark = "✓"
		}
		pad := width - len([]rune(h.Name))
		ctx.Printf("%s  %-15d  %s%s  %6d  %6d\n", mark, h.ID, h.Name, strings.Repeat(" ", pad), h.Streak, habits.YearTotal(h, year))
	}
	return nil
}

type HabitRenameCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Name  string `arg:"" help:"New name."`
}

func (c *HabitRenameCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}
	if err := store.RenameHabit(h.ID, c.Name); err != nil {
		return err
	}
	updated, _ := store.Habit(h.ID)
	ctx.Printf("Renamed %q to %q\n", h.Name, updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("%d completed days and %d messages will be lost.", len(h.CompletedDates), len(h.MotivationalMessages))
	if err := ctx.Confirm(fmt.Sprintf("Delete habit %q?", h.Name), desc); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if err := store.DeleteHabit(h.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}

	day := strings.TrimSpace(c.Date)
	if day == "" {
		day = dates.Format(store.Today())
	}
	done, err := store.ToggleCompletion(h.ID, day)
	if err != nil {
		return err
	}

	updated, _ := store.Habit(h.ID)
	if done {
		ctx.Printf("Marked %q for %s (streak: %d)\n", h.Name, day, updated.Streak)
	} else {
		ctx.Printf("Unmarked %q for %s (streak: %d)\n", h.Name, day, updated.Streak)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Year  int    `help:"Year to show (default: this year)."`
	Plain bool   `help:"Draw without colour."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}

	cursor := calendar.NewYearCursor(store.Today)
	if c.Year != 0 {
		if c.Year > cursor.Year() {
			return fmt.Errorf("cannot show %d: it is after the current year", c.Year)
		}
		cursor.Set(c.Year)
	}

	cells := calendar.BuildYearGrid(h.DateSet(), cursor.Year(), store.Today())
	ctx.Printf("%s  %d\n\n", h.Name, cursor.Year())
	ctx.Println(grid.Render(cells, grid.Options{Plain: c.Plain}))
	ctx.Println()
	ctx.Printf("Streak: %d  ·  %d total in %d\n", h.Streak, habits.YearTotal(h, cursor.Year()), cursor.Year())
	if m, ok := store.CurrentMessage(h.ID); ok {
		ctx.Printf("\n“%s”\n", m.Text)
	}
	return nil
}

type HabitStatsCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Year  int    `help:"Year for the yearly total (default: this year)."`
}

func (c *HabitStatsCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	if _, err := store.RefreshStreaks(); err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}
	year := c.Year
	if year == 0 {
		year = store.Today().Year()
	}

	row := func(label string, value any) {
		ctx.Printf("%-16s%v\n", label+":", value)
	}
	row("Habit", fmt.Sprintf("%s (id %d)", h.Name, h.ID))
	// ids are creation timestamps in milliseconds
	row("Created", time.UnixMilli(h.ID).In(store.Today().Location()).Format("2006-01-02 15:04"))
	row("Current streak", h.Streak)
	row(fmt.Sprintf("Total in %d", year), habits.YearTotal(h, year))
	row("All time", habits.AllTimeTotal(h))
	if len(h.CompletedDates) > 0 {
		first, last := h.CompletedDates[0], h.CompletedDates[0]
		for _, d := range h.CompletedDates {
			first = min(first, d)
			last = max(last, d)
		}
		row("First done", first)
		row("Last done", last)
	}
	row("Messages", len(h.MotivationalMessages))
	return nil
}
