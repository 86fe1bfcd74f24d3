package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	corehabits "github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/models"
)

type Item struct {
	Habit     models.Habit
	DoneToday bool
	YearTotal int
	Year      int
}

func (i Item) Title() string {
	if i.DoneToday {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	return fmt.Sprintf("streak %d · %d in %d", i.Habit.Streak, i.YearTotal, i.Year)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type Model struct {
	list list.Model
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return Model{list: l}
}

// SetHabits replaces the items, keeping the selection on the same habit id
// when it is still present.
func (m *Model) SetHabits(hs []models.Habit, today string, year int) {
	selected, hadSelection := m.Selected()

	items := make([]list.Item, len(hs))
	for i, h := range hs {
		items[i] = Item{
			Habit:     h,
			DoneToday: h.HasDate(today),
			YearTotal: corehabits.YearTotal(h, year),
			Year:      year,
		}
	}
	m.list.SetItems(items)

	if hadSelection {
		m.Select(selected.ID)
	}
}

// Select moves the cursor to the habit with id, if listed
func (m *Model) Select(id int64) {
	for i, it := range m.list.Items() {
		if it.(Item).Habit.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) Selected() (models.Habit, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Habit{}, false
	}
	return it.Habit, true
}

// Filtering reports whether the list is capturing keys for its filter
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m *Model) SetTitle(title string) {
	m.list.Title = title
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

