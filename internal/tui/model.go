// Package tui is the interactive habit browser: a habit list beside the
// selected habit's year grid.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/calendar"
	"github.com/julianstephens/habitgrid/internal/dates"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/models"
	habitlist "github.com/julianstephens/habitgrid/internal/tui/components/habits"
)

type SessionState int

const (
	StateList SessionState = iota
	StateGrid
	StateForm
	StateConfirmDelete
)

type formKind int

const (
	formAddHabit formKind = iota
	formRename
	formAddMessage
)

// refreshInterval is how often streaks are recomputed so a running session
// notices midnight.
const refreshInterval = time.Minute

type tickMsg time.Time

type Model struct {
	store    *habits.Store
	state    SessionState
	keys     KeyMap
	help     help.Model
	list     habitlist.Model
	years    *calendar.YearCursor
	day      string // grid cursor, a YYYY-MM-DD key
	form     *huh.Form
	formKind formKind
	// input is shared with the active form; it must outlive Model copies
	input         *string
	formHabitID   int64
	deleteID      int64
	status        string
	statusIsError bool
	width         int
	height        int
	quitting      bool
}

func NewModel(store *habits.Store) Model {
	m := Model{
		store: store,
		state: StateList,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		list:  habitlist.New(0, 0),
		years: calendar.NewYearCursor(store.Today),
	}
	m.refreshList()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == StateGrid {
		return []key.Binding{m.keys.Left, m.keys.Right, m.keys.Toggle, m.keys.Back, m.keys.Help}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// State reports which pane or dialog has focus
func (m Model) State() SessionState {
	return m.state
}

// Year is the year shown in the grid
func (m Model) Year() int {
	return m.years.Year()
}

// Cursor is the day selected on the grid
func (m Model) Cursor() string {
	return m.day
}

func (m *Model) refreshList() {
	m.list.SetTitle("Habits · " + m.store.SortBy().Label())
	m.list.SetHabits(m.store.SortedHabits(), dates.Format(m.store.Today()), m.years.Year())
}

func (m Model) selected() (models.Habit, bool) {
	h, ok := m.list.Selected()
	if !ok {
		return models.Habit{}, false
	}
	// the list holds a snapshot; read the live habit
	return m.store.Habit(h.ID)
}

func (m Model) cells(h models.Habit) []calendar.Cell {
	return calendar.BuildYearGrid(h.DateSet(), m.years.Year(), m.store.Today())
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsError = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusIsError = true
}

// Run starts the TUI on the alternate screen
func Run(store *habits.Store) error {
	p := tea.NewProgram(NewModel(store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
