package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/dates"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/storage"
)

var testNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func setupModel(t *testing.T, names ...string) (Model, *habits.Store) {
	t.Helper()
	s := habits.New(storage.NewMemoryStore(), habits.WithClock(dates.FixedClock(testNow)))
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		if _, err := s.AddHabit(n); err != nil {
			t.Fatal(err)
		}
	}
	m := NewModel(s)
	m = send(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})
	return m, s
}

func press(s string) tea.Msg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update() returned %T, want Model", next)
		}
	}
	return m
}

func onlyHabit(t *testing.T, s *habits.Store) int64 {
	t.Helper()
	hs := s.Habits()
	if len(hs) != 1 {
		t.Fatalf("store has %d habits, want 1", len(hs))
	}
	return hs[0].ID
}

func TestToggleTodayFromList(t *testing.T) {
	m, s := setupModel(t, "Read")
	id := onlyHabit(t, s)

	m = send(t, m, press("t"))
	h, _ := s.Habit(id)
	if !h.HasDate("2024-06-15") {
		t.Fatalf("today not marked, dates = %v", h.CompletedDates)
	}
	if m.status != "Marked 2024-06-15" {
		t.Errorf("status = %q", m.status)
	}

	send(t, m, press("t"))
	h, _ = s.Habit(id)
	if h.HasDate("2024-06-15") {
		t.Error("second toggle should unmark today")
	}
}

func TestGridCursorToggle(t *testing.T) {
	m, s := setupModel(t, "Read")
	id := onlyHabit(t, s)

	m = send(t, m, press("tab"))
	if m.State() != StateGrid {
		t.Fatalf("state = %v, want StateGrid", m.State())
	}
	if m.Cursor() != "2024-06-15" {
		t.Fatalf("cursor = %q, want today", m.Cursor())
	}

	m = send(t, m, press("left"), press("down"), press(" "))
	if m.Cursor() != "2024-06-09" {
		t.Fatalf("cursor = %q, want 2024-06-09", m.Cursor())
	}
	h, _ := s.Habit(id)
	if !h.HasDate("2024-06-09") {
		t.Errorf("cursor day not toggled, dates = %v", h.CompletedDates)
	}

	m = send(t, m, press("esc"))
	if m.State() != StateList {
		t.Errorf("state = %v, want StateList after esc", m.State())
	}
}

func TestYearNavigation(t *testing.T) {
	m, _ := setupModel(t, "Read")

	m = send(t, m, press("]"))
	if m.Year() != 2024 {
		t.Fatalf("year = %d, want navigation past the current year blocked", m.Year())
	}
	if !strings.Contains(m.status, "current year") {
		t.Errorf("status = %q", m.status)
	}

	m = send(t, m, press("["), press("["))
	if m.Year() != 2022 {
		t.Errorf("year = %d, want 2022", m.Year())
	}
	m = send(t, m, press("]"))
	if m.Year() != 2023 {
		t.Errorf("year = %d, want 2023", m.Year())
	}
}

func TestGridYearChangeKeepsDay(t *testing.T) {
	m, _ := setupModel(t, "Read")
	m = send(t, m, press("tab"), press("["))
	if m.Year() != 2023 || m.Cursor() != "2023-06-15" {
		t.Errorf("year, cursor = %d, %q; want 2023, 2023-06-15", m.Year(), m.Cursor())
	}
}

func TestCycleSort(t *testing.T) {
	m, s := setupModel(t, "Read")
	send(t, m, press("s"))
	if got := s.SortBy(); got != constants.SortNameDesc {
		t.Errorf("SortBy() = %q, want %q", got, constants.SortNameDesc)
	}
}

func TestDeleteConfirmation(t *testing.T) {
	m, s := setupModel(t, "Read")

	m = send(t, m, press("d"))
	if m.State() != StateConfirmDelete {
		t.Fatalf("state = %v, want StateConfirmDelete", m.State())
	}
	if !strings.Contains(m.View(), `Delete "Read"?`) {
		t.Errorf("confirmation view missing prompt:\n%s", m.View())
	}
	m = send(t, m, press("n"))
	if s.Len() != 1 || m.State() != StateList {
		t.Fatalf("cancel: len = %d, state = %v", s.Len(), m.State())
	}

	m = send(t, m, press("d"), press("y"))
	if s.Len() != 0 {
		t.Errorf("habit not deleted, len = %d", s.Len())
	}
	if !strings.Contains(m.View(), "No habits yet") {
		t.Errorf("empty view missing hint:\n%s", m.View())
	}
}

func TestNextMessage(t *testing.T) {
	m, s := setupModel(t, "Read")
	id := onlyHabit(t, s)
	if _, err := s.AddMessage(id, "first"); err != nil {
		t.Fatal(err)
	}
	second, err := s.AddMessage(id, "second")
	if err != nil {
		t.Fatal(err)
	}

	m = send(t, m, press("n"))
	if cur, _ := s.CurrentMessage(id); cur.ID != second.ID {
		t.Errorf("CurrentMessage() = %q, want second", cur.Text)
	}
	if !strings.Contains(m.View(), "second") {
		t.Error("view should show the current message")
	}
}

func TestSubmitForms(t *testing.T) {
	m, s := setupModel(t)

	next, _ := m.openForm(formAddHabit, 0, "New habit", "")
	m = next.(Model)
	if m.State() != StateForm {
		t.Fatalf("state = %v, want StateForm", m.State())
	}
	*m.input = "  Stretch "
	if err := m.submitForm(); err != nil {
		t.Fatalf("submitForm(add) error = %v", err)
	}
	id := onlyHabit(t, s)

	next, _ = m.openForm(formRename, id, "Rename habit", "Stretch")
	m = next.(Model)
	*m.input = "Yoga"
	if err := m.submitForm(); err != nil {
		t.Fatalf("submitForm(rename) error = %v", err)
	}
	if h, _ := s.Habit(id); h.Name != "Yoga" {
		t.Errorf("name = %q, want Yoga", h.Name)
	}

	next, _ = m.openForm(formAddMessage, id, "New message", "")
	m = next.(Model)
	*m.input = "   "
	if err := m.submitForm(); err == nil {
		t.Error("blank message should be rejected")
	}

	m = send(t, m, press("esc"))
	if m.State() != StateList {
		t.Errorf("state = %v, want StateList after esc", m.State())
	}
}

func TestTickRefreshes(t *testing.T) {
	m, _ := setupModel(t, "Read")
	_, cmd := m.Update(tickMsg(testNow))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t, "Read")
	next, cmd := m.Update(press("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if v := next.(Model).View(); v != "" {
		t.Errorf("View() after quit = %q, want empty", v)
	}
}
