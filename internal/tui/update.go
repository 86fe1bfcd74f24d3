package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/dates"
	"github.com/julianstephens/habitgrid/internal/tui/components/grid"
)

const (
	listWidth  = 34
	wideLayout = 150
	chromeRows = 4
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if msg.Width >= wideLayout {
			m.list.SetSize(listWidth, max(0, msg.Height-chromeRows))
		} else {
			m.list.SetSize(msg.Width, max(0, msg.Height/2-chromeRows))
		}
		return m, nil
	case tickMsg:
		if _, err := m.store.RefreshStreaks(); err != nil {
			m.setError(err)
		}
		m.refreshList()
		return m, tick()
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateGrid:
		return m.updateGrid(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.list.Filtering() {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	h, hasHabit := m.selected()
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Add):
		return m.openForm(formAddHabit, 0, "New habit", "")
	case key.Matches(keyMsg, m.keys.Rename) && hasHabit:
		return m.openForm(formRename, h.ID, "Rename habit", h.Name)
	case key.Matches(keyMsg, m.keys.Message) && hasHabit:
		return m.openForm(formAddMessage, h.ID, "New message for "+h.Name, "")
	case key.Matches(keyMsg, m.keys.Delete) && hasHabit:
		m.deleteID = h.ID
		m.state = StateConfirmDelete
	case key.Matches(keyMsg, m.keys.Toggle) && hasHabit:
		m.toggle(h.ID, dates.Format(m.store.Today()))
	case key.Matches(keyMsg, m.keys.Focus) && hasHabit:
		m.day = grid.Move(m.cells(h), m.day, 0)
		m.state = StateGrid
	case key.Matches(keyMsg, m.keys.PrevYear):
		m.changeYear(-1)
	case key.Matches(keyMsg, m.keys.NextYear):
		m.changeYear(1)
	case key.Matches(keyMsg, m.keys.Sort):
		next := m.store.SortBy().Next()
		if err := m.store.SetSortBy(next); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Sorted by " + next.Label())
		}
		m.refreshList()
	case key.Matches(keyMsg, m.keys.Next) && hasHabit:
		if _, ok, err := m.store.ShowNextMessage(h.ID); err != nil {
			m.setError(err)
		} else if !ok {
			m.setStatus("No messages yet. Press 'm' to add one.")
		}
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.Msg) (tea.Model, tea.Cmd) {
	h, ok := m.selected()
	if !ok {
		m.state = StateList
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	cells := m.cells(h)
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		m.state = StateList
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Left):
		m.day = grid.Move(cells, m.day, -7)
	case key.Matches(keyMsg, m.keys.Right):
		m.day = grid.Move(cells, m.day, 7)
	case key.Matches(keyMsg, m.keys.Up):
		m.day = grid.Move(cells, m.day, -1)
	case key.Matches(keyMsg, m.keys.Down):
		m.day = grid.Move(cells, m.day, 1)
	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggle(h.ID, m.day)
	case key.Matches(keyMsg, m.keys.PrevYear):
		m.changeYear(-1)
		m.day = grid.Move(m.cells(h), m.day, 0)
	case key.Matches(keyMsg, m.keys.NextYear):
		m.changeYear(1)
		m.day = grid.Move(m.cells(h), m.day, 0)
	}
	return m, nil
}

// changeYear moves the grid a year and keeps the cursor on the same
// calendar day when it has one.
func (m *Model) changeYear(delta int) {
	if delta > 0 {
		if !m.years.Next() {
			m.setStatus("Already showing the current year")
			return
		}
	} else {
		m.years.Prev()
	}
	if t, err := dates.Parse(m.day); err == nil {
		m.day = dates.Format(t.AddDate(delta, 0, 0))
	}
	m.refreshList()
}

func (m *Model) toggle(habitID int64, day string) {
	done, err := m.store.ToggleCompletion(habitID, day)
	if err != nil {
		m.setError(err)
		return
	}
	if done {
		m.setStatus("Marked " + day)
	} else {
		m.setStatus("Unmarked " + day)
	}
	m.refreshList()
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func (m Model) openForm(kind formKind, habitID int64, title, initial string) (tea.Model, tea.Cmd) {
	value := initial
	m.input = &value
	m.formKind = kind
	m.formHabitID = habitID
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(m.input).
				Validate(notBlank),
		),
	)
	m.state = StateForm
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			m.setError(err)
		}
		m.state = StateList
		return m, nil
	case huh.StateAborted:
		m.state = StateList
		return m, nil
	}
	return m, cmd
}

func (m *Model) submitForm() error {
	switch m.formKind {
	case formAddHabit:
		h, err := m.store.AddHabit(*m.input)
		if err != nil {
			return err
		}
		m.refreshList()
		m.list.Select(h.ID)
		m.setStatus("Added " + h.Name)
	case formRename:
		if err := m.store.RenameHabit(m.formHabitID, *m.input); err != nil {
			return err
		}
		m.refreshList()
		m.setStatus("Renamed")
	case formAddMessage:
		if _, err := m.store.AddMessage(m.formHabitID, *m.input); err != nil {
			return err
		}
		m.setStatus("Message added")
	default:
		return fmt.Errorf("unknown form %d", m.formKind)
	}
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		if h, ok := m.store.Habit(m.deleteID); ok {
			if err := m.store.DeleteHabit(h.ID); err != nil {
				m.setError(err)
			} else {
				m.setStatus("Deleted " + h.Name)
			}
		}
		m.deleteID = 0
		m.refreshList()
		m.state = StateList
	case "n", "N", "esc":
		m.deleteID = 0
		m.state = StateList
	}
	return m, nil
}
