// Package habits holds the authoritative in-memory habit collection.
//
// Every mutation is applied in memory and then written through the injected
// Persistence before the call returns. The store is not safe for concurrent
// use; one process owns one store.
package habits

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/dates"
	"github.com/julianstephens/habitgrid/internal/idgen"
	"github.com/julianstephens/habitgrid/internal/models"
)

// Persistence is the key-value collaborator the store reads and writes.
// GetBlob reports ok=false when the key has never been written.
type Persistence interface {
	GetBlob(key string) ([]byte, bool, error)
	SetBlob(key string, blob []byte) error
}

type Store struct {
	p        Persistence
	clock    dates.Clock
	ids      *idgen.Generator
	collator *collate.Collator
	habits   []models.Habit
	sortBy   constants.SortKey
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the clock used for "today" and for id generation
func WithClock(c dates.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLocale sets the language used to compare habit names
func WithLocale(tag language.Tag) Option {
	return func(s *Store) { s.collator = collate.New(tag) }
}

// WithIDGenerator replaces the default clock-backed id generator
func WithIDGenerator(g *idgen.Generator) Option {
	return func(s *Store) { s.ids = g }
}

// New creates an empty store. Call Load to read persisted state.
func New(p Persistence, opts ...Option) *Store {
	s := &Store{
		p:      p,
		clock:  dates.SystemClock,
		habits: []models.Habit{},
		sortBy: constants.DefaultSortKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.collator == nil {
		s.collator = collate.New(language.Und)
	}
	if s.ids == nil {
		s.ids = idgen.New(s.clock)
	}
	return s
}

// Load replaces in-memory state with the persisted habits and sort key.
// Missing keys load as an empty collection and the default sort.
func (s *Store) Load() error {
	blob, ok, err := s.p.GetBlob(constants.KeyHabits)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	loaded := []models.Habit{}
	if ok && len(bytes.TrimSpace(blob)) > 0 {
		if err := json.Unmarshal(blob, &loaded); err != nil {
			return fmt.Errorf("failed to parse habits: %w", err)
		}
	}

	sortBlob, ok, err := s.p.GetBlob(constants.KeySortBy)
	if err != nil {
		return fmt.Errorf("failed to load sort order: %w", err)
	}
	sortBy := constants.DefaultSortKey
	if ok {
		if key := strings.TrimSpace(string(sortBlob)); key != "" {
			sortBy = constants.SortKey(key)
		}
	}

	s.habits = s.normalize(loaded)
	s.sortBy = sortBy
	return nil
}

// Today returns the store's current time
func (s *Store) Today() time.Time {
	return s.clock()
}

// Habits returns a snapshot of all habits in stored order
func (s *Store) Habits() []models.Habit {
	out := make([]models.Habit, len(s.habits))
	for i, h := range s.habits {
		out[i] = h.Clone()
	}
	return out
}

// Len returns the number of habits
func (s *Store) Len() int {
	return len(s.habits)
}

// Habit returns a copy of the habit with the given id
func (s *Store) Habit(id int64) (models.Habit, bool) {
	h := s.find(id)
	if h == nil {
		return models.Habit{}, false
	}
	return h.Clone(), true
}

// AddHabit appends a new habit with no completions
func (s *Store) AddHabit(name string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, ErrEmptyName
	}

	h := models.Habit{
		ID:                   s.ids.Next(),
		Name:                 name,
		CompletedDates:       []string{},
		Streak:               0,
		MotivationalMessages: []models.Message{},
	}
	s.habits = append(s.habits, h)

	if err := s.saveHabits(); err != nil {
		return models.Habit{}, err
	}
	return h.Clone(), nil
}

// DeleteHabit removes a habit and its messages
func (s *Store) DeleteHabit(id int64) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrHabitNotFound
	}
	s.habits = append(s.habits[:idx], s.habits[idx+1:]...)
	return s.saveHabits()
}

// RenameHabit replaces a habit's name
func (s *Store) RenameHabit(id int64, newName string) error {
	h := s.find(id)
	if h == nil {
		return ErrHabitNotFound
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	h.Name = newName
	return s.saveHabits()
}

// ToggleCompletion flips day's membership in the habit's completed set and
// returns whether the day is now completed.
func (s *Store) ToggleCompletion(habitID int64, day string) (bool, error) {
	h := s.find(habitID)
	if h == nil {
		return false, ErrHabitNotFound
	}
	if !dates.IsValid(day) {
		return false, fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}

	completed := true
	if i := indexOfDate(h.CompletedDates, day); i >= 0 {
		h.CompletedDates = append(h.CompletedDates[:i], h.CompletedDates[i+1:]...)
		completed = false
	} else {
		h.CompletedDates = append(h.CompletedDates, day)
	}
	h.Streak = ComputeStreak(h.DateSet(), s.clock())

	if err := s.saveHabits(); err != nil {
		return completed, err
	}
	return completed, nil
}

// ImportHabits replaces the whole collection. Streaks are recomputed rather
// than trusted, and every habit is normalized as on load.
func (s *Store) ImportHabits(habits []models.Habit) error {
	in := make([]models.Habit, len(habits))
	for i, h := range habits {
		in[i] = h.Clone()
	}
	s.habits = s.normalize(in)
	return s.saveHabits()
}

// ClearAll removes every habit
func (s *Store) ClearAll() error {
	if len(s.habits) == 0 {
		return ErrNothingToClear
	}
	s.habits = []models.Habit{}
	return s.saveHabits()
}

// RefreshStreaks recomputes every streak against the current day and
// persists only when something changed.
func (s *Store) RefreshStreaks() (bool, error) {
	today := s.clock()
	changed := false
	for i := range s.habits {
		streak := ComputeStreak(s.habits[i].DateSet(), today)
		if streak != s.habits[i].Streak {
			s.habits[i].Streak = streak
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	return true, s.saveHabits()
}

// YearTotal counts completed days falling in year
func YearTotal(h models.Habit, year int) int {
	total := 0
	for _, d := range h.CompletedDates {
		if y, ok := dates.Year(d); ok && y == year {
			total++
		}
	}
	return total
}

// AllTimeTotal counts all completed days
func AllTimeTotal(h models.Habit) int {
	return len(h.CompletedDates)
}

func (s *Store) saveHabits() error {
	data, err := json.Marshal(s.habits)
	if err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}
	if err := s.p.SetBlob(constants.KeyHabits, data); err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}
	return nil
}

func (s *Store) find(id int64) *models.Habit {
	if i := s.indexOf(id); i >= 0 {
		return &s.habits[i]
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i := range s.habits {
		if s.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// normalize enforces the model invariants on habits coming from outside the
// store: valid deduplicated dates, non-nil message lists, a display message
// that resolves, unique ids and a fresh streak.
func (s *Store) normalize(habits []models.Habit) []models.Habit {
	for _, h := range habits {
		s.ids.Observe(h.ID)
		for _, m := range h.MotivationalMessages {
			s.ids.Observe(m.ID)
		}
	}

	today := s.clock()
	seenIDs := make(map[int64]bool, len(habits))
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.ID == 0 || seenIDs[h.ID] {
			h.ID = s.ids.Next()
		}
		seenIDs[h.ID] = true

		h.CompletedDates = cleanDates(h.CompletedDates)
		h.MotivationalMessages = cleanMessages(h.MotivationalMessages, s.ids)

		if h.CurrentDisplayMessage == nil || h.FindMessage(int64(*h.CurrentDisplayMessage)) < 0 {
			h.CurrentDisplayMessage = nil
			if len(h.MotivationalMessages) > 0 {
				h.CurrentDisplayMessage = models.Ref(h.MotivationalMessages[0].ID)
			}
		}

		h.Streak = ComputeStreak(h.DateSet(), today)
		out = append(out, h)
	}
	return out
}

func cleanDates(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, d := range in {
		if !dates.IsValid(d) || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func cleanMessages(in []models.Message, ids *idgen.Generator) []models.Message {
	out := make([]models.Message, 0, len(in))
	seen := make(map[int64]bool, len(in))
	for _, m := range in {
		m.Text = strings.TrimSpace(m.Text)
		if m.Text == "" {
			continue
		}
		if m.ID == 0 || seen[m.ID] {
			m.ID = ids.Next()
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}

func indexOfDate(days []string, day string) int {
	for i, d := range days {
		if d == day {
			return i
		}
	}
	return -1
}
