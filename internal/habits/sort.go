package habits

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
)

// SortBy returns the active sort key
func (s *Store) SortBy() constants.SortKey {
	return s.sortBy
}

// SetSortBy stores and persists the sort key. Unrecognized keys are kept
// as is and sort as stored order.
func (s *Store) SetSortBy(key constants.SortKey) error {
	s.sortBy = key
	if err := s.p.SetBlob(constants.KeySortBy, []byte(key)); err != nil {
		return fmt.Errorf("failed to save sort order: %w", err)
	}
	return nil
}

// SortedHabits returns a snapshot ordered by the active sort key. The
// stored order is untouched.
func (s *Store) SortedHabits() []models.Habit {
	out := s.Habits()
	if less := s.comparator(s.sortBy); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

func (s *Store) comparator(key constants.SortKey) func(a, b models.Habit) int {
	switch key {
	case constants.SortName:
		return func(a, b models.Habit) int { return s.collator.CompareString(a.Name, b.Name) }
	case constants.SortNameDesc:
		return func(a, b models.Habit) int { return s.collator.CompareString(b.Name, a.Name) }
	case constants.SortStreak:
		return func(a, b models.Habit) int { return cmp.Compare(b.Streak, a.Streak) }
	case constants.SortStreakAsc:
		return func(a, b models.Habit) int { return cmp.Compare(a.Streak, b.Streak) }
	case constants.SortTotal:
		return func(a, b models.Habit) int { return cmp.Compare(AllTimeTotal(b), AllTimeTotal(a)) }
	case constants.SortTotalAsc:
		return func(a, b models.Habit) int { return cmp.Compare(AllTimeTotal(a), AllTimeTotal(b)) }
	case constants.SortRecent:
		return func(a, b models.Habit) int { return cmp.Compare(b.ID, a.ID) }
	case constants.SortOldest:
		return func(a, b models.Habit) int { return cmp.Compare(a.ID, b.ID) }
	default:
		return nil
	}
}
