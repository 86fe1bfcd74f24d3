package habits

import "errors"

// Validation and lookup failures. None of them mutate the store.
var (
	ErrEmptyName       = errors.New("habit name cannot be empty")
	ErrEmptyMessage    = errors.New("message text cannot be empty")
	ErrInvalidDate     = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrHabitNotFound   = errors.New("habit not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrNothingToClear  = errors.New("no habits to clear")
)
