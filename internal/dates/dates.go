// Package dates provides the calendar-date helpers shared by the habit store,
// the grid builder and the command line.
//
// Dates are handled as local calendar days: a time.Time is reduced to its
// year, month and day in its own location before it is compared or formatted.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock returns the current time. It is injected wherever "today" matters.
type Clock func() time.Time

// SystemClock returns time.Now in the local timezone.
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// ClockIn returns a clock that reports the current time in loc.
func ClockIn(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// Format renders t as YYYY-MM-DD in t's own location.
func Format(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// IsValid checks if a string is a valid YYYY-MM-DD date.
func IsValid(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

// Parse parses a YYYY-MM-DD date at midnight UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValid(s) {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return time.Parse(constants.DateFormat, s)
}

// ParseInLocation parses a YYYY-MM-DD date at midnight in loc.
func ParseInLocation(s string, loc *time.Location) (time.Time, error) {
	t, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// Year returns the year component of a YYYY-MM-DD string. The second result
// is false when the string does not start with four digits.
func Year(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y < 0 {
		return 0, false
	}
	return y, true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days. Calendar arithmetic keeps the result on
// midnight across DST transitions, which a 24h duration would not.
func AddDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, n)
}

// FirstOfYear returns January 1st of year at midnight in loc.
func FirstOfYear(year int, loc *time.Location) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
}

// Shift formats the date n days away from t. Negative n walks backward.
func Shift(t time.Time, n int) string {
	return Format(AddDays(t, n))
}
