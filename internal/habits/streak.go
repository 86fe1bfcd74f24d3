package habits

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/dates"
)

// ComputeStreak counts consecutive completed days walking backward from
// yesterday, stopping at the first gap or after a year. Today is never
// counted: an unfinished today doesn't break a streak, and a finished one
// only shows up tomorrow.
func ComputeStreak(completed map[string]struct{}, today time.Time) int {
	streak := 0
	for offset := 1; offset <= constants.MaxStreakLookbackDay; offset++ {
		if _, ok := completed[dates.Shift(today, -offset)]; !ok {
			break
		}
		streak++
	}
	return streak
}
