package constants

// SortKey selects the display ordering of the habit list
type SortKey string

const (
	AppName            = "habitgrid"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitgrid"
	DefaultConfigPath  = "~/.config/habitgrid/habitgrid.db"
	ConfigFileName     = "config.toml"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Persistence keys
	KeyHabits = "habits"
	KeySortBy = "sortBy"

	// Export constants
	ExportVersion        = "1.0"
	ExportFilePrefix     = "habit-tracker-backup-"
	ExportFileSuffix     = ".json"
	EnvDBConnection      = "HABITGRID_DB_CONNECTION"
	EnvTestPostgres      = "HABITGRID_TEST_POSTGRES"
	SessionLockfileName  = "habitgrid.lock"
	MaxStreakLookbackDay = 365

	// Grid constants
	GridWeeks   = 53
	DaysPerWeek = 7
	GridDays    = GridWeeks * DaysPerWeek

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitgrid-"
	BackupFileSuffix = ".db"

	// Sort keys
	SortName      SortKey = "name"
	SortNameDesc  SortKey = "name-desc"
	SortStreak    SortKey = "streak"
	SortStreakAsc SortKey = "streak-asc"
	SortTotal     SortKey = "total"
	SortTotalAsc  SortKey = "total-asc"
	SortRecent    SortKey = "recent"
	SortOldest    SortKey = "oldest"

	DefaultSortKey = SortName
)

// SortKeys lists every recognized sort key in menu order
var SortKeys = []SortKey{
	SortName,
	SortNameDesc,
	SortStreak,
	SortStreakAsc,
	SortTotal,
	SortTotalAsc,
	SortRecent,
	SortOldest,
}

// IsKnown reports whether k is one of the recognized sort keys
func (k SortKey) IsKnown() bool {
	for _, known := range SortKeys {
		if k == known {
			return true
		}
	}
	return false
}

// Next returns the sort key after k in menu order, wrapping around.
// Unknown keys advance to the first key.
func (k SortKey) Next() SortKey {
	for i, known := range SortKeys {
		if k == known {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortKeys[0]
}

// Label returns a human-readable description of the sort key
func (k SortKey) Label() string {
	switch k {
	case SortName:
		return "Name (A-Z)"
	case SortNameDesc:
		return "Name (Z-A)"
	case SortStreak:
		return "Streak (highest first)"
	case SortStreakAsc:
		return "Streak (lowest first)"
	case SortTotal:
		return "Total days (most first)"
	case SortTotalAsc:
		return "Total days (fewest first)"
	case SortRecent:
		return "Newest first"
	case SortOldest:
		return "Oldest first"
	default:
		return "Unsorted"
	}
}
