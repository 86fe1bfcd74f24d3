package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/dates"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/keyring"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/session"
	"github.com/julianstephens/habitgrid/internal/storage/postgres"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

// ErrChecksFailed is returned when at least one doctor check fails
var ErrChecksFailed = errors.New("one or more health checks failed")

type schemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkip
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := false
	report := func(name string, res checkResult, detail string) {
		switch res {
		case checkOK:
			ctx.Printf("✓ %s: OK\n", name)
		case checkWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
		case checkFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			failed = true
		case checkSkip:
			ctx.Printf("⊘ %s: SKIPPED\n", name)
		}
		if detail != "" {
			ctx.Printf("   %s\n", detail)
		}
	}

	if err := ctx.Config.Validate(); err != nil {
		report("Configuration", checkFail, err.Error())
	} else {
		report("Configuration", checkOK, "")
	}

	report(checkClock(ctx))

	reachable := true
	if err := ctx.Provider.Load(); err != nil {
		report("Storage reachable", checkFail, err.Error())
		reachable = false
	} else {
		report("Storage reachable", checkOK, ctx.Provider.GetConfigPath())
	}

	if reachable {
		report(checkSchema(ctx))
		report(checkHabitData(ctx))
	} else {
		report("Schema version", checkSkip, "storage not reachable")
		report("Habit data", checkSkip, "storage not reachable")
	}

	report(checkBackups(ctx))
	report(checkKeyring(ctx))
	report(checkSession(ctx))

	ctx.Println()
	if failed {
		return ErrChecksFailed
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkClock(ctx *cli.Context) (string, checkResult, string) {
	const name = "Clock/timezone"
	loc, err := ctx.Config.Location()
	if err != nil {
		return name, checkFail, err.Error()
	}
	now := time.Now().In(loc)
	if now.Year() < 2000 {
		return name, checkFail, fmt.Sprintf("system clock reports %s", now.Format(time.RFC3339))
	}
	return name, checkOK, fmt.Sprintf("today is %s (%s)", dates.Format(now), loc)
}

func checkSchema(ctx *cli.Context) (string, checkResult, string) {
	const name = "Schema version"
	r, ok := ctx.Provider.(schemaReporter)
	if !ok {
		return name, checkSkip, "storage has no schema"
	}
	current, latest, err := r.SchemaVersion()
	if err != nil {
		return name, checkFail, err.Error()
	}
	if current != latest {
		return name, checkFail, fmt.Sprintf("schema at version %d, expected %d", current, latest)
	}
	return name, checkOK, fmt.Sprintf("version %d", current)
}

// checkHabitData inspects the stored habits as written, before the store's
// load-time repairs hide anything.
func checkHabitData(ctx *cli.Context) (string, checkResult, string) {
	const name = "Habit data"
	blob, ok, err := ctx.Provider.GetBlob(constants.KeyHabits)
	if err != nil {
		return name, checkFail, err.Error()
	}
	if !ok {
		return name, checkOK, "no habits stored yet"
	}

	var stored []models.Habit
	if err := json.Unmarshal(blob, &stored); err != nil {
		return name, checkFail, fmt.Sprintf("habits are not valid JSON: %v", err)
	}

	ids := make(map[int64]bool, len(stored))
	var issues []string
	for _, h := range stored {
		if ids[h.ID] {
			issues = append(issues, fmt.Sprintf("duplicate habit id %d", h.ID))
		}
		ids[h.ID] = true
		seen := make(map[string]bool, len(h.CompletedDates))
		for _, d := range h.CompletedDates {
			if !dates.IsValid(d) {
				issues = append(issues, fmt.Sprintf("%q has invalid date %q", h.Name, d))
			} else if seen[d] {
				issues = append(issues, fmt.Sprintf("%q has duplicate date %s", h.Name, d))
			}
			seen[d] = true
		}
		if ref := h.CurrentDisplayMessage; ref != nil && h.FindMessage(int64(*ref)) < 0 {
			issues = append(issues, fmt.Sprintf("%q points at a deleted message", h.Name))
		}
	}

	if len(issues) > 0 {
		detail := fmt.Sprintf("%d issue(s), repaired on next save: %s", len(issues), issues[0])
		return name, checkWarn, detail
	}

	s := habits.New(ctx.Provider)
	if err := s.Load(); err != nil {
		return name, checkFail, err.Error()
	}
	return name, checkOK, fmt.Sprintf("%d habits", s.Len())
}

func checkBackups(ctx *cli.Context) (string, checkResult, string) {
	const name = "Backups present"
	if _, ok := ctx.Provider.(*sqlite.Store); !ok {
		return name, checkSkip, "only SQLite storage is backed up"
	}
	mgr := backup.NewManager(ctx.Provider.GetConfigPath())
	list, err := mgr.ListBackups()
	if err != nil {
		return name, checkWarn, err.Error()
	}
	if len(list) == 0 {
		return name, checkWarn, fmt.Sprintf("no backups in %s", mgr.GetBackupDir())
	}
	return name, checkOK, fmt.Sprintf("%d backups, latest %s", len(list), list[0].Timestamp.Format("2006-01-02 15:04"))
}

func checkKeyring(ctx *cli.Context) (string, checkResult, string) {
	const name = "Keyring"
	if _, ok := ctx.Provider.(*postgres.Store); !ok {
		return name, checkSkip, "only used for PostgreSQL"
	}
	if os.Getenv(constants.EnvDBConnection) != "" {
		return name, checkOK, "connection string taken from " + constants.EnvDBConnection
	}
	if !keyring.IsAvailable() {
		return name, checkWarn, keyring.ErrKeyringUnavailable.Error()
	}
	return name, checkOK, ""
}

func checkSession(ctx *cli.Context) (string, checkResult, string) {
	const name = "Session lock"
	if ctx.ConfigDir == "" {
		return name, checkSkip, ""
	}
	if active := session.Active(ctx.ConfigDir); active != nil {
		return name, checkWarn, active.Error()
	}
	return name, checkOK, "no other session running"
}
