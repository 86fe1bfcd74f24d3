package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/dates"
	apperrors "github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

// ErrNonInteractive is returned when a confirmation is needed but stdin is
// not a terminal and --yes was not given.
var ErrNonInteractive = errors.New("confirmation required: re-run with --yes to proceed without a terminal")

// ErrAmbiguousHabit is returned when a name matches more than one habit
var ErrAmbiguousHabit = errors.New("more than one habit has that name; use its id")

// PromptFunc asks a yes/no question
type PromptFunc func(title, description string) (bool, error)

type Context struct {
	Provider storage.Provider
	Store    *habits.Store
	Config   config.Config
	// ConfigDir holds the config file, logs and the session lock
	ConfigDir string
	Clock     dates.Clock
	Locale    language.Tag
	// Yes answers every confirmation with yes
	Yes bool
	Out io.Writer
	// Prompt replaces the interactive huh confirmation when set
	Prompt PromptFunc
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

func (c *Context) clock() dates.Clock {
	if c.Clock == nil {
		return dates.SystemClock
	}
	return c.Clock
}

// OpenStore loads the provider and the habit store built on it. The store
// is reused when it has already been opened.
func (c *Context) OpenStore() (*habits.Store, error) {
	if c.Store != nil {
		return c.Store, nil
	}
	if err := c.Provider.Load(); err != nil {
		return nil, err
	}
	s := habits.New(c.Provider, habits.WithClock(c.clock()), habits.WithLocale(c.Locale))
	if err := s.Load(); err != nil {
		return nil, err
	}
	c.Store = s
	return s, nil
}

// Confirm asks the user to approve a destructive action. A declined prompt
// returns errors.ErrCancelled.
func (c *Context) Confirm(title, description string) error {
	if c.Yes {
		return nil
	}
	ask := c.Prompt
	if ask == nil {
		if !isTerminal(os.Stdin) {
			return ErrNonInteractive
		}
		ask = huhConfirm
	}

	ok, err := ask(title, description)
	if errors.Is(err, huh.ErrUserAborted) {
		return apperrors.ErrCancelled
	}
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return apperrors.ErrCancelled
	}
	return nil
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ResolveHabit finds a habit by numeric id or, failing that, by
// case-insensitive name.
func ResolveHabit(s *habits.Store, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if h, ok := s.Habit(id); ok {
			return h, nil
		}
	}

	var match *models.Habit
	for _, h := range s.Habits() {
		if !strings.EqualFold(h.Name, ref) {
			continue
		}
		if match != nil {
			return models.Habit{}, fmt.Errorf("%w: %q", ErrAmbiguousHabit, ref)
		}
		match = &h
	}
	if match == nil {
		return models.Habit{}, fmt.Errorf("%w: %q", habits.ErrHabitNotFound, ref)
	}
	return *match, nil
}

// PerformAutomaticBackup snapshots a SQLite database before a destructive
// change. Failures are logged and do not stop the command.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Provider.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Provider.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
