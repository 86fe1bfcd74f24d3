// Package session keeps a single habitgrid process writing to a store at a
// time. The lock is a file holding the owner's pid; a lock whose owner is no
// longer running is taken over.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/logger"
)

var ErrSessionActive = errors.New("another habitgrid session is running")

// swapped in tests
var (
	findProcessFunc = ps.FindProcess
	currentPID      = os.Getpid
)

type Lock struct {
	path string
	pid  int
}

// ActiveError names the process holding the lock
type ActiveError struct {
	PID        int
	Executable string
	Since      time.Time
}

func (e *ActiveError) Error() string {
	return fmt.Sprintf("%v (pid %d, %s, since %s)", ErrSessionActive, e.PID, e.Executable, e.Since.Format(time.RFC3339))
}

func (e *ActiveError) Unwrap() error {
	return ErrSessionActive
}

// Path returns the lock file used for a config directory
func Path(dir string) string {
	return filepath.Join(dir, constants.SessionLockfileName)
}

// Acquire takes the lock in dir, replacing a stale one
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := Path(dir)
	pid := currentPID()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s|%s\n", pid, executable(), time.Now().UTC().Format(time.RFC3339))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lock file: %w", errors.Join(werr, cerr))
			}
			logger.Debug("Acquired session lock", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		if active := holder(path); active != nil {
			return nil, active
		}
		logger.Info("Removing stale session lock", "path", path)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to acquire session lock at %s", path)
}

// Active reports the live holder of the lock in dir, or nil when no other
// running process holds it.
func Active(dir string) *ActiveError {
	return holder(Path(dir))
}

// holder returns the live owner of the lock at path, or nil when the lock is
// malformed, ours, or its process is gone.
func holder(path string) *ActiveError {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return nil
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 || pid == currentPID() {
		return nil
	}
	proc, err := findProcessFunc(pid)
	if err != nil || proc == nil {
		return nil
	}
	// a recycled pid belonging to some other program doesn't count
	if parts[1] != "" && !strings.HasPrefix(proc.Executable(), parts[1]) {
		return nil
	}
	since, _ := time.Parse(time.RFC3339, parts[2])
	return &ActiveError{PID: pid, Executable: proc.Executable(), Since: since}
}

func executable() string {
	exe, err := os.Executable()
	if err != nil {
		return constants.AppName
	}
	return filepath.Base(exe)
}

// Release removes the lock if it still belongs to this process
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	pid, _, _ := strings.Cut(string(content), "|")
	if pid != strconv.Itoa(l.pid) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release session lock: %w", err)
	}
	return nil
}

func (l *Lock) Path() string {
	return l.path
}
