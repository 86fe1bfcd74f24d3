package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitgrid/internal/logger"
)

// ErrCancelled marks an operation the user declined at a confirmation prompt
var ErrCancelled = stderrors.New("cancelled")

// Format prefixes an error for display
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to a process exit status. A declined prompt is not
// a failure.
func ExitCode(err error) int {
	switch {
	case err == nil, stderrors.Is(err, ErrCancelled):
		return 0
	default:
		return 1
	}
}

// Report logs err and prints it to w. It returns the exit code for err.
func Report(w io.Writer, err error) int {
	code := ExitCode(err)
	if err == nil {
		return code
	}
	if code == 0 {
		fmt.Fprintln(w, "Cancelled.")
		return code
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(w, Format(err))
	return code
}

// Fatal reports err on stderr and exits. A nil error returns normally.
func Fatal(err error) {
	if err == nil {
		return
	}
	os.Exit(Report(os.Stderr, err))
}

func Fatalf(format string, args ...interface{}) {
	Fatal(fmt.Errorf(format, args...))
}
