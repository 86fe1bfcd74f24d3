// Package transfer encodes and decodes the habit backup file shared with the
// browser tracker: {exportDate, version, habits}.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
)

var (
	// ErrInvalidJSON means the input could not be parsed at all
	ErrInvalidJSON = errors.New("file is not valid JSON")
	// ErrInvalidFormat means the JSON is not a habit backup
	ErrInvalidFormat = errors.New("invalid file format: expected a habit tracker backup")
)

// Export renders habits as an indented backup envelope stamped with now
func Export(habits []models.Habit, now time.Time) ([]byte, error) {
	if habits == nil {
		habits = []models.Habit{}
	}
	env := models.ExportFile{
		ExportDate: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Version:    constants.ExportVersion,
		Habits:     habits,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return data, nil
}

// ParseImport decodes a backup envelope. The habits field must be present and
// be an array; each element must decode as a habit.
func ParseImport(data []byte) ([]models.Habit, error) {
	var raw models.RawExportFile
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// valid JSON, but not an object
			return nil, ErrInvalidFormat
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	trimmed := bytes.TrimSpace(raw.Habits)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidFormat
	}

	var habits []models.Habit
	if err := json.Unmarshal(trimmed, &habits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return habits, nil
}

// DefaultFileName names an export after the UTC day it was taken
func DefaultFileName(now time.Time) string {
	return constants.ExportFilePrefix + now.UTC().Format(constants.DateFormat) + constants.ExportFileSuffix
}

// WriteFile exports habits to path atomically
func WriteFile(path string, habits []models.Habit, now time.Time) error {
	data, err := Export(habits, now)
	if err != nil {
		return err
	}
	return storage.WriteFileAtomic(path, append(data, '\n'), 0644)
}

// ReadFile reads and parses a backup file
func ReadFile(path string) ([]models.Habit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseImport(data)
}
