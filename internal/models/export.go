package models

import "encoding/json"

// ExportFile is the on-disk backup envelope shared with the web tracker
type ExportFile struct {
	ExportDate string  `json:"exportDate"` // RFC3339
	Version    string  `json:"version"`
	Habits     []Habit `json:"habits"`
}

// RawExportFile is used on import so the shape of "habits" can be checked
// before decoding it.
type RawExportFile struct {
	ExportDate string          `json:"exportDate"`
	Version    string          `json:"version"`
	Habits     json.RawMessage `json:"habits"`
}
