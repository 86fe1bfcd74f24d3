package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Habit represents a recurring practice tracked as a set of completed days
type Habit struct {
	ID                    int64       `json:"id"`
	Name                  string      `json:"name"`
	CompletedDates        []string    `json:"completedDates"` // YYYY-MM-DD, deduplicated
	Streak                int         `json:"streak"`
	MotivationalMessages  []Message   `json:"motivationalMessages"`
	CurrentDisplayMessage *MessageRef `json:"currentDisplayMessage,omitempty"`
}

// Message is a motivational line shown alongside a habit
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// createdAtLayouts are tried in order when decoding Message.CreatedAt
var createdAtLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// UnmarshalJSON decodes a message, reading createdAt leniently. The value is
// informational, so an empty or unparsable timestamp decodes as the zero time
// instead of rejecting the message.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        int64           `json:"id"`
		Text      string          `json:"text"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.ID = raw.ID
	m.Text = raw.Text
	m.CreatedAt = parseCreatedAt(raw.CreatedAt)
	return nil
}

func parseCreatedAt(data json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		for _, layout := range createdAtLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	// epoch milliseconds
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// MessageRef points at a message by id. It is a weak reference: the message
// it names may have been deleted, so it must always be resolved through the
// owning habit's message list.
//
// Older exports stored the whole message object here; both shapes decode.
type MessageRef int64

func (r *MessageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var m struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("invalid currentDisplayMessage: %w", err)
		}
		*r = MessageRef(m.ID)
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid currentDisplayMessage: %w", err)
	}
	*r = MessageRef(id)
	return nil
}

// Ref returns a MessageRef for id.
func Ref(id int64) *MessageRef {
	r := MessageRef(id)
	return &r
}

// HasDate reports whether day is in the habit's completed set
func (h *Habit) HasDate(day string) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// DateSet returns the completed dates as a lookup set
func (h *Habit) DateSet() map[string]struct{} {
	set := make(map[string]struct{}, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		set[d] = struct{}{}
	}
	return set
}

// FindMessage returns the index of the message with the given id, or -1
func (h *Habit) FindMessage(id int64) int {
	for i, m := range h.MotivationalMessages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can't mutate store state through slices
func (h Habit) Clone() Habit {
	out := h
	// slices.Clone keeps empty lists non-nil so they encode as [] not null
	out.CompletedDates = slices.Clone(h.CompletedDates)
	out.MotivationalMessages = slices.Clone(h.MotivationalMessages)
	if h.CurrentDisplayMessage != nil {
		out.CurrentDisplayMessage = Ref(int64(*h.CurrentDisplayMessage))
	}
	return out
}
