package habits

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
)

// AddMessage appends a motivational message. The first message added to a
// habit becomes its display message.
func (s *Store) AddMessage(habitID int64, text string) (models.Message, error) {
	h := s.find(habitID)
	if h == nil {
		return models.Message{}, ErrHabitNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyMessage
	}

	m := models.Message{
		ID:        s.ids.Next(),
		Text:      text,
		CreatedAt: s.clock().UTC().Truncate(time.Millisecond),
	}
	h.MotivationalMessages = append(h.MotivationalMessages, m)
	if len(h.MotivationalMessages) == 1 {
		h.CurrentDisplayMessage = models.Ref(m.ID)
	}

	if err := s.saveHabits(); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// EditMessage replaces a message's text
func (s *Store) EditMessage(habitID, messageID int64, text string) error {
	h := s.find(habitID)
	if h == nil {
		return ErrHabitNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	i := h.FindMessage(messageID)
	if i < 0 {
		return ErrMessageNotFound
	}
	h.MotivationalMessages[i].Text = text
	return s.saveHabits()
}

// DeleteMessage removes a message. If it was the display message (or no
// display message was set) the first remaining message takes its place.
func (s *Store) DeleteMessage(habitID, messageID int64) error {
	h := s.find(habitID)
	if h == nil {
		return ErrHabitNotFound
	}
	i := h.FindMessage(messageID)
	if i < 0 {
		return ErrMessageNotFound
	}

	wasCurrent := h.CurrentDisplayMessage != nil && int64(*h.CurrentDisplayMessage) == messageID
	h.MotivationalMessages = append(h.MotivationalMessages[:i], h.MotivationalMessages[i+1:]...)

	if wasCurrent || h.CurrentDisplayMessage == nil {
		h.CurrentDisplayMessage = nil
		if len(h.MotivationalMessages) > 0 {
			h.CurrentDisplayMessage = models.Ref(h.MotivationalMessages[0].ID)
		}
	}
	return s.saveHabits()
}

// NextMessage returns the message after currentMessageID, wrapping to the
// first. An unknown current id also yields the first message.
func (s *Store) NextMessage(habitID, currentMessageID int64) (models.Message, bool) {
	h := s.find(habitID)
	if h == nil || len(h.MotivationalMessages) == 0 {
		return models.Message{}, false
	}
	msgs := h.MotivationalMessages
	if len(msgs) == 1 {
		return msgs[0], true
	}
	next := (h.FindMessage(currentMessageID) + 1) % len(msgs)
	return msgs[next], true
}

// CurrentMessage resolves the habit's display message, falling back to the
// first message when the reference is unset.
func (s *Store) CurrentMessage(habitID int64) (models.Message, bool) {
	h := s.find(habitID)
	if h == nil || len(h.MotivationalMessages) == 0 {
		return models.Message{}, false
	}
	if h.CurrentDisplayMessage != nil {
		if i := h.FindMessage(int64(*h.CurrentDisplayMessage)); i >= 0 {
			return h.MotivationalMessages[i], true
		}
	}
	return h.MotivationalMessages[0], true
}

// ShowNextMessage advances the display message and persists the new
// position.
func (s *Store) ShowNextMessage(habitID int64) (models.Message, bool, error) {
	current, ok := s.CurrentMessage(habitID)
	if !ok {
		return models.Message{}, false, nil
	}
	next, ok := s.NextMessage(habitID, current.ID)
	if !ok {
		return models.Message{}, false, nil
	}
	s.find(habitID).CurrentDisplayMessage = models.Ref(next.ID)
	if err := s.saveHabits(); err != nil {
		return next, true, err
	}
	return next, true, nil
}

// RandomMessage picks any of the habit's messages
func (s *Store) RandomMessage(habitID int64) (models.Message, bool) {
	h := s.find(habitID)
	if h == nil || len(h.MotivationalMessages) == 0 {
		return models.Message{}, false
	}
	return h.MotivationalMessages[rand.IntN(len(h.MotivationalMessages))], true
}
