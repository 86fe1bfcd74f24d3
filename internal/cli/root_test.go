package cli

import (
	"bytes"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/dates"
	apperrors "github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/storage"
)

var testNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	ctx := &Context{
		Provider: storage.NewMemoryStore(),
		Clock:    dates.FixedClock(testNow),
		Out:      &out,
		Yes:      true,
	}
	return ctx, &out
}

func mustStore(t *testing.T, ctx *Context) *habits.Store {
	t.Helper()
	s, err := ctx.OpenStore()
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	return s
}

func TestOpenStoreIsCached(t *testing.T) {
	ctx, _ := setupTestContext(t)
	first := mustStore(t, ctx)
	if second := mustStore(t, ctx); first != second {
		t.Error("OpenStore() should reuse the loaded store")
	}
	if got := first.Today(); !got.Equal(testNow) {
		t.Errorf("Today() = %v, want the context clock", got)
	}
}

func TestConfirm(t *testing.T) {
	answer := func(ok bool, err error) PromptFunc {
		return func(string, string) (bool, error) { return ok, err }
	}
	tests := []struct {
		name    string
		yes     bool
		prompt  PromptFunc
		wantErr error
	}{
		{name: "yes flag skips prompt", yes: true, prompt: answer(false, nil)},
		{name: "accepted", prompt: answer(true, nil)},
		{name: "declined", prompt: answer(false, nil), wantErr: apperrors.ErrCancelled},
		{name: "aborted", prompt: answer(false, huh.ErrUserAborted), wantErr: apperrors.ErrCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &Context{Yes: tt.yes, Prompt: tt.prompt}
			err := ctx.Confirm("Delete?", "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Confirm() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfirmPromptFailure(t *testing.T) {
	boom := errors.New("tty gone")
	ctx := &Context{Prompt: func(string, string) (bool, error) { return false, boom }}
	err := ctx.Confirm("Delete?", "")
	if !errors.Is(err, boom) || errors.Is(err, apperrors.ErrCancelled) {
		t.Errorf("Confirm() error = %v, want wrapped prompt error", err)
	}
}

func TestResolveHabit(t *testing.T) {
	ctx, _ := setupTestContext(t)
	s := mustStore(t, ctx)
	read, err := s.AddHabit("Read")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddHabit("Run"); err != nil {
		t.Fatal(err)
	}

	h, err := ResolveHabit(s, "  read ")
	if err != nil || h.ID != read.ID {
		t.Errorf("ResolveHabit(name) = %d, %v; want %d", h.ID, err, read.ID)
	}
	h, err = ResolveHabit(s, strconv.FormatInt(read.ID, 10))
	if err != nil || h.ID != read.ID {
		t.Errorf("ResolveHabit(id) = %d, %v; want %d", h.ID, err, read.ID)
	}
	if _, err := ResolveHabit(s, "Swim"); !errors.Is(err, habits.ErrHabitNotFound) {
		t.Errorf("ResolveHabit(missing) error = %v, want ErrHabitNotFound", err)
	}

	if _, err := s.AddHabit("READ"); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveHabit(s, "read"); !errors.Is(err, ErrAmbiguousHabit) {
		t.Errorf("ResolveHabit(duplicate) error = %v, want ErrAmbiguousHabit", err)
	}
}
