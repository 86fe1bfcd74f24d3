package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "habitgrid.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	var out bytes.Buffer
	ctx := &cli.Context{
		Provider:  store,
		ConfigDir: dir,
		Out:       &out,
		Yes:       true,
	}
	return ctx, dbPath, &out
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, out := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if _, err := os.Stat(filepath.Join(ctx.ConfigDir, constants.ConfigFileName)); err != nil {
		t.Errorf("default config was not written: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized habitgrid storage") {
		t.Errorf("output = %q", out.String())
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, out := setupTestInitDB(t)
	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
	if strings.Count(out.String(), "Wrote default config") != 1 {
		t.Errorf("config should only be written once:\n%s", out.String())
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _, out := setupTestInitDB(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	s, err := ctx.OpenStore()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddHabit("Read"); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	ctx.Store = nil
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("output = %q", out.String())
	}
	fresh, err := ctx.OpenStore()
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Len() != 0 {
		t.Errorf("habits survived --force: %d", fresh.Len())
	}
}

func TestInitCmd_ForceRejectsMemoryStore(t *testing.T) {
	ctx := &cli.Context{Provider: storage.NewMemoryStore(), Yes: true}
	if err := (&InitCmd{Force: true}).Run(ctx); err == nil {
		t.Error("--force on memory storage should fail")
	}
}

func TestInitCmd_CopyFromSource(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "old.json")
	src := storage.NewJSONStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}
	old := habits.New(src)
	if err := old.Load(); err != nil {
		t.Fatal(err)
	}
	h, err := old.AddHabit("Read")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := old.ToggleCompletion(h.ID, "2024-06-01"); err != nil {
		t.Fatal(err)
	}
	if err := old.SetSortBy(constants.SortStreak); err != nil {
		t.Fatal(err)
	}

	ctx, _, out := setupTestInitDB(t)
	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init --source failed: %v", err)
	}
	if !strings.Contains(out.String(), "Copied 1 habits.") {
		t.Errorf("output = %q", out.String())
	}

	s, err := ctx.OpenStore()
	if err != nil {
		t.Fatal(err)
	}
	got := s.Habits()
	if len(got) != 1 || got[0].Name != "Read" || !got[0].HasDate("2024-06-01") {
		t.Errorf("copied habits = %+v", got)
	}
	if s.SortBy() != constants.SortStreak {
		t.Errorf("SortBy() = %q, want streak", s.SortBy())
	}
}
