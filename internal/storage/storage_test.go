package storage

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		location string
		want     Kind
	}{
		{"postgres://habits@localhost/habitgrid", KindPostgres},
		{"postgresql://habits@localhost/habitgrid", KindPostgres},
		{"  postgres://habits@localhost/habitgrid", KindPostgres},
		{"/home/me/.config/habitgrid/habits.json", KindJSON},
		{"HABITS.JSON", KindJSON},
		{"/home/me/.config/habitgrid/habitgrid.db", KindSQLite},
		{"habits", KindSQLite},
	}
	for _, tt := range tests {
		if got := KindOf(tt.location); got != tt.want {
			t.Errorf("KindOf(%q) = %s, want %s", tt.location, got, tt.want)
		}
	}
}

// exerciseProvider checks the blob contract every back end shares
func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()

	if _, ok, err := p.GetBlob("habits"); err != nil || ok {
		t.Fatalf("GetBlob(missing) = (%v, %v), want (false, nil)", ok, err)
	}
	if err := p.SetBlob("habits", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("SetBlob() error = %v", err)
	}
	if err := p.SetBlob("sortBy", []byte("streak")); err != nil {
		t.Fatalf("SetBlob() error = %v", err)
	}
	if err := p.SetBlob("habits", []byte(`[]`)); err != nil {
		t.Fatalf("SetBlob(overwrite) error = %v", err)
	}

	got, ok, err := p.GetBlob("habits")
	if err != nil || !ok || string(got) != "[]" {
		t.Errorf("GetBlob(habits) = (%q, %v, %v), want ([], true, nil)", got, ok, err)
	}
	keys, err := p.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keys, []string{"habits", "sortBy"}) {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseProvider(t, NewMemoryStore())
}

func TestMemoryStore_CopiesBlobs(t *testing.T) {
	m := NewMemoryStore()
	blob := []byte("abc")
	_ = m.SetBlob("k", blob)
	blob[0] = 'z'
	got, _, _ := m.GetBlob("k")
	if string(got) != "abc" {
		t.Errorf("stored blob aliased caller's slice: %q", got)
	}
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "habits.json")
	s := NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	exerciseProvider(t, s)

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, ok, _ := reopened.GetBlob("sortBy")
	if !ok || string(got) != "streak" {
		t.Errorf("reloaded sortBy = (%q, %v)", got, ok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestJSONStore_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	s := NewJSONStore(path)

	if _, _, err := s.GetBlob("habits"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("GetBlob() before Load error = %v, want ErrNotLoaded", err)
	}
	if err := s.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Load() on missing file error = %v, want ErrNotInitialized", err)
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONStore(path).Init(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init() error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestJSONStore_RejectsCorruptAndNewerFiles(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"corrupt.json": `{not json`,
		"newer.json":   `{"version": 99, "entries": {}}`,
	}
	for name, content := range tests {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		if err := NewJSONStore(path).Load(); err == nil {
			t.Errorf("Load(%s) expected error", name)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := WriteFileAtomic(path, []byte("one"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("two"), 0644); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "two" {
		t.Errorf("content = %q, want %q", data, "two")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	if err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "out"), []byte("x"), 0644); err == nil {
		t.Error("expected error for missing directory")
	}
}
