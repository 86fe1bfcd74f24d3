package migration

import (
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitgrid/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sqlFiles(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range files {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&n); err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return n > 0
}

func TestCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, sqlFiles(map[string]string{"001_test.sql": "CREATE TABLE test (id INTEGER);"}))

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if version, _ = runner.CurrentVersion(); version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestMigrations_OrderAndNames(t *testing.T) {
	runner := NewRunner(setupTestDB(t), sqlFiles(map[string]string{
		"003_another.sql": "SELECT 1;",
		"001_init.sql":    "SELECT 1;",
		"002_update.sql":  "SELECT 1;",
		"README.md":       "ignored",
	}))

	ms, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	if len(ms) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(ms))
	}
	for i, w := range want {
		if ms[i].Version != w.version || ms[i].Name != w.name {
			t.Errorf("migration %d = (%d, %s), want (%d, %s)", i, ms[i].Version, ms[i].Name, w.version, w.name)
		}
	}
}

func TestMigrations_InvalidFiles(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "no underscore", files: map[string]string{"001.sql": "SELECT 1;"}},
		{name: "non numeric", files: map[string]string{"abc_init.sql": "SELECT 1;"}},
		{name: "zero version", files: map[string]string{"000_init.sql": "SELECT 1;"}},
		{name: "duplicate", files: map[string]string{"001_a.sql": "SELECT 1;", "01_b.sql": "SELECT 1;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), sqlFiles(tt.files))
			if _, err := runner.Migrations(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestApply_FromScratchAndIncremental(t *testing.T) {
	db := setupTestDB(t)
	files := sqlFiles(map[string]string{
		"001_users.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
	})
	runner := NewRunner(db, files)

	var logged []string
	count, err := runner.Apply(func(s string) { logged = append(logged, s) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 1 || !tableExists(t, db, "users") {
		t.Fatalf("first Apply = %d, users table exists = %v", count, tableExists(t, db, "users"))
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}

	files["002_posts.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY);")}
	count, err = runner.Apply(nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if count != 1 || !tableExists(t, db, "posts") {
		t.Errorf("second Apply = %d, want 1 and posts table", count)
	}

	if count, _ = runner.Apply(nil); count != 0 {
		t.Errorf("third Apply = %d, want 0", count)
	}
	if v, _ := runner.CurrentVersion(); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
}

func TestApply_FailureRollsBack(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, sqlFiles(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER); THIS IS NOT SQL;",
	}))

	count, err := runner.Apply(nil)
	if err == nil {
		t.Fatal("expected Apply to fail")
	}
	if count != 1 {
		t.Errorf("applied = %d, want 1", count)
	}
	if v, _ := runner.CurrentVersion(); v != 1 {
		t.Errorf("version = %d, want 1 after failed migration", v)
	}
	if tableExists(t, db, "broken") {
		t.Error("failed migration left a table behind")
	}
}

func TestValidate_SchemaTooNew(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, sqlFiles(map[string]string{"001_init.sql": "SELECT 1;"}))
	if err := runner.SetVersion(9); err != nil {
		t.Fatal(err)
	}

	if err := runner.Validate(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Validate() error = %v, want ErrSchemaTooNew", err)
	}
	if _, err := runner.Apply(nil); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Apply() error = %v, want ErrSchemaTooNew", err)
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatal(err)
	}
	db := setupTestDB(t)
	runner := NewRunner(db, sub)
	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	if !tableExists(t, db, "kv") {
		t.Error("kv table missing after embedded migrations")
	}
}

func TestPostgresPlaceholder(t *testing.T) {
	if got := Postgres.Placeholder(2); got != "$2" {
		t.Errorf("Postgres.Placeholder(2) = %q", got)
	}
	if got := SQLite.Placeholder(2); got != "?" {
		t.Errorf("SQLite.Placeholder(2) = %q", got)
	}
}
