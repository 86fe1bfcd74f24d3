package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

// ErrUnsupportedStorage is returned for backup commands on a non-SQLite store
var ErrUnsupportedStorage = errors.New("backups are only supported for SQLite storage")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Provider.(*sqlite.Store); !ok {
		return nil, ErrUnsupportedStorage
	}
	return backup.NewManager(ctx.Provider.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	list, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(list) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(list), constants.MaxBackups)
	for i, b := range list {
		sizeKB := float64(b.Size) / 1024.0
		ctx.Printf("  %2d  %s  %s  (%.1f KB)\n", i+1, b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" help:"Backup number from 'backup list', a file name in the backup directory, or a path."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := resolve(mgr, c.Backup)
	if err != nil {
		return err
	}

	if err := ctx.Confirm(
		fmt.Sprintf("Restore the database from %s?", filepath.Base(backupPath)),
		"The current database is backed up first, then replaced.",
	); err != nil {
		return err
	}

	if err := ctx.Provider.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	ctx.Store = nil

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	store, err := ctx.OpenStore()
	if err != nil {
		return fmt.Errorf("restored database could not be opened: %w", err)
	}
	ctx.Printf("✓ Database restored (%d habits)\n", store.Len())
	if previous != "" {
		ctx.Printf("  Previous database saved as %s\n", filepath.Base(previous))
	}
	return nil
}

// resolve accepts a 1-based index into the backup list, a path, or a file
// name inside the backup directory.
func resolve(mgr *backup.Manager, ref string) (string, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		list, err := mgr.ListBackups()
		if err != nil {
			return "", err
		}
		if n < 1 || n > len(list) {
			return "", fmt.Errorf("backup number %d out of range (1-%d)", n, len(list))
		}
		return list[n-1].Path, nil
	}

	if _, err := os.Stat(ref); err == nil {
		abs, err := filepath.Abs(ref)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return abs, nil
	}
	if filepath.IsAbs(ref) {
		return "", fmt.Errorf("backup file not found: %s", ref)
	}

	inDir := filepath.Join(mgr.GetBackupDir(), ref)
	if _, err := os.Stat(inDir); err == nil {
		return inDir, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.GetBackupDir())
}
