package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing database file before initializing."`
	Source string `help:"Storage location (file path or PostgreSQL URL) to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	err := ctx.Provider.Init()
	switch {
	case errors.Is(err, storage.ErrAlreadyInitialized):
		ctx.Printf("Storage already initialized at: %s\n", ctx.Provider.GetConfigPath())
	case err != nil:
		return err
	default:
		ctx.Printf("Initialized habitgrid storage at: %s\n", ctx.Provider.GetConfigPath())
	}

	if ctx.ConfigDir != "" {
		path := filepath.Join(ctx.ConfigDir, constants.ConfigFileName)
		created, err := config.CreateDefault(path)
		if err != nil {
			logger.Warn("Failed to write default config", "path", path, "error", err)
		} else if created {
			ctx.Printf("Wrote default config to: %s\n", path)
		}
	}

	if c.Source != "" {
		ctx.Printf("Copying habits from: %s\n", c.Source)
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Copied %d habits.\n", n)
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	switch ctx.Provider.(type) {
	case *sqlite.Store, *storage.JSONStore:
	default:
		return errors.New("--force is only supported for file storage")
	}
	dbPath, err := filepath.Abs(ctx.Provider.GetConfigPath())
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}
	if c.Source != "" {
		if src, err := filepath.Abs(c.Source); err == nil && src == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if err := ctx.Confirm(fmt.Sprintf("Delete %s?", dbPath), "All habits stored there will be lost."); err != nil {
		return err
	}
	if err := ctx.Provider.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyFrom loads habits and the sort order from the source location and
// writes them into the freshly initialized store.
func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	source, err := cli.NewProvider(config.ExpandPath(c.Source))
	if err != nil {
		return 0, err
	}
	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source storage: %w", err)
	}
	defer source.Close()

	from := habits.New(source)
	if err := from.Load(); err != nil {
		return 0, err
	}

	to, err := ctx.OpenStore()
	if err != nil {
		return 0, err
	}
	if err := to.ImportHabits(from.Habits()); err != nil {
		return 0, err
	}
	if err := to.SetSortBy(from.SortBy()); err != nil {
		return 0, err
	}
	return to.Len(), nil
}
