package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/transfer"
)

type SortCmd struct {
	Key string `arg:"" optional:"" help:"Sort key: name, name-desc, streak, streak-asc, total, total-asc, recent, oldest."`
}

func (c *SortCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}

	if c.Key == "" {
		current := store.SortBy()
		for _, k := range constants.SortKeys {
			marker := " "
			if k == current {
				marker = "*"
			}
			ctx.Printf("%s %-11s %s\n", marker, k, k.Label())
		}
		if !current.IsKnown() {
			ctx.Printf("\nStored sort key %q is not recognized; habits are shown in stored order.\n", current)
		}
		return nil
	}

	key := constants.SortKey(strings.ToLower(strings.TrimSpace(c.Key)))
	if !key.IsKnown() {
		names := make([]string, len(constants.SortKeys))
		for i, k := range constants.SortKeys {
			names[i] = string(k)
		}
		return fmt.Errorf("unknown sort key %q (valid: %s)", c.Key, strings.Join(names, ", "))
	}
	if err := store.SetSortBy(key); err != nil {
		return err
	}
	ctx.Printf("Sorting by %s\n", key.Label())
	return nil
}

type ExportCmd struct {
	Out string `help:"Output file (default: habit-tracker-backup-YYYY-MM-DD.json in the current directory)." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	now := store.Today()
	path := c.Out
	if path == "" {
		path = transfer.DefaultFileName(now)
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Confirm(fmt.Sprintf("Overwrite %s?", path), "The existing file will be replaced."); err != nil {
			return err
		}
	}

	list := store.Habits()
	if err := transfer.WriteFile(path, list, now); err != nil {
		return err
	}
	logger.Info("Exported habits", "path", path, "count", len(list))
	ctx.Printf("Exported %d habits to %s\n", len(list), path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Backup file to import." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	imported, err := transfer.ReadFile(c.File)
	if err != nil {
		return err
	}

	if n := store.Len(); n > 0 {
		title := fmt.Sprintf("Replace %d existing habits with %d from %s?", n, len(imported), c.File)
		if err := ctx.Confirm(title, "Current habits and their history will be overwritten."); err != nil {
			return err
		}
		ctx.PerformAutomaticBackup()
	}

	if err := store.ImportHabits(imported); err != nil {
		return err
	}
	logger.Info("Imported habits", "path", c.File, "count", len(imported))
	ctx.Printf("Imported %d habits\n", len(imported))
	return nil
}

type ClearCmd struct{}

func (c *ClearCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	if store.Len() == 0 {
		ctx.Println("Nothing to clear.")
		return nil
	}
	if err := ctx.Confirm(fmt.Sprintf("Delete all %d habits?", store.Len()), "This cannot be undone."); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if err := store.ClearAll(); err != nil {
		return err
	}
	logger.Info("Cleared all habits")
	ctx.Println("All habits deleted.")
	return nil
}
