package system

import (
	"fmt"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}

	// Snapshot on startup, after a successful load
	ctx.PerformAutomaticBackup()

	if err := tui.Run(store); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}
