package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/cli/backups"
	"github.com/julianstephens/habitgrid/internal/cli/system"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/dates"
	apperrors "github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/session"
	"github.com/julianstephens/habitgrid/internal/storage"
)

var CLI struct {
	Version    kong.VersionFlag
	Config     string `help:"Storage location: a SQLite path, a .json path or a PostgreSQL URL. Credentials should come from the keyring or HABITGRID_DB_CONNECTION, not the URL." type:"string"`
	ConfigFile string `help:"Path to the TOML config file." type:"path" default:"~/.config/habitgrid/config.toml"`
	Timezone   string `help:"IANA timezone that decides what today is."`
	Locale     string `help:"BCP 47 locale used to sort habit names."`
	Debug      bool   `help:"Log debug output to stderr."`
	Yes        bool   `short:"y" help:"Answer yes to every confirmation."`
	Ephemeral  bool   `help:"Keep data in memory only; nothing is saved."`

	Init    system.InitCmd   `cmd:"" help:"Initialize habitgrid storage."`
	Doctor  system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit   cli.HabitCmd     `cmd:"" help:"Manage habits and completions."`
	Message cli.MessageCmd   `cmd:"" help:"Manage motivational messages."`
	Sort    cli.SortCmd      `cmd:"" help:"Show or change the habit sort order."`
	Export  cli.ExportCmd    `cmd:"" help:"Export all habits to a JSON file."`
	Import  cli.ImportCmd    `cmd:"" help:"Replace all habits with a JSON export."`
	Clear   cli.ClearCmd     `cmd:"" help:"Delete every habit."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// commands that never take the session lock
var lockFree = map[string]bool{
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with a year-at-a-glance completion grid"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	os.Exit(run(ctx))
}

// run wires the context and executes the selected command. It returns the
// exit code so deferred cleanup runs before the process exits.
func run(ctx *kong.Context) int {
	cfg, err := config.Load(CLI.ConfigFile)
	if err != nil {
		return apperrors.Report(os.Stderr, err)
	}
	cfg = cfg.Apply(config.Overrides{
		Storage:  CLI.Config,
		Timezone: CLI.Timezone,
		Locale:   CLI.Locale,
		Debug:    CLI.Debug,
	})
	if err := cfg.Validate(); err != nil {
		return apperrors.Report(os.Stderr, err)
	}

	configDir := config.Dir()
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		return apperrors.Report(os.Stderr, fmt.Errorf("failed to initialize logger: %w", err))
	}

	// Validate already parsed both
	loc, _ := cfg.Location()
	tag, _ := cfg.Language()

	var provider storage.Provider
	if CLI.Ephemeral {
		provider = storage.NewMemoryStore()
	} else if provider, err = cli.NewProvider(cfg.Storage); err != nil {
		return apperrors.Report(os.Stderr, err)
	}
	defer provider.Close()

	command := rootCommand(ctx)
	logger.Debug("Starting", "command", ctx.Command(), "storage", provider.GetConfigPath(), "timezone", loc.String())

	if !lockFree[command] {
		lock, err := session.Acquire(configDir)
		if err != nil {
			return apperrors.Report(os.Stderr, err)
		}
		defer lock.Release()
	}

	appCtx := &cli.Context{
		Provider:  provider,
		Config:    cfg,
		ConfigDir: configDir,
		Clock:     dates.ClockIn(loc),
		Locale:    tag,
		Yes:       CLI.Yes,
	}

	return apperrors.Report(os.Stderr, ctx.Run(appCtx))
}

// rootCommand is the first word of the selected command, e.g. "backup"
// for "backup restore <backup>".
func rootCommand(ctx *kong.Context) string {
	fields := strings.Fields(ctx.Command())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
