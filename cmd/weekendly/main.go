package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/kunal-511/weekendly/internal/catalog"
	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/cli/activities"
	"github.com/kunal-511/weekendly/internal/cli/backups"
	"github.com/kunal-511/weekendly/internal/cli/history"
	"github.com/kunal-511/weekendly/internal/cli/plan"
	"github.com/kunal-511/weekendly/internal/cli/review"
	"github.com/kunal-511/weekendly/internal/cli/system"
	"github.com/kunal-511/weekendly/internal/config"
	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/errors"
	"github.com/kunal-511/weekendly/internal/logger"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	DSN     string `help:"Storage override: sqlite or .json path, postgres:// or redis:// URL, or 'keyring'. PostgreSQL credentials must NOT be embedded; use .pgpass or the OS keyring." name:"dsn"`
	Debug   bool   `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize weekendly storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive weekend board." default:"1"`

	Catalog activities.CatalogCmd `cmd:"" help:"Browse the activity catalog."`
	Suggest activities.SuggestCmd `cmd:"" help:"Suggest slots with room for an activity."`
	Theme   activities.ThemeCmd   `cmd:"" help:"List themes or pick one."`

	Add    plan.AddCmd    `cmd:"" help:"Schedule an activity."`
	Move   plan.MoveCmd   `cmd:"" help:"Move a scheduled activity to another slot."`
	Remove plan.RemoveCmd `cmd:"" help:"Remove a scheduled activity."`
	Note   plan.NoteCmd   `cmd:"" help:"Set or clear notes on a scheduled activity."`
	Day    plan.DayCmd    `cmd:"" help:"Toggle friday or monday, or plan a long weekend."`
	Clear  plan.ClearCmd  `cmd:"" help:"Clear the weekend plan."`

	Show     review.ShowCmd     `cmd:"" help:"Show the weekend plan."`
	Audit    review.AuditCmd    `cmd:"" help:"List slots planned past their time window."`
	Validate review.ValidateCmd `cmd:"" help:"Validate the saved plan for conflicts."`
	Insights review.InsightsCmd `cmd:"" help:"Show the mood balance of the plan."`

	Revisions history.RevisionsCmd `cmd:"" help:"List saved revisions of the plan."`
	Restore   history.RestoreCmd   `cmd:"" help:"Restore a saved revision as the current plan."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage storage backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the storage DSN in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored DSN with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored DSN."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the storage DSN in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekend activity planner with slot clash detection"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)
	command := ctx.Command()

	cfg, err := config.LoadFrom(config.ExpandPath(CLI.Config))
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
	if CLI.DSN != "" {
		cfg.Storage.DSN = config.ExpandPath(CLI.DSN)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Log.Debug,
		ConfigDir: config.Dir(config.ExpandPath(CLI.Config)),
		// stderr would corrupt the board
		Stderr: !strings.HasPrefix(command, "tui"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	cat, err := catalog.Load()
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Scheduler:  scheduler.New(),
		Catalog:    cat,
		Config:     cfg,
		ConfigPath: config.ExpandPath(CLI.Config),
	}

	// keyring commands must work before the keyring DSN exists
	if !strings.HasPrefix(command, "keyring") {
		store, err := cli.OpenStore(cfg.Storage.DSN)
		if err != nil {
			errors.Fatal(err)
		}
		appCtx.Store = store

		// init creates the store and doctor reports on it
		if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "doctor") {
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	}

	runErr := ctx.Run(appCtx)
	if err := appCtx.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		errors.Fatal(runErr)
	}
}
