package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kunal-511/weekendly/internal/backup"
	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/config"
	"github.com/kunal-511/weekendly/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing store before initialization."`
	Source string `help:"Store path or connection string to copy settings and revisions from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	local := backup.Supported(dbPath)

	if c.Force && local {
		// Don't delete if it's the source (user error protection)
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(config.ExpandPath(c.Source))
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Printf("Deleted existing store at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	if c.Force && !local {
		if err := ctx.Store.ClearSchedule(); err != nil {
			return fmt.Errorf("failed to reset saved revisions: %w", err)
		}
	}
	fmt.Printf("Initialized weekendly storage at: %s\n", ctx.Store.GetConfigPath())

	if err := c.seedTheme(ctx); err != nil {
		return err
	}
	if err := c.writeConfig(ctx); err != nil {
		return err
	}

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

// seedTheme copies the configured theme into a freshly initialized store.
func (c *InitCmd) seedTheme(ctx *cli.Context) error {
	if ctx.Config == nil || ctx.Config.Planner.Theme == "" {
		return nil
	}
	settings := ctx.Settings()
	if settings.Theme == ctx.Config.Planner.Theme {
		return nil
	}
	settings.Theme = ctx.Config.Planner.Theme
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// writeConfig saves the effective config when no config file exists yet.
func (c *InitCmd) writeConfig(ctx *cli.Context) error {
	if ctx.Config == nil || ctx.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(ctx.ConfigPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access config file: %w", err)
	}
	if err := ctx.Config.SaveTo(ctx.ConfigPath); err != nil {
		return err
	}
	fmt.Printf("Wrote config file: %s\n", ctx.ConfigPath)
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	sourceStore, err := cli.OpenStore(config.ExpandPath(source))
	if err != nil {
		return err
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer sourceStore.Close()

	return copyStore(sourceStore, ctx.Store)
}

// copyStore copies settings and every saved revision, oldest first. The
// destination numbers the revisions itself.
func copyStore(src, dst storage.Provider) error {
	fmt.Println("  Migrating settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating schedule revisions...")
	revisions, err := src.ListScheduleRevisions(0)
	if err != nil {
		return fmt.Errorf("failed to list revisions from source: %w", err)
	}
	for i := len(revisions) - 1; i >= 0; i-- {
		snap, err := src.GetScheduleRevision(revisions[i].Revision)
		if err != nil {
			return fmt.Errorf("failed to get revision %d from source: %w", revisions[i].Revision, err)
		}
		if _, err := dst.SaveSchedule(snap.Schedule); err != nil {
			return fmt.Errorf("failed to save revision %d: %w", revisions[i].Revision, err)
		}
	}
	fmt.Printf("    Migrated %d revisions\n", len(revisions))

	return nil
}
