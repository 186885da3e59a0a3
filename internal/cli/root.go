package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kunal-511/weekendly/internal/backup"
	"github.com/kunal-511/weekendly/internal/catalog"
	"github.com/kunal-511/weekendly/internal/config"
	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/keyring"
	"github.com/kunal-511/weekendly/internal/logger"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/persist"
	"github.com/kunal-511/weekendly/internal/planner"
	"github.com/kunal-511/weekendly/internal/scheduler"
	"github.com/kunal-511/weekendly/internal/storage"
	"github.com/kunal-511/weekendly/internal/storage/postgres"
	redisstore "github.com/kunal-511/weekendly/internal/storage/redis"
	"github.com/kunal-511/weekendly/internal/storage/sqlite"
	"github.com/kunal-511/weekendly/internal/validation"
)

const syncTimeout = 30 * time.Second

type Context struct {
	Store      storage.Provider
	Scheduler  *scheduler.Scheduler
	Catalog    *catalog.Catalog
	Config     *config.Config
	ConfigPath string

	planner *planner.Planner
	mirror  *persist.Mirror
}

// OpenStore picks the storage backend for dsn. The literal "keyring" reads
// the real DSN from the OS keyring first.
func OpenStore(dsn string) (storage.Provider, error) {
	fromKeyring := false
	if dsn == constants.KeyringDSN {
		stored, err := keyring.GetDSN()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no storage DSN found in keyring. Use 'weekendly keyring set' to store one")
			}
			return nil, fmt.Errorf("failed to read storage DSN from keyring: %w", err)
		}
		if stored == constants.KeyringDSN {
			return nil, errors.New("keyring DSN must not point back to the keyring")
		}
		dsn = stored
		fromKeyring = true
	}

	switch {
	case redisstore.IsURL(dsn):
		return redisstore.NewFromURL(dsn)
	case postgres.IsConnString(dsn):
		if valid, err := postgres.ValidateConnString(dsn); !valid {
			// passwords are fine once they live in the keyring
			if !(fromKeyring && errors.Is(err, postgres.ErrEmbeddedCredentials)) {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w. Store the DSN with 'weekendly keyring set' and set dsn = \"keyring\", or use .pgpass", err)
				}
				return nil, err
			}
		}
		return postgres.New(dsn), nil
	case strings.EqualFold(filepath.Ext(dsn), ".json"):
		return storage.NewJSONStore(dsn), nil
	}
	return sqlite.NewStore(dsn), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Config != nil && !c.Config.Storage.BackupOnStart {
		return
	}
	path := c.Store.GetConfigPath()
	if !backup.Supported(path) {
		logger.Debug("Skipping automatic backup", "store", path)
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// LoadSchedule returns the newest saved schedule, or a fresh weekend when
// nothing was saved yet.
func (c *Context) LoadSchedule() (models.WeekendSchedule, error) {
	snap, err := c.Store.GetSchedule()
	if err == nil {
		return snap.Schedule, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	schedule := models.NewWeekendSchedule()
	if c.Config != nil && c.Config.Planner.LongWeekend {
		return c.Scheduler.EnableDays(schedule, models.Friday, models.Monday)
	}
	return schedule, nil
}

// Planner returns the session planner, loading the newest saved schedule on
// first use. Every settled change is mirrored to the store.
func (c *Context) Planner() (*planner.Planner, error) {
	if c.planner != nil {
		return c.planner, nil
	}

	initial, err := c.LoadSchedule()
	if err != nil {
		return nil, err
	}
	if result := validation.New(c.Scheduler, c.Catalog).ValidateSchedule(initial); result.HasConflicts() {
		logger.Warn("Stored schedule has conflicts", "count", len(result.Conflicts))
	}

	opts := persist.DefaultOptions()
	if c.Config != nil {
		opts = c.Config.PersistOptions()
	}
	c.mirror = persist.NewMirror(c.Store, opts)
	c.planner = planner.New(c.Scheduler, c.Catalog, initial, c.mirror)
	return c.planner, nil
}

// Mirror is nil until Planner was called.
func (c *Context) Mirror() *persist.Mirror {
	return c.mirror
}

// Sync writes pending schedule changes now.
func (c *Context) Sync() error {
	if c.mirror == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	if err := c.mirror.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

// Close flushes and stops the mirror, then closes the store.
func (c *Context) Close() error {
	var errs []error
	if c.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		if err := c.mirror.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to save schedule: %w", err))
		}
		cancel()
		c.mirror = nil
		c.planner = nil
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Settings returns the stored preferences, falling back to defaults when
// the backend has none yet.
func (c *Context) Settings() models.Settings {
	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Debug("Using default settings", "error", err)
		settings = models.Settings{}
		if c.Config != nil {
			settings.Theme = c.Config.Planner.Theme
		}
		models.ApplyDefaultSettings(&settings)
	}
	return settings
}

// ResolveActivity finds a catalog activity by id or exact title.
func (c *Context) ResolveActivity(ref string) (models.Activity, error) {
	return c.Catalog.Search(ref)
}
