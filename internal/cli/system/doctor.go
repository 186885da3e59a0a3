package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/kunal-511/weekendly/internal/backup"
	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/keyring"
	"github.com/kunal-511/weekendly/internal/storage"
	"github.com/kunal-511/weekendly/internal/validation"
)

// errSkipped marks a check that does not apply to the current backend.
var errSkipped = errors.New("not applicable")

type check struct {
	name string
	run  func(*cli.Context) error
	// needsStore checks are skipped when the store is unreachable
	needsStore bool
	// warnOnly failures do not fail the doctor run
	warnOnly bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsStore: true},
	{name: "Catalog references", run: checkCatalogReferences, needsStore: true},
	{name: "Revision timestamps", run: checkRevisionTimestamps, needsStore: true},
	{name: "Schedule validation", run: checkScheduleValidation, needsStore: true, warnOnly: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := true

	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsStore && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, ok := ctx.Store.(migratable)
	if !ok {
		return fmt.Errorf("%w: %s has no schema", errSkipped, ctx.Store.GetConfigPath())
	}
	runner, err := store.Runner()
	if err != nil {
		return err
	}
	st, err := runner.Status()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("schema version %d is newer than supported version %d", st.Current, st.Latest)
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("%d pending migration(s), run 'weekendly migrate'", len(st.Pending))
	}
	return nil
}

// checkCatalogReferences fails when a saved plan names an activity the
// catalog no longer has.
func checkCatalogReferences(ctx *cli.Context) error {
	snap, err := ctx.Store.GetSchedule()
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, item := range snap.Schedule.All() {
		if _, err := ctx.Catalog.Lookup(item.Activity.ID); err != nil {
			return fmt.Errorf("revision %d references unknown activity %q", snap.Revision, item.Activity.ID)
		}
	}
	return nil
}

func checkRevisionTimestamps(ctx *cli.Context) error {
	revisions, err := ctx.Store.ListScheduleRevisions(0)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, rev := range revisions {
		ts, err := time.Parse(storage.TimestampFormat, rev.SavedAt)
		if err != nil {
			return fmt.Errorf("revision %d has an invalid timestamp %q", rev.Revision, rev.SavedAt)
		}
		if ts.After(now.Add(time.Hour)) {
			return fmt.Errorf("revision %d is dated in the future (%s), check the system clock", rev.Revision, rev.SavedAt)
		}
	}
	return nil
}

func checkScheduleValidation(ctx *cli.Context) error {
	snap, err := ctx.Store.GetSchedule()
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	result := validation.New(ctx.Scheduler, ctx.Catalog).ValidateSchedule(snap.Schedule)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'weekendly validate --fix'", len(result.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if !backup.Supported(path) {
		return fmt.Errorf("%w: server backend", errSkipped)
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'weekendly backup create'")
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
