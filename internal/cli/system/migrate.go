package system

import (
	"fmt"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/migration"
)

// migratable is implemented by the SQL backends.
type migratable interface {
	Runner() (*migration.Runner, error)
}

type MigrateCmd struct {
	Status bool `help:"Only show the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	store, ok := ctx.Store.(migratable)
	if !ok {
		return fmt.Errorf("migrate only applies to sqlite and postgres stores")
	}

	runner, err := store.Runner()
	if err != nil {
		return err
	}

	if c.Status {
		st, err := runner.Status()
		if err != nil {
			return err
		}
		fmt.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		for _, m := range st.Pending {
			fmt.Printf("  pending: %03d_%s\n", m.Version, m.Name)
		}
		return nil
	}

	count, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}
