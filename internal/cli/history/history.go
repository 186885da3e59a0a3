package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/storage"
)

type RevisionsCmd struct {
	Limit int `help:"How many revisions to list (0 for all)." default:"10"`
}

func (c *RevisionsCmd) Run(ctx *cli.Context) error {
	revisions, err := ctx.Store.ListScheduleRevisions(c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list revisions: %w", err)
	}
	if len(revisions) == 0 {
		fmt.Println("No saved revisions yet.")
		return nil
	}

	fmt.Printf("Saved revisions (newest first):\n\n")
	for _, rev := range revisions {
		days := make([]string, len(rev.ActiveDays))
		for i, d := range rev.ActiveDays {
			days[i] = d.Title()[:3]
		}
		fmt.Printf("  %4d  %s  %2d activities  %s\n", rev.Revision, formatSavedAt(rev.SavedAt), rev.ActivityCount, strings.Join(days, ","))
	}
	return nil
}

type RestoreCmd struct {
	Revision int `arg:"" help:"Revision number to bring back."`
}

// Run saves the old revision again as the newest one, so the restore
// itself can be undone.
func (c *RestoreCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Store.GetScheduleRevision(c.Revision)
	if err != nil {
		return fmt.Errorf("failed to load revision %d: %w", c.Revision, err)
	}

	pl, err := ctx.Planner()
	if err != nil {
		return err
	}
	pl.Replace(snap.Schedule)
	if err := ctx.Sync(); err != nil {
		return err
	}

	fmt.Printf("✓ Restored revision %d (%d activities) as revision %d\n", snap.Revision, snap.Schedule.Count(), ctx.Mirror().Revision())
	return nil
}

func formatSavedAt(value string) string {
	t, err := time.Parse(storage.TimestampFormat, value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
