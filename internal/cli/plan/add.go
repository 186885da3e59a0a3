package plan

import (
	"fmt"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

type AddCmd struct {
	Activity string `arg:"" help:"Catalog activity id or title."`
	At       string `arg:"" help:"Target slot as day/slot, e.g. saturday/morning."`
	Notes    string `help:"Notes to attach to the activity."`

	ResolveFlags `embed:""`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	activity, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}
	at, err := models.ParsePlacement(c.At)
	if err != nil {
		return err
	}

	pl, err := ctx.Planner()
	if err != nil {
		return err
	}

	proposal, err := pl.ProposeAdd(activity.ID, at)
	if err != nil {
		return err
	}

	dest, placed, err := settle(ctx, pl, proposal, c.ResolveFlags)
	if err != nil || !placed {
		return err
	}

	if c.Notes != "" {
		if err := pl.UpdateNotes(activity.ID, dest, c.Notes); err != nil {
			return fmt.Errorf("failed to save notes: %w", err)
		}
		if err := ctx.Sync(); err != nil {
			return err
		}
	}

	fmt.Printf("✓ Added %s to %s\n", activity.Title, dest.Label())
	if avail := ctx.Scheduler.AvailableHours(pl.Schedule(), dest.Day, dest.TimeSlot); avail > 0 {
		fmt.Printf("  %sh left in that slot\n", scheduler.FormatHours(avail))
	}
	return nil
}
