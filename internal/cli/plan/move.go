package plan

import (
	"fmt"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

type MoveCmd struct {
	Activity string `arg:"" help:"Scheduled activity id or title."`
	Target   string `arg:"" help:"Destination slot as day/slot."`

	ResolveFlags `embed:""`
}

func (c *MoveCmd) Run(ctx *cli.Context) error {
	activity, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}
	to, err := models.ParsePlacement(c.Target)
	if err != nil {
		return err
	}

	pl, err := ctx.Planner()
	if err != nil {
		return err
	}

	_, from, ok := pl.Locate(activity.ID)
	if !ok {
		return fmt.Errorf("%w: %s", scheduler.ErrNotScheduled, activity.Title)
	}
	if from == to {
		fmt.Printf("%s is already in %s\n", activity.Title, to.Label())
		return nil
	}

	proposal, err := pl.ProposeMove(activity.ID, from, to)
	if err != nil {
		return err
	}

	dest, moved, err := settle(ctx, pl, proposal, c.ResolveFlags)
	if err != nil || !moved {
		return err
	}
	fmt.Printf("✓ Moved %s from %s to %s\n", activity.Title, from.Label(), dest.Label())
	return nil
}
