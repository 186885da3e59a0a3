package activities

import (
	"fmt"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

// SuggestCmd lists the slots that can take an activity right now.
type SuggestCmd struct {
	Activity string `arg:"" help:"Catalog activity id or title."`
	Exclude  string `help:"Slot (day/slot) to leave out. Defaults to where the activity already is."`
}

func (c *SuggestCmd) Run(ctx *cli.Context) error {
	activity, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}
	schedule, err := ctx.LoadSchedule()
	if err != nil {
		return err
	}

	var exclude *models.Placement
	if c.Exclude != "" {
		at, err := models.ParsePlacement(c.Exclude)
		if err != nil {
			return err
		}
		exclude = &at
	}
	// a scheduled activity is suggested as if lifted out of its slot
	if _, from, ok := schedule.Find(activity.ID); ok {
		schedule = ctx.Scheduler.Remove(schedule, activity.ID, from)
		if exclude == nil {
			exclude = &from
		}
	}

	suggestions := ctx.Scheduler.SuggestAlternativeSlots(schedule, activity, exclude)
	if len(suggestions) == 0 {
		fmt.Printf("No slot has %sh free for %s.\n", scheduler.FormatHours(activity.Duration), activity.Title)
		return nil
	}

	fmt.Printf("Slots with room for %s (%sh):\n", activity.Title, scheduler.FormatHours(activity.Duration))
	for _, sg := range suggestions {
		fmt.Printf("  %-20s %5sh free  %s\n", sg.Placement(), scheduler.FormatHours(sg.AvailableHours), sg.SlotInfo.Label)
	}
	return nil
}
