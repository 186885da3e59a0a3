package plan

import (
	"errors"
	"fmt"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

type RemoveCmd struct {
	Activity string `arg:"" help:"Scheduled activity id or title."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	activity, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}
	pl, err := ctx.Planner()
	if err != nil {
		return err
	}

	_, at, ok := pl.Locate(activity.ID)
	if !ok || !pl.Remove(activity.ID, at) {
		fmt.Printf("%s is not scheduled.\n", activity.Title)
		return nil
	}
	if err := ctx.Sync(); err != nil {
		return err
	}
	fmt.Printf("✓ Removed %s from %s\n", activity.Title, at.Label())
	return nil
}

type NoteCmd struct {
	Activity string `arg:"" help:"Scheduled activity id or title."`
	Notes    string `arg:"" optional:"" help:"New notes. Leave out to clear them."`
}

func (c *NoteCmd) Run(ctx *cli.Context) error {
	activity, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}
	pl, err := ctx.Planner()
	if err != nil {
		return err
	}

	_, at, ok := pl.Locate(activity.ID)
	if !ok {
		return fmt.Errorf("%w: %s", scheduler.ErrNotScheduled, activity.Title)
	}
	if err := pl.UpdateNotes(activity.ID, at, c.Notes); err != nil {
		return err
	}
	if err := ctx.Sync(); err != nil {
		return err
	}

	if c.Notes == "" {
		fmt.Printf("✓ Cleared notes on %s\n", activity.Title)
	} else {
		fmt.Printf("✓ Updated notes on %s\n", activity.Title)
	}
	return nil
}

type DayCmd struct {
	Day         string `arg:"" optional:"" help:"friday or monday."`
	LongWeekend bool   `help:"Make both friday and monday part of the weekend."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	if c.Day == "" && !c.LongWeekend {
		return errors.New("name a day to toggle or pass --long-weekend")
	}

	pl, err := ctx.Planner()
	if err != nil {
		return err
	}

	if c.LongWeekend {
		if err := pl.EnableLongWeekend(); err != nil {
			return err
		}
		if err := ctx.Sync(); err != nil {
			return err
		}
		fmt.Println("✓ Long weekend enabled: Friday through Monday")
		return nil
	}

	day, err := models.ParseDay(c.Day)
	if err != nil {
		return err
	}
	dropped := 0
	current := pl.Schedule()
	for _, t := range models.AllTimeSlots {
		dropped += len(current.Slot(day, t))
	}

	active, err := pl.ToggleDay(day)
	if err != nil {
		return err
	}
	if err := ctx.Sync(); err != nil {
		return err
	}

	if active {
		fmt.Printf("✓ %s added to the weekend\n", day.Title())
		return nil
	}
	fmt.Printf("✓ %s removed from the weekend\n", day.Title())
	if dropped > 0 {
		fmt.Printf("  %d planned activit%s dropped\n", dropped, plural(dropped, "y", "ies"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
