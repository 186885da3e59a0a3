package review

import (
	"fmt"
	"os"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

type ShowCmd struct {
	Day      string `help:"Only show this day."`
	Revision int    `help:"Show a saved revision instead of the current plan."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	var schedule models.WeekendSchedule
	if c.Revision > 0 {
		snap, err := ctx.Store.GetScheduleRevision(c.Revision)
		if err != nil {
			return fmt.Errorf("failed to load revision: %w", err)
		}
		schedule = snap.Schedule
		fmt.Printf("Revision %d, saved %s\n\n", snap.Revision, snap.SavedAt)
	} else {
		loaded, err := ctx.LoadSchedule()
		if err != nil {
			return err
		}
		schedule = loaded
	}

	days := schedule.ActiveDays()
	if c.Day != "" {
		day, err := models.ParseDay(c.Day)
		if err != nil {
			return err
		}
		if !schedule.IsActive(day) {
			return fmt.Errorf("%w: %s", scheduler.ErrDayInactive, day)
		}
		days = []models.Day{day}
	}

	renderSchedule(os.Stdout, ctx.Scheduler, schedule, days)

	total := 0.0
	for _, item := range schedule.All() {
		total += item.Duration
	}
	fmt.Printf("%d activities, %sh planned\n", schedule.Count(), scheduler.FormatHours(total))
	return nil
}
