package review

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

// AuditCmd lists every slot holding more than its capacity, which only
// happens after an override.
type AuditCmd struct{}

func (c *AuditCmd) Run(ctx *cli.Context) error {
	schedule, err := ctx.LoadSchedule()
	if err != nil {
		return err
	}
	printClashes(os.Stdout, ctx.Scheduler, ctx.Scheduler.FindAllClashes(schedule))
	return nil
}

func printClashes(w io.Writer, sched *scheduler.Scheduler, clashes []scheduler.TimeClash) {
	if len(clashes) == 0 {
		okColor.Fprintln(w, "✓ Every slot fits its time window.")
		return
	}

	overColor.Fprintf(w, "%d slot(s) over capacity:\n", len(clashes))
	for _, clash := range clashes {
		titles := make([]string, len(clash.ExistingActivities))
		for i, item := range clash.ExistingActivities {
			titles[i] = item.Title
		}
		fmt.Fprintf(w, "  ✗ %s: %sh planned in %sh, over by %sh\n",
			clash.Placement().Label(),
			scheduler.FormatHours(clash.CurrentDuration),
			scheduler.FormatHours(sched.Capacity(clash.TimeSlot)),
			scheduler.FormatHours(clash.OverflowHours))
		fmt.Fprintf(w, "    %s\n", strings.Join(titles, ", "))
	}
}
