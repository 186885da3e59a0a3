package review

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"

	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

const barWidth = 20

var (
	dayColor  = color.New(color.FgCyan, color.Bold)
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	overColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

// renderSchedule prints each day with a utilization bar per slot.
func renderSchedule(w io.Writer, sched *scheduler.Scheduler, schedule models.WeekendSchedule, days []models.Day) {
	for _, d := range days {
		dayColor.Fprintln(w, d.Title())
		for _, t := range models.AllTimeSlots {
			used := sched.SlotDuration(schedule, d, t)
			capacity := sched.Capacity(t)
			fmt.Fprintf(w, "  %-10s %s %s/%sh\n",
				t.Title(),
				utilizationBar(used, capacity),
				scheduler.FormatHours(used),
				scheduler.FormatHours(capacity))

			for _, item := range schedule.Slot(d, t) {
				fmt.Fprintf(w, "    • %s (%sh)\n", activityLabel(item.Activity), scheduler.FormatHours(item.Duration))
				if item.Notes != "" {
					dimColor.Fprintf(w, "      %s\n", item.Notes)
				}
			}
		}
		fmt.Fprintln(w)
	}
}

// utilizationBar is green under 75%, yellow up to full and red past
// capacity.
func utilizationBar(used, capacity float64) string {
	if capacity <= 0 {
		return ""
	}
	ratio := used / capacity
	filled := int(math.Round(math.Min(ratio, 1) * barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	c := okColor
	switch {
	case used > capacity:
		c = overColor
	case ratio >= 0.75:
		c = warnColor
	}
	return c.Sprintf("[%s] %3.0f%%", bar, ratio*100)
}

func activityLabel(a models.Activity) string {
	if a.Icon == "" {
		return a.Title
	}
	return a.Icon + " " + a.Title
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
