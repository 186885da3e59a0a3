package review

import (
	"fmt"
	"io"
	"os"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/insights"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

type InsightsCmd struct {
	Theme string `help:"Theme to recommend for. Defaults to the saved theme."`
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	schedule, err := ctx.LoadSchedule()
	if err != nil {
		return err
	}

	theme := c.Theme
	if theme == "" {
		theme = ctx.Settings().Theme
	}

	report, err := insights.NewAnalyzer(ctx.Catalog).Analyze(schedule, theme)
	if err != nil {
		return err
	}
	if report == nil {
		fmt.Println("Nothing planned yet. Add a few activities to see insights.")
		return nil
	}

	printReport(os.Stdout, report)
	return nil
}

func printReport(w io.Writer, report *insights.Report) {
	fmt.Fprintf(w, "%d activities, %sh planned\n\n", report.TotalActivities, scheduler.FormatHours(report.TotalHours))

	dayColor.Fprintln(w, "Energy")
	for _, e := range models.AllEnergies {
		fmt.Fprintf(w, "  %-8s %3.0f%%\n", e, percent(report.Energy[e], report.TotalActivities))
	}

	dayColor.Fprintln(w, "Social")
	for _, s := range models.AllSocials {
		fmt.Fprintf(w, "  %-8s %3.0f%%\n", s, percent(report.Social[s], report.TotalActivities))
	}

	if len(report.Vibes) > 0 {
		dayColor.Fprintln(w, "Vibes")
		for _, v := range models.AllVibes {
			if n := report.Vibes[v]; n > 0 {
				fmt.Fprintf(w, "  %-8s %d\n", v, n)
			}
		}
	}

	dayColor.Fprintln(w, "Categories")
	for _, share := range report.Categories {
		fmt.Fprintf(w, "  %-14s %d (%sh)\n", share.Category.Name, share.Count, scheduler.FormatHours(share.Hours))
	}

	for _, rec := range report.Recommendations {
		fmt.Fprintln(w)
		warnColor.Fprintln(w, rec.Title)
		fmt.Fprintf(w, "  %s\n", rec.Description)
		for _, a := range rec.Activities {
			fmt.Fprintf(w, "    %-4s %s (%sh)\n", a.ID, activityLabel(a), scheduler.FormatHours(a.Duration))
		}
	}
}
