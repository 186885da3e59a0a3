package activities

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kunal-511/weekendly/internal/catalog"
	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
	"github.com/kunal-511/weekendly/internal/validation"
)

type CatalogCmd struct {
	Category    string   `help:"Only this category id (\"all\" for every category)."`
	Search      string   `short:"s" help:"Match title, description or category name."`
	Energy      []string `help:"Energy levels to include (high, medium, low)." sep:","`
	Social      []string `help:"Social styles to include (group, couple, solo)." sep:","`
	Vibe        []string `help:"Vibes to include (creative, mental, physical, nature, indoor)." sep:","`
	Duration    []string `help:"Duration buckets to include (quick, medium, long)." sep:","`
	Unscheduled bool     `help:"Hide activities that are already planned."`
	Saved       bool     `help:"Start from the filters saved with --save."`
	Save        bool     `help:"Remember these filters for later."`
	Categories  bool     `help:"List categories with their activity counts."`
}

func (c *CatalogCmd) Run(ctx *cli.Context) error {
	if c.Categories {
		printCategories(os.Stdout, ctx.Catalog)
		return nil
	}

	settings := ctx.Settings()
	q, err := c.query(settings)
	if err != nil {
		return err
	}

	if c.Unscheduled {
		schedule, err := ctx.LoadSchedule()
		if err != nil {
			return err
		}
		q.Exclude = schedule.ScheduledIDs()
	}

	if c.Save {
		settings.CategoryFilter = q.Category
		settings.SearchQuery = q.Search
		settings.EnergyFilter = q.Energy
		settings.SocialFilter = q.Social
		settings.VibeFilter = q.Vibes
		models.ApplyDefaultSettings(&settings)
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save filters: %w", err)
		}
	}

	matches := ctx.Catalog.Filter(q)
	if len(matches) == 0 {
		fmt.Println("No activities match these filters.")
		return nil
	}
	printActivities(os.Stdout, matches)
	fmt.Printf("\n%d of %d activities\n", len(matches), len(ctx.Catalog.Activities()))
	return nil
}

// query merges the flags over the saved filters when --saved is set.
func (c *CatalogCmd) query(settings models.Settings) (catalog.Query, error) {
	var q catalog.Query
	if c.Saved {
		q = catalog.QueryFromSettings(settings)
	}

	if c.Category != "" {
		q.Category = c.Category
	}
	if c.Search != "" {
		q.Search = c.Search
	}

	energy, err := parseValues[models.Energy](c.Energy, "energy")
	if err != nil {
		return q, err
	}
	if len(energy) > 0 {
		q.Energy = energy
	}
	social, err := parseValues[models.Social](c.Social, "social")
	if err != nil {
		return q, err
	}
	if len(social) > 0 {
		q.Social = social
	}
	vibes, err := parseValues[models.Vibe](c.Vibe, "vibe")
	if err != nil {
		return q, err
	}
	if len(vibes) > 0 {
		q.Vibes = vibes
	}

	for _, id := range c.Duration {
		r, err := catalog.ParseDurationRange(id)
		if err != nil {
			return q, err
		}
		q.Durations = append(q.Durations, r)
	}
	return q, nil
}

// parseValues checks every value against a registered validator tag.
func parseValues[T ~string](values []string, tag string) ([]T, error) {
	var out []T
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if err := validation.Validate.Var(v, tag); err != nil {
			return nil, fmt.Errorf("invalid %s %q", tag, v)
		}
		out = append(out, T(v))
	}
	return out, nil
}

func printActivities(w io.Writer, list []models.Activity) {
	for _, a := range list {
		label := a.Title
		if a.Icon != "" {
			label = a.Icon + " " + a.Title
		}
		fmt.Fprintf(w, "%4s  %-32s %5sh  %-14s %-6s %-6s %s\n",
			a.ID,
			label,
			scheduler.FormatHours(a.Duration),
			a.Category.Name,
			a.Mood.Energy,
			a.Mood.Social,
			joinVibes(a.Mood.Vibes))
	}
}

func printCategories(w io.Writer, c *catalog.Catalog) {
	for _, cc := range c.CategoryCounts() {
		fmt.Fprintf(w, "%-12s %-16s %d\n", cc.Category.ID, cc.Category.Name, cc.Count)
	}
}

func joinVibes(vibes []models.Vibe) string {
	parts := make([]string, len(vibes))
	for i, v := range vibes {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}
