package activities

import (
	"fmt"
	"os"

	"github.com/kunal-511/weekendly/internal/cli"
)

type ThemeCmd struct {
	Name string `arg:"" optional:"" help:"Theme to switch to (chill, adventure, social)."`
}

func (c *ThemeCmd) Run(ctx *cli.Context) error {
	settings := ctx.Settings()

	if c.Name == "" {
		for _, t := range ctx.Catalog.Themes() {
			marker := " "
			if t.ID == settings.Theme {
				marker = "*"
			}
			fmt.Printf("%s %-10s %-20s %s\n", marker, t.ID, t.Name, t.Description)
		}
		return nil
	}

	theme, err := ctx.Catalog.Theme(c.Name)
	if err != nil {
		return err
	}
	settings.Theme = theme.ID
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	fmt.Printf("✓ Theme set to %s\n\nRecommended:\n", theme.Name)
	printActivities(os.Stdout, ctx.Catalog.ThemeActivities(theme))
	return nil
}
