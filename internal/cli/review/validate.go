package review

import (
	"fmt"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair duplicates, stale slot records and missing core days."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	schedule, err := ctx.LoadSchedule()
	if err != nil {
		return err
	}

	validator := validation.New(ctx.Scheduler, ctx.Catalog)

	fmt.Println("Validating schedule...")
	result := validator.ValidateSchedule(schedule)

	fmt.Println()
	fmt.Println(result.FormatReport())

	if !c.Fix || !result.HasConflicts() {
		return nil
	}

	fixed, actions := validator.AutoFix(schedule, result)
	if len(actions) == 0 {
		fmt.Println("Nothing could be fixed automatically.")
		return nil
	}

	pl, err := ctx.Planner()
	if err != nil {
		return err
	}
	pl.Replace(fixed)
	if err := ctx.Sync(); err != nil {
		return err
	}

	fmt.Println("Applied fixes:")
	for _, action := range actions {
		fmt.Printf("  ✓ %s\n", action.Action)
	}

	if remaining := validator.ValidateSchedule(fixed); remaining.HasConflicts() {
		fmt.Printf("\n%d conflict(s) still need your attention:\n", len(remaining.Conflicts))
		for _, conflict := range remaining.Conflicts {
			fmt.Printf("- %s\n", conflict.Description)
		}
	}
	return nil
}
