package plan

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/kunal-511/weekendly/internal/cli"
)

type ClearCmd struct {
	Yes     bool `short:"y" help:"Do not ask for confirmation."`
	History bool `help:"Also delete every saved revision."`
}

// confirm asks a yes/no question. Tests replace it.
var confirm = func(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Clear").
		Negative("Keep").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	pl, err := ctx.Planner()
	if err != nil {
		return err
	}

	count := pl.Schedule().Count()
	if !c.Yes {
		if !interactive() {
			return errors.New("refusing to clear without confirmation; pass --yes")
		}
		ok, err := confirm(fmt.Sprintf("Remove all %d planned activities?", count))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Clear cancelled.")
			return nil
		}
	}

	pl.Clear()
	if err := ctx.Sync(); err != nil {
		return err
	}
	if c.History {
		if err := ctx.Store.ClearSchedule(); err != nil {
			return fmt.Errorf("failed to delete revisions: %w", err)
		}
		fmt.Println("✓ Deleted every saved revision")
	}
	fmt.Printf("✓ Cleared %d activities; Saturday and Sunday are empty\n", count)
	return nil
}
