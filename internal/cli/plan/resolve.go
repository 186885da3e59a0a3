package plan

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/logger"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/planner"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

const (
	overrideChoice = "override"
	cancelChoice   = "cancel"
)

// ResolveFlags settle a clash without prompting.
type ResolveFlags struct {
	Override bool   `help:"Place the activity even if the slot overflows."`
	To       string `help:"Use this suggested slot (day/slot) if the target clashes."`
}

// chooser asks how to settle a clashing proposal. Tests replace it.
var chooser = promptResolution

// interactive reports whether a prompt can be shown.
var interactive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (f ResolveFlags) resolve(ctx *cli.Context, p scheduler.Proposal) (scheduler.Resolution, error) {
	if !p.HasClash() {
		return scheduler.Accept(), nil
	}

	color.Yellow("⚠ %s", ctx.Scheduler.FormatClashMessage(*p.Clash, p.Activity))

	switch {
	case f.Override:
		return scheduler.Override(), nil
	case f.To != "":
		at, err := models.ParsePlacement(f.To)
		if err != nil {
			return scheduler.Resolution{}, err
		}
		return scheduler.UseAlternative(at), nil
	}

	printAlternatives(p)
	if !interactive() {
		return scheduler.Resolution{}, scheduler.ErrUnresolvedClash
	}
	return chooser(p)
}

func printAlternatives(p scheduler.Proposal) {
	if len(p.Alternatives) == 0 {
		fmt.Println("No other slot has room for this activity.")
		return
	}
	fmt.Println("Slots with room:")
	for _, sg := range p.Alternatives {
		fmt.Printf("  %-20s %sh free\n", sg.Placement(), scheduler.FormatHours(sg.AvailableHours))
	}
}

func promptResolution(p scheduler.Proposal) (scheduler.Resolution, error) {
	options := make([]huh.Option[string], 0, len(p.Alternatives)+2)
	for _, sg := range p.Alternatives {
		label := fmt.Sprintf("Use %s (%sh free)", sg.Placement().Label(), scheduler.FormatHours(sg.AvailableHours))
		options = append(options, huh.NewOption(label, sg.Placement().String()))
	}
	options = append(options,
		huh.NewOption("Place it anyway", overrideChoice),
		huh.NewOption("Cancel", cancelChoice),
	)

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%s doesn't fit in %s", p.Activity.Title, p.Target.Label())).
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return scheduler.Cancel(), nil
		}
		return scheduler.Resolution{}, err
	}
	return choiceResolution(choice)
}

func choiceResolution(choice string) (scheduler.Resolution, error) {
	switch choice {
	case overrideChoice:
		return scheduler.Override(), nil
	case cancelChoice, "":
		return scheduler.Cancel(), nil
	}
	at, err := models.ParsePlacement(choice)
	if err != nil {
		return scheduler.Resolution{}, err
	}
	return scheduler.UseAlternative(at), nil
}

// settle resolves and commits p, then writes the result to the store. It
// reports where the activity ended up, false when the user cancelled.
func settle(ctx *cli.Context, pl *planner.Planner, p scheduler.Proposal, flags ResolveFlags) (models.Placement, bool, error) {
	resolution, err := flags.resolve(ctx, p)
	if err != nil {
		return models.Placement{}, false, err
	}

	state, err := pl.Commit(p, resolution)
	if err != nil {
		return models.Placement{}, false, err
	}
	logger.Debug("Placement settled", "activity", p.Activity.ID, "state", state)

	dest, ok := resolution.Destination(p)
	if !ok {
		fmt.Println("Cancelled. The schedule was not changed.")
		return models.Placement{}, false, nil
	}
	if err := ctx.Sync(); err != nil {
		return dest, true, err
	}
	return dest, true, nil
}
