package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on startup (after successful load)
	ctx.PerformAutomaticBackup()

	pl, err := ctx.Planner()
	if err != nil {
		return err
	}

	model := tui.NewModel(pl, ctx.Catalog, ctx.Mirror(), ctx.Settings().Theme)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("board exited with an error: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return fmt.Errorf("failed to save schedule: %w", m.Err())
	}
	return ctx.Sync()
}
