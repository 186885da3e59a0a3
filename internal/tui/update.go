package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/logger"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width/3, max(0, msg.Height-6))
		m.report.Width = max(0, msg.Width-4)
		m.report.Height = max(0, msg.Height-6)
		return m, nil

	case flushedMsg:
		m.err = msg.err
		if msg.err != nil {
			logger.Error("Failed to save schedule on exit", "error", msg.err)
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.state {
		case constants.StateClash:
			return m.updateClash(msg)
		case constants.StateNotes:
			return m.updateNotes(msg)
		case constants.StateInsights:
			return m.updateInsights(msg)
		case constants.StateConfirmClear:
			return m.updateConfirmClear(msg)
		}
		return m.updateBoard(msg)
	}

	switch m.state {
	case constants.StateNotes:
		m.notes, cmd = m.notes.Update(msg)
	case constants.StateInsights:
		m.report, cmd = m.report.Update(msg)
	case constants.StateBoard:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, m.flush()
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pane == paneCatalog && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		if m.pane == paneCatalog {
			m.pane = paneGrid
		} else {
			m.pane = paneCatalog
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel) && m.carrying != nil:
		m.carrying = nil
		m.setStatus("Move cancelled.")
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.place()
		return m, nil
	case key.Matches(msg, m.keys.Friday):
		m.toggleDay(models.Friday)
		return m, nil
	case key.Matches(msg, m.keys.Monday):
		m.toggleDay(models.Monday)
		return m, nil
	case key.Matches(msg, m.keys.Insights):
		m.openInsights()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.state = constants.StateConfirmClear
		return m, nil
	}

	if m.pane == paneCatalog {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m.updateGrid(msg)
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.slot > 0 {
			m.slot--
			m.item = 0
		}
	case key.Matches(msg, m.keys.Down):
		if m.slot < len(models.AllTimeSlots)-1 {
			m.slot++
			m.item = 0
		}
	case key.Matches(msg, m.keys.Left):
		if m.day > 0 {
			m.day--
			m.item = 0
		}
	case key.Matches(msg, m.keys.Right):
		if m.day < len(models.AllDays)-1 {
			m.day++
			m.item = 0
		}
	case key.Matches(msg, m.keys.Cycle):
		if n := len(m.slotItems()); n > 0 {
			m.item = (m.item + 1) % n
		}
	case key.Matches(msg, m.keys.Move):
		entry, ok := m.selectedEntry()
		if !ok {
			m.setStatus("Nothing to pick up here.")
			break
		}
		m.carrying = &carried{entry: entry, from: m.cursor()}
		m.setStatus(fmt.Sprintf("Carrying %s. Move to a slot and press enter to drop it.", entry.Title))
	case key.Matches(msg, m.keys.Delete):
		entry, ok := m.selectedEntry()
		if !ok {
			break
		}
		if m.planner.Remove(entry.ID, m.cursor()) {
			m.setStatus(fmt.Sprintf("Removed %s from %s.", entry.Title, m.cursor().Label()))
		}
		if m.carrying != nil && m.carrying.entry.ID == entry.ID {
			m.carrying = nil
		}
		m.refreshCatalog()
	case key.Matches(msg, m.keys.Notes):
		entry, ok := m.selectedEntry()
		if !ok {
			break
		}
		m.editing = &carried{entry: entry, from: m.cursor()}
		m.notes.SetValue(entry.Notes)
		m.state = constants.StateNotes
		return m, m.notes.Focus()
	}
	return m, nil
}

// place proposes the carried activity, or the selected catalog activity, at
// the cursor. A clean fit commits at once; a clash opens the dialog.
func (m *Model) place() {
	at := m.cursor()

	var (
		proposal scheduler.Proposal
		err      error
	)
	if m.carrying != nil {
		if m.carrying.from == at {
			m.carrying = nil
			m.setStatus("Put back where it was.")
			return
		}
		proposal, err = m.planner.ProposeMove(m.carrying.entry.ID, m.carrying.from, at)
	} else {
		a, ok := m.selectedActivity()
		if !ok {
			m.setStatus("Select an activity first.")
			return
		}
		proposal, err = m.planner.ProposeAdd(a.ID, at)
	}
	if err != nil {
		m.setError(err)
		return
	}

	if !proposal.HasClash() {
		m.commit(proposal, scheduler.Accept())
		return
	}

	m.proposal = &proposal
	m.choices = clashChoices(proposal)
	m.choice = 0
	m.state = constants.StateClash
}

func clashChoices(p scheduler.Proposal) []clashChoice {
	choices := make([]clashChoice, 0, len(p.Alternatives)+2)
	for _, sg := range p.Alternatives {
		choices = append(choices, clashChoice{
			label:      fmt.Sprintf("Move to %s (%sh free)", sg.Placement().Label(), scheduler.FormatHours(sg.AvailableHours)),
			resolution: scheduler.UseAlternative(sg.Placement()),
		})
	}
	choices = append(choices,
		clashChoice{
			label:      fmt.Sprintf("Place it anyway (over by %sh)", scheduler.FormatHours(p.Clash.OverflowHours)),
			resolution: scheduler.Override(),
		},
		clashChoice{label: "Cancel", resolution: scheduler.Cancel()},
	)
	return choices
}

func (m *Model) commit(p scheduler.Proposal, r scheduler.Resolution) {
	m.state = constants.StateBoard
	m.proposal = nil
	m.choices = nil
	m.carrying = nil

	if _, err := m.planner.Commit(p, r); err != nil {
		m.setError(err)
		return
	}

	if r.Decision == scheduler.DecisionCancel {
		m.setStatus("Cancelled. The plan was not changed.")
		return
	}

	dest, _ := r.Destination(p)
	if p.IsMove() {
		m.setStatus(fmt.Sprintf("✓ Moved %s to %s.", p.Activity.Title, dest.Label()))
	} else {
		m.setStatus(fmt.Sprintf("✓ Added %s to %s.", p.Activity.Title, dest.Label()))
	}
	m.refreshCatalog()
	m.moveCursorTo(dest, p.Activity.ID)
}

func (m Model) updateClash(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.choice > 0 {
			m.choice--
		}
	case key.Matches(msg, m.keys.Down):
		if m.choice < len(m.choices)-1 {
			m.choice++
		}
	case key.Matches(msg, m.keys.Enter):
		m.commit(*m.proposal, m.choices[m.choice].resolution)
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.commit(*m.proposal, scheduler.Cancel())
	}
	return m, nil
}

func (m Model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = nil
		m.notes.Blur()
		m.state = constants.StateBoard
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if err := m.planner.UpdateNotes(m.editing.entry.ID, m.editing.from, m.notes.Value()); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("Saved notes for %s.", m.editing.entry.Title))
		}
		m.editing = nil
		m.notes.Blur()
		m.state = constants.StateBoard
		return m, nil
	}

	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

func (m Model) updateInsights(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Insights), key.Matches(msg, m.keys.Quit):
		m.state = constants.StateBoard
		return m, nil
	}
	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.planner.Clear()
		m.carrying = nil
		m.day = models.Saturday.Index()
		m.refreshCatalog()
		m.setStatus("Plan cleared.")
		m.state = constants.StateBoard
	case "n", "N", "esc":
		m.state = constants.StateBoard
	}
	return m, nil
}

func (m *Model) toggleDay(day models.Day) {
	active, err := m.planner.ToggleDay(day)
	if err != nil {
		m.setError(err)
		return
	}
	if active {
		m.setStatus(fmt.Sprintf("%s added to the weekend.", day.Title()))
	} else {
		m.setStatus(fmt.Sprintf("%s removed from the weekend.", day.Title()))
	}
	if m.carrying != nil && !m.planner.Schedule().Contains(m.carrying.entry.ID) {
		m.carrying = nil
	}
	m.refreshCatalog()
}

func (m *Model) openInsights() {
	report, err := m.analyzer.Analyze(m.planner.Schedule(), m.theme)
	if err != nil {
		m.setError(err)
		return
	}
	if report == nil {
		m.setStatus("Plan a few activities to see insights.")
		return
	}
	m.report.SetContent(renderReport(report))
	m.report.GotoTop()
	m.state = constants.StateInsights
}
