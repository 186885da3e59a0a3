package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kunal-511/weekendly/internal/catalog"
	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/planner"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

type fakeSaver struct {
	flushed int
	err     error
}

func (f *fakeSaver) Flush(ctx context.Context) error {
	f.flushed++
	return f.err
}

func (f *fakeSaver) Err() error    { return f.err }
func (f *fakeSaver) Pending() bool { return false }

var (
	satMorning = models.Placement{Day: models.Saturday, TimeSlot: models.Morning}
	sunMorning = models.Placement{Day: models.Sunday, TimeSlot: models.Morning}
)

func setupTestModel(t *testing.T) (Model, *planner.Planner, *fakeSaver) {
	t.Helper()

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	p := planner.New(scheduler.New(), cat, models.NewWeekendSchedule())
	saver := &fakeSaver{}

	m := NewModel(p, cat, saver, "")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	return updated.(Model), p, saver
}

// selectActivity highlights id in the catalog pane and focuses the grid.
func selectActivity(t *testing.T, m Model, id string) Model {
	t.Helper()
	for i, a := range m.catalog.Activities() {
		if a.ID == id {
			m.list.Select(i)
			m.pane = paneGrid
			return m
		}
	}
	t.Fatalf("activity %s not in catalog", id)
	return m
}

func place(t *testing.T, p *planner.Planner, id string, at models.Placement) {
	t.Helper()
	proposal, err := p.ProposeAdd(id, at)
	if err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if _, err := p.Commit(proposal, scheduler.Override()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	right = tea.KeyMsg{Type: tea.KeyRight}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
)

func TestPlaceFits(t *testing.T) {
	m, p, _ := setupTestModel(t)
	m = selectActivity(t, m, "6") // Museum Visit, 3h

	m = press(t, m, enter)

	if m.state != constants.StateBoard {
		t.Errorf("expected board state, got %v", m.state)
	}
	_, at, ok := p.Locate("6")
	if !ok || at != satMorning {
		t.Errorf("expected museum on saturday morning, got %v (%v)", at, ok)
	}
	if m.statusErr {
		t.Errorf("unexpected error status: %s", m.status)
	}
}

func TestPlaceClashOpensDialog(t *testing.T) {
	m, p, _ := setupTestModel(t)
	place(t, p, "10", satMorning) // Movie Marathon, 4h
	m = selectActivity(t, m, "6")
	revision := p.Revision()

	m = press(t, m, enter)

	if m.state != constants.StateClash {
		t.Fatalf("expected clash dialog, got %v", m.state)
	}
	if m.proposal == nil || !m.proposal.HasClash() {
		t.Fatal("expected a clashing proposal")
	}
	if want := len(m.proposal.Alternatives) + 2; len(m.choices) != want {
		t.Errorf("expected %d choices, got %d", want, len(m.choices))
	}
	if p.Revision() != revision {
		t.Error("opening the dialog must not change the schedule")
	}

	m = press(t, m, esc)
	if m.state != constants.StateBoard {
		t.Errorf("expected board after cancel, got %v", m.state)
	}
	if p.Schedule().Contains("6") || p.Revision() != revision {
		t.Error("cancel must leave the schedule untouched")
	}
}

func TestClashResolutions(t *testing.T) {
	tests := []struct {
		name   string
		choose func(m Model) int
		want   func(m Model) models.Placement
	}{
		{
			name:   "alternative",
			choose: func(m Model) int { return 0 },
			want:   func(m Model) models.Placement { return m.proposal.Alternatives[0].Placement() },
		},
		{
			name:   "override",
			choose: func(m Model) int { return len(m.choices) - 2 },
			want:   func(m Model) models.Placement { return satMorning },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, p, _ := setupTestModel(t)
			place(t, p, "10", satMorning)
			m = selectActivity(t, m, "6")
			m = press(t, m, enter)
			if m.state != constants.StateClash {
				t.Fatalf("expected clash dialog, got %v", m.state)
			}

			want := tt.want(m)
			for i := tt.choose(m); i > 0; i-- {
				m = press(t, m, down)
			}
			m = press(t, m, enter)

			_, at, ok := p.Locate("6")
			if !ok || at != want {
				t.Errorf("expected museum at %v, got %v (%v)", want, at, ok)
			}
			if m.cursor() != want {
				t.Errorf("cursor should follow the placement, got %v", m.cursor())
			}
		})
	}
}

func TestCursorPreviewDoesNotMutate(t *testing.T) {
	m, p, _ := setupTestModel(t)
	place(t, p, "10", satMorning)
	m = selectActivity(t, m, "6")
	revision := p.Revision()

	if mark := m.previewMark(); mark == "" {
		t.Error("expected a would-clash marker on saturday morning")
	}
	clash, _, ok := m.preview()
	if !ok || clash == nil || clash.OverflowHours != 3 {
		t.Errorf("expected a 3h overflow preview, got %+v", clash)
	}

	m = press(t, m, right, down, up)
	clash, _, ok = m.preview()
	if !ok || clash != nil {
		t.Errorf("expected the museum to fit on %v, got %+v", m.cursor(), clash)
	}
	if p.Revision() != revision {
		t.Error("moving the cursor must not change the schedule")
	}
	_ = m.View()
}

func TestPickUpAndMove(t *testing.T) {
	m, p, _ := setupTestModel(t)
	place(t, p, "1", satMorning) // Morning Hike, 3h
	m.pane = paneGrid

	m = press(t, m, runes("m"))
	if m.carrying == nil || m.carrying.entry.ID != "1" {
		t.Fatal("expected the hike to be picked up")
	}

	m = press(t, m, right, enter)

	_, at, ok := p.Locate("1")
	if !ok || at != sunMorning {
		t.Errorf("expected hike on sunday morning, got %v (%v)", at, ok)
	}
	if m.carrying != nil {
		t.Error("carry should end after the drop")
	}
}

func TestPickUpPutBack(t *testing.T) {
	m, p, _ := setupTestModel(t)
	place(t, p, "1", satMorning)
	m.pane = paneGrid
	revision := p.Revision()

	m = press(t, m, runes("m"), enter)

	if m.carrying != nil {
		t.Error("dropping on the source slot should end the carry")
	}
	if p.Revision() != revision {
		t.Error("putting an activity back must not change the schedule")
	}
}

func TestRemoveAndToggleDay(t *testing.T) {
	m, p, _ := setupTestModel(t)
	place(t, p, "1", satMorning)
	m.pane = paneGrid

	m = press(t, m, runes("d"))
	if p.Schedule().Contains("1") {
		t.Error("expected the hike to be removed")
	}

	m = press(t, m, runes("f"))
	if !p.Schedule().IsActive(models.Friday) {
		t.Error("expected friday to be added")
	}
	m = press(t, m, runes("M"), runes("M"))
	if p.Schedule().IsActive(models.Monday) {
		t.Error("expected monday to be toggled back off")
	}
}

func TestEditNotes(t *testing.T) {
	m, p, _ := setupTestModel(t)
	place(t, p, "1", satMorning)
	m.pane = paneGrid

	m = press(t, m, runes("e"))
	if m.state != constants.StateNotes {
		t.Fatalf("expected notes state, got %v", m.state)
	}
	m = press(t, m, runes("bring water"), enter)

	entry, _, _ := p.Locate("1")
	if entry.Notes != "bring water" {
		t.Errorf("expected notes to be saved, got %q", entry.Notes)
	}
	if m.state != constants.StateBoard {
		t.Errorf("expected board state, got %v", m.state)
	}
}

func TestConfirmClear(t *testing.T) {
	m, p, _ := setupTestModel(t)
	place(t, p, "1", satMorning)

	m = press(t, m, runes("c"), runes("n"))
	if !p.Schedule().Contains("1") {
		t.Error("declining must keep the plan")
	}

	m = press(t, m, runes("c"), runes("y"))
	if p.Schedule().Count() != 0 {
		t.Error("expected an empty plan")
	}
	if m.state != constants.StateBoard {
		t.Errorf("expected board state, got %v", m.state)
	}
}

func TestInsights(t *testing.T) {
	m, p, _ := setupTestModel(t)

	m = press(t, m, runes("i"))
	if m.state != constants.StateBoard || m.status == "" {
		t.Error("an empty plan should stay on the board with a hint")
	}

	place(t, p, "27", satMorning) // Yoga
	m = press(t, m, runes("i"))
	if m.state != constants.StateInsights {
		t.Fatalf("expected insights state, got %v", m.state)
	}
	m = press(t, m, esc)
	if m.state != constants.StateBoard {
		t.Errorf("expected board after closing insights, got %v", m.state)
	}
}

func TestQuitFlushes(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "clean"},
		{name: "save error", err: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, saver := setupTestModel(t)
			saver.err = tt.err

			updated, cmd := m.Update(runes("q"))
			m = updated.(Model)
			if !m.quitting || cmd == nil {
				t.Fatal("expected quit to start a flush")
			}

			msg := cmd()
			if saver.flushed != 1 {
				t.Errorf("expected one flush, got %d", saver.flushed)
			}

			updated, cmd = m.Update(msg)
			m = updated.(Model)
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected the program to quit after flushing")
			}
			if !errors.Is(m.Err(), tt.err) {
				t.Errorf("expected Err() = %v, got %v", tt.err, m.Err())
			}
		})
	}
}
