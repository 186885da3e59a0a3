// Package tui is the interactive weekend board: the activity catalog on the
// left and the day by slot grid on the right.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kunal-511/weekendly/internal/catalog"
	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/insights"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/planner"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

const flushTimeout = 10 * time.Second

// Saver is the persistence side of the board. *persist.Mirror implements it.
type Saver interface {
	Flush(ctx context.Context) error
	Err() error
	Pending() bool
}

type pane int

const (
	paneCatalog pane = iota
	paneGrid
)

// carried is an activity picked up with the move key.
type carried struct {
	entry models.ScheduledActivity
	from  models.Placement
}

type clashChoice struct {
	label      string
	resolution scheduler.Resolution
}

type flushedMsg struct {
	err error
}

type Model struct {
	planner  *planner.Planner
	sched    *scheduler.Scheduler
	catalog  *catalog.Catalog
	analyzer *insights.Analyzer
	saver    Saver
	theme    string

	state  constants.SessionState
	pane   pane
	keys   KeyMap
	help   help.Model
	list   list.Model
	notes  textinput.Model
	report viewport.Model

	// grid cursor, indexes into models.AllDays and models.AllTimeSlots
	day  int
	slot int
	// selected entry within the cursor slot
	item int

	carrying *carried
	editing  *carried

	proposal *scheduler.Proposal
	choices  []clashChoice
	choice   int

	status    string
	statusErr bool
	err       error
	quitting  bool
	width     int
	height    int
}

func NewModel(p *planner.Planner, cat *catalog.Catalog, saver Saver, theme string) Model {
	l := list.New(catalogItems(cat.Activities(), p.Schedule().ScheduledIDs()), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Activities"
	l.SetShowHelp(false)
	// quitting goes through the board so pending saves are flushed
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "Notes for this activity"
	ti.CharLimit = 280

	return Model{
		planner:  p,
		sched:    p.Scheduler(),
		catalog:  cat,
		analyzer: insights.NewAnalyzer(cat),
		saver:    saver,
		theme:    theme,
		state:    constants.StateBoard,
		pane:     paneCatalog,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		list:     l,
		notes:    ti,
		report:   viewport.New(0, 0),
		day:      models.Saturday.Index(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Err is the error of the final flush, set once the board quit.
func (m Model) Err() error {
	return m.err
}

func (m Model) cursor() models.Placement {
	return models.Placement{Day: models.AllDays[m.day], TimeSlot: models.AllTimeSlots[m.slot]}
}

func (m Model) slotItems() []models.ScheduledActivity {
	at := m.cursor()
	return m.planner.Schedule().Slot(at.Day, at.TimeSlot)
}

func (m Model) selectedEntry() (models.ScheduledActivity, bool) {
	items := m.slotItems()
	if m.item < 0 || m.item >= len(items) {
		return models.ScheduledActivity{}, false
	}
	return items[m.item], true
}

func (m Model) selectedActivity() (models.Activity, bool) {
	item, ok := m.list.SelectedItem().(activityItem)
	if !ok {
		return models.Activity{}, false
	}
	return item.activity, true
}

// moveCursorTo puts the grid cursor on at and selects activityID there.
func (m *Model) moveCursorTo(at models.Placement, activityID string) {
	m.day = at.Day.Index()
	m.slot = at.TimeSlot.Index()
	m.item = 0
	for i, entry := range m.slotItems() {
		if entry.ID == activityID {
			m.item = i
		}
	}
}

func (m *Model) clampItem() {
	if n := len(m.slotItems()); m.item >= n {
		m.item = max(0, n-1)
	}
}

func (m *Model) refreshCatalog() {
	m.list.SetItems(catalogItems(m.catalog.Activities(), m.planner.Schedule().ScheduledIDs()))
	m.clampItem()
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// preview reports what placing the selected or carried activity at the
// cursor would do. It never changes the schedule.
func (m Model) preview() (*scheduler.TimeClash, string, bool) {
	at := m.cursor()
	if !m.planner.Schedule().IsActive(at.Day) {
		return nil, "", false
	}

	var id, title string
	if m.carrying != nil {
		if m.carrying.from == at {
			return nil, "", false
		}
		id, title = m.carrying.entry.ID, m.carrying.entry.Title
	} else {
		a, ok := m.selectedActivity()
		if !ok || m.planner.Schedule().Contains(a.ID) {
			return nil, "", false
		}
		id, title = a.ID, a.Title
	}

	clash, err := m.planner.Preview(id, at)
	if err != nil {
		return nil, "", false
	}
	return clash, title, true
}

func (m Model) flush() tea.Cmd {
	saver := m.saver
	return func() tea.Msg {
		if saver == nil {
			return flushedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		return flushedMsg{err: saver.Flush(ctx)}
	}
}
