package planner

import (
	"errors"
	"sync"
	"testing"

	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

type fakeCatalog map[string]models.Activity

func (c fakeCatalog) Lookup(id string) (models.Activity, error) {
	a, ok := c[id]
	if !ok {
		return models.Activity{}, errors.New("unknown activity " + id)
	}
	return a, nil
}

type recorder struct {
	mu        sync.Mutex
	snapshots []models.WeekendSchedule
}

func (r *recorder) Notify(schedule models.WeekendSchedule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, schedule)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

var (
	satMorning   = models.Placement{Day: models.Saturday, TimeSlot: models.Morning}
	satEvening   = models.Placement{Day: models.Saturday, TimeSlot: models.Evening}
	sunAfternoon = models.Placement{Day: models.Sunday, TimeSlot: models.Afternoon}
	friEvening   = models.Placement{Day: models.Friday, TimeSlot: models.Evening}
)

func setupPlanner(t *testing.T) (*Planner, *recorder) {
	t.Helper()
	catalog := fakeCatalog{
		"hike":    {ID: "hike", Title: "Morning Hike", Duration: 3},
		"brunch":  {ID: "brunch", Title: "Brunch", Duration: 2},
		"yoga":    {ID: "yoga", Title: "Yoga", Duration: 1},
		"concert": {ID: "concert", Title: "Concert", Duration: 4},
	}
	rec := &recorder{}
	return New(scheduler.New(), catalog, nil, rec), rec
}

func mustPlace(t *testing.T, p *Planner, id string, at models.Placement) {
	t.Helper()
	proposal, err := p.ProposeAdd(id, at)
	if err != nil {
		t.Fatalf("ProposeAdd(%s) failed: %v", id, err)
	}
	if _, err := p.Commit(proposal, scheduler.Accept()); err != nil {
		t.Fatalf("Commit(%s) failed: %v", id, err)
	}
}

func TestProposeDoesNotMutate(t *testing.T) {
	p, rec := setupPlanner(t)

	proposal, err := p.ProposeAdd("hike", satMorning)
	if err != nil {
		t.Fatalf("ProposeAdd failed: %v", err)
	}
	if proposal.State() != scheduler.Proposed {
		t.Errorf("Expected proposed state, got %s", proposal.State())
	}
	if p.Schedule().Count() != 0 || p.Revision() != 0 || rec.count() != 0 {
		t.Error("Proposing must not change the schedule or notify observers")
	}
}

func TestCommit_PlacesAndNotifies(t *testing.T) {
	p, rec := setupPlanner(t)
	mustPlace(t, p, "hike", satMorning)

	if _, at, ok := p.Locate("hike"); !ok || at != satMorning {
		t.Fatalf("Expected hike at %s, got %s (found=%v)", satMorning, at, ok)
	}
	if p.Revision() != 1 {
		t.Errorf("Expected revision 1, got %d", p.Revision())
	}
	if rec.count() != 1 {
		t.Fatalf("Expected 1 notification, got %d", rec.count())
	}
	if !rec.snapshots[0].Contains("hike") {
		t.Error("Observer snapshot is missing the committed activity")
	}
}

func TestCommit_ClashNeedsDecision(t *testing.T) {
	p, rec := setupPlanner(t)
	mustPlace(t, p, "hike", satMorning)

	proposal, err := p.ProposeAdd("brunch", satMorning)
	if err != nil {
		t.Fatalf("ProposeAdd failed: %v", err)
	}
	if proposal.State() != scheduler.ClashDetected {
		t.Fatalf("Expected clash, got %s", proposal.State())
	}

	if _, err := p.Commit(proposal, scheduler.Accept()); !errors.Is(err, scheduler.ErrUnresolvedClash) {
		t.Errorf("Expected ErrUnresolvedClash, got %v", err)
	}

	state, err := p.Commit(proposal, scheduler.Cancel())
	if err != nil || state != scheduler.Unplaced {
		t.Errorf("Cancel returned (%s, %v), want (unplaced, nil)", state, err)
	}
	if p.Schedule().Contains("brunch") || rec.count() != 1 {
		t.Error("Cancel must leave the schedule untouched")
	}

	alt := proposal.Alternatives[0].Placement()
	state, err = p.Commit(proposal, scheduler.UseAlternative(alt))
	if err != nil || state != scheduler.Placed {
		t.Fatalf("Alternative returned (%s, %v)", state, err)
	}
	if _, at, _ := p.Locate("brunch"); at != alt {
		t.Errorf("Expected brunch at %s, got %s", alt, at)
	}
}

func TestCommit_RejectsStaleProposal(t *testing.T) {
	p, _ := setupPlanner(t)

	stale, err := p.ProposeAdd("brunch", satMorning)
	if err != nil {
		t.Fatalf("ProposeAdd failed: %v", err)
	}
	mustPlace(t, p, "hike", satMorning)

	if _, err := p.Commit(stale, scheduler.Accept()); !errors.Is(err, ErrStaleProposal) {
		t.Fatalf("Expected ErrStaleProposal, got %v", err)
	}
	if p.Schedule().Contains("brunch") {
		t.Error("Stale proposal must not be applied")
	}
}

func TestOverrideExceedsCapacity(t *testing.T) {
	p, _ := setupPlanner(t)
	mustPlace(t, p, "concert", satEvening)

	proposal, err := p.ProposeAdd("hike", satEvening)
	if err != nil {
		t.Fatalf("ProposeAdd failed: %v", err)
	}
	if _, err := p.Commit(proposal, scheduler.Override()); err != nil {
		t.Fatalf("Override failed: %v", err)
	}
	clashes := p.Scheduler().FindAllClashes(p.Schedule())
	if len(clashes) != 1 || clashes[0].OverflowHours != 2 {
		t.Errorf("Expected saturday evening to be 2h over, got %+v", clashes)
	}
}

func TestMoveKeepsNotes(t *testing.T) {
	p, _ := setupPlanner(t)
	mustPlace(t, p, "hike", satMorning)
	if err := p.UpdateNotes("hike", satMorning, "  bring sunscreen\x07 "); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}

	proposal, err := p.ProposeMove("hike", satMorning, sunAfternoon)
	if err != nil {
		t.Fatalf("ProposeMove failed: %v", err)
	}
	if _, err := p.Commit(proposal, scheduler.Accept()); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	item, at, ok := p.Locate("hike")
	if !ok || at != sunAfternoon {
		t.Fatalf("Expected hike at %s, got %s", sunAfternoon, at)
	}
	if item.Notes != "bring sunscreen" {
		t.Errorf("Expected sanitized notes to survive the move, got %q", item.Notes)
	}
	if len(p.Schedule().Slot(models.Saturday, models.Morning)) != 0 {
		t.Error("Source slot still holds the activity")
	}
}

func TestCancelledMoveStaysPlaced(t *testing.T) {
	p, _ := setupPlanner(t)
	mustPlace(t, p, "hike", satMorning)

	proposal, err := p.ProposeMove("hike", satMorning, sunAfternoon)
	if err != nil {
		t.Fatalf("ProposeMove failed: %v", err)
	}
	state, err := p.Commit(proposal, scheduler.Cancel())
	if err != nil || state != scheduler.Placed {
		t.Errorf("Cancel returned (%s, %v), want (placed, nil)", state, err)
	}
	if _, at, _ := p.Locate("hike"); at != satMorning {
		t.Errorf("Expected hike to stay at %s, got %s", satMorning, at)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	p, rec := setupPlanner(t)
	mustPlace(t, p, "yoga", satMorning)

	if !p.Remove("yoga", satMorning) {
		t.Error("Expected first remove to report a change")
	}
	if p.Remove("yoga", satMorning) {
		t.Error("Expected second remove to be a no-op")
	}
	if rec.count() != 2 {
		t.Errorf("Expected 2 notifications, got %d", rec.count())
	}
}

func TestToggleDayAndLongWeekend(t *testing.T) {
	p, _ := setupPlanner(t)

	if _, err := p.ToggleDay(models.Sunday); !errors.Is(err, scheduler.ErrCoreDay) {
		t.Errorf("Expected ErrCoreDay, got %v", err)
	}

	if _, err := p.ProposeAdd("yoga", friEvening); !errors.Is(err, scheduler.ErrDayInactive) {
		t.Errorf("Expected ErrDayInactive before friday is added, got %v", err)
	}

	if err := p.EnableLongWeekend(); err != nil {
		t.Fatalf("EnableLongWeekend failed: %v", err)
	}
	mustPlace(t, p, "yoga", friEvening)

	active, err := p.ToggleDay(models.Friday)
	if err != nil || active {
		t.Fatalf("ToggleDay(friday) = (%v, %v), want (false, nil)", active, err)
	}
	if p.Schedule().Contains("yoga") {
		t.Error("Removing friday must drop its activities")
	}
	if !p.Schedule().IsActive(models.Monday) {
		t.Error("Monday should still be active")
	}
}

func TestPreview(t *testing.T) {
	p, rec := setupPlanner(t)
	mustPlace(t, p, "hike", satMorning)

	clash, err := p.Preview("brunch", satMorning)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if clash == nil || clash.OverflowHours != 1 {
		t.Errorf("Expected 1h overflow, got %+v", clash)
	}

	if clash, _ := p.Preview("hike", satMorning); clash != nil {
		t.Error("Previewing an activity over its own slot should not clash")
	}
	if rec.count() != 1 || p.Revision() != 1 {
		t.Error("Preview must not mutate")
	}
}

func TestClearAndLoad(t *testing.T) {
	p, rec := setupPlanner(t)
	mustPlace(t, p, "hike", satMorning)
	if err := p.EnableLongWeekend(); err != nil {
		t.Fatalf("EnableLongWeekend failed: %v", err)
	}

	snapshot := p.Schedule()
	p.Clear()
	if p.Schedule().Count() != 0 || p.Schedule().IsActive(models.Friday) {
		t.Error("Clear should reset to an empty core weekend")
	}

	before := rec.count()
	p.Load(snapshot)
	if !p.Schedule().Contains("hike") {
		t.Error("Load should install the given schedule")
	}
	if rec.count() != before {
		t.Error("Load must not notify observers")
	}

	p.Replace(models.NewWeekendSchedule())
	if rec.count() != before+1 {
		t.Error("Replace should notify observers")
	}
}
