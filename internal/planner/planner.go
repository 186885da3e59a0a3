// Package planner owns the in-memory weekend schedule. Every placement goes
// through a propose step that never mutates and a commit step that applies
// the caller's decision; settled changes are pushed to observers.
package planner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kunal-511/weekendly/internal/logger"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
	"github.com/kunal-511/weekendly/internal/validation"
)

var ErrStaleProposal = errors.New("schedule changed since the proposal was made; propose again")

// Observer receives a copy of the schedule after every settled mutation.
// Notify must not block.
type Observer interface {
	Notify(schedule models.WeekendSchedule)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(models.WeekendSchedule)

func (f ObserverFunc) Notify(schedule models.WeekendSchedule) { f(schedule) }

// ActivityLookup resolves catalog activities by id.
type ActivityLookup interface {
	Lookup(id string) (models.Activity, error)
}

type Planner struct {
	mu        sync.Mutex
	scheduler *scheduler.Scheduler
	catalog   ActivityLookup
	schedule  models.WeekendSchedule
	revision  int
	observers []Observer
}

// New creates a planner starting from initial. A nil initial schedule
// starts with an empty saturday and sunday.
func New(sched *scheduler.Scheduler, catalog ActivityLookup, initial models.WeekendSchedule, observers ...Observer) *Planner {
	if initial == nil {
		initial = models.NewWeekendSchedule()
	}
	return &Planner{
		scheduler: sched,
		catalog:   catalog,
		schedule:  initial.Clone(),
		observers: observers,
	}
}

// Observe registers another observer.
func (p *Planner) Observe(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// Schedule returns a deep copy of the current schedule.
func (p *Planner) Schedule() models.WeekendSchedule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schedule.Clone()
}

// Revision increases by one with every change to the schedule.
func (p *Planner) Revision() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revision
}

func (p *Planner) Scheduler() *scheduler.Scheduler {
	return p.scheduler
}

// Locate returns where an activity is scheduled.
func (p *Planner) Locate(activityID string) (models.ScheduledActivity, models.Placement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, at, ok := p.schedule.Find(activityID)
	return item.Clone(), at, ok
}

// Preview reports the clash placing activityID at `at` would cause, without
// recording a proposal. A scheduled activity is checked as if lifted out of
// its current slot.
func (p *Planner) Preview(activityID string, at models.Placement) (*scheduler.TimeClash, error) {
	activity, err := p.catalog.Lookup(activityID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	view := p.schedule
	if _, from, ok := view.Find(activityID); ok {
		if from == at {
			return nil, nil
		}
		view = p.scheduler.Remove(view, activityID, from)
	}
	return p.scheduler.DetectClash(view, activity, at.Day, at.TimeSlot), nil
}

// ProposeAdd evaluates placing a catalog activity at `at`.
func (p *Planner) ProposeAdd(activityID string, at models.Placement) (scheduler.Proposal, error) {
	activity, err := p.catalog.Lookup(activityID)
	if err != nil {
		return scheduler.Proposal{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	proposal, err := p.scheduler.ProposeAdd(p.schedule, activity, at)
	if err != nil {
		return scheduler.Proposal{}, err
	}
	proposal.Revision = p.revision
	p.logProposal(proposal)
	return proposal, nil
}

// ProposeMove evaluates moving a scheduled activity from one slot to
// another.
func (p *Planner) ProposeMove(activityID string, from, to models.Placement) (scheduler.Proposal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	proposal, err := p.scheduler.ProposeMove(p.schedule, activityID, from, to)
	if err != nil {
		return scheduler.Proposal{}, err
	}
	proposal.Revision = p.revision
	p.logProposal(proposal)
	return proposal, nil
}

// Commit applies proposal under resolution and returns the resulting
// placement state. A cancelled add ends Unplaced and a cancelled move stays
// Placed at its source; neither touches the schedule.
func (p *Planner) Commit(proposal scheduler.Proposal, resolution scheduler.Resolution) (scheduler.PlacementState, error) {
	if resolution.Decision == scheduler.DecisionCancel {
		logger.Debug("Placement cancelled", "activity", proposal.Activity.ID, "target", proposal.Target)
		if proposal.IsMove() {
			return scheduler.Placed, nil
		}
		return scheduler.Unplaced, nil
	}

	p.mu.Lock()
	if proposal.Revision != p.revision {
		current := p.revision
		p.mu.Unlock()
		return proposal.State(), fmt.Errorf("%w (proposal at %d, schedule at %d)", ErrStaleProposal, proposal.Revision, current)
	}

	next, err := p.scheduler.Commit(p.schedule, proposal, resolution)
	if err != nil {
		p.mu.Unlock()
		return proposal.State(), err
	}

	dest, _ := resolution.Destination(proposal)
	if resolution.Decision == scheduler.DecisionOverride && proposal.HasClash() {
		logger.Warn("Placing activity over capacity",
			"activity", proposal.Activity.ID,
			"slot", dest,
			"overflow", scheduler.FormatHours(proposal.Clash.OverflowHours))
	}
	logger.Info("Placement committed",
		"activity", proposal.Activity.ID,
		"decision", resolution.Decision,
		"slot", dest)

	p.settle(next)
	return scheduler.Placed, nil
}

// Remove drops an activity from a slot. It reports whether anything was
// removed; removing an absent activity changes nothing.
func (p *Planner) Remove(activityID string, at models.Placement) bool {
	p.mu.Lock()
	if _, ok := findIn(p.schedule, activityID, at); !ok {
		p.mu.Unlock()
		return false
	}
	next := p.scheduler.Remove(p.schedule, activityID, at)
	logger.Info("Activity removed", "activity", activityID, "slot", at)
	p.settle(next)
	return true
}

// ToggleDay adds or removes friday or monday and returns whether the day is
// active afterwards.
func (p *Planner) ToggleDay(day models.Day) (bool, error) {
	p.mu.Lock()
	next, err := p.scheduler.ToggleDay(p.schedule, day)
	if err != nil {
		p.mu.Unlock()
		return p.Schedule().IsActive(day), err
	}
	active := next.IsActive(day)
	logger.Info("Day toggled", "day", day, "active", active)
	p.settle(next)
	return active, nil
}

// EnableLongWeekend makes friday and monday part of the plan.
func (p *Planner) EnableLongWeekend() error {
	p.mu.Lock()
	if p.schedule.IsActive(models.Friday) && p.schedule.IsActive(models.Monday) {
		p.mu.Unlock()
		return nil
	}
	next, err := p.scheduler.EnableDays(p.schedule, models.Friday, models.Monday)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	logger.Info("Long weekend enabled")
	p.settle(next)
	return nil
}

// UpdateNotes replaces the notes on a scheduled activity.
func (p *Planner) UpdateNotes(activityID string, at models.Placement, notes string) error {
	p.mu.Lock()
	next, err := p.scheduler.UpdateNotes(p.schedule, activityID, at, validation.SanitizeText(notes))
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.settle(next)
	return nil
}

// Clear resets to an empty saturday and sunday.
func (p *Planner) Clear() {
	p.mu.Lock()
	logger.Info("Schedule cleared", "activities", p.schedule.Count())
	p.settle(models.NewWeekendSchedule())
}

// Replace swaps in a whole schedule, for example a restored revision, and
// notifies observers.
func (p *Planner) Replace(schedule models.WeekendSchedule) {
	p.mu.Lock()
	p.settle(schedule.Clone())
}

// Load swaps in a schedule read from storage without notifying observers.
func (p *Planner) Load(schedule models.WeekendSchedule) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.schedule = schedule.Clone()
	p.revision++
}

// settle installs next, bumps the revision and notifies observers outside
// the lock. Callers must hold p.mu.
func (p *Planner) settle(next models.WeekendSchedule) {
	p.schedule = next
	p.revision++
	observers := append([]Observer(nil), p.observers...)
	p.mu.Unlock()

	for _, o := range observers {
		o.Notify(next.Clone())
	}
}

func (p *Planner) logProposal(proposal scheduler.Proposal) {
	if proposal.HasClash() {
		logger.Debug("Proposal clashes",
			"activity", proposal.Activity.ID,
			"target", proposal.Target,
			"overflow", scheduler.FormatHours(proposal.Clash.OverflowHours),
			"alternatives", len(proposal.Alternatives))
		return
	}
	logger.Debug("Proposal fits", "activity", proposal.Activity.ID, "target", proposal.Target)
}

func findIn(schedule models.WeekendSchedule, activityID string, at models.Placement) (models.ScheduledActivity, bool) {
	for _, item := range schedule.Slot(at.Day, at.TimeSlot) {
		if item.ID == activityID {
			return item, true
		}
	}
	return models.ScheduledActivity{}, false
}
