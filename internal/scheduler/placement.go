package scheduler

import (
	"errors"
	"fmt"

	"github.com/kunal-511/weekendly/internal/models"
)

var (
	ErrUnresolvedClash    = errors.New("placement clashes; choose an alternative, override or cancel")
	ErrInvalidAlternative = errors.New("chosen slot is not one of the suggested alternatives")
)

// PlacementState tracks an activity through propose and commit.
type PlacementState int

const (
	Unplaced PlacementState = iota
	Proposed
	ClashDetected
	Placed
)

func (p PlacementState) String() string {
	switch p {
	case Unplaced:
		return "unplaced"
	case Proposed:
		return "proposed"
	case ClashDetected:
		return "clash"
	case Placed:
		return "placed"
	}
	return "unknown"
}

// Proposal is the evaluated but not yet applied placement of an activity.
type Proposal struct {
	Activity     models.Activity
	Source       *models.Placement // set for moves
	Target       models.Placement
	Clash        *TimeClash
	Alternatives []SlotSuggestion
	// Revision is the planner revision the proposal was computed against.
	Revision int
}

func (p Proposal) IsMove() bool {
	return p.Source != nil
}

func (p Proposal) HasClash() bool {
	return p.Clash != nil
}

func (p Proposal) State() PlacementState {
	if p.Clash != nil {
		return ClashDetected
	}
	return Proposed
}

// Decision is how the caller settles a proposal.
type Decision int

const (
	DecisionAccept Decision = iota
	DecisionAlternative
	DecisionOverride
	DecisionCancel
)

func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionAlternative:
		return "alternative"
	case DecisionOverride:
		return "override"
	case DecisionCancel:
		return "cancel"
	}
	return "unknown"
}

type Resolution struct {
	Decision    Decision
	Alternative models.Placement
}

func Accept() Resolution   { return Resolution{Decision: DecisionAccept} }
func Override() Resolution { return Resolution{Decision: DecisionOverride} }
func Cancel() Resolution   { return Resolution{Decision: DecisionCancel} }

func UseAlternative(at models.Placement) Resolution {
	return Resolution{Decision: DecisionAlternative, Alternative: at}
}

// Destination returns where p lands under r. It reports false for a
// cancellation.
func (r Resolution) Destination(p Proposal) (models.Placement, bool) {
	switch r.Decision {
	case DecisionCancel:
		return models.Placement{}, false
	case DecisionAlternative:
		return r.Alternative, true
	}
	return p.Target, true
}

// ProposeAdd evaluates placing a catalog activity at target without
// changing the schedule.
func (s *Scheduler) ProposeAdd(schedule models.WeekendSchedule, activity models.Activity, target models.Placement) (Proposal, error) {
	if activity.ID == "" {
		return Proposal{}, ErrMissingActivity
	}
	if err := checkPlacement(schedule, target); err != nil {
		return Proposal{}, err
	}
	if _, where, ok := schedule.Find(activity.ID); ok {
		return Proposal{}, fmt.Errorf("%w: %s is in %s", ErrAlreadyScheduled, activity.ID, where.Label())
	}

	return s.evaluate(schedule, Proposal{Activity: activity, Target: target}), nil
}

// ProposeMove evaluates moving a scheduled activity. The target is checked
// against the schedule with the activity already lifted out of its source
// slot.
func (s *Scheduler) ProposeMove(schedule models.WeekendSchedule, activityID string, from, to models.Placement) (Proposal, error) {
	entry, ok := findIn(schedule, activityID, from)
	if !ok {
		return Proposal{}, fmt.Errorf("%w: %s in %s", ErrNotScheduled, activityID, from.Label())
	}
	if err := checkPlacement(schedule, to); err != nil {
		return Proposal{}, err
	}

	source := from
	p := Proposal{Activity: entry.Activity.Clone(), Source: &source, Target: to}
	if from == to {
		return p, nil
	}
	return s.evaluate(s.Remove(schedule, activityID, from), p), nil
}

func (s *Scheduler) evaluate(view models.WeekendSchedule, p Proposal) Proposal {
	p.Clash = s.DetectClash(view, p.Activity, p.Target.Day, p.Target.TimeSlot)
	if p.Clash != nil {
		target := p.Target
		p.Alternatives = s.SuggestAlternativeSlots(view, p.Activity, &target)
	}
	return p
}

// Commit applies a settled proposal. Cancelling returns an unchanged copy.
func (s *Scheduler) Commit(schedule models.WeekendSchedule, p Proposal, r Resolution) (models.WeekendSchedule, error) {
	switch r.Decision {
	case DecisionCancel:
		return schedule.Clone(), nil
	case DecisionAccept:
		if p.HasClash() {
			return schedule, ErrUnresolvedClash
		}
	case DecisionAlternative:
		if !containsPlacement(p.Alternatives, r.Alternative) {
			return schedule, fmt.Errorf("%w: %s", ErrInvalidAlternative, r.Alternative)
		}
	case DecisionOverride:
	default:
		return schedule, fmt.Errorf("unknown decision %d", r.Decision)
	}

	dest, _ := r.Destination(p)
	if p.IsMove() {
		return s.Move(schedule, p.Activity.ID, *p.Source, dest)
	}
	return s.Add(schedule, p.Activity, dest)
}

func containsPlacement(suggestions []SlotSuggestion, at models.Placement) bool {
	for _, sg := range suggestions {
		if sg.Placement() == at {
			return true
		}
	}
	return false
}
