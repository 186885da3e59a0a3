package scheduler

import (
	"errors"
	"fmt"

	"github.com/kunal-511/weekendly/internal/models"
)

var (
	ErrInvalidPlacement = errors.New("invalid day or time slot")
	ErrDayInactive      = errors.New("day is not part of the weekend plan")
	ErrCoreDay          = errors.New("saturday and sunday are always part of the weekend")
	ErrAlreadyScheduled = errors.New("activity is already scheduled")
	ErrNotScheduled     = errors.New("activity is not scheduled in that slot")
	ErrMissingActivity  = errors.New("activity id is required")
)

// Add appends activity to (at.Day, at.TimeSlot). Capacity is not checked
// here: callers resolve clashes first through ProposeAdd and Commit.
func (s *Scheduler) Add(schedule models.WeekendSchedule, activity models.Activity, at models.Placement) (models.WeekendSchedule, error) {
	return s.insert(schedule, models.ScheduledActivity{Activity: activity}, at)
}

func (s *Scheduler) insert(schedule models.WeekendSchedule, entry models.ScheduledActivity, at models.Placement) (models.WeekendSchedule, error) {
	if entry.ID == "" {
		return schedule, ErrMissingActivity
	}
	if err := checkPlacement(schedule, at); err != nil {
		return schedule, err
	}
	if _, where, ok := schedule.Find(entry.ID); ok {
		return schedule, fmt.Errorf("%w: %s is in %s", ErrAlreadyScheduled, entry.ID, where.Label())
	}

	next := schedule.Clone()
	entry = entry.Clone()
	entry.ScheduledAt = &models.Placement{Day: at.Day, TimeSlot: at.TimeSlot}

	day := next[at.Day]
	day.SetSlot(at.TimeSlot, append(day.Slot(at.TimeSlot), entry))
	next[at.Day] = day
	return next, nil
}

// Remove deletes activityID from (at.Day, at.TimeSlot). Removing something
// that is not there returns an unchanged copy.
func (s *Scheduler) Remove(schedule models.WeekendSchedule, activityID string, at models.Placement) models.WeekendSchedule {
	next := schedule.Clone()
	day, ok := next[at.Day]
	if !ok {
		return next
	}

	items := day.Slot(at.TimeSlot)
	kept := make([]models.ScheduledActivity, 0, len(items))
	for _, item := range items {
		if item.ID != activityID {
			kept = append(kept, item)
		}
	}
	day.SetSlot(at.TimeSlot, kept)
	next[at.Day] = day
	return next
}

// Move relocates activityID from one slot to another, keeping its notes.
// Moving onto the same slot returns an unchanged copy.
func (s *Scheduler) Move(schedule models.WeekendSchedule, activityID string, from, to models.Placement) (models.WeekendSchedule, error) {
	entry, ok := findIn(schedule, activityID, from)
	if !ok {
		return schedule, fmt.Errorf("%w: %s in %s", ErrNotScheduled, activityID, from.Label())
	}
	if err := checkPlacement(schedule, to); err != nil {
		return schedule, err
	}
	if from == to {
		return schedule.Clone(), nil
	}

	return s.insert(s.Remove(schedule, activityID, from), entry, to)
}

// UpdateNotes replaces the notes on a scheduled activity.
func (s *Scheduler) UpdateNotes(schedule models.WeekendSchedule, activityID string, at models.Placement, notes string) (models.WeekendSchedule, error) {
	if _, ok := findIn(schedule, activityID, at); !ok {
		return schedule, fmt.Errorf("%w: %s in %s", ErrNotScheduled, activityID, at.Label())
	}

	next := schedule.Clone()
	day := next[at.Day]
	items := day.Slot(at.TimeSlot)
	for i := range items {
		if items[i].ID == activityID {
			items[i].Notes = notes
		}
	}
	next[at.Day] = day
	return next, nil
}

// ToggleDay adds or removes friday or monday. Removing a day drops
// everything planned on it.
func (s *Scheduler) ToggleDay(schedule models.WeekendSchedule, day models.Day) (models.WeekendSchedule, error) {
	if !day.Valid() {
		return schedule, fmt.Errorf("%w: %q", ErrInvalidPlacement, day)
	}
	if day.IsCore() {
		return schedule, ErrCoreDay
	}

	next := schedule.Clone()
	if next.IsActive(day) {
		delete(next, day)
	} else {
		next[day] = models.DaySchedule{}.Clone()
	}
	return next, nil
}

// EnableDays makes sure every given day is active, leaving days that
// already are untouched.
func (s *Scheduler) EnableDays(schedule models.WeekendSchedule, days ...models.Day) (models.WeekendSchedule, error) {
	next := schedule.Clone()
	for _, day := range days {
		if !day.Valid() {
			return schedule, fmt.Errorf("%w: %q", ErrInvalidPlacement, day)
		}
		if !next.IsActive(day) {
			next[day] = models.DaySchedule{}.Clone()
		}
	}
	return next, nil
}

func checkPlacement(schedule models.WeekendSchedule, at models.Placement) error {
	if !at.Day.Valid() || !at.TimeSlot.Valid() {
		return fmt.Errorf("%w: %q/%q", ErrInvalidPlacement, at.Day, at.TimeSlot)
	}
	if !schedule.IsActive(at.Day) {
		return fmt.Errorf("%w: %s", ErrDayInactive, at.Day)
	}
	return nil
}

func findIn(schedule models.WeekendSchedule, activityID string, at models.Placement) (models.ScheduledActivity, bool) {
	for _, item := range schedule.Slot(at.Day, at.TimeSlot) {
		if item.ID == activityID {
			return item, true
		}
	}
	return models.ScheduledActivity{}, false
}
