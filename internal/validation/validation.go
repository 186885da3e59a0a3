package validation

import (
	"fmt"
	"strings"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

// Conflict represents a detected inconsistency in a weekend schedule
type Conflict struct {
	Type        constants.ConflictType
	Description string
	Placements  []models.Placement // slots involved, empty for schedule-wide conflicts
	Items       []string           // activity titles involved
	ActivityIDs []string           // ids involved (for auto-fixing)
	Day         models.Day         // set for missing_core_day
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// ActivityLookup resolves catalog activities by id.
type ActivityLookup interface {
	Lookup(id string) (models.Activity, error)
}

// Validator checks schedules loaded from storage for structural problems.
type Validator struct {
	scheduler *scheduler.Scheduler
	catalog   ActivityLookup
}

// New creates a Validator. A nil catalog skips the unknown activity check.
func New(sched *scheduler.Scheduler, catalog ActivityLookup) *Validator {
	return &Validator{scheduler: sched, catalog: catalog}
}

// ValidateSchedule reports missing core days, duplicate and unknown
// activities, stale scheduledAt references and over capacity slots.
func (v *Validator) ValidateSchedule(schedule models.WeekendSchedule) ValidationResult {
	var result ValidationResult

	for _, day := range models.CoreDays {
		if !schedule.IsActive(day) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictMissingCoreDay,
				Description: fmt.Sprintf("%s is missing from the plan", day.Title()),
				Day:         day,
			})
		}
	}

	seen := make(map[string][]models.Placement)
	titles := make(map[string]string)
	var order []string

	for _, day := range schedule.ActiveDays() {
		for _, slot := range models.AllTimeSlots {
			here := models.Placement{Day: day, TimeSlot: slot}
			for _, item := range schedule.Slot(day, slot) {
				if _, ok := seen[item.ID]; !ok {
					order = append(order, item.ID)
				}
				seen[item.ID] = append(seen[item.ID], here)
				titles[item.ID] = item.Title

				if item.ScheduledAt == nil || *item.ScheduledAt != here {
					recorded := "nothing"
					if item.ScheduledAt != nil {
						recorded = item.ScheduledAt.Label()
					}
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:        constants.ConflictMisplaced,
						Description: fmt.Sprintf("%s sits in %s but records %s", item.Title, here.Label(), recorded),
						Placements:  []models.Placement{here},
						Items:       []string{item.Title},
						ActivityIDs: []string{item.ID},
					})
				}
			}
		}
	}

	for _, id := range order {
		places := seen[id]
		if len(places) > 1 {
			labels := make([]string, len(places))
			for i, p := range places {
				labels[i] = p.Label()
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictDuplicateActivity,
				Description: fmt.Sprintf("%s is scheduled %d times (%s)", titles[id], len(places), strings.Join(labels, ", ")),
				Placements:  places,
				Items:       []string{titles[id]},
				ActivityIDs: []string{id},
			})
		}

		if v.catalog != nil {
			if _, err := v.catalog.Lookup(id); err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        constants.ConflictUnknownActivity,
					Description: fmt.Sprintf("%s (id %s) is not in the activity catalog", titles[id], id),
					Placements:  places,
					Items:       []string{titles[id]},
					ActivityIDs: []string{id},
				})
			}
		}
	}

	for _, clash := range v.scheduler.FindAllClashes(schedule) {
		items := make([]string, len(clash.ExistingActivities))
		ids := make([]string, len(clash.ExistingActivities))
		for i, a := range clash.ExistingActivities {
			items[i] = a.Title
			ids[i] = a.ID
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: constants.ConflictOvercommittedSlot,
			Description: fmt.Sprintf("%s is overcommitted: %sh scheduled in a %sh slot (over by %sh)",
				clash.Placement().Label(),
				scheduler.FormatHours(clash.CurrentDuration),
				scheduler.FormatHours(v.scheduler.Capacity(clash.TimeSlot)),
				scheduler.FormatHours(clash.OverflowHours)),
			Placements:  []models.Placement{clash.Placement()},
			Items:       items,
			ActivityIDs: ids,
		})
	}

	return result
}

// AutoFix repairs the conflicts it can: it restores missing core days,
// keeps only the first occurrence of duplicated activities and rewrites
// stale scheduledAt references. Overcommitted slots and unknown activities
// need a decision from the user and are left alone.
func (v *Validator) AutoFix(schedule models.WeekendSchedule, result ValidationResult) (models.WeekendSchedule, []FixAction) {
	next := schedule.Clone()
	actions := []FixAction{}

	for _, conflict := range result.Conflicts {
		switch conflict.Type {
		case constants.ConflictMissingCoreDay:
			fixed, err := v.scheduler.EnableDays(next, conflict.Day)
			if err != nil {
				continue
			}
			next = fixed
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Restored %s", conflict.Day.Title()),
				SourceConflict: conflict,
			})

		case constants.ConflictDuplicateActivity:
			if len(conflict.Placements) <= 1 || len(conflict.ActivityIDs) == 0 {
				continue
			}
			id := conflict.ActivityIDs[0]
			keep := conflict.Placements[0]
			next = dropDuplicates(next, id, keep)
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Removed %d duplicate(s) of %s (kept %s)", len(conflict.Placements)-1, conflict.Items[0], keep.Label()),
				SourceConflict: conflict,
			})

		case constants.ConflictMisplaced:
			if len(conflict.Placements) == 0 || len(conflict.ActivityIDs) == 0 {
				continue
			}
			here := conflict.Placements[0]
			day, ok := next[here.Day]
			if !ok {
				continue
			}
			items := append([]models.ScheduledActivity(nil), day.Slot(here.TimeSlot)...)
			for i := range items {
				if items[i].ID == conflict.ActivityIDs[0] {
					at := here
					items[i].ScheduledAt = &at
				}
			}
			day.SetSlot(here.TimeSlot, items)
			next[here.Day] = day
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Updated %s to record %s", conflict.Items[0], here.Label()),
				SourceConflict: conflict,
			})
		}
	}

	return next, actions
}

// dropDuplicates keeps the first entry of id at keep and removes every
// other entry of id.
func dropDuplicates(schedule models.WeekendSchedule, id string, keep models.Placement) models.WeekendSchedule {
	kept := false
	for _, d := range schedule.ActiveDays() {
		day := schedule[d]
		for _, slot := range models.AllTimeSlots {
			here := models.Placement{Day: d, TimeSlot: slot}
			items := day.Slot(slot)
			filtered := make([]models.ScheduledActivity, 0, len(items))
			for _, item := range items {
				if item.ID == id {
					if kept || here != keep {
						continue
					}
					kept = true
				}
				filtered = append(filtered, item)
			}
			day.SetSlot(slot, filtered)
		}
		schedule[d] = day
	}
	return schedule
}
