package scheduler

import (
	"sort"

	"github.com/kunal-511/weekendly/internal/models"
)

// SlotSuggestion is a (day, slot) with room for an activity.
type SlotSuggestion struct {
	Day            models.Day      `json:"day"`
	TimeSlot       models.TimeSlot `json:"timeSlot"`
	AvailableHours float64         `json:"availableHours"`
	SlotInfo       TimeSlotInfo    `json:"slotInfo"`
}

func (sg SlotSuggestion) Placement() models.Placement {
	return models.Placement{Day: sg.Day, TimeSlot: sg.TimeSlot}
}

// SuggestAlternativeSlots lists every slot on an active day that can take
// the whole activity, most free room first. Only the exact excluded
// (day, slot) pair is skipped; other slots on that day remain candidates.
// Ties keep day order then slot order.
func (s *Scheduler) SuggestAlternativeSlots(schedule models.WeekendSchedule, activity models.Activity, exclude *models.Placement) []SlotSuggestion {
	var suggestions []SlotSuggestion

	for _, day := range models.AllDays {
		if !schedule.IsActive(day) {
			continue
		}
		for _, t := range models.AllTimeSlots {
			if exclude != nil && exclude.Day == day && exclude.TimeSlot == t {
				continue
			}

			available := s.AvailableHours(schedule, day, t)
			if available >= activity.Duration {
				suggestions = append(suggestions, SlotSuggestion{
					Day:            day,
					TimeSlot:       t,
					AvailableHours: available,
					SlotInfo:       s.SlotInfo(t),
				})
			}
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].AvailableHours > suggestions[j].AvailableHours
	})

	return suggestions
}
