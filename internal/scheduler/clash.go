package scheduler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kunal-511/weekendly/internal/models"
)

// TimeClash reports that a slot cannot hold an activity, or for audit
// results, that it already holds more than its capacity.
type TimeClash struct {
	Day                models.Day                 `json:"day"`
	TimeSlot           models.TimeSlot            `json:"timeSlot"`
	CurrentDuration    float64                    `json:"currentDuration"`
	AvailableHours     float64                    `json:"availableHours"`
	ActivityDuration   float64                    `json:"activityDuration"`
	OverflowHours      float64                    `json:"overflowHours"`
	ExistingActivities []models.ScheduledActivity `json:"existingActivities"`
}

// Placement returns the (day, slot) the clash refers to.
func (c TimeClash) Placement() models.Placement {
	return models.Placement{Day: c.Day, TimeSlot: c.TimeSlot}
}

// DetectClash checks whether activity fits into (day, t). It returns nil
// when the activity fits, including an exact fit, and when day is not part
// of the schedule.
func (s *Scheduler) DetectClash(schedule models.WeekendSchedule, activity models.Activity, day models.Day, t models.TimeSlot) *TimeClash {
	if !schedule.IsActive(day) {
		return nil
	}

	existing := schedule.Slot(day, t)
	current := sumDurations(existing)
	available := s.Capacity(t) - current

	if activity.Duration <= available {
		return nil
	}

	return &TimeClash{
		Day:                day,
		TimeSlot:           t,
		CurrentDuration:    current,
		AvailableHours:     available,
		ActivityDuration:   activity.Duration,
		OverflowHours:      activity.Duration - available,
		ExistingActivities: existing,
	}
}

// FormatClashMessage renders a clash as a sentence for the user.
func (s *Scheduler) FormatClashMessage(clash TimeClash, activity models.Activity) string {
	return fmt.Sprintf(
		"The %s activity (%sh) won't fit in %s %s (%s). You have %sh available, but need %sh. This would overflow by %sh.",
		activity.Title,
		FormatHours(activity.Duration),
		clash.Day.Title(),
		clash.TimeSlot,
		s.SlotInfo(clash.TimeSlot).Label,
		FormatHours(clash.AvailableHours),
		FormatHours(clash.ActivityDuration),
		FormatHours(clash.OverflowHours),
	)
}

// FormatHours prints an hour value with at most two decimals and no
// trailing zeros.
func FormatHours(h float64) string {
	return strconv.FormatFloat(math.Round(h*100)/100, 'f', -1, 64)
}
