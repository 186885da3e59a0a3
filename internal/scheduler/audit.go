package scheduler

import "github.com/kunal-511/weekendly/internal/models"

// FindAllClashes reports every slot that already holds more than its
// capacity. These clashes carry no prospective activity, so
// ActivityDuration and AvailableHours are zero and OverflowHours is the
// excess over capacity.
func (s *Scheduler) FindAllClashes(schedule models.WeekendSchedule) []TimeClash {
	var clashes []TimeClash

	for _, day := range models.AllDays {
		if !schedule.IsActive(day) {
			continue
		}
		for _, t := range models.AllTimeSlots {
			items := schedule.Slot(day, t)
			total := sumDurations(items)
			capacity := s.Capacity(t)

			if total > capacity {
				clashes = append(clashes, TimeClash{
					Day:                day,
					TimeSlot:           t,
					CurrentDuration:    total,
					AvailableHours:     0,
					ActivityDuration:   0,
					OverflowHours:      total - capacity,
					ExistingActivities: items,
				})
			}
		}
	}

	return clashes
}
