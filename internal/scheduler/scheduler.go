package scheduler

import (
	"math"

	"github.com/kunal-511/weekendly/internal/models"
)

// TimeSlotInfo describes the fixed window and capacity of a slot.
type TimeSlotInfo struct {
	Label      string  `json:"label"`
	StartHour  int     `json:"startHour"`
	EndHour    int     `json:"endHour"`
	TotalHours float64 `json:"totalHours"`
}

// DefaultTimeSlots is the slot table used by New.
var DefaultTimeSlots = map[models.TimeSlot]TimeSlotInfo{
	models.Morning: {
		Label:      "Morning (8:00 AM - 12:00 PM)",
		StartHour:  8,
		EndHour:    12,
		TotalHours: 4,
	},
	models.Afternoon: {
		Label:      "Afternoon (12:00 PM - 6:00 PM)",
		StartHour:  12,
		EndHour:    18,
		TotalHours: 6,
	},
	models.Evening: {
		Label:      "Evening (6:00 PM - 11:00 PM)",
		StartHour:  18,
		EndHour:    23,
		TotalHours: 5,
	},
}

// Scheduler evaluates and applies placements on a WeekendSchedule. All of
// its methods are pure: they read the schedule they are given and return
// new values without touching shared state.
type Scheduler struct {
	slots map[models.TimeSlot]TimeSlotInfo
}

func New() *Scheduler {
	slots := make(map[models.TimeSlot]TimeSlotInfo, len(DefaultTimeSlots))
	for k, v := range DefaultTimeSlots {
		slots[k] = v
	}
	return &Scheduler{slots: slots}
}

// SlotInfo returns the static description of t.
func (s *Scheduler) SlotInfo(t models.TimeSlot) TimeSlotInfo {
	return s.slots[t]
}

// Capacity returns the total hours available in t.
func (s *Scheduler) Capacity(t models.TimeSlot) float64 {
	return s.slots[t].TotalHours
}

// SlotDuration sums the durations already placed in (day, t). Inactive days
// report zero.
func (s *Scheduler) SlotDuration(schedule models.WeekendSchedule, day models.Day, t models.TimeSlot) float64 {
	return sumDurations(schedule.Slot(day, t))
}

// AvailableHours is the free capacity of (day, t), never below zero.
func (s *Scheduler) AvailableHours(schedule models.WeekendSchedule, day models.Day, t models.TimeSlot) float64 {
	return math.Max(0, s.Capacity(t)-s.SlotDuration(schedule, day, t))
}

// Utilization returns how full (day, t) is as a percentage capped at 100.
func (s *Scheduler) Utilization(schedule models.WeekendSchedule, day models.Day, t models.TimeSlot) float64 {
	capacity := s.Capacity(t)
	if capacity <= 0 {
		return 0
	}
	return math.Min(100, s.SlotDuration(schedule, day, t)/capacity*100)
}

func sumDurations(items []models.ScheduledActivity) float64 {
	var total float64
	for _, item := range items {
		total += item.Duration
	}
	return total
}
