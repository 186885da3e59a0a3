package models

// DaySchedule holds the ordered activities of each slot in one day.
type DaySchedule struct {
	Morning   []ScheduledActivity `json:"morning"`
	Afternoon []ScheduledActivity `json:"afternoon"`
	Evening   []ScheduledActivity `json:"evening"`
}

// Slot returns the activities in t. The returned slice must not be modified.
func (d DaySchedule) Slot(t TimeSlot) []ScheduledActivity {
	switch t {
	case Morning:
		return d.Morning
	case Afternoon:
		return d.Afternoon
	case Evening:
		return d.Evening
	}
	return nil
}

func (d *DaySchedule) SetSlot(t TimeSlot, items []ScheduledActivity) {
	switch t {
	case Morning:
		d.Morning = items
	case Afternoon:
		d.Afternoon = items
	case Evening:
		d.Evening = items
	}
}

func (d DaySchedule) IsEmpty() bool {
	return len(d.Morning) == 0 && len(d.Afternoon) == 0 && len(d.Evening) == 0
}

func (d DaySchedule) Clone() DaySchedule {
	return DaySchedule{
		Morning:   cloneEntries(d.Morning),
		Afternoon: cloneEntries(d.Afternoon),
		Evening:   cloneEntries(d.Evening),
	}
}

func cloneEntries(src []ScheduledActivity) []ScheduledActivity {
	out := make([]ScheduledActivity, len(src))
	for i, item := range src {
		out[i] = item.Clone()
	}
	return out
}

// WeekendSchedule maps each active day to its plan. A day missing from the
// map is not part of the weekend; a present but empty DaySchedule is an
// active day with nothing planned yet.
type WeekendSchedule map[Day]DaySchedule

// NewWeekendSchedule returns a plan with only the core days active.
func NewWeekendSchedule() WeekendSchedule {
	s := WeekendSchedule{}
	for _, d := range CoreDays {
		s[d] = DaySchedule{}.Clone()
	}
	return s
}

func (s WeekendSchedule) IsActive(d Day) bool {
	_, ok := s[d]
	return ok
}

// ActiveDays returns the active days in display order.
func (s WeekendSchedule) ActiveDays() []Day {
	var days []Day
	for _, d := range AllDays {
		if s.IsActive(d) {
			days = append(days, d)
		}
	}
	return days
}

// Slot returns the activities in (d, t), or nil if d is not active.
func (s WeekendSchedule) Slot(d Day, t TimeSlot) []ScheduledActivity {
	day, ok := s[d]
	if !ok {
		return nil
	}
	return day.Slot(t)
}

// Clone returns a deep copy. Unknown day keys are dropped.
func (s WeekendSchedule) Clone() WeekendSchedule {
	out := make(WeekendSchedule, len(s))
	for _, d := range AllDays {
		if day, ok := s[d]; ok {
			out[d] = day.Clone()
		}
	}
	return out
}

// Find locates the first entry for activityID in day/slot order.
func (s WeekendSchedule) Find(activityID string) (ScheduledActivity, Placement, bool) {
	for _, d := range AllDays {
		day, ok := s[d]
		if !ok {
			continue
		}
		for _, t := range AllTimeSlots {
			for _, item := range day.Slot(t) {
				if item.ID == activityID {
					return item, Placement{Day: d, TimeSlot: t}, true
				}
			}
		}
	}
	return ScheduledActivity{}, Placement{}, false
}

// Contains reports whether activityID is anywhere in the schedule.
func (s WeekendSchedule) Contains(activityID string) bool {
	_, _, ok := s.Find(activityID)
	return ok
}

// ScheduledIDs returns the set of activity ids present on active days.
func (s WeekendSchedule) ScheduledIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, item := range s.All() {
		ids[item.ID] = true
	}
	return ids
}

// All returns every scheduled entry in day, slot and insertion order.
func (s WeekendSchedule) All() []ScheduledActivity {
	var out []ScheduledActivity
	for _, d := range AllDays {
		day, ok := s[d]
		if !ok {
			continue
		}
		for _, t := range AllTimeSlots {
			out = append(out, day.Slot(t)...)
		}
	}
	return out
}

func (s WeekendSchedule) Count() int {
	return len(s.All())
}

// ScheduleSnapshot is one saved revision of a weekend plan.
type ScheduleSnapshot struct {
	ID       string          `json:"id"`
	Revision int             `json:"revision"`
	SavedAt  string          `json:"saved_at"`
	Schedule WeekendSchedule `json:"schedule"`
}

// RevisionInfo summarizes a saved revision without its activities.
type RevisionInfo struct {
	ID            string `json:"id"`
	Revision      int    `json:"revision"`
	SavedAt       string `json:"saved_at"`
	ActiveDays    []Day  `json:"active_days"`
	ActivityCount int    `json:"activity_count"`
}

// Summarize builds the RevisionInfo for snap.
func (snap ScheduleSnapshot) Summarize() RevisionInfo {
	return RevisionInfo{
		ID:            snap.ID,
		Revision:      snap.Revision,
		SavedAt:       snap.SavedAt,
		ActiveDays:    snap.Schedule.ActiveDays(),
		ActivityCount: snap.Schedule.Count(),
	}
}
