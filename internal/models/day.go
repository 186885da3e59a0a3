package models

import (
	"fmt"
	"strings"
)

// Day is one of the four days a weekend plan can span.
type Day string

// TimeSlot is one of the three fixed windows within a day.
type TimeSlot string

const (
	Friday   Day = "friday"
	Saturday Day = "saturday"
	Sunday   Day = "sunday"
	Monday   Day = "monday"

	Morning   TimeSlot = "morning"
	Afternoon TimeSlot = "afternoon"
	Evening   TimeSlot = "evening"
)

// AllDays lists every plannable day in display order.
var AllDays = [...]Day{Friday, Saturday, Sunday, Monday}

// AllTimeSlots lists every slot in display order.
var AllTimeSlots = [...]TimeSlot{Morning, Afternoon, Evening}

// CoreDays can never be removed from a plan.
var CoreDays = [...]Day{Saturday, Sunday}

// ParseDay accepts a day name in any case.
func ParseDay(s string) (Day, error) {
	d := Day(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid day %q (expected friday, saturday, sunday or monday)", s)
	}
	return d, nil
}

func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Index returns the position of d in AllDays, or -1 for an unknown day.
func (d Day) Index() int {
	for i, day := range AllDays {
		if day == d {
			return i
		}
	}
	return -1
}

// IsCore reports whether d is saturday or sunday.
func (d Day) IsCore() bool {
	return d == Saturday || d == Sunday
}

// Title returns the capitalized day name, e.g. "Saturday".
func (d Day) Title() string {
	return capitalize(string(d))
}

func (d Day) String() string {
	return string(d)
}

// ParseTimeSlot accepts a slot name in any case.
func ParseTimeSlot(s string) (TimeSlot, error) {
	t := TimeSlot(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid time slot %q (expected morning, afternoon or evening)", s)
	}
	return t, nil
}

func (t TimeSlot) Valid() bool {
	return t.Index() >= 0
}

// Index returns the position of t in AllTimeSlots, or -1 for an unknown slot.
func (t TimeSlot) Index() int {
	for i, slot := range AllTimeSlots {
		if slot == t {
			return i
		}
	}
	return -1
}

func (t TimeSlot) Title() string {
	return capitalize(string(t))
}

func (t TimeSlot) String() string {
	return string(t)
}

// Placement identifies one (day, slot) cell of the weekend grid.
type Placement struct {
	Day      Day      `json:"day"`
	TimeSlot TimeSlot `json:"timeSlot"`
}

// ParsePlacement parses "saturday/morning" (":" and " " are accepted as separators too).
func ParsePlacement(s string) (Placement, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == ':' || r == ' '
	})
	if len(fields) != 2 {
		return Placement{}, fmt.Errorf("invalid placement %q (expected day/slot, e.g. saturday/morning)", s)
	}
	day, err := ParseDay(fields[0])
	if err != nil {
		return Placement{}, err
	}
	slot, err := ParseTimeSlot(fields[1])
	if err != nil {
		return Placement{}, err
	}
	return Placement{Day: day, TimeSlot: slot}, nil
}

func (p Placement) String() string {
	return string(p.Day) + "/" + string(p.TimeSlot)
}

// Label renders the placement for humans, e.g. "Saturday morning".
func (p Placement) Label() string {
	return p.Day.Title() + " " + string(p.TimeSlot)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
