package models

// Energy is how demanding an activity feels.
type Energy string

// Social describes who an activity is best enjoyed with.
type Social string

// Vibe is a free-form flavour tag from a closed set.
type Vibe string

const (
	EnergyHigh   Energy = "high"
	EnergyMedium Energy = "medium"
	EnergyLow    Energy = "low"

	SocialGroup  Social = "group"
	SocialCouple Social = "couple"
	SocialSolo   Social = "solo"

	VibeCreative Vibe = "creative"
	VibeMental   Vibe = "mental"
	VibePhysical Vibe = "physical"
	VibeNature   Vibe = "nature"
	VibeIndoor   Vibe = "indoor"
)

var (
	AllEnergies = []Energy{EnergyHigh, EnergyMedium, EnergyLow}
	AllSocials  = []Social{SocialGroup, SocialCouple, SocialSolo}
	AllVibes    = []Vibe{VibeCreative, VibeMental, VibePhysical, VibeNature, VibeIndoor}
)

func (e Energy) Valid() bool {
	switch e {
	case EnergyHigh, EnergyMedium, EnergyLow:
		return true
	}
	return false
}

func (s Social) Valid() bool {
	switch s {
	case SocialGroup, SocialCouple, SocialSolo:
		return true
	}
	return false
}

func (v Vibe) Valid() bool {
	switch v {
	case VibeCreative, VibeMental, VibePhysical, VibeNature, VibeIndoor:
		return true
	}
	return false
}

// Category groups catalog activities.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type Mood struct {
	Energy Energy `json:"energy"`
	Social Social `json:"social"`
	Vibes  []Vibe `json:"vibes"`
}

// HasVibe reports whether any of the given vibes is set on the mood.
func (m Mood) HasVibe(vibes ...Vibe) bool {
	for _, want := range vibes {
		for _, v := range m.Vibes {
			if v == want {
				return true
			}
		}
	}
	return false
}

// Activity is an immutable catalog record. Duration is in hours.
type Activity struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Duration    float64  `json:"duration"`
	Icon        string   `json:"icon"`
	Mood        Mood     `json:"mood"`
}

// Clone returns a copy that shares no slices with a.
func (a Activity) Clone() Activity {
	if a.Mood.Vibes != nil {
		a.Mood.Vibes = append([]Vibe(nil), a.Mood.Vibes...)
	}
	return a
}

// ScheduledActivity is an activity placed on the weekend grid.
type ScheduledActivity struct {
	Activity
	Notes       string     `json:"notes,omitempty"`
	ScheduledAt *Placement `json:"scheduledAt,omitempty"`
}

func (s ScheduledActivity) Clone() ScheduledActivity {
	s.Activity = s.Activity.Clone()
	if s.ScheduledAt != nil {
		at := *s.ScheduledAt
		s.ScheduledAt = &at
	}
	return s
}
