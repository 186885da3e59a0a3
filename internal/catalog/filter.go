package catalog

import (
	"fmt"
	"strings"

	"github.com/kunal-511/weekendly/internal/models"
)

// DurationRange is an inclusive bucket of activity lengths in hours.
type DurationRange struct {
	ID    string
	Label string
	Min   float64
	Max   float64
}

var DurationRanges = []DurationRange{
	{ID: "quick", Label: "Quick (< 2h)", Min: 0, Max: 2},
	{ID: "medium", Label: "Medium (2-4h)", Min: 2, Max: 4},
	{ID: "long", Label: "Long (4h+)", Min: 4, Max: 24},
}

func ParseDurationRange(id string) (DurationRange, error) {
	for _, r := range DurationRanges {
		if strings.EqualFold(r.ID, strings.TrimSpace(id)) {
			return r, nil
		}
	}
	return DurationRange{}, fmt.Errorf("unknown duration range %q (expected quick, medium or long)", id)
}

func (r DurationRange) Contains(hours float64) bool {
	return hours >= r.Min && hours <= r.Max
}

// Query narrows the catalog. Zero values match everything. Within a field
// any listed value matches; fields combine with AND.
type Query struct {
	Category  string
	Search    string
	Energy    []models.Energy
	Social    []models.Social
	Vibes     []models.Vibe
	Durations []DurationRange
	Exclude   map[string]bool
}

// QueryFromSettings builds a query from saved preferences.
func QueryFromSettings(s models.Settings) Query {
	return Query{
		Category: s.CategoryFilter,
		Search:   s.SearchQuery,
		Energy:   s.EnergyFilter,
		Social:   s.SocialFilter,
		Vibes:    s.VibeFilter,
	}
}

// Filter returns the activities matching q in catalog order.
func (c *Catalog) Filter(q Query) []models.Activity {
	var out []models.Activity
	for _, a := range c.activities {
		if q.Matches(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

func (q Query) Matches(a models.Activity) bool {
	if q.Exclude[a.ID] {
		return false
	}
	if q.Category != "" && q.Category != "all" && a.Category.ID != q.Category {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		if !strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Description), search) &&
			!strings.Contains(strings.ToLower(a.Category.Name), search) {
			return false
		}
	}
	if len(q.Energy) > 0 && !containsValue(q.Energy, a.Mood.Energy) {
		return false
	}
	if len(q.Social) > 0 && !containsValue(q.Social, a.Mood.Social) {
		return false
	}
	if len(q.Vibes) > 0 && !a.Mood.HasVibe(q.Vibes...) {
		return false
	}
	if len(q.Durations) > 0 {
		inRange := false
		for _, r := range q.Durations {
			if r.Contains(a.Duration) {
				inRange = true
				break
			}
		}
		if !inRange {
			return false
		}
	}
	return true
}

func containsValue[T comparable](items []T, v T) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
