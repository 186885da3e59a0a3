// Package insights summarises the mood balance of a weekend plan and
// suggests catalog activities that would even it out.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kunal-511/weekendly/internal/catalog"
	"github.com/kunal-511/weekendly/internal/models"
)

// RecommendationType represents the kind of suggestion made
type RecommendationType string

const (
	RecommendationBalance RecommendationType = "balance"
	RecommendationSocial  RecommendationType = "social"
	RecommendationTheme   RecommendationType = "theme"
)

const (
	highEnergyThreshold = 0.7
	lowEnergyThreshold  = 0.7
	soloThreshold       = 0.6
	maxSuggestions      = 3
)

// Recommendation is one suggestion with the activities that would satisfy it
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Activities  []models.Activity  `json:"activities"`
}

// CategoryShare counts how many planned activities fall into a category
type CategoryShare struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
	Hours    float64         `json:"hours"`
}

// Report is the result of analysing a schedule
type Report struct {
	TotalActivities int                   `json:"total_activities"`
	TotalHours      float64               `json:"total_hours"`
	Energy          map[models.Energy]int `json:"energy"`
	Social          map[models.Social]int `json:"social"`
	Vibes           map[models.Vibe]int   `json:"vibes"`
	Categories      []CategoryShare       `json:"categories"`
	Recommendations []Recommendation      `json:"recommendations"`
}

// Analyzer builds insight reports against the activity catalog
type Analyzer struct {
	catalog *catalog.Catalog
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(c *catalog.Catalog) *Analyzer {
	return &Analyzer{catalog: c}
}

// Analyze inspects every activity on the active days of schedule. It
// returns nil for a schedule with nothing planned. An empty themeID skips
// the theme recommendation.
func (a *Analyzer) Analyze(schedule models.WeekendSchedule, themeID string) (*Report, error) {
	planned := schedule.All()
	if len(planned) == 0 {
		return nil, nil
	}

	report := &Report{
		TotalActivities: len(planned),
		Energy:          map[models.Energy]int{},
		Social:          map[models.Social]int{},
		Vibes:           map[models.Vibe]int{},
	}

	categories := map[string]*CategoryShare{}
	for _, item := range planned {
		report.TotalHours += item.Duration
		report.Energy[item.Mood.Energy]++
		report.Social[item.Mood.Social]++
		for _, v := range item.Mood.Vibes {
			report.Vibes[v]++
		}

		share, ok := categories[item.Category.ID]
		if !ok {
			share = &CategoryShare{Category: item.Category}
			categories[item.Category.ID] = share
		}
		share.Count++
		share.Hours += item.Duration
	}

	for _, share := range categories {
		report.Categories = append(report.Categories, *share)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		if report.Categories[i].Count != report.Categories[j].Count {
			return report.Categories[i].Count > report.Categories[j].Count
		}
		return report.Categories[i].Category.ID < report.Categories[j].Category.ID
	})

	scheduled := schedule.ScheduledIDs()
	total := float64(len(planned))

	// Energy suggestions are mutually exclusive
	if ratio(report.Energy[models.EnergyHigh], total) > highEnergyThreshold {
		report.add(Recommendation{
			Type:        RecommendationBalance,
			Title:       "Add some chill time",
			Description: "Your weekend is very high-energy. Consider adding relaxing activities.",
			Activities:  a.pick(scheduled, func(x models.Activity) bool { return x.Mood.Energy == models.EnergyLow }),
		})
	} else if ratio(report.Energy[models.EnergyLow], total) > lowEnergyThreshold {
		report.add(Recommendation{
			Type:        RecommendationBalance,
			Title:       "Boost your energy",
			Description: "Your weekend looks quite relaxed. Add some energizing activities!",
			Activities:  a.pick(scheduled, func(x models.Activity) bool { return x.Mood.Energy == models.EnergyHigh }),
		})
	}

	if ratio(report.Social[models.SocialSolo], total) > soloThreshold {
		report.add(Recommendation{
			Type:        RecommendationSocial,
			Title:       "Connect with others",
			Description: "You have lots of solo time. Consider adding social activities.",
			Activities:  a.pick(scheduled, func(x models.Activity) bool { return x.Mood.Social == models.SocialGroup }),
		})
	}

	if themeID != "" {
		theme, err := a.catalog.Theme(themeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load theme: %w", err)
		}
		recommended := map[string]bool{}
		for _, id := range theme.Recommended {
			recommended[id] = true
		}
		report.add(Recommendation{
			Type:        RecommendationTheme,
			Title:       fmt.Sprintf("Perfect for %s", theme.Name),
			Description: fmt.Sprintf("Based on your %s theme, try these:", strings.ToLower(theme.Description)),
			Activities:  a.pick(scheduled, func(x models.Activity) bool { return recommended[x.ID] }),
		})
	}

	return report, nil
}

// add drops recommendations that have nothing left to suggest.
func (r *Report) add(rec Recommendation) {
	if len(rec.Activities) == 0 {
		return
	}
	r.Recommendations = append(r.Recommendations, rec)
}

// pick returns up to maxSuggestions catalog activities matching keep that
// are not already scheduled.
func (a *Analyzer) pick(scheduled map[string]bool, keep func(models.Activity) bool) []models.Activity {
	var out []models.Activity
	for _, act := range a.catalog.Activities() {
		if scheduled[act.ID] || !keep(act) {
			continue
		}
		out = append(out, act)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func ratio(count int, total float64) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / total
}
