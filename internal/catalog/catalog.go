// Package catalog loads the static activity catalog and answers lookups
// and filter queries over it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/validation"
)

//go:embed activities.toml
var embedded []byte

var (
	ErrUnknownActivity = errors.New("activity not found in catalog")
	ErrUnknownTheme    = errors.New("theme not found")
)

type file struct {
	Categories []categoryRecord `toml:"categories" validate:"required,dive"`
	Activities []activityRecord `toml:"activities" validate:"required,dive"`
	Themes     []themeRecord    `toml:"themes" validate:"dive"`
}

type categoryRecord struct {
	ID    string `toml:"id" validate:"required"`
	Name  string `toml:"name" validate:"required"`
	Color string `toml:"color"`
	Icon  string `toml:"icon"`
}

type activityRecord struct {
	ID          string   `toml:"id" validate:"required"`
	Title       string   `toml:"title" validate:"required"`
	Description string   `toml:"description"`
	Category    string   `toml:"category" validate:"required"`
	Duration    float64  `toml:"duration" validate:"gt=0,lte=24"`
	Icon        string   `toml:"icon"`
	Energy      string   `toml:"energy" validate:"required,energy"`
	Social      string   `toml:"social" validate:"required,social"`
	Vibes       []string `toml:"vibes" validate:"dive,vibe"`
}

type themeRecord struct {
	ID           string   `toml:"id" validate:"required,theme"`
	Name         string   `toml:"name" validate:"required"`
	Description  string   `toml:"description"`
	MoodEmphasis []string `toml:"mood_emphasis" validate:"dive,energy"`
	Recommended  []string `toml:"recommended"`
}

// Theme is a named weekend style with a hand-picked set of activities.
type Theme struct {
	ID           string
	Name         string
	Description  string
	MoodEmphasis []models.Energy
	Recommended  []string
}

// Catalog is the read-only set of activities, categories and themes.
type Catalog struct {
	activities []models.Activity
	byID       map[string]models.Activity
	categories []models.Category
	themes     []Theme
}

// Load parses the catalog compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// Parse builds a catalog from TOML data.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := validation.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]models.Activity, len(f.Activities))}

	categories := make(map[string]models.Category, len(f.Categories))
	for _, rec := range f.Categories {
		if _, dup := categories[rec.ID]; dup {
			return nil, fmt.Errorf("invalid catalog: duplicate category %q", rec.ID)
		}
		cat := models.Category{ID: rec.ID, Name: rec.Name, Color: rec.Color, Icon: rec.Icon}
		categories[rec.ID] = cat
		c.categories = append(c.categories, cat)
	}

	for _, rec := range f.Activities {
		if _, dup := c.byID[rec.ID]; dup {
			return nil, fmt.Errorf("invalid catalog: duplicate activity %q", rec.ID)
		}
		cat, ok := categories[rec.Category]
		if !ok {
			return nil, fmt.Errorf("invalid catalog: activity %q references unknown category %q", rec.ID, rec.Category)
		}

		vibes := make([]models.Vibe, len(rec.Vibes))
		for i, v := range rec.Vibes {
			vibes[i] = models.Vibe(v)
		}
		a := models.Activity{
			ID:          rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Category:    cat,
			Duration:    rec.Duration,
			Icon:        rec.Icon,
			Mood: models.Mood{
				Energy: models.Energy(rec.Energy),
				Social: models.Social(rec.Social),
				Vibes:  vibes,
			},
		}
		c.activities = append(c.activities, a)
		c.byID[a.ID] = a
	}

	for _, rec := range f.Themes {
		for _, id := range rec.Recommended {
			if _, ok := c.byID[id]; !ok {
				return nil, fmt.Errorf("invalid catalog: theme %q recommends unknown activity %q", rec.ID, id)
			}
		}
		emphasis := make([]models.Energy, len(rec.MoodEmphasis))
		for i, e := range rec.MoodEmphasis {
			emphasis[i] = models.Energy(e)
		}
		c.themes = append(c.themes, Theme{
			ID:           rec.ID,
			Name:         rec.Name,
			Description:  rec.Description,
			MoodEmphasis: emphasis,
			Recommended:  rec.Recommended,
		})
	}

	return c, nil
}

// Activities returns every activity in catalog order.
func (c *Catalog) Activities() []models.Activity {
	out := make([]models.Activity, len(c.activities))
	for i, a := range c.activities {
		out[i] = a.Clone()
	}
	return out
}

func (c *Catalog) Categories() []models.Category {
	return append([]models.Category(nil), c.categories...)
}

// Lookup returns the activity with the given id.
func (c *Catalog) Lookup(id string) (models.Activity, error) {
	a, ok := c.byID[id]
	if !ok {
		return models.Activity{}, fmt.Errorf("%w: %s", ErrUnknownActivity, id)
	}
	return a.Clone(), nil
}

// Search resolves an id or a case-insensitive exact title.
func (c *Catalog) Search(ref string) (models.Activity, error) {
	if a, err := c.Lookup(ref); err == nil {
		return a, nil
	}
	for _, a := range c.activities {
		if strings.EqualFold(a.Title, strings.TrimSpace(ref)) {
			return a.Clone(), nil
		}
	}
	return models.Activity{}, fmt.Errorf("%w: %s", ErrUnknownActivity, ref)
}

func (c *Catalog) Themes() []Theme {
	return append([]Theme(nil), c.themes...)
}

func (c *Catalog) Theme(id string) (Theme, error) {
	for _, t := range c.themes {
		if t.ID == id {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w: %s", ErrUnknownTheme, id)
}

// ThemeActivities returns the theme's recommended activities in catalog
// order.
func (c *Catalog) ThemeActivities(t Theme) []models.Activity {
	want := make(map[string]bool, len(t.Recommended))
	for _, id := range t.Recommended {
		want[id] = true
	}
	var out []models.Activity
	for _, a := range c.activities {
		if want[a.ID] {
			out = append(out, a.Clone())
		}
	}
	return out
}

// CategoryCounts returns how many activities each category holds, sorted
// by category id.
func (c *Catalog) CategoryCounts() []CategoryCount {
	counts := make(map[string]int)
	for _, a := range c.activities {
		counts[a.Category.ID]++
	}
	out := make([]CategoryCount, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, CategoryCount{Category: cat, Count: counts[cat.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category.ID < out[j].Category.ID })
	return out
}

type CategoryCount struct {
	Category models.Category
	Count    int
}
