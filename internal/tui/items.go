package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
)

// activityItem is one catalog entry in the left pane.
type activityItem struct {
	activity  models.Activity
	scheduled bool
}

func (i activityItem) Title() string {
	title := fmt.Sprintf("%s %s", i.activity.Icon, i.activity.Title)
	if i.scheduled {
		title += " ✓"
	}
	return title
}

func (i activityItem) Description() string {
	return fmt.Sprintf("%sh · %s · %s", scheduler.FormatHours(i.activity.Duration), i.activity.Category.Name, i.activity.Mood.Energy)
}

func (i activityItem) FilterValue() string { return i.activity.Title }

func catalogItems(activities []models.Activity, scheduled map[string]bool) []list.Item {
	items := make([]list.Item, len(activities))
	for i, a := range activities {
		items[i] = activityItem{activity: a, scheduled: scheduled[a.ID]}
	}
	return items
}
