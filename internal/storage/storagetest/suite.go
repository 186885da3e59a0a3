// Package storagetest holds the behaviour every storage.Provider must
// share. Backend packages run it from their own tests.
package storagetest

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
	"github.com/kunal-511/weekendly/internal/storage"
)

// Factory returns an initialized provider with no saved schedules. The
// factory owns cleanup.
type Factory func(t *testing.T) storage.Provider

// Run exercises settings and schedule revision behaviour.
func Run(t *testing.T, newProvider Factory) {
	t.Run("DefaultSettings", func(t *testing.T) { testDefaultSettings(t, newProvider(t)) })
	t.Run("SettingsRoundTrip", func(t *testing.T) { testSettingsRoundTrip(t, newProvider(t)) })
	t.Run("EmptySchedule", func(t *testing.T) { testEmptySchedule(t, newProvider(t)) })
	t.Run("ScheduleRoundTrip", func(t *testing.T) { testScheduleRoundTrip(t, newProvider(t)) })
	t.Run("Revisions", func(t *testing.T) { testRevisions(t, newProvider(t)) })
	t.Run("Pruning", func(t *testing.T) { testPruning(t, newProvider(t)) })
	t.Run("Clear", func(t *testing.T) { testClear(t, newProvider(t)) })
}

// Fixture is a long weekend with notes, an empty active day and a slot
// holding two activities.
func Fixture(t *testing.T) models.WeekendSchedule {
	t.Helper()
	s := scheduler.New()
	schedule, err := s.EnableDays(models.NewWeekendSchedule(), models.Friday)
	if err != nil {
		t.Fatalf("EnableDays failed: %v", err)
	}

	hike := models.Activity{
		ID: "1", Title: "Morning Hike", Duration: 3,
		Category: models.Category{ID: "outdoor", Name: "Outdoor", Color: "#10B981", Icon: "🌲"},
		Mood:     models.Mood{Energy: models.EnergyHigh, Social: models.SocialGroup, Vibes: []models.Vibe{models.VibePhysical, models.VibeNature}},
	}
	brunch := models.Activity{ID: "4", Title: "Brunch", Duration: 1, Mood: models.Mood{Energy: models.EnergyLow, Social: models.SocialCouple}}
	museum := models.Activity{ID: "6", Title: "Museum Visit", Duration: 2.5, Mood: models.Mood{Energy: models.EnergyLow, Social: models.SocialSolo}}

	steps := []struct {
		activity models.Activity
		at       models.Placement
	}{
		{hike, models.Placement{Day: models.Saturday, TimeSlot: models.Morning}},
		{brunch, models.Placement{Day: models.Saturday, TimeSlot: models.Morning}},
		{museum, models.Placement{Day: models.Sunday, TimeSlot: models.Afternoon}},
	}
	for _, step := range steps {
		if schedule, err = s.Add(schedule, step.activity, step.at); err != nil {
			t.Fatalf("Add(%s) failed: %v", step.activity.ID, err)
		}
	}

	schedule, err = s.UpdateNotes(schedule, "6", models.Placement{Day: models.Sunday, TimeSlot: models.Afternoon}, "bring sunscreen")
	if err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	return schedule
}

// Fingerprint renders a schedule so two schedules can be compared without
// caring about nil versus empty slices.
func Fingerprint(schedule models.WeekendSchedule) string {
	var b strings.Builder
	for _, d := range schedule.ActiveDays() {
		fmt.Fprintf(&b, "[%s]", d)
		for _, slot := range models.AllTimeSlots {
			fmt.Fprintf(&b, " %s:", slot)
			for _, item := range schedule.Slot(d, slot) {
				at := "-"
				if item.ScheduledAt != nil {
					at = item.ScheduledAt.String()
				}
				fmt.Fprintf(&b, " %s(%v,%s,%s,%q,%v,%s)", item.ID, item.Duration, item.Mood.Energy, item.Category.ID, item.Notes, item.Mood.Vibes, at)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func testDefaultSettings(t *testing.T, p storage.Provider) {
	settings, err := p.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.Theme != constants.DefaultTheme || settings.CategoryFilter != constants.DefaultCategoryFilter {
		t.Errorf("Expected default settings, got %+v", settings)
	}
}

func testSettingsRoundTrip(t *testing.T, p storage.Provider) {
	want := models.Settings{
		Theme:          "adventure",
		CategoryFilter: "outdoor",
		SearchQuery:    "hike",
		EnergyFilter:   []models.Energy{models.EnergyHigh, models.EnergyMedium},
		SocialFilter:   []models.Social{models.SocialGroup},
		VibeFilter:     []models.Vibe{models.VibeNature},
	}
	if err := p.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, err := p.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if fmt.Sprintf("%+v", got) != fmt.Sprintf("%+v", want) {
		t.Errorf("Settings round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func testEmptySchedule(t *testing.T, p storage.Provider) {
	if _, err := p.GetSchedule(); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound before any save, got %v", err)
	}
	infos, err := p.ListScheduleRevisions(10)
	if err != nil {
		t.Fatalf("ListScheduleRevisions failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected no revisions, got %d", len(infos))
	}
}

func testScheduleRoundTrip(t *testing.T, p storage.Provider) {
	want := Fixture(t)
	revision, err := p.SaveSchedule(want)
	if err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	if revision != 1 {
		t.Errorf("Expected first revision to be 1, got %d", revision)
	}

	snap, err := p.GetSchedule()
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if snap.Revision != 1 || snap.ID == "" || snap.SavedAt == "" {
		t.Errorf("Unexpected snapshot metadata: id=%q revision=%d saved_at=%q", snap.ID, snap.Revision, snap.SavedAt)
	}
	if got := Fingerprint(snap.Schedule); got != Fingerprint(want) {
		t.Errorf("Schedule round trip mismatch:\n got %s\nwant %s", got, Fingerprint(want))
	}
	if !snap.Schedule.IsActive(models.Friday) || snap.Schedule.IsActive(models.Monday) {
		t.Error("Active days were not preserved")
	}
}

func testRevisions(t *testing.T, p storage.Provider) {
	first := Fixture(t)
	second := models.NewWeekendSchedule()

	if _, err := p.SaveSchedule(first); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	revision, err := p.SaveSchedule(second)
	if err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	if revision != 2 {
		t.Errorf("Expected revision 2, got %d", revision)
	}

	latest, err := p.GetSchedule()
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if latest.Revision != 2 || latest.Schedule.Count() != 0 {
		t.Errorf("Expected empty revision 2, got revision %d with %d activities", latest.Revision, latest.Schedule.Count())
	}

	old, err := p.GetScheduleRevision(1)
	if err != nil {
		t.Fatalf("GetScheduleRevision(1) failed: %v", err)
	}
	if Fingerprint(old.Schedule) != Fingerprint(first) {
		t.Error("Revision 1 does not match what was saved")
	}
	if old.ID == latest.ID {
		t.Error("Revisions must have distinct ids")
	}

	if _, err := p.GetScheduleRevision(99); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing revision, got %v", err)
	}

	infos, err := p.ListScheduleRevisions(1)
	if err != nil {
		t.Fatalf("ListScheduleRevisions failed: %v", err)
	}
	if len(infos) != 1 || infos[0].Revision != 2 {
		t.Errorf("Expected only revision 2, got %+v", infos)
	}

	infos, err = p.ListScheduleRevisions(0)
	if err != nil {
		t.Fatalf("ListScheduleRevisions failed: %v", err)
	}
	if len(infos) != 2 || infos[1].Revision != 1 || infos[1].ActivityCount != 3 || len(infos[1].ActiveDays) != 3 {
		t.Errorf("Unexpected revision list: %+v", infos)
	}
}

func testPruning(t *testing.T, p storage.Provider) {
	total := constants.MaxScheduleRevisions + 5
	for i := 0; i < total; i++ {
		if _, err := p.SaveSchedule(models.NewWeekendSchedule()); err != nil {
			t.Fatalf("SaveSchedule #%d failed: %v", i, err)
		}
	}

	infos, err := p.ListScheduleRevisions(0)
	if err != nil {
		t.Fatalf("ListScheduleRevisions failed: %v", err)
	}
	if len(infos) != constants.MaxScheduleRevisions {
		t.Fatalf("Expected %d revisions kept, got %d", constants.MaxScheduleRevisions, len(infos))
	}
	if infos[0].Revision != total || infos[len(infos)-1].Revision != total-constants.MaxScheduleRevisions+1 {
		t.Errorf("Expected revisions %d..%d, got %d..%d", total-constants.MaxScheduleRevisions+1, total, infos[len(infos)-1].Revision, infos[0].Revision)
	}
	if _, err := p.GetScheduleRevision(1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected revision 1 to be pruned, got %v", err)
	}
}

func testClear(t *testing.T, p storage.Provider) {
	if _, err := p.SaveSchedule(Fixture(t)); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	if err := p.ClearSchedule(); err != nil {
		t.Fatalf("ClearSchedule failed: %v", err)
	}
	if _, err := p.GetSchedule(); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after clear, got %v", err)
	}
	settings, err := p.GetSettings()
	if err != nil || settings.Theme == "" {
		t.Errorf("Clearing schedules must keep settings, got %+v (%v)", settings, err)
	}
}
