package review

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/kunal-511/weekendly/internal/catalog"
	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/insights"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
	"github.com/kunal-511/weekendly/internal/storage"
)

func setupTestReviewContext(t *testing.T) *cli.Context {
	t.Helper()

	color.NoColor = true

	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "weekendly.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	ctx := &cli.Context{Store: store, Scheduler: scheduler.New(), Catalog: cat}
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close context: %v", err)
		}
	})
	return ctx
}

func entry(t *testing.T, ctx *cli.Context, id string, at *models.Placement) models.ScheduledActivity {
	t.Helper()
	a, err := ctx.Catalog.Lookup(id)
	if err != nil {
		t.Fatalf("lookup %s: %v", id, err)
	}
	return models.ScheduledActivity{Activity: a, ScheduledAt: at}
}

func placement(day models.Day, slot models.TimeSlot) *models.Placement {
	return &models.Placement{Day: day, TimeSlot: slot}
}

// overbooked has saturday morning at 5h of 4h.
func overbooked(t *testing.T, ctx *cli.Context) models.WeekendSchedule {
	schedule := models.NewWeekendSchedule()
	sat := schedule[models.Saturday]
	sat.Morning = []models.ScheduledActivity{
		entry(t, ctx, "1", placement(models.Saturday, models.Morning)),
		entry(t, ctx, "4", placement(models.Saturday, models.Morning)),
	}
	schedule[models.Saturday] = sat
	return schedule
}

func save(t *testing.T, ctx *cli.Context, schedule models.WeekendSchedule) {
	t.Helper()
	if _, err := ctx.Store.SaveSchedule(schedule); err != nil {
		t.Fatalf("failed to save schedule: %v", err)
	}
}

func TestRenderSchedule(t *testing.T) {
	ctx := setupTestReviewContext(t)
	schedule := overbooked(t, ctx)
	sun := schedule[models.Sunday]
	item := entry(t, ctx, "6", placement(models.Sunday, models.Afternoon))
	item.Notes = "free on sundays"
	sun.Afternoon = []models.ScheduledActivity{item}
	schedule[models.Sunday] = sun

	var buf bytes.Buffer
	renderSchedule(&buf, ctx.Scheduler, schedule, schedule.ActiveDays())
	out := buf.String()

	for _, want := range []string{
		"Saturday",
		"Sunday",
		"Morning Hike (3h)",
		"5/4h",
		"125%",
		"3/6h",
		"free on sundays",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Friday") {
		t.Error("inactive days must not be rendered")
	}
}

func TestUtilizationBar(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		used, capacity float64
		want           string
	}{
		{0, 4, "[" + strings.Repeat("░", barWidth) + "]   0%"},
		{2, 4, "[" + strings.Repeat("█", 10) + strings.Repeat("░", 10) + "]  50%"},
		{4, 4, "[" + strings.Repeat("█", barWidth) + "] 100%"},
		{6, 4, "[" + strings.Repeat("█", barWidth) + "] 150%"},
	}

	for _, tt := range tests {
		if got := utilizationBar(tt.used, tt.capacity); got != tt.want {
			t.Errorf("utilizationBar(%v, %v) = %q, want %q", tt.used, tt.capacity, got, tt.want)
		}
	}
}

func TestPrintClashes(t *testing.T) {
	ctx := setupTestReviewContext(t)

	var buf bytes.Buffer
	printClashes(&buf, ctx.Scheduler, ctx.Scheduler.FindAllClashes(overbooked(t, ctx)))
	out := buf.String()
	if !strings.Contains(out, "Saturday morning: 5h planned in 4h, over by 1h") {
		t.Errorf("unexpected audit output:\n%s", out)
	}
	if !strings.Contains(out, "Morning Hike, Brunch at a Café") {
		t.Errorf("audit should list the activities involved:\n%s", out)
	}

	buf.Reset()
	printClashes(&buf, ctx.Scheduler, nil)
	if !strings.Contains(buf.String(), "Every slot fits") {
		t.Errorf("expected all-clear message, got %q", buf.String())
	}
}

func TestShowCmd(t *testing.T) {
	ctx := setupTestReviewContext(t)

	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("show on an empty store failed: %v", err)
	}

	save(t, ctx, overbooked(t, ctx))
	if err := (&ShowCmd{Day: "saturday"}).Run(ctx); err != nil {
		t.Errorf("show --day failed: %v", err)
	}
	if err := (&ShowCmd{Revision: 1}).Run(ctx); err != nil {
		t.Errorf("show --revision failed: %v", err)
	}

	if err := (&ShowCmd{Day: "friday"}).Run(ctx); !errors.Is(err, scheduler.ErrDayInactive) {
		t.Errorf("expected ErrDayInactive, got %v", err)
	}
	if err := (&ShowCmd{Revision: 42}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateCmd_Fix(t *testing.T) {
	ctx := setupTestReviewContext(t)

	schedule := models.WeekendSchedule{
		models.Saturday: models.DaySchedule{
			Morning:   []models.ScheduledActivity{entry(t, ctx, "27", placement(models.Saturday, models.Morning))},
			Afternoon: []models.ScheduledActivity{entry(t, ctx, "27", placement(models.Saturday, models.Afternoon))},
			Evening:   []models.ScheduledActivity{entry(t, ctx, "9", placement(models.Sunday, models.Evening))},
		},
	}
	save(t, ctx, schedule)

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	snap, _ := ctx.Store.GetSchedule()
	if snap.Revision != 1 {
		t.Fatalf("validate without --fix must not save, got revision %d", snap.Revision)
	}

	if err := (&ValidateCmd{Fix: true}).Run(ctx); err != nil {
		t.Fatalf("validate --fix failed: %v", err)
	}

	snap, err := ctx.Store.GetSchedule()
	if err != nil {
		t.Fatalf("failed to load fixed schedule: %v", err)
	}
	fixed := snap.Schedule
	if !fixed.IsActive(models.Sunday) {
		t.Error("sunday should be restored")
	}
	if len(fixed.Slot(models.Saturday, models.Afternoon)) != 0 {
		t.Error("duplicate should be dropped from saturday afternoon")
	}
	if len(fixed.Slot(models.Saturday, models.Morning)) != 1 {
		t.Error("first occurrence should be kept")
	}
	item, _, _ := fixed.Find("9")
	if item.ScheduledAt == nil || *item.ScheduledAt != *placement(models.Saturday, models.Evening) {
		t.Errorf("scheduledAt should be rewritten, got %v", item.ScheduledAt)
	}
}

func TestInsightsCmd(t *testing.T) {
	ctx := setupTestReviewContext(t)

	if err := (&InsightsCmd{}).Run(ctx); err != nil {
		t.Fatalf("insights on empty plan failed: %v", err)
	}

	save(t, ctx, overbooked(t, ctx))
	if err := (&InsightsCmd{Theme: "adventure"}).Run(ctx); err != nil {
		t.Errorf("insights failed: %v", err)
	}
	if err := (&InsightsCmd{Theme: "nope"}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown theme")
	}
}

func TestPrintReport(t *testing.T) {
	ctx := setupTestReviewContext(t)

	report, err := insights.NewAnalyzer(ctx.Catalog).Analyze(overbooked(t, ctx), "chill")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()
	for _, want := range []string{"2 activities, 5h planned", "Energy", "Social", "Categories", "Perfect for Chill Weekend"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
