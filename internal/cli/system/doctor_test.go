package system

import (
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/kunal-511/weekendly/internal/backup"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/storage"
	"github.com/kunal-511/weekendly/internal/storage/sqlite"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	gokeyring.MockInit()
	ctx, dbPath := setupTestInitDB(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if _, err := ctx.Store.SaveSchedule(scheduleWith(t, ctx, "1", satMorning)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := backup.NewManager(dbPath).CreateBackup(); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor should pass on a healthy store: %v", err)
	}
}

func TestDoctorCmd_WarningsDoNotFail(t *testing.T) {
	gokeyring.MockInit()
	ctx, _ := setupTestInitDB(t)
	ctx.Store = storage.NewJSONStore(filepath.Join(t.TempDir(), "weekendly.json"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	// no backups yet and a 7h saturday morning
	schedule := scheduleWith(t, ctx, "1", satMorning)
	movie, err := ctx.Catalog.Lookup("10")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	entries := append(schedule.Slot(models.Saturday, models.Morning), models.ScheduledActivity{Activity: movie, ScheduledAt: &satMorning})
	day := schedule[models.Saturday]
	day.SetSlot(models.Morning, entries)
	schedule[models.Saturday] = day
	if _, err := ctx.Store.SaveSchedule(schedule); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("warnings alone should not fail doctor: %v", err)
	}
}

func TestDoctorCmd_UnknownActivity(t *testing.T) {
	gokeyring.MockInit()
	ctx, _ := setupTestInitDB(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	schedule, err := ctx.Scheduler.Add(models.NewWeekendSchedule(), models.Activity{ID: "999", Title: "Retired", Duration: 1}, satMorning)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := ctx.Store.SaveSchedule(schedule); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when a plan references an unknown activity")
	}
}

func TestDoctorCmd_Unreachable(t *testing.T) {
	gokeyring.MockInit()
	ctx, _ := setupTestInitDB(t)
	ctx.Store = sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when the store is not initialized")
	}
}
