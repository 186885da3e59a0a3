package backups

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kunal-511/weekendly/internal/backup"
	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/scheduler"
	"github.com/kunal-511/weekendly/internal/storage"
	"github.com/kunal-511/weekendly/internal/storage/sqlite"
)

func TestBackupCreateAndRestore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "weekendly.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	ctx := &cli.Context{Store: store, Scheduler: scheduler.New()}
	defer ctx.Close()

	if _, err := store.SaveSchedule(models.NewWeekendSchedule()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %d (%v)", len(backups), err)
	}

	// a second revision that the restore should roll back
	if _, err := store.SaveSchedule(models.NewWeekendSchedule()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}

	reopened := sqlite.NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("failed to reopen restored store: %v", err)
	}
	defer reopened.Close()

	revs, err := reopened.ListScheduleRevisions(0)
	if err != nil {
		t.Fatalf("failed to list revisions: %v", err)
	}
	if len(revs) != 1 {
		t.Errorf("expected the backup's single revision, got %d", len(revs))
	}
}

func TestBackupCreate_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekendly.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	ctx := &cli.Context{Store: store, Scheduler: scheduler.New()}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(path), "backups"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one backup file, got %d (%v)", len(entries), err)
	}
	if filepath.Ext(entries[0].Name()) != ".json" {
		t.Errorf("expected a .json backup, got %s", entries[0].Name())
	}
}

type serverStore struct {
	storage.Provider
}

func (serverStore) GetConfigPath() string { return "postgresql" }

func TestBackup_UnsupportedStore(t *testing.T) {
	ctx := &cli.Context{Store: serverStore{}}

	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected create to fail for a server backend")
	}
	if err := (&BackupListCmd{}).Run(ctx); err == nil {
		t.Error("expected list to fail for a server backend")
	}
	if err := (&BackupRestoreCmd{BackupFile: "x.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected restore to fail for a server backend")
	}
}

func TestBackupRestore_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekendly.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	ctx := &cli.Context{Store: store}

	if err := (&BackupRestoreCmd{BackupFile: "weekendly-20260101-000000.json", Yes: true}).Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}
