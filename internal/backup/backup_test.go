package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kunal-511/weekendly/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "weekendly.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO settings (key, value) VALUES ('theme', 'chill'), ('category_filter', 'all')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

// fakeClock hands out a new second on every call.
func fakeClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func countSettings(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		t.Fatalf("failed to query database: %v", err)
	}
	return count
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written outside backup dir: %s", backupPath)
	}
	if !strings.HasPrefix(filepath.Base(backupPath), constants.BackupFilePrefix) {
		t.Errorf("unexpected backup name: %s", filepath.Base(backupPath))
	}
	if got := countSettings(t, backupPath); got != 2 {
		t.Errorf("expected 2 rows in backup, got %d", got)
	}
}

func TestCreateBackup_MissingStore(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error backing up a missing store")
	}
}

func TestCreateBackup_SameSecondGetsCounter(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2026, 3, 7, 9, 30, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	second, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct backup paths")
	}
	if !strings.HasSuffix(second, "-1.db") {
		t.Errorf("expected counter suffix, got %s", filepath.Base(second))
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 || backups[0].Path != second {
		t.Errorf("expected counter backup listed first, got %+v", backups)
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fakeClock(time.Date(2026, 3, 7, 9, 0, 0, 0, time.Local))

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted newest first at %d", i)
		}
	}
	// the five oldest were removed
	oldestKept := time.Date(2026, 3, 7, 9, 0, 6, 0, time.Local)
	if !backups[len(backups)-1].Timestamp.Equal(oldestKept) {
		t.Errorf("expected oldest kept backup at %v, got %v", oldestKept, backups[len(backups)-1].Timestamp)
	}
}

func TestListBackups_IgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}
	for _, name := range []string{"notes.txt", "weekendly-garbage.db", "other-20260101-120000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected foreign files to be ignored, got %+v", backups)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fakeClock(time.Date(2026, 3, 7, 9, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("DELETE FROM settings"); err != nil {
		t.Fatalf("failed to modify database: %v", err)
	}
	db.Close()

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if safety == "" {
		t.Error("expected a safety backup of the current store")
	}
	if got := countSettings(t, dbPath); got != 2 {
		t.Errorf("expected restored store to have 2 rows, got %d", got)
	}
	if got := countSettings(t, safety); got != 0 {
		t.Errorf("expected safety backup to hold the modified store, got %d rows", got)
	}
}

func TestRestoreBackup_RejectsInvalidFile(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := mgr.RestoreBackup(bogus); err == nil {
		t.Error("expected error restoring an invalid backup")
	}
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error restoring a missing backup")
	}
}

func TestJSONStoreBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekendly.json")
	if err := os.WriteFile(path, []byte(`{"version":1,"settings":{"theme":"chill"}}`), 0600); err != nil {
		t.Fatalf("failed to write store: %v", err)
	}
	mgr := NewManager(path)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Ext(backupPath) != ".json" {
		t.Errorf("expected .json backup, got %s", backupPath)
	}

	if err := os.WriteFile(path, []byte(`{"version":1,"settings":{}}`), 0600); err != nil {
		t.Fatalf("failed to overwrite store: %v", err)
	}
	if _, err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read store: %v", err)
	}
	if !strings.Contains(string(data), "chill") {
		t.Errorf("store not restored: %s", data)
	}
}

func TestResolvePath(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	got, err := mgr.ResolvePath(filepath.Base(backupPath))
	if err != nil || got != backupPath {
		t.Errorf("ResolvePath(name) = %q, %v; want %q", got, err, backupPath)
	}
	if got, err := mgr.ResolvePath(backupPath); err != nil || got != backupPath {
		t.Errorf("ResolvePath(abs) = %q, %v", got, err)
	}
	if _, err := mgr.ResolvePath("weekendly-19990101-000000.db"); err == nil {
		t.Error("expected error for unknown backup")
	}
}

func TestSupported(t *testing.T) {
	tests := map[string]bool{
		"/home/u/.config/weekendly/weekendly.db": true,
		"/tmp/plan.json":                         true,
		"postgresql":                             false,
		"redis":                                  false,
	}
	for in, want := range tests {
		if got := Supported(in); got != want {
			t.Errorf("Supported(%q) = %v, want %v", in, got, want)
		}
	}
}
