package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kunal-511/weekendly/internal/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Planner.Theme != constants.DefaultTheme {
		t.Errorf("Theme = %q, want %q", cfg.Planner.Theme, constants.DefaultTheme)
	}
	if strings.HasPrefix(cfg.Storage.DSN, "~") {
		t.Errorf("DSN was not expanded: %q", cfg.Storage.DSN)
	}
	opts := cfg.PersistOptions()
	if opts.Debounce != constants.DefaultPersistDebounce || opts.MaxRetries != constants.DefaultPersistMaxRetries {
		t.Errorf("unexpected persist options: %+v", opts)
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := writeConfig(t, `
[storage]
dsn = "redis://localhost:6379/0"
backup_on_start = false

[persist]
debounce = "250ms"
max_retries = 5
retry_interval = "2s"

[planner]
theme = "adventure"
long_weekend = true

[log]
debug = true
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Storage.DSN != "redis://localhost:6379/0" || cfg.Storage.BackupOnStart {
		t.Errorf("unexpected storage section: %+v", cfg.Storage)
	}
	opts := cfg.PersistOptions()
	if opts.Debounce != 250*time.Millisecond || opts.MaxRetries != 5 || opts.RetryInterval != 2*time.Second {
		t.Errorf("unexpected persist options: %+v", opts)
	}
	if cfg.Planner.Theme != "adventure" || !cfg.Planner.LongWeekend || !cfg.Log.Debug {
		t.Errorf("unexpected planner/log sections: %+v %+v", cfg.Planner, cfg.Log)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[planner]\ntheme = \"social\"\n")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Planner.Theme != "social" {
		t.Errorf("Theme = %q", cfg.Planner.Theme)
	}
	if !cfg.Storage.BackupOnStart || cfg.Persist.MaxRetries != constants.DefaultPersistMaxRetries {
		t.Errorf("defaults lost: %+v %+v", cfg.Storage, cfg.Persist)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[planner]\ntheme = \"social\"\n")
	t.Setenv("WEEKENDLY_DSN", "postgres://planner@localhost/weekendly")
	t.Setenv("WEEKENDLY_THEME", "chill")
	t.Setenv("WEEKENDLY_DEBUG", "1")
	t.Setenv("WEEKENDLY_DEBOUNCE", "1s")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Storage.DSN != "postgres://planner@localhost/weekendly" {
		t.Errorf("DSN = %q", cfg.Storage.DSN)
	}
	if cfg.Planner.Theme != "chill" || !cfg.Log.Debug {
		t.Errorf("env overrides not applied: %+v %+v", cfg.Planner, cfg.Log)
	}
	if time.Duration(cfg.Persist.Debounce) != time.Second {
		t.Errorf("Debounce = %v", time.Duration(cfg.Persist.Debounce))
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "unknown theme", body: "[planner]\ntheme = \"lazy\"\n"},
		{name: "empty dsn", body: "[storage]\ndsn = \"\"\n"},
		{name: "negative retries", body: "[persist]\nmax_retries = -1\n"},
		{name: "bad duration", body: "[persist]\ndebounce = \"soon\"\n"},
		{name: "malformed toml", body: "[planner\n"},
		{name: "bad debug env", env: map[string]string{"WEEKENDLY_DEBUG": "maybe"}},
		{name: "bad debounce env", env: map[string]string{"WEEKENDLY_DEBOUNCE": "later"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadFrom(writeConfig(t, tt.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Storage.DSN = "/tmp/weekendly-test.db"
	cfg.Planner.Theme = "social"
	cfg.Persist.Debounce = Duration(750 * time.Millisecond)

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if !strings.Contains(string(data), "750ms") {
		t.Errorf("durations should be written as text, got:\n%s", data)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Storage.DSN != cfg.Storage.DSN || loaded.Planner.Theme != "social" || loaded.Persist.Debounce != cfg.Persist.Debounce {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got := ExpandPath("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("ExpandPath changed an absolute path: %q", got)
	}
}
