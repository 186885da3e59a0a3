// Package backup keeps rotating copies of file based stores.
package backup

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/logger"
)

const timestampFormat = "20060102-150405"

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Manager handles backup operations for a single store file.
type Manager struct {
	storePath string
	backupDir string
	suffix    string
	now       func() time.Time
}

func NewManager(storePath string) *Manager {
	suffix := filepath.Ext(storePath)
	if suffix == "" {
		suffix = constants.BackupFileSuffix
	}
	return &Manager{
		storePath: storePath,
		backupDir: filepath.Join(filepath.Dir(storePath), constants.BackupDirName),
		suffix:    suffix,
		now:       time.Now,
	}
}

// Supported reports whether storePath is a local store file that can be
// backed up. Server backends report a bare identifier and are skipped.
func Supported(storePath string) bool {
	switch filepath.Ext(storePath) {
	case ".db", ".sqlite", ".json":
		return true
	}
	return false
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) isSQLite() bool {
	return m.suffix != ".json"
}

// CreateBackup copies the store into the backup directory and rotates
// old copies.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// createBackup skips rotation while restoring so the safety copy never
// evicts the backup being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := os.Stat(m.storePath); os.IsNotExist(err) {
		return "", fmt.Errorf("store does not exist: %s", m.storePath)
	}

	backupPath, err := m.nextPath()
	if err != nil {
		return "", err
	}

	if m.isSQLite() {
		err = m.backupDatabase(backupPath)
	} else {
		err = copyFile(m.storePath, backupPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up store: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// nextPath picks an unused name, adding a counter when several backups
// land in the same second.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	base := constants.BackupFilePrefix + stamp
	path := filepath.Join(m.backupDir, base+m.suffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s-%d%s", base, counter, m.suffix))
	}
}

func (m *Manager) backupDatabase(destPath string) error {
	srcDB, err := sql.Open("sqlite", m.storePath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	// VACUUM INTO gives a consistent copy even while another connection writes
	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		srcDB.Close()
		return copyFile(m.storePath, destPath)
	}
	return nil
}

// ListBackups returns every backup, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
			continue
		}

		ts, seq, ok := parseName(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix))
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		backups = append(backups, Info{Path: path, Timestamp: ts, Size: info.Size(), seq: seq})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})
	return backups, nil
}

// parseName reads "YYYYMMDD-HHMMSS" with an optional "-N" counter.
func parseName(s string) (time.Time, int, bool) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, 0, false
	}
	ts, err := time.ParseInLocation(timestampFormat, parts[0]+"-"+parts[1], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	seq := 0
	if len(parts) == 3 {
		if seq, err = strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, 0, false
		}
	}
	return ts, seq, true
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the store with backupPath. The current store is
// backed up first and its path returned ("" when there was none).
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	if err := m.verifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.storePath); err == nil {
		safety, err = m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to back up current store before restore: %w", err)
		}
	}

	tempPath := m.storePath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.storePath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tempPath, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore store: %w", err)
	}

	return safety, nil
}

// ResolvePath finds a backup given an absolute path, a path relative to
// the working directory or a bare file name inside the backup directory.
func (m *Manager) ResolvePath(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}
	candidate := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", m.backupDir)
}

func (m *Manager) verifyBackup(path string) error {
	if !m.isSQLite() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return fmt.Errorf("not a JSON document")
		}
		return nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
