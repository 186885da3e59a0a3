package constants

import "time"

// ConflictType represents the type of schedule validation conflict
type ConflictType string

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "weekendly"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/weekendly"
	DefaultConfigPath  = "~/.config/weekendly/config.toml"
	DefaultStoragePath = "~/.config/weekendly/weekendly.db"
	Version            = "v0.3.0"

	// KeyringDSN is the storage DSN that tells the CLI to read the real
	// connection string from the OS keyring.
	KeyringDSN = "keyring"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "weekendly-"
	BackupFileSuffix = ".db"

	// MaxScheduleRevisions is how many saved schedule snapshots a backend keeps
	MaxScheduleRevisions = 50

	// Persistence mirror defaults
	DefaultPersistDebounce      = 500 * time.Millisecond
	DefaultPersistMaxRetries    = 3
	DefaultPersistRetryInterval = time.Second

	// Conflict Types
	ConflictOvercommittedSlot ConflictType = "overcommitted_slot"
	ConflictDuplicateActivity ConflictType = "duplicate_activity"
	ConflictUnknownActivity   ConflictType = "unknown_activity"
	ConflictMisplaced         ConflictType = "misplaced_activity"
	ConflictMissingCoreDay    ConflictType = "missing_core_day"

	// Session States
	StateBoard SessionState = iota
	StateClash
	StateNotes
	StateInsights
	StateConfirmClear
)
