package storage

import (
	"errors"

	"github.com/kunal-511/weekendly/internal/models"
)

var (
	// ErrNotFound is returned when no saved schedule or revision exists.
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load before 'weekendly init' ran.
	ErrNotInitialized = errors.New("storage not initialized, run 'weekendly init' first")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Schedules
	// SaveSchedule stores schedule as a new revision and returns its number.
	// Only the newest constants.MaxScheduleRevisions revisions are kept.
	SaveSchedule(models.WeekendSchedule) (int, error)
	// GetSchedule returns the newest revision, ErrNotFound when none exists.
	GetSchedule() (models.ScheduleSnapshot, error)
	GetScheduleRevision(revision int) (models.ScheduleSnapshot, error)
	// ListScheduleRevisions returns up to limit revisions, newest first.
	// A limit of 0 or less returns all of them.
	ListScheduleRevisions(limit int) ([]models.RevisionInfo, error)
	// ClearSchedule drops every saved revision.
	ClearSchedule() error

	// Utils
	GetConfigPath() string
}
