package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/models"
)

const jsonStoreVersion = 1

type document struct {
	Version   int                       `json:"version"`
	Settings  map[string]string         `json:"settings"`
	Revisions []models.ScheduleSnapshot `json:"revisions"` // oldest first
}

// JSONStore keeps everything in a single JSON document on disk.
type JSONStore struct {
	path string

	mu  sync.Mutex
	doc *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.read()
	}

	settings := models.Settings{}
	models.ApplyDefaultSettings(&settings)
	s.doc = &document{
		Version:  jsonStoreVersion,
		Settings: models.SettingsToMap(settings),
	}
	return s.write()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		return nil
	}
	return s.read()
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) read() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage file version (%d) is newer than supported version (%d) - please upgrade weekendly", doc.Version, jsonStoreVersion)
	}
	if doc.Settings == nil {
		doc.Settings = map[string]string{}
	}
	s.doc = doc
	return nil
}

// write replaces the file through a temp file so a crash never leaves a
// half written document.
func (s *JSONStore) write() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	settings, err := models.MapToSettings(s.doc.Settings)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Settings = models.SettingsToMap(settings)
	return s.write()
}

func (s *JSONStore) SaveSchedule(schedule models.WeekendSchedule) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return 0, err
	}

	next := 1
	if n := len(s.doc.Revisions); n > 0 {
		next = s.doc.Revisions[n-1].Revision + 1
	}
	s.doc.Revisions = append(s.doc.Revisions, NewSnapshot(next, schedule))
	if extra := len(s.doc.Revisions) - constants.MaxScheduleRevisions; extra > 0 {
		s.doc.Revisions = append([]models.ScheduleSnapshot(nil), s.doc.Revisions[extra:]...)
	}

	if err := s.write(); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *JSONStore) GetSchedule() (models.ScheduleSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.ScheduleSnapshot{}, err
	}
	n := len(s.doc.Revisions)
	if n == 0 {
		return models.ScheduleSnapshot{}, ErrNotFound
	}
	return cloneSnapshot(s.doc.Revisions[n-1]), nil
}

func (s *JSONStore) GetScheduleRevision(revision int) (models.ScheduleSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.ScheduleSnapshot{}, err
	}
	for _, snap := range s.doc.Revisions {
		if snap.Revision == revision {
			return cloneSnapshot(snap), nil
		}
	}
	return models.ScheduleSnapshot{}, fmt.Errorf("revision %d: %w", revision, ErrNotFound)
}

func (s *JSONStore) ListScheduleRevisions(limit int) ([]models.RevisionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}

	infos := make([]models.RevisionInfo, 0, len(s.doc.Revisions))
	for _, snap := range s.doc.Revisions {
		infos = append(infos, snap.Summarize())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Revision > infos[j].Revision })
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

func (s *JSONStore) ClearSchedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Revisions = nil
	return s.write()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func cloneSnapshot(snap models.ScheduleSnapshot) models.ScheduleSnapshot {
	snap.Schedule = snap.Schedule.Clone()
	return snap
}
