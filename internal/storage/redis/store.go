// Package redis stores settings and schedule revisions in a Redis server.
// Every key lives under a prefix so several planners can share one
// database.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/storage"
)

const (
	DefaultPrefix  = constants.AppName + ":"
	commandTimeout = 5 * time.Second
)

type Store struct {
	client *redis.Client
	prefix string
	owned  bool
}

// IsURL reports whether dsn points at a Redis server.
func IsURL(dsn string) bool {
	return strings.HasPrefix(dsn, "redis://") || strings.HasPrefix(dsn, "rediss://")
}

// NewFromURL connects to the server described by a redis:// URL.
func NewFromURL(rawURL string) (*Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	s := New(redis.NewClient(opts), DefaultPrefix)
	s.owned = true
	return s, nil
}

// New wraps an existing client. The caller keeps ownership of it.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(parts ...string) string {
	return s.prefix + strings.Join(parts, ":")
}

func (s *Store) settingsKey() string { return s.key("settings") }
func (s *Store) indexKey() string    { return s.key("revisions") }
func (s *Store) seqKey() string      { return s.key("revisions", "seq") }

func (s *Store) revisionKey(revision int) string {
	return s.key("revision", strconv.Itoa(revision))
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

func (s *Store) Init() error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	exists, err := s.client.Exists(ctx, s.settingsKey()).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		settings := models.Settings{}
		models.ApplyDefaultSettings(&settings)
		if err := s.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *Store) Load() error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	exists, err := s.client.Exists(ctx, s.settingsKey()).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return storage.ErrNotInitialized
	}
	return nil
}

func (s *Store) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	data, err := s.client.HGetAll(ctx, s.settingsKey()).Result()
	if err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	ctx, cancel := s.ctx()
	defer cancel()

	values := make(map[string]interface{})
	for k, v := range models.SettingsToMap(settings) {
		values[k] = v
	}
	return s.client.HSet(ctx, s.settingsKey(), values).Err()
}

func (s *Store) SaveSchedule(schedule models.WeekendSchedule) (int, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	next, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to determine next revision: %w", err)
	}

	snap := storage.NewSnapshot(int(next), schedule)
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to encode revision: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.revisionKey(snap.Revision), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(snap.Revision), Member: strconv.Itoa(snap.Revision)})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to save revision: %w", err)
	}

	if err := s.prune(ctx); err != nil {
		return 0, err
	}
	return snap.Revision, nil
}

// prune drops everything but the newest constants.MaxScheduleRevisions.
func (s *Store) prune(ctx context.Context) error {
	old, err := s.client.ZRange(ctx, s.indexKey(), 0, int64(-constants.MaxScheduleRevisions-1)).Result()
	if err != nil {
		return fmt.Errorf("failed to list old revisions: %w", err)
	}
	if len(old) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, member := range old {
		pipe.Del(ctx, s.key("revision", member))
		pipe.ZRem(ctx, s.indexKey(), member)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to prune revisions: %w", err)
	}
	return nil
}

func (s *Store) GetSchedule() (models.ScheduleSnapshot, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	newest, err := s.client.ZRevRange(ctx, s.indexKey(), 0, 0).Result()
	if err != nil {
		return models.ScheduleSnapshot{}, err
	}
	if len(newest) == 0 {
		return models.ScheduleSnapshot{}, storage.ErrNotFound
	}
	revision, err := strconv.Atoi(newest[0])
	if err != nil {
		return models.ScheduleSnapshot{}, fmt.Errorf("corrupt revision index entry %q", newest[0])
	}
	return s.get(ctx, revision)
}

func (s *Store) GetScheduleRevision(revision int) (models.ScheduleSnapshot, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.get(ctx, revision)
}

func (s *Store) get(ctx context.Context, revision int) (models.ScheduleSnapshot, error) {
	data, err := s.client.Get(ctx, s.revisionKey(revision)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.ScheduleSnapshot{}, fmt.Errorf("revision %d: %w", revision, storage.ErrNotFound)
		}
		return models.ScheduleSnapshot{}, err
	}
	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) (models.ScheduleSnapshot, error) {
	var snap models.ScheduleSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.ScheduleSnapshot{}, fmt.Errorf("failed to decode revision: %w", err)
	}
	if snap.Schedule == nil {
		snap.Schedule = models.WeekendSchedule{}
	}
	return snap, nil
}

func (s *Store) ListScheduleRevisions(limit int) ([]models.RevisionInfo, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	members, err := s.client.ZRevRange(ctx, s.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	infos := []models.RevisionInfo{}
	if len(members) == 0 {
		return infos, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = s.key("revision", m)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// pruned between the range and the read
			continue
		}
		snap, err := decodeSnapshot([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("revision %s: %w", members[i], err)
		}
		infos = append(infos, snap.Summarize())
	}
	return infos, nil
}

func (s *Store) ClearSchedule() error {
	ctx, cancel := s.ctx()
	defer cancel()

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return err
	}

	keys := []string{s.indexKey(), s.seqKey()}
	for _, m := range members {
		keys = append(keys, s.key("revision", m))
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) GetConfigPath() string {
	return "redis"
}
