package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/models"
	"github.com/kunal-511/weekendly/internal/storage"
)

func (s *Store) SaveSchedule(schedule models.WeekendSchedule) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Serialize writers so two processes cannot claim the same revision
	if _, err := tx.Exec("LOCK TABLE schedule_revisions IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return 0, fmt.Errorf("failed to lock revisions: %w", err)
	}

	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(revision), 0) + 1 FROM schedule_revisions").Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to determine next revision: %w", err)
	}

	snap := storage.NewSnapshot(next, schedule)
	_, err = tx.Exec(
		"INSERT INTO schedule_revisions (revision, id, saved_at, active_days) VALUES ($1, $2, $3, $4)",
		snap.Revision, snap.ID, snap.SavedAt, storage.EncodeDays(snap.Schedule.ActiveDays()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save revision: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO scheduled_activities (revision, day, time_slot, position, activity_id, activity, notes, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, row := range storage.Rows(snap.Schedule) {
		activity, err := storage.EncodeActivity(row.Activity)
		if err != nil {
			return 0, err
		}
		var scheduledAt sql.NullString
		if row.ScheduledAt != nil {
			scheduledAt = sql.NullString{String: storage.EncodePlacement(row.ScheduledAt), Valid: true}
		}
		if _, err := stmt.Exec(snap.Revision, string(row.Day), string(row.TimeSlot), row.Position, row.Activity.ID, activity, row.Notes, scheduledAt); err != nil {
			return 0, fmt.Errorf("failed to save activity %s: %w", row.Activity.ID, err)
		}
	}

	// Deleting revisions cascades to their activities
	_, err = tx.Exec(`
		DELETE FROM schedule_revisions
		WHERE revision NOT IN (SELECT revision FROM schedule_revisions ORDER BY revision DESC LIMIT $1)`,
		constants.MaxScheduleRevisions)
	if err != nil {
		return 0, fmt.Errorf("failed to prune revisions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return snap.Revision, nil
}

func (s *Store) GetSchedule() (models.ScheduleSnapshot, error) {
	snap, err := s.loadSnapshot("SELECT revision, id, saved_at, active_days FROM schedule_revisions ORDER BY revision DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScheduleSnapshot{}, storage.ErrNotFound
	}
	return snap, err
}

func (s *Store) GetScheduleRevision(revision int) (models.ScheduleSnapshot, error) {
	snap, err := s.loadSnapshot("SELECT revision, id, saved_at, active_days FROM schedule_revisions WHERE revision = $1", revision)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScheduleSnapshot{}, fmt.Errorf("revision %d: %w", revision, storage.ErrNotFound)
	}
	return snap, err
}

func (s *Store) loadSnapshot(query string, args ...any) (models.ScheduleSnapshot, error) {
	var snap models.ScheduleSnapshot
	var savedAt time.Time
	var activeDays string
	if err := s.db.QueryRow(query, args...).Scan(&snap.Revision, &snap.ID, &savedAt, &activeDays); err != nil {
		return models.ScheduleSnapshot{}, err
	}
	snap.SavedAt = savedAt.UTC().Format(storage.TimestampFormat)

	days, err := storage.DecodeDays(activeDays)
	if err != nil {
		return models.ScheduleSnapshot{}, fmt.Errorf("revision %d: %w", snap.Revision, err)
	}

	rows, err := s.db.Query(`
		SELECT day, time_slot, position, activity, notes, scheduled_at
		FROM scheduled_activities
		WHERE revision = $1
		ORDER BY position`, snap.Revision)
	if err != nil {
		return models.ScheduleSnapshot{}, err
	}
	defer rows.Close()

	var activityRows []storage.ActivityRow
	for rows.Next() {
		var row storage.ActivityRow
		var day, slot, activity string
		var scheduledAt sql.NullString
		if err := rows.Scan(&day, &slot, &row.Position, &activity, &row.Notes, &scheduledAt); err != nil {
			return models.ScheduleSnapshot{}, err
		}
		row.Day = models.Day(day)
		row.TimeSlot = models.TimeSlot(slot)
		if row.Activity, err = storage.DecodeActivity(activity); err != nil {
			return models.ScheduleSnapshot{}, err
		}
		if row.ScheduledAt, err = storage.DecodePlacement(scheduledAt.String); err != nil {
			return models.ScheduleSnapshot{}, err
		}
		activityRows = append(activityRows, row)
	}
	if err := rows.Err(); err != nil {
		return models.ScheduleSnapshot{}, err
	}

	if snap.Schedule, err = storage.Assemble(days, activityRows); err != nil {
		return models.ScheduleSnapshot{}, fmt.Errorf("revision %d: %w", snap.Revision, err)
	}
	return snap, nil
}

func (s *Store) ListScheduleRevisions(limit int) ([]models.RevisionInfo, error) {
	query := `
		SELECT r.revision, r.id, r.saved_at, r.active_days, COUNT(a.activity_id)
		FROM schedule_revisions r
		LEFT JOIN scheduled_activities a ON a.revision = r.revision
		GROUP BY r.revision, r.id, r.saved_at, r.active_days
		ORDER BY r.revision DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	infos := []models.RevisionInfo{}
	for rows.Next() {
		var info models.RevisionInfo
		var savedAt time.Time
		var activeDays string
		if err := rows.Scan(&info.Revision, &info.ID, &savedAt, &activeDays, &info.ActivityCount); err != nil {
			return nil, err
		}
		info.SavedAt = savedAt.UTC().Format(storage.TimestampFormat)
		if info.ActiveDays, err = storage.DecodeDays(activeDays); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *Store) ClearSchedule() error {
	_, err := s.db.Exec("DELETE FROM schedule_revisions")
	return err
}
