package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

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

	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(revision), 0) + 1 FROM schedule_revisions").Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to determine next revision: %w", err)
	}

	snap := storage.NewSnapshot(next, schedule)
	_, err = tx.Exec(
		"INSERT INTO schedule_revisions (revision, id, saved_at, active_days) VALUES (?, ?, ?, ?)",
		snap.Revision, snap.ID, snap.SavedAt, storage.EncodeDays(snap.Schedule.ActiveDays()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save revision: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO scheduled_activities (revision, day, time_slot, position, activity_id, activity, notes, scheduled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
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
		if _, err := stmt.Exec(snap.Revision, row.Day, row.TimeSlot, row.Position, row.Activity.ID, activity, row.Notes, scheduledAt); err != nil {
			return 0, fmt.Errorf("failed to save activity %s: %w", row.Activity.ID, err)
		}
	}

	// Keep only the newest revisions. Foreign keys are not enforced by
	// default, so activities are pruned explicitly.
	keep := `SELECT revision FROM schedule_revisions ORDER BY revision DESC LIMIT ?`
	if _, err := tx.Exec("DELETE FROM scheduled_activities WHERE revision NOT IN ("+keep+")", constants.MaxScheduleRevisions); err != nil {
		return 0, fmt.Errorf("failed to prune activities: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM schedule_revisions WHERE revision NOT IN ("+keep+")", constants.MaxScheduleRevisions); err != nil {
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
	snap, err := s.loadSnapshot("SELECT revision, id, saved_at, active_days FROM schedule_revisions WHERE revision = ?", revision)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScheduleSnapshot{}, fmt.Errorf("revision %d: %w", revision, storage.ErrNotFound)
	}
	return snap, err
}

func (s *Store) loadSnapshot(query string, args ...any) (models.ScheduleSnapshot, error) {
	var snap models.ScheduleSnapshot
	var activeDays string
	if err := s.db.QueryRow(query, args...).Scan(&snap.Revision, &snap.ID, &snap.SavedAt, &activeDays); err != nil {
		return models.ScheduleSnapshot{}, err
	}

	days, err := storage.DecodeDays(activeDays)
	if err != nil {
		return models.ScheduleSnapshot{}, fmt.Errorf("revision %d: %w", snap.Revision, err)
	}

	rows, err := s.db.Query(`
		SELECT day, time_slot, position, activity, notes, scheduled_at
		FROM scheduled_activities
		WHERE revision = ?
		ORDER BY position`, snap.Revision)
	if err != nil {
		return models.ScheduleSnapshot{}, err
	}
	defer rows.Close()

	var activityRows []storage.ActivityRow
	for rows.Next() {
		var row storage.ActivityRow
		var activity string
		var scheduledAt sql.NullString
		if err := rows.Scan(&row.Day, &row.TimeSlot, &row.Position, &activity, &row.Notes, &scheduledAt); err != nil {
			return models.ScheduleSnapshot{}, err
		}
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
		query += " LIMIT ?"
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
		var activeDays string
		if err := rows.Scan(&info.Revision, &info.ID, &info.SavedAt, &activeDays, &info.ActivityCount); err != nil {
			return nil, err
		}
		if info.ActiveDays, err = storage.DecodeDays(activeDays); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *Store) ClearSchedule() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM scheduled_activities"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM schedule_revisions"); err != nil {
		return err
	}
	return tx.Commit()
}
