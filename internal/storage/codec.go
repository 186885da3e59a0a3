package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kunal-511/weekendly/internal/models"
)

// TimestampFormat is how revision save times are stored as text.
const TimestampFormat = time.RFC3339Nano

// ActivityRow is one scheduled activity flattened for row based backends.
type ActivityRow struct {
	Day         models.Day
	TimeSlot    models.TimeSlot
	Position    int
	Activity    models.Activity
	Notes       string
	ScheduledAt *models.Placement
}

// NewSnapshot stamps schedule with a fresh id and save time.
func NewSnapshot(revision int, schedule models.WeekendSchedule) models.ScheduleSnapshot {
	return models.ScheduleSnapshot{
		ID:       uuid.NewString(),
		Revision: revision,
		SavedAt:  time.Now().UTC().Format(TimestampFormat),
		Schedule: schedule.Clone(),
	}
}

// Rows flattens a schedule in day, slot and insertion order.
func Rows(schedule models.WeekendSchedule) []ActivityRow {
	var rows []ActivityRow
	for _, d := range schedule.ActiveDays() {
		for _, t := range models.AllTimeSlots {
			for i, item := range schedule.Slot(d, t) {
				rows = append(rows, ActivityRow{
					Day:         d,
					TimeSlot:    t,
					Position:    i,
					Activity:    item.Activity,
					Notes:       item.Notes,
					ScheduledAt: item.ScheduledAt,
				})
			}
		}
	}
	return rows
}

// Assemble rebuilds a schedule from its active days and rows. Rows must be
// ordered by position within each slot.
func Assemble(activeDays []models.Day, rows []ActivityRow) (models.WeekendSchedule, error) {
	schedule := models.WeekendSchedule{}
	for _, d := range activeDays {
		schedule[d] = models.DaySchedule{}.Clone()
	}

	for _, row := range rows {
		day, ok := schedule[row.Day]
		if !ok {
			return nil, fmt.Errorf("activity %s stored on inactive day %q", row.Activity.ID, row.Day)
		}
		if !row.TimeSlot.Valid() {
			return nil, fmt.Errorf("activity %s stored in unknown slot %q", row.Activity.ID, row.TimeSlot)
		}
		entry := models.ScheduledActivity{
			Activity:    row.Activity,
			Notes:       row.Notes,
			ScheduledAt: row.ScheduledAt,
		}
		day.SetSlot(row.TimeSlot, append(day.Slot(row.TimeSlot), entry))
		schedule[row.Day] = day
	}
	return schedule, nil
}

// EncodeDays renders active days as a comma separated list.
func EncodeDays(days []models.Day) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func DecodeDays(value string) ([]models.Day, error) {
	var days []models.Day
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := models.ParseDay(part)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

func EncodeActivity(a models.Activity) (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to encode activity %s: %w", a.ID, err)
	}
	return string(data), nil
}

func DecodeActivity(value string) (models.Activity, error) {
	var a models.Activity
	if err := json.Unmarshal([]byte(value), &a); err != nil {
		return models.Activity{}, fmt.Errorf("failed to decode activity: %w", err)
	}
	return a, nil
}

// EncodePlacement returns "" for nil.
func EncodePlacement(p *models.Placement) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func DecodePlacement(value string) (*models.Placement, error) {
	if value == "" {
		return nil, nil
	}
	p, err := models.ParsePlacement(value)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
