package storage

import (
	"testing"

	"github.com/kunal-511/weekendly/internal/models"
)

func TestDaysRoundTrip(t *testing.T) {
	days := []models.Day{models.Friday, models.Saturday, models.Sunday}
	encoded := EncodeDays(days)
	if encoded != "friday,saturday,sunday" {
		t.Errorf("EncodeDays() = %q", encoded)
	}
	decoded, err := DecodeDays(encoded)
	if err != nil {
		t.Fatalf("DecodeDays failed: %v", err)
	}
	if len(decoded) != 3 || decoded[0] != models.Friday {
		t.Errorf("DecodeDays() = %v", decoded)
	}

	if got, err := DecodeDays(""); err != nil || len(got) != 0 {
		t.Errorf("DecodeDays(\"\") = %v, %v", got, err)
	}
	if _, err := DecodeDays("saturday,funday"); err == nil {
		t.Error("Expected error for unknown day")
	}
}

func TestPlacementCodec(t *testing.T) {
	if EncodePlacement(nil) != "" {
		t.Error("nil placement should encode to empty string")
	}
	p, err := DecodePlacement("")
	if err != nil || p != nil {
		t.Errorf("DecodePlacement(\"\") = %v, %v", p, err)
	}

	at := models.Placement{Day: models.Sunday, TimeSlot: models.Evening}
	p, err = DecodePlacement(EncodePlacement(&at))
	if err != nil {
		t.Fatalf("DecodePlacement failed: %v", err)
	}
	if *p != at {
		t.Errorf("got %v, want %v", *p, at)
	}
	if _, err := DecodePlacement("sunday/night"); err == nil {
		t.Error("Expected error for unknown slot")
	}
}

func TestRowsAndAssemble(t *testing.T) {
	at := models.Placement{Day: models.Saturday, TimeSlot: models.Afternoon}
	schedule := models.NewWeekendSchedule()
	day := schedule[models.Saturday]
	day.Afternoon = []models.ScheduledActivity{
		{Activity: models.Activity{ID: "1", Duration: 2}, ScheduledAt: &at},
		{Activity: models.Activity{ID: "2", Duration: 1}, Notes: "late lunch", ScheduledAt: &at},
	}
	schedule[models.Saturday] = day

	rows := Rows(schedule)
	if len(rows) != 2 || rows[1].Position != 1 || rows[1].Notes != "late lunch" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	rebuilt, err := Assemble(schedule.ActiveDays(), rows)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	got := rebuilt.Slot(models.Saturday, models.Afternoon)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("unexpected slot after assemble: %+v", got)
	}
	if !rebuilt.IsActive(models.Sunday) || rebuilt.IsActive(models.Friday) {
		t.Error("active days not preserved")
	}

	rows[0].Day = models.Monday
	if _, err := Assemble(schedule.ActiveDays(), rows); err == nil {
		t.Error("Expected error for a row on an inactive day")
	}
}

func TestActivityCodec(t *testing.T) {
	a := models.Activity{ID: "9", Title: "Board Games", Duration: 2, Mood: models.Mood{Energy: models.EnergyLow, Vibes: []models.Vibe{models.VibeIndoor}}}
	encoded, err := EncodeActivity(a)
	if err != nil {
		t.Fatalf("EncodeActivity failed: %v", err)
	}
	decoded, err := DecodeActivity(encoded)
	if err != nil {
		t.Fatalf("DecodeActivity failed: %v", err)
	}
	if decoded.ID != a.ID || decoded.Duration != 2 || !decoded.Mood.HasVibe(models.VibeIndoor) {
		t.Errorf("unexpected decoded activity: %+v", decoded)
	}
	if _, err := DecodeActivity("{not json"); err == nil {
		t.Error("Expected error for malformed activity")
	}
}

func TestNewSnapshot(t *testing.T) {
	schedule := models.NewWeekendSchedule()
	a := NewSnapshot(3, schedule)
	b := NewSnapshot(3, schedule)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.Revision != 3 || a.SavedAt == "" {
		t.Errorf("unexpected snapshot: %+v", a)
	}
}
