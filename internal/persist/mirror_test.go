package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kunal-511/weekendly/internal/models"
)

type fakeSaver struct {
	mu       sync.Mutex
	failures int
	calls    int
	saved    []models.WeekendSchedule
}

func (f *fakeSaver) SaveSchedule(schedule models.WeekendSchedule) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return 0, errors.New("database is locked")
	}
	f.saved = append(f.saved, schedule)
	return len(f.saved), nil
}

func (f *fakeSaver) snapshot() (int, []models.WeekendSchedule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, append([]models.WeekendSchedule(nil), f.saved...)
}

func testOptions() Options {
	return Options{Debounce: 20 * time.Millisecond, MaxRetries: 3, RetryInterval: time.Millisecond}
}

func withDays(days ...models.Day) models.WeekendSchedule {
	s := models.NewWeekendSchedule()
	for _, d := range days {
		s[d] = models.DaySchedule{}
	}
	return s
}

func TestFlushSavesOnlyLatestSnapshot(t *testing.T) {
	saver := &fakeSaver{}
	m := NewMirror(saver, Options{Debounce: time.Hour, MaxRetries: 1, RetryInterval: time.Millisecond})
	defer m.Close(context.Background())

	m.Notify(withDays())
	m.Notify(withDays(models.Friday))
	m.Notify(withDays(models.Friday, models.Monday))

	if !m.Pending() {
		t.Error("Expected pending snapshot before flush")
	}
	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	calls, saved := saver.snapshot()
	if calls != 1 || len(saved) != 1 {
		t.Fatalf("Expected exactly one save, got %d calls", calls)
	}
	if !saved[0].IsActive(models.Monday) {
		t.Error("Expected the latest snapshot to be saved")
	}
	if m.Pending() {
		t.Error("Expected nothing pending after flush")
	}
	if m.Revision() != 1 {
		t.Errorf("Expected revision 1, got %d", m.Revision())
	}
}

func TestDebounceSavesInBackground(t *testing.T) {
	saver := &fakeSaver{}
	m := NewMirror(saver, testOptions())
	defer m.Close(context.Background())

	m.Notify(withDays())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls, _ := saver.snapshot(); calls == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Expected debounced save to happen")
}

func TestFlushRetriesTransientFailures(t *testing.T) {
	saver := &fakeSaver{failures: 2}
	m := NewMirror(saver, testOptions())
	defer m.Close(context.Background())

	m.Notify(withDays())
	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("Expected retries to succeed, got %v", err)
	}
	if calls, _ := saver.snapshot(); calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
	if m.Err() != nil {
		t.Errorf("Expected no error after success, got %v", m.Err())
	}
}

func TestFailedSaveStaysPending(t *testing.T) {
	saver := &fakeSaver{failures: 10}
	m := NewMirror(saver, Options{Debounce: time.Hour, MaxRetries: 1, RetryInterval: time.Millisecond})
	defer m.Close(context.Background())

	m.Notify(withDays())
	if err := m.Flush(context.Background()); err == nil {
		t.Fatal("Expected flush to fail")
	}
	if m.Err() == nil || !m.Pending() {
		t.Fatal("Expected error to be recorded and snapshot kept")
	}

	saver.mu.Lock()
	saver.failures = 0
	saver.mu.Unlock()

	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("Expected retry on next flush to succeed, got %v", err)
	}
	if m.Err() != nil || m.Pending() {
		t.Error("Expected clean state after successful flush")
	}
}

func TestCloseFlushesAndStops(t *testing.T) {
	saver := &fakeSaver{}
	m := NewMirror(saver, Options{Debounce: time.Hour})

	m.Notify(withDays(models.Friday))
	if err := m.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if calls, _ := saver.snapshot(); calls != 1 {
		t.Errorf("Expected close to flush, got %d saves", calls)
	}

	if err := m.Flush(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed after close, got %v", err)
	}
	if err := m.Close(context.Background()); err != nil {
		t.Errorf("Second close should be a no-op, got %v", err)
	}

	done := make(chan struct{})
	go func() {
		m.Notify(withDays())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked after close")
	}
}
