// Package persist mirrors the planner's in-memory schedule to storage in
// the background. The in-memory schedule stays authoritative; the mirror
// only ever writes the most recent snapshot it was given.
package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/logger"
	"github.com/kunal-511/weekendly/internal/models"
)

var ErrClosed = errors.New("persistence mirror is closed")

// Saver is the storage side of the mirror.
type Saver interface {
	SaveSchedule(schedule models.WeekendSchedule) (int, error)
}

type Options struct {
	Debounce      time.Duration
	MaxRetries    int
	RetryInterval time.Duration
}

// DefaultOptions returns the settings used when the config leaves them out.
func DefaultOptions() Options {
	return Options{
		Debounce:      constants.DefaultPersistDebounce,
		MaxRetries:    constants.DefaultPersistMaxRetries,
		RetryInterval: constants.DefaultPersistRetryInterval,
	}
}

type flushRequest struct {
	ctx   context.Context
	reply chan error
}

// Mirror saves schedules handed to Notify once they have been quiet for
// the debounce window.
type Mirror struct {
	saver Saver
	opts  Options

	mu       sync.Mutex
	pending  models.WeekendSchedule
	dirty    bool
	lastErr  error
	revision int

	kick    chan struct{}
	flushes chan flushRequest
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewMirror starts the background saver.
func NewMirror(saver Saver, opts Options) *Mirror {
	if opts.Debounce <= 0 {
		opts.Debounce = constants.DefaultPersistDebounce
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = constants.DefaultPersistRetryInterval
	}

	m := &Mirror{
		saver:   saver,
		opts:    opts,
		kick:    make(chan struct{}, 1),
		flushes: make(chan flushRequest),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

// Notify records schedule as the next snapshot to save. It never blocks;
// a snapshot that has not been saved yet is replaced.
func (m *Mirror) Notify(schedule models.WeekendSchedule) {
	m.mu.Lock()
	m.pending = schedule
	m.dirty = true
	m.mu.Unlock()

	select {
	case m.kick <- struct{}{}:
	default:
	}
}

// Flush saves any pending snapshot now and waits for the result.
func (m *Mirror) Flush(ctx context.Context) error {
	req := flushRequest{ctx: ctx, reply: make(chan error, 1)}
	select {
	case m.flushes <- req:
	case <-m.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending work and stops the background saver.
func (m *Mirror) Close(ctx context.Context) error {
	err := m.Flush(ctx)
	if errors.Is(err, ErrClosed) {
		return nil
	}
	m.once.Do(func() { close(m.stop) })
	<-m.done
	return err
}

// Err returns the error of the last save attempt, nil once a later save
// succeeds.
func (m *Mirror) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Revision is the storage revision of the last successful save.
func (m *Mirror) Revision() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revision
}

// Pending reports whether a snapshot is waiting to be saved.
func (m *Mirror) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

func (m *Mirror) run() {
	defer close(m.done)

	timer := time.NewTimer(m.opts.Debounce)
	timer.Stop()
	var fire <-chan time.Time

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case <-m.kick:
			timer.Reset(m.opts.Debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := m.save(ctx); err != nil {
				logger.Error("Failed to persist schedule", "error", err)
			}

		case req := <-m.flushes:
			timer.Stop()
			fire = nil
			req.reply <- m.save(req.ctx)

		case <-m.stop:
			timer.Stop()
			return
		}
	}
}

func (m *Mirror) save(ctx context.Context) error {
	m.mu.Lock()
	if !m.dirty {
		err := m.lastErr
		m.mu.Unlock()
		return err
	}
	snapshot := m.pending
	m.dirty = false
	m.mu.Unlock()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.opts.RetryInterval
	b.MaxElapsedTime = 0

	var revision int
	attempt := 0
	op := func() error {
		attempt++
		rev, err := m.saver.SaveSchedule(snapshot)
		if err != nil {
			logger.Warn("Schedule save attempt failed", "attempt", attempt, "error", err)
			return err
		}
		revision = rev
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(m.opts.MaxRetries)), ctx))

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.lastErr = err
		// keep the failed snapshot unless a newer one arrived meanwhile
		if !m.dirty {
			m.pending = snapshot
			m.dirty = true
		}
		return err
	}

	m.lastErr = nil
	m.revision = revision
	logger.Debug("Schedule persisted", "revision", revision, "activities", snapshot.Count())
	return nil
}
