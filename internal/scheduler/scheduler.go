// Package scheduler fires a job once a day at a fixed wall-clock time.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/domain"
)

// Job is the work run at each tick.
type Job func(ctx context.Context) error

// NextRun returns the first hour:minute in loc that is strictly after now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	next := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(y, m, d+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Daily runs a Job every day at the same local time.
type Daily struct {
	hour   int
	minute int
	loc    *time.Location
	job    Job
	logger *zap.Logger
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time
}

// Option customises a Daily scheduler.
type Option func(*Daily)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Daily) { d.logger = logger }
}

// WithClock replaces the wall clock and the timer. Tests use it to fire ticks
// on demand.
func WithClock(now func() time.Time, after func(time.Duration) <-chan time.Time) Option {
	return func(d *Daily) {
		d.now = now
		d.after = after
	}
}

// NewDaily creates a scheduler that runs job at hour:minute in loc.
func NewDaily(hour, minute int, loc *time.Location, job Job, opts ...Option) *Daily {
	d := &Daily{
		hour:   hour,
		minute: minute,
		loc:    loc,
		job:    job,
		logger: zap.NewNop(),
		now:    time.Now,
		after:  time.After,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run blocks until ctx is done, running the job at every scheduled time.
// Job errors are logged; a storage-unavailable error stops the scheduler.
func (d *Daily) Run(ctx context.Context) error {
	for {
		next := NextRun(d.now(), d.hour, d.minute, d.loc)
		wait := next.Sub(d.now())
		d.logger.Info("Next daily run scheduled",
			zap.Time("at", next),
			zap.Duration("in", wait))

		select {
		case <-ctx.Done():
			return nil
		case <-d.after(wait):
		}

		if err := d.job(ctx); err != nil {
			if errors.Is(err, domain.ErrStorageUnavailable) {
				return err
			}
			d.logger.Error("Daily job failed", zap.Error(err))
		}
	}
}
