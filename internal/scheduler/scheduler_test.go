package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/glebk/sati-bot/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var bangkok = time.FixedZone("ICT", 7*3600)

func TestNextRun(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 3, 10, 8, 0, 0, 0, bangkok),
			want: time.Date(2025, 3, 10, 21, 0, 0, 0, bangkok),
		},
		{
			name: "exactly at the time runs tomorrow",
			now:  time.Date(2025, 3, 10, 21, 0, 0, 0, bangkok),
			want: time.Date(2025, 3, 11, 21, 0, 0, 0, bangkok),
		},
		{
			name: "after the time",
			now:  time.Date(2025, 3, 10, 23, 59, 0, 0, bangkok),
			want: time.Date(2025, 3, 11, 21, 0, 0, 0, bangkok),
		},
		{
			name: "month rollover",
			now:  time.Date(2025, 2, 28, 22, 0, 0, 0, bangkok),
			want: time.Date(2025, 3, 1, 21, 0, 0, 0, bangkok),
		},
		{
			name: "now in another zone",
			now:  time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC), // 20:30 in Bangkok
			want: time.Date(2025, 3, 10, 21, 0, 0, 0, bangkok),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextRun(tc.now, 21, 0, bangkok)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

// manualClock hands out a timer channel per wait and records the durations.
type manualClock struct {
	now   time.Time
	waits chan time.Duration
	fire  chan time.Time
}

func newManualClock(now time.Time) *manualClock {
	return &manualClock{
		now:   now,
		waits: make(chan time.Duration, 8),
		fire:  make(chan time.Time),
	}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	c.waits <- d
	return c.fire
}

func TestDailyRunsJobAndStopsOnCancel(t *testing.T) {
	clock := newManualClock(time.Date(2025, 3, 10, 20, 0, 0, 0, bangkok))
	var runs atomic.Int32
	job := func(context.Context) error {
		runs.Add(1)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDaily(21, 0, bangkok, job, WithClock(clock.Now, clock.After))

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	assert.Equal(t, time.Hour, <-clock.waits)
	clock.fire <- clock.now
	<-clock.waits
	clock.fire <- clock.now
	<-clock.waits

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(2), runs.Load())
}

func TestDailyKeepsGoingAfterJobError(t *testing.T) {
	clock := newManualClock(time.Date(2025, 3, 10, 20, 0, 0, 0, bangkok))
	var runs atomic.Int32
	job := func(context.Context) error {
		runs.Add(1)
		return errors.New("telegram down")
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDaily(21, 0, bangkok, job, WithClock(clock.Now, clock.After))

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	<-clock.waits
	clock.fire <- clock.now
	<-clock.waits

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDailyStopsOnStorageLoss(t *testing.T) {
	clock := newManualClock(time.Date(2025, 3, 10, 20, 0, 0, 0, bangkok))
	job := func(context.Context) error {
		return fmt.Errorf("push: %w", domain.ErrStorageUnavailable)
	}

	d := NewDaily(21, 0, bangkok, job, WithClock(clock.Now, clock.After))

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	<-clock.waits
	clock.fire <- clock.now

	assert.ErrorIs(t, <-done, domain.ErrStorageUnavailable)
}
