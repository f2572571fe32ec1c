package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glebk/sati-bot/internal/domain"
	"github.com/glebk/sati-bot/internal/reflection"
	"github.com/glebk/sati-bot/internal/repository/filestore"
)

type stubReflector struct {
	inputs []reflection.Input
}

func (s *stubReflector) Generate(_ context.Context, in reflection.Input) string {
	s.inputs = append(s.inputs, in)
	return "teaching"
}

type fixture struct {
	svc       *JournalService
	dir       string
	reflector *stubReflector
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	opts := filestore.Options{HomeDir: t.TempDir(), TempDir: t.TempDir()}

	f := &fixture{
		dir:       dir,
		reflector: &stubReflector{},
		now:       time.Date(2025, 3, 10, 21, 0, 0, 500, bangkok),
	}
	f.svc = NewJournalService(Deps{
		Events:      filestore.NewEventRepository(filepath.Join(dir, "events.csv"), opts),
		Meditations: filestore.NewMeditationRepository(filepath.Join(dir, "meds.csv"), opts),
		Subscribers: filestore.NewSubscriberRepository(filepath.Join(dir, "subs.json"), nil),
		Reflections: filestore.NewReflectionLog(filepath.Join(dir, "reflections.txt")),
		Reflector:   f.reflector,
		Location:    bangkok,
		Now:         func() time.Time { return f.now },
	})
	return f
}

func sampleEvent(userID int64, desc string) *domain.Event {
	return &domain.Event{
		UserID:               userID,
		ChatID:               userID,
		Username:             "@u",
		Tag:                  "งาน",
		Description:          desc,
		DissatisfactionScore: 6,
		ReactionScore:        7,
	}
}

func TestLogEventStampsTimestamp(t *testing.T) {
	f := newFixture(t)

	e := sampleEvent(1, "late train")
	require.NoError(t, f.svc.LogEvent(e))
	assert.Equal(t, f.now.Truncate(time.Second), e.Timestamp)

	row, err := f.svc.LastEvent(1)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "2025-03-10T21:00:00+07:00", row.Get(domain.ColTimestamp))
	assert.Equal(t, "late train", row.Get(domain.ColEventDesc))
}

func TestUndoLastEvent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.LogEvent(sampleEvent(1, "first")))
	require.NoError(t, f.svc.LogEvent(sampleEvent(2, "other user")))
	require.NoError(t, f.svc.LogEvent(sampleEvent(1, "second")))

	row, err := f.svc.UndoLastEvent(1)
	require.NoError(t, err)
	assert.Equal(t, "second", row.Get(domain.ColEventDesc))

	last, err := f.svc.LastEvent(1)
	require.NoError(t, err)
	assert.Equal(t, "first", last.Get(domain.ColEventDesc))

	_, err = f.svc.UndoLastEvent(1)
	require.NoError(t, err)
	row, err = f.svc.UndoLastEvent(1)
	require.NoError(t, err)
	assert.Nil(t, row)
}

// Undo is defined for events only; a meditation is never removed by it.
func TestUndoLeavesMeditationsAlone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.LogMeditation(&domain.Meditation{UserID: 1, ChatID: 1, DurationMin: 10, Type: domain.MeditationGuided}))

	row, err := f.svc.UndoLastEvent(1)
	require.NoError(t, err)
	assert.Nil(t, row)

	report, err := f.svc.MeditationTodayReport(1)
	require.NoError(t, err)
	assert.Contains(t, report, "จำนวนครั้ง: 1")
}

func TestSaveReflection(t *testing.T) {
	f := newFixture(t)

	ref, err := f.svc.SaveReflection(7, "breathe")
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	data, err := os.ReadFile(f.svc.ReflectionsPath())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10T21:00:00+07:00 | user:7 | ref:"+ref+"\nbreathe\n---\n", string(data))
}

func TestReflectDelegates(t *testing.T) {
	f := newFixture(t)
	in := reflection.Input{Event: "e", DissScore: 3}

	assert.Equal(t, "teaching", f.svc.Reflect(context.Background(), in))
	assert.Equal(t, []reflection.Input{in}, f.reflector.inputs)
}

func TestSubscriptions(t *testing.T) {
	f := newFixture(t)

	added, err := f.svc.Subscribe(5)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = f.svc.Subscribe(5)
	require.NoError(t, err)
	assert.False(t, added)

	subs, err := f.svc.Subscribers()
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, subs)

	removed, err := f.svc.Unsubscribe(5)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.svc.Unsubscribe(5)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSummaryReportWindows(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.LogEvent(sampleEvent(1, "today")))

	today, err := f.svc.SummaryReport(1, 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(today, "📋 <b>สรุปเหตุการณ์</b> (2025-03-10)\n"))

	weekly, err := f.svc.SummaryReport(1, 7)
	require.NoError(t, err)
	assert.Contains(t, weekly, "(2025-03-04 - 2025-03-10)")

	monthly, err := f.svc.SummaryReport(1, 30)
	require.NoError(t, err)
	assert.Contains(t, monthly, "(2025-02-09 - 2025-03-10)")
}
