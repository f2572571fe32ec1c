package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/domain"
	"github.com/glebk/sati-bot/internal/reflection"
)

// Reflector produces a reflection for a logged event. It never fails.
type Reflector interface {
	Generate(ctx context.Context, in reflection.Input) string
}

// JournalService handles business logic for events, meditation sessions,
// reflections and daily summary subscriptions.
type JournalService struct {
	events      domain.EventRepository
	meditations domain.MeditationRepository
	subscribers domain.SubscriberRepository
	reflections domain.ReflectionLog
	reflector   Reflector
	summary     *SummaryService
	loc         *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

// Deps groups the collaborators of a JournalService.
type Deps struct {
	Events      domain.EventRepository
	Meditations domain.MeditationRepository
	Subscribers domain.SubscriberRepository
	Reflections domain.ReflectionLog
	Reflector   Reflector
	Location    *time.Location
	Now         func() time.Time
	Logger      *zap.Logger
}

// NewJournalService creates a new JournalService
func NewJournalService(d Deps) *JournalService {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &JournalService{
		events:      d.Events,
		meditations: d.Meditations,
		subscribers: d.Subscribers,
		reflections: d.Reflections,
		reflector:   d.Reflector,
		summary:     NewSummaryService(d.Events, d.Meditations, loc),
		loc:         loc,
		now:         now,
		logger:      logger,
	}
}

// Now returns the current time in the journal's location, truncated to seconds.
func (s *JournalService) Now() time.Time {
	return s.now().In(s.loc).Truncate(time.Second)
}

// Location returns the zone used for dates and timestamps.
func (s *JournalService) Location() *time.Location {
	return s.loc
}

// LogEvent stamps and persists a completed event.
func (s *JournalService) LogEvent(e *domain.Event) error {
	e.Timestamp = s.Now()
	if err := s.events.Append(e); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	s.logger.Info("Event logged",
		zap.Int64("user_id", e.UserID),
		zap.Int64("chat_id", e.ChatID),
		zap.String("tag", e.Tag))
	return nil
}

// LastEvent returns the user's most recent event, or nil when there is none.
func (s *JournalService) LastEvent(userID int64) (domain.Row, error) {
	row, err := s.events.LastForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last event: %w", err)
	}
	return row, nil
}

// UndoLastEvent removes the user's most recent event and returns it, or nil
// when there is nothing to undo. Meditation sessions cannot be undone.
func (s *JournalService) UndoLastEvent(userID int64) (domain.Row, error) {
	row, err := s.events.DeleteLastForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to undo event: %w", err)
	}
	if row != nil {
		s.logger.Info("Event undone", zap.Int64("user_id", userID))
	}
	return row, nil
}

// LogMeditation stamps and persists a completed meditation session.
func (s *JournalService) LogMeditation(m *domain.Meditation) error {
	m.Timestamp = s.Now()
	if err := s.meditations.Append(m); err != nil {
		return fmt.Errorf("failed to save meditation: %w", err)
	}
	s.logger.Info("Meditation logged",
		zap.Int64("user_id", m.UserID),
		zap.Int("duration_min", m.DurationMin))
	return nil
}

// Reflect generates a reflection for the given input.
func (s *JournalService) Reflect(ctx context.Context, in reflection.Input) string {
	return s.reflector.Generate(ctx, in)
}

// SaveReflection appends text to the reflection log and returns its reference.
func (s *JournalService) SaveReflection(userID int64, text string) (string, error) {
	r := &domain.SavedReflection{
		UserID:    userID,
		Text:      text,
		CreatedAt: s.Now(),
	}
	if err := s.reflections.Append(r); err != nil {
		return "", fmt.Errorf("failed to save reflection: %w", err)
	}
	return r.Ref, nil
}

// Subscribe adds the chat to the daily summary list. It reports whether the
// chat was newly added.
func (s *JournalService) Subscribe(chatID int64) (bool, error) {
	added, err := s.subscribers.Add(chatID)
	if err != nil {
		return false, fmt.Errorf("failed to subscribe: %w", err)
	}
	return added, nil
}

// Unsubscribe removes the chat from the daily summary list. It reports
// whether the chat was subscribed.
func (s *JournalService) Unsubscribe(chatID int64) (bool, error) {
	removed, err := s.subscribers.Remove(chatID)
	if err != nil {
		return false, fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return removed, nil
}

// Subscribers lists the chats that receive the daily summary.
func (s *JournalService) Subscribers() ([]int64, error) {
	return s.subscribers.List()
}

// SummaryReport renders the event summary for the last days days, today included.
func (s *JournalService) SummaryReport(chatID int64, days int) (string, error) {
	end := s.Now()
	return s.RangeReport(chatID, end.AddDate(0, 0, -(days-1)), end)
}

// RangeReport renders the event summary for an explicit date range.
func (s *JournalService) RangeReport(chatID int64, start, end time.Time) (string, error) {
	report, err := s.summary.Summarize(chatID, start, end)
	if err != nil {
		return "", err
	}
	return RenderReport(report), nil
}

// MeditationTodayReport renders today's meditation summary.
func (s *JournalService) MeditationTodayReport(chatID int64) (string, error) {
	stats, err := s.summary.MeditationDay(chatID, s.Now())
	if err != nil {
		return "", err
	}
	return RenderMeditationDay(stats), nil
}

// EventsPath is the backing file of the event store.
func (s *JournalService) EventsPath() string {
	return s.events.Path()
}

// MeditationsPath is the backing file of the meditation store.
func (s *JournalService) MeditationsPath() string {
	return s.meditations.Path()
}

// ReflectionsPath is the backing file of the reflection log.
func (s *JournalService) ReflectionsPath() string {
	return s.reflections.Path()
}
